// Package agitest provides a scripted AGI call-control peer for tests.
//
// A Peer plays the server side of one AGI session: it sends a header block,
// then answers every command line it receives with the next scripted
// response.
package agitest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eapache/queue"
)

// DefaultResponse answers commands when no scripted response is queued.
const DefaultResponse = "200 result=0\n"

// HeaderBlock returns a header block for name/value pairs, such as
// HeaderBlock("request", "test.agi", "arg_1", "x"). Names get the agi_
// prefix and the block ends with the empty line.
func HeaderBlock(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "agi_%s: %s\n", pairs[i], pairs[i+1])
	}
	b.WriteByte('\n')
	return b.String()
}

// Peer is a fake call-control server for one session at a time.
type Peer struct {
	// Block is written as soon as a session starts. Leave it empty to send
	// nothing, for example to test header timeouts.
	Block string

	mu         sync.Mutex
	responses  *queue.Queue
	commands   []string
	fragment   int
	closeAfter int
}

// NewPeer creates a peer that sends block as its header block.
func NewPeer(block string) *Peer {
	return &Peer{Block: block, responses: queue.New()}
}

// Respond queues response lines. A missing line terminator is added.
func (p *Peer) Respond(lines ...string) *Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, line := range lines {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		p.responses.Add(line)
	}
	return p
}

// Fragment makes the peer write the header block and every response in
// chunks of n bytes, each in its own write.
func (p *Peer) Fragment(n int) *Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fragment = n
	return p
}

// CloseAfter makes the peer close the connection when it receives
// command n+1 instead of answering it. Zero closes before the first
// command is answered.
func (p *Peer) CloseAfter(n int) *Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeAfter = n + 1
	return p
}

// Commands returns the command lines received so far, without terminators.
func (p *Peer) Commands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.commands...)
}

// Pending returns the number of queued responses not yet sent.
func (p *Peer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.responses.Length()
}

// Serve runs one session on conn and closes it when the session ends. It
// returns nil when the other side closes the connection.
func (p *Peer) Serve(conn net.Conn) error {
	defer conn.Close()

	if err := p.write(conn, p.Block); err != nil {
		return err
	}

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}

		response, ok := p.next(strings.TrimSuffix(line, "\n"))
		if !ok {
			return nil
		}
		if err := p.write(conn, response); err != nil {
			return err
		}
	}
}

// next records a command and returns the response to send, or false if the
// peer should hang up.
func (p *Peer) next(command string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, command)
	if p.closeAfter > 0 && len(p.commands) >= p.closeAfter {
		return "", false
	}
	if p.responses.Length() == 0 {
		return DefaultResponse, true
	}
	return p.responses.Remove().(string), true
}

func (p *Peer) write(conn net.Conn, s string) error {
	p.mu.Lock()
	size := p.fragment
	p.mu.Unlock()

	if size <= 0 || size >= len(s) {
		if s == "" {
			return nil
		}
		_, err := io.WriteString(conn, s)
		return err
	}
	for len(s) > 0 {
		n := min(size, len(s))
		if _, err := io.WriteString(conn, s[:n]); err != nil {
			return err
		}
		s = s[n:]
		// Keep TCP from coalescing the chunks.
		time.Sleep(time.Millisecond)
	}
	return nil
}

// Pipe starts a session on an in-memory connection and returns the client
// end. The session is stopped when the test ends.
func (p *Peer) Pipe(t testing.TB) net.Conn {
	t.Helper()
	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Serve(server); err != nil {
			t.Logf("agitest: peer: %v", err)
		}
	}()
	t.Cleanup(func() {
		client.Close()
		<-done
	})
	return client
}

// Listen serves sessions on a loopback TCP listener and returns its
// address. Each accepted connection runs one session with the same script.
func (p *Peer) Listen(t testing.TB) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("agitest: listen: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := p.Serve(conn); err != nil {
					t.Logf("agitest: peer: %v", err)
				}
			}()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		wg.Wait()
	})
	return ln.Addr().String()
}

// Dial connects to a FastAGI server at addr and runs one session, the way
// the call-control server hands a call to a FastAGI service.
func (p *Peer) Dial(ctx context.Context, network, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	return p.Serve(conn)
}
