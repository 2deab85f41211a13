package agiprotocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"
)

// deadlineConn is implemented by connections that support I/O deadlines.
type deadlineConn interface {
	SetDeadline(t time.Time) error
}

// Channel sends command lines and reads their response lines over one
// connection.
//
// The protocol is half-duplex: Send writes one command and waits for its
// response before it returns. Concurrent calls to Send are serialized.
type Channel struct {
	mu  sync.Mutex
	rw  io.ReadWriter
	cfg Config

	// buf holds response bytes received but not yet parsed.
	buf []byte
	n   int
}

// NewChannel creates a command channel on rw. Zero fields of cfg take their
// defaults.
func NewChannel(rw io.ReadWriter, cfg Config) *Channel {
	cfg = cfg.withDefaults()
	return &Channel{
		rw:  rw,
		cfg: cfg,
		buf: make([]byte, cfg.MaxResponseLength),
	}
}

// Send writes a complete command line, which must end with the line
// terminator, and returns the parsed response.
//
// A write or read that fails because the peer went away returns an error
// matching ErrConnectionClosed; other transport failures return a
// *ConnectionError. After any error the outcome of the command is unknown.
func (c *Channel) Send(line string) (Result, error) {
	if !strings.HasSuffix(line, "\n") {
		return Result{}, newInvalidArgumentError(line, "command line must end with a line terminator")
	}
	if i := strings.IndexByte(line, LineTerminator); i != len(line)-1 {
		return Result{}, newInvalidArgumentError(line, "command line contains more than one line")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.cfg.Logger
	log.Debug("agi send", "line", line[:len(line)-1])

	if c.cfg.CommandTimeout > 0 {
		if dc, ok := c.rw.(deadlineConn); ok {
			switch err := dc.SetDeadline(time.Now().Add(c.cfg.CommandTimeout)); {
			case err == nil:
				defer dc.SetDeadline(time.Time{})
			case !errors.Is(err, os.ErrNoDeadline):
				return Result{}, NewConnectionError("failed to set deadline", err)
			}
		}
	}

	if _, err := io.WriteString(c.rw, line); err != nil {
		return Result{}, c.ioError("write failed", err)
	}

	var (
		res Result
		err error
	)
	if c.cfg.SingleReadResponses {
		res, err = c.readOnce()
	} else {
		res, err = c.readLine()
	}
	if err != nil {
		log.Debug("agi response failed", "error", err)
		return Result{}, err
	}
	log.Debug("agi response", "code", res.Code, "data", res.Data)
	return res, nil
}

// readLine reads until a full response line is buffered and parses it.
// Bytes after the line stay buffered for the next command.
func (c *Channel) readLine() (Result, error) {
	for {
		if i := bytes.IndexByte(c.buf[:c.n], LineTerminator); i >= 0 {
			res, _, err := ParseResponseLine(c.buf[:i+1])
			c.consume(i + 1)
			return res, err
		}
		if c.n == len(c.buf) {
			c.n = 0
			return Result{}, fmt.Errorf("response line exceeds %d bytes: %w", len(c.buf), ErrBufferOverflow)
		}

		n, err := c.rw.Read(c.buf[c.n:])
		c.n += n
		if err != nil {
			if n > 0 && bytes.IndexByte(c.buf[:c.n], LineTerminator) >= 0 {
				continue
			}
			return Result{}, c.ioError("read failed", err)
		}
		if n == 0 {
			return Result{}, NewConnectionError("remote side closed", ErrConnectionClosed)
		}
	}
}

// readOnce parses whatever one read returns. A response split across reads
// fails to parse.
func (c *Channel) readOnce() (Result, error) {
	c.n = 0
	n, err := c.rw.Read(c.buf)
	if n == 0 {
		if err == nil {
			err = ErrConnectionClosed
		}
		return Result{}, c.ioError("read failed", err)
	}
	res, _, perr := ParseResponseLine(c.buf[:n])
	return res, perr
}

func (c *Channel) consume(k int) {
	copy(c.buf, c.buf[k:c.n])
	c.n -= k
}

// ioError classifies a transport error as closure, timeout or other failure.
func (c *Channel) ioError(op string, err error) error {
	var ne net.Error
	switch {
	case isClosedError(err):
		return NewConnectionError("remote side closed", errors.Join(ErrConnectionClosed, err))
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("no response after %s: %w", c.cfg.CommandTimeout, ErrTimeout)
	default:
		return NewConnectionError(op, err)
	}
}

func isClosedError(err error) bool {
	return errors.Is(err, ErrConnectionClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
