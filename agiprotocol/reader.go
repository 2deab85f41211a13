package agiprotocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"
)

// deadlineReader is implemented by connections that support read deadlines
// (net.Conn, pollable *os.File).
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// headerWaiter bounds each wait for header data.
//
// Connections with read deadlines get a fresh deadline before every read.
// Descriptors without deadline support (a tty or a regular file on stdin)
// are polled for readability. Anything else is read without a bound.
type headerWaiter struct {
	timeout time.Duration
	dl      deadlineReader
	rc      syscall.RawConn
}

func newHeaderWaiter(r io.Reader, timeout time.Duration) *headerWaiter {
	w := &headerWaiter{timeout: timeout}
	if dl, ok := r.(deadlineReader); ok && dl.SetReadDeadline(time.Time{}) == nil {
		w.dl = dl
		return w
	}
	if sc, ok := r.(syscall.Conn); ok && pollSupported {
		if rc, err := sc.SyscallConn(); err == nil {
			w.rc = rc
		}
	}
	return w
}

// wait blocks until the next read can make progress or the timeout expires.
func (w *headerWaiter) wait() error {
	switch {
	case w.dl != nil:
		if err := w.dl.SetReadDeadline(time.Now().Add(w.timeout)); err != nil {
			return NewConnectionError("failed to set read deadline", err)
		}
	case w.rc != nil:
		return pollReadable(w.rc, w.timeout)
	}
	return nil
}

// done clears the read deadline so command reads stay blocking.
func (w *headerWaiter) done() {
	if w.dl != nil {
		_ = w.dl.SetReadDeadline(time.Time{})
	}
}

// ReadHeaderBlock reads from r into buf until buf holds a complete header
// block: every header line up to and including the terminating empty line.
//
// Each wait for data is bounded by timeout (HeaderTimeout if not positive).
// It fails with ErrTimeout when no data arrives in time, ErrConnectionClosed
// when the peer closes the stream, ErrBufferOverflow when buf fills up before
// the terminator, or a *ConnectionError for other transport failures.
func ReadHeaderBlock(r io.Reader, buf *HeaderBuffer, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = HeaderTimeout
	}
	w := newHeaderWaiter(r, timeout)
	defer w.done()

	for !buf.Complete() {
		free := buf.free()
		if len(free) == 0 {
			return fmt.Errorf("header block exceeds %d bytes: %w", buf.Cap(), ErrBufferOverflow)
		}
		if err := w.wait(); err != nil {
			return err
		}

		n, err := r.Read(free)
		buf.advance(n)
		if n > 0 && buf.Complete() {
			return nil
		}
		if err != nil {
			return headerReadError(err, timeout)
		}
		if n == 0 {
			return NewConnectionError("remote side closed while sending headers", ErrConnectionClosed)
		}
	}
	return nil
}

func headerReadError(err error, timeout time.Duration) error {
	var ne net.Error
	switch {
	case errors.Is(err, io.EOF):
		return NewConnectionError("remote side closed while sending headers", ErrConnectionClosed)
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("no header data after %s: %w", timeout, ErrTimeout)
	case errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return NewConnectionError("header read failed", errors.Join(ErrConnectionClosed, err))
	default:
		return NewConnectionError("header read failed", err)
	}
}

// ParseEnvironment parses a complete header block into an Environment.
//
// Parsing stops at the first empty line. A malformed line fails the whole
// block; there is no resynchronization on the next line. Unknown header
// names are ignored.
func ParseEnvironment(block []byte, cfg Config) (*Environment, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger

	raw := string(block)
	env := &Environment{raw: raw}

	for pos := 0; ; {
		line, next, err := ParseHeaderLine(block, pos)
		if err != nil {
			return nil, err
		}
		if line.End {
			if next < len(block) {
				log.Debug("ignoring data after header block", "bytes", len(block)-next)
			}
			return env, nil
		}

		name, value := line.Name.Text(raw), line.Value.Text(raw)
		known, err := env.set(name, value)
		switch {
		case err != nil && cfg.IgnoreInvalidArguments:
			log.Warn("dropping header with invalid argument index", "name", name, "value", value)
		case err != nil:
			return nil, err
		case !known:
			log.Debug("ignoring unknown header", "name", name, "value", value)
		default:
			log.Debug("agi env line", "name", name, "value", value)
		}
		pos = next
	}
}

// AcquireEnvironment reads the header block from r into buf and parses it.
//
// Any error means there is no valid session and call handling must not
// proceed.
func AcquireEnvironment(r io.Reader, buf *HeaderBuffer, cfg Config) (*Environment, error) {
	cfg = cfg.withDefaults()
	if buf == nil {
		buf = NewHeaderBuffer(cfg.HeaderBufferSize)
	}
	buf.Reset()
	if err := ReadHeaderBlock(r, buf, cfg.HeaderTimeout); err != nil {
		return nil, err
	}
	if ctx := context.Background(); cfg.Logger.Enabled(ctx, LevelTrace) {
		cfg.Logger.Log(ctx, LevelTrace, "agi header block", "raw", string(buf.Bytes()))
	}
	return ParseEnvironment(buf.Bytes(), cfg)
}
