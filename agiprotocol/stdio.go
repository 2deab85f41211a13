package agiprotocol

import (
	"os"
	"syscall"
	"time"
)

// Stdio is the connection of a classic AGI script: the server writes to the
// script's standard input and reads its standard output.
type Stdio struct {
	In  *os.File
	Out *os.File
}

// NewStdio returns the connection formed by in and out.
func NewStdio(in, out *os.File) *Stdio {
	return &Stdio{In: in, Out: out}
}

// OpenStdio opens a classic AGI session on standard input and output.
func OpenStdio(cfg Config) (*Session, error) {
	return Open(NewStdio(os.Stdin, os.Stdout), cfg)
}

func (s *Stdio) Read(p []byte) (int, error)  { return s.In.Read(p) }
func (s *Stdio) Write(p []byte) (int, error) { return s.Out.Write(p) }

// SetReadDeadline sets the read deadline of the input. It fails for inputs
// that cannot be polled by the runtime, such as a terminal on some systems
// or a regular file.
func (s *Stdio) SetReadDeadline(t time.Time) error {
	return s.In.SetReadDeadline(t)
}

// SetDeadline sets the read deadline of the input and the write deadline of
// the output.
func (s *Stdio) SetDeadline(t time.Time) error {
	if err := s.In.SetReadDeadline(t); err != nil {
		return err
	}
	return s.Out.SetWriteDeadline(t)
}

// SyscallConn returns the raw input descriptor for readiness polling.
func (s *Stdio) SyscallConn() (syscall.RawConn, error) {
	return s.In.SyscallConn()
}

// Close closes both ends.
func (s *Stdio) Close() error {
	errIn := s.In.Close()
	if err := s.Out.Close(); err != nil {
		return err
	}
	return errIn
}
