package agiprotocol

import (
	"context"
	"log/slog"
	"time"
)

// LevelTrace is below slog.LevelDebug and logs raw protocol blocks.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Config controls how a session reads the header block and exchanges commands.
type Config struct {
	// HeaderTimeout bounds each wait for header data. The wait restarts
	// after every successful read.
	HeaderTimeout time.Duration

	// HeaderBufferSize is the capacity of the header block buffer.
	HeaderBufferSize int

	// MaxResponseLength bounds a single response line.
	MaxResponseLength int

	// CommandTimeout, when positive, sets a read and write deadline for each
	// command exchange on connections that support deadlines. Zero keeps the
	// command read fully blocking.
	CommandTimeout time.Duration

	// SingleReadResponses parses whatever a single read returns as the
	// response line instead of reading until the line terminator.
	SingleReadResponses bool

	// IgnoreInvalidArguments drops arg_N headers with an invalid index
	// instead of failing the header block.
	IgnoreInvalidArguments bool

	// Logger receives debug records for the protocol exchange. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		HeaderTimeout:     HeaderTimeout,
		HeaderBufferSize:  DefaultHeaderBufferSize,
		MaxResponseLength: MaxResponseLength,
	}
}

// withDefaults fills zero values with their defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HeaderTimeout <= 0 {
		c.HeaderTimeout = d.HeaderTimeout
	}
	if c.HeaderBufferSize <= 0 {
		c.HeaderBufferSize = d.HeaderBufferSize
	}
	if c.MaxResponseLength <= 0 {
		c.MaxResponseLength = d.MaxResponseLength
	}
	if c.Logger == nil {
		c.Logger = nopLogger
	}
	return c
}

// nopHandler is a slog.Handler that discards all output.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var nopLogger = slog.New(nopHandler{})
