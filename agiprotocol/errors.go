package agiprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the AGI protocol.
var (
	// ErrConnectionClosed indicates the peer ended the stream.
	ErrConnectionClosed = errors.New("connection closed by peer")

	// ErrTimeout indicates no header data arrived within the bounded wait.
	ErrTimeout = errors.New("timed out waiting for data")

	// ErrBufferOverflow indicates a header block or response line exceeded
	// the available capacity before its terminator was seen.
	ErrBufferOverflow = errors.New("buffer capacity exhausted before terminator")

	// ErrCommandTooLong indicates a formatted command exceeds MaxCommandLength.
	ErrCommandTooLong = errors.New("command too long")

	// ErrCommandFailed indicates a command returned the failure code -1.
	ErrCommandFailed = errors.New("command failed")
)

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindMalformedLine indicates a header line that violates the header grammar.
	ErrKindMalformedLine ParseErrorKind = iota
	// ErrKindMalformedResponse indicates a response line that violates the response grammar.
	ErrKindMalformedResponse
	// ErrKindInvalidArgumentIndex indicates an arg_N header outside 1..127
	// or with a malformed digit pattern.
	ErrKindInvalidArgumentIndex
	// ErrKindInvalidCommand indicates an unknown command word.
	ErrKindInvalidCommand
	// ErrKindInvalidArgument indicates a command argument that cannot be sent.
	ErrKindInvalidArgument
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
)

// String returns the kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case ErrKindMalformedLine:
		return "malformed line"
	case ErrKindMalformedResponse:
		return "malformed response"
	case ErrKindInvalidArgumentIndex:
		return "invalid argument index"
	case ErrKindInvalidCommand:
		return "invalid command"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindMissingArgument:
		return "missing argument"
	default:
		return "parse error"
	}
}

// ParseError represents an error that occurred while parsing protocol text.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The text that caused the error
	Offset  int    // Byte offset of the failure within the scanned buffer, -1 if unknown
	Message string // Additional context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindMalformedLine:
		return fmt.Sprintf("malformed header line %q at offset %d", e.Value, e.Offset)
	case ErrKindMalformedResponse:
		return fmt.Sprintf("malformed response %q", e.Value)
	case ErrKindInvalidArgumentIndex:
		return fmt.Sprintf("invalid argument index '%s'", e.Value)
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidArgument:
		return fmt.Sprintf("invalid argument %q: %s", e.Value, e.Message)
	case ErrKindMissingArgument:
		return e.Message
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

// IsParseError reports whether err is a *ParseError of the given kind.
func IsParseError(err error, kind ParseErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

func newMalformedLineError(line []byte, offset int) error {
	return &ParseError{Kind: ErrKindMalformedLine, Value: string(line), Offset: offset}
}

func newMalformedResponseError(line []byte, offset int) error {
	return &ParseError{Kind: ErrKindMalformedResponse, Value: string(line), Offset: offset}
}

func newInvalidArgumentIndexError(name string) error {
	return &ParseError{Kind: ErrKindInvalidArgumentIndex, Value: name, Offset: -1}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd, Offset: -1}
}

func newInvalidArgumentError(arg, msg string) error {
	return &ParseError{Kind: ErrKindInvalidArgument, Value: arg, Offset: -1, Message: msg}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Offset: -1, Message: msg}
}

// ConnectionError represents a transport failure while talking to the peer.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

// IsClosed reports whether err means the peer closed the connection.
func IsClosed(err error) bool {
	return errors.Is(err, ErrConnectionClosed)
}
