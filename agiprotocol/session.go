package agiprotocol

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Session is one AGI session: the environment received in the header block
// and the command channel on the same connection.
//
// A Session is owned by one goroutine for its lifetime. Closing the
// underlying connection is the only way to cancel a blocked call.
type Session struct {
	env *Environment
	ch  *Channel
	log *slog.Logger
}

// Open reads the header block from conn and returns a session ready to send
// commands. Any error means there is no valid session.
func Open(conn io.ReadWriter, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	env, err := AcquireEnvironment(conn, NewHeaderBuffer(cfg.HeaderBufferSize), cfg)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger.With("channel", env.Channel, "uniqueid", env.UniqueID)
	cfg.Logger = log
	return &Session{env: env, ch: NewChannel(conn, cfg), log: log}, nil
}

// Env returns the session environment.
func (s *Session) Env() *Environment { return s.env }

// Logger returns the session logger, annotated with the channel name and
// unique ID.
func (s *Session) Logger() *slog.Logger { return s.log }

// Send validates and sends cmd and returns its result.
func (s *Session) Send(cmd Command) (Result, error) {
	line, err := cmd.FormatLine()
	if err != nil {
		return Result{}, err
	}
	return s.ch.Send(line)
}

// SendRaw sends a command line as is. The line terminator is appended if
// missing.
func (s *Session) SendRaw(line string) (Result, error) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if len(line) > MaxCommandLength {
		return Result{}, fmt.Errorf("%d bytes: %w", len(line), ErrCommandTooLong)
	}
	return s.ch.Send(line)
}

// sendValue sends cmd and returns the parenthesized value of a result 1.
// Result 0 means the value does not exist.
func (s *Session) sendValue(cmd Command) (string, bool, error) {
	res, err := s.Send(cmd)
	if err != nil {
		return "", false, err
	}
	switch res.Code {
	case 1:
		v, _ := res.Value()
		return v, true, nil
	case ResultFailure:
		return "", false, fmt.Errorf("%s: %w", cmd.Type, ErrCommandFailed)
	default:
		return "", false, nil
	}
}

// Answer answers the channel.
func (s *Session) Answer() (Result, error) {
	return s.Send(NewAnswerCommand())
}

// Noop does nothing. It is useful to check that the session is alive.
func (s *Session) Noop() (Result, error) {
	return s.Send(NewNoopCommand())
}

// Hangup hangs up channel, or the current channel if channel is empty.
func (s *Session) Hangup(channel string) (Result, error) {
	return s.Send(NewHangupCommand(channel))
}

// AsyncAGIBreak ends an Async AGI session.
func (s *Session) AsyncAGIBreak() (Result, error) {
	return s.Send(NewAsyncAGIBreakCommand())
}

// ChannelStatus returns the status code of channel, or of the current
// channel if channel is empty.
func (s *Session) ChannelStatus(channel string) (int, error) {
	res, err := s.Send(NewChannelStatusCommand(channel))
	if err != nil {
		return 0, err
	}
	if res.Failed() {
		return 0, fmt.Errorf("channel status %q: %w", channel, ErrCommandFailed)
	}
	return res.Code, nil
}

// Exec runs a dialplan application.
func (s *Session) Exec(application, options string) (Result, error) {
	return s.Send(NewExecCommand(application, options))
}

// GetData plays prompt and collects up to maxDigits DTMF digits.
func (s *Session) GetData(prompt string, timeout, maxDigits int) (string, error) {
	res, err := s.Send(NewGetDataCommand(prompt, timeout, maxDigits))
	if err != nil {
		return "", err
	}
	if res.Failed() {
		return "", fmt.Errorf("get data %q: %w", prompt, ErrCommandFailed)
	}
	return res.CodeText, nil
}

// GetVariable returns the value of a channel variable. The second result is
// false if the variable is not set.
func (s *Session) GetVariable(name string) (string, bool, error) {
	return s.sendValue(NewGetVariableCommand(name))
}

// GetFullVariable evaluates an expression with variables and functions on
// channel, or on the current channel if channel is empty.
func (s *Session) GetFullVariable(expression, channel string) (string, bool, error) {
	return s.sendValue(NewGetFullVariableCommand(expression, channel))
}

// SetVariable sets a channel variable.
func (s *Session) SetVariable(name, value string) (Result, error) {
	return s.Send(NewSetVariableCommand(name, value))
}

// StreamFile plays filename. The result code is the escape digit pressed,
// 0 if none; the endpos attribute holds the sample offset reached.
func (s *Session) StreamFile(filename, escapeDigits string, offset int64) (Result, error) {
	return s.Send(NewStreamFileCommand(filename, escapeDigits, offset))
}

// SayDigits says a digit string.
func (s *Session) SayDigits(digits, escapeDigits string) (Result, error) {
	return s.Send(NewSayDigitsCommand(digits, escapeDigits))
}

// SayNumber says a number.
func (s *Session) SayNumber(number int, escapeDigits string) (Result, error) {
	return s.Send(NewSayNumberCommand(number, escapeDigits, ""))
}

// SayTime says the time of a Unix time.
func (s *Session) SayTime(t int64, escapeDigits string) (Result, error) {
	return s.Send(NewSayTimeCommand(t, escapeDigits))
}

// SayDate says the date of a Unix time.
func (s *Session) SayDate(date int64, escapeDigits string) (Result, error) {
	return s.Send(NewSayDateCommand(date, escapeDigits))
}

// ReceiveChar waits up to timeout milliseconds for one character of text.
func (s *Session) ReceiveChar(timeout int) (Result, error) {
	return s.Send(NewReceiveCharCommand(timeout))
}

// SetAutoHangup hangs up the channel after seconds.
func (s *Session) SetAutoHangup(seconds int) (Result, error) {
	return s.Send(NewSetAutoHangupCommand(seconds))
}

// SetCallerID sets the caller ID of the channel.
func (s *Session) SetCallerID(number string) (Result, error) {
	return s.Send(NewSetCallerIDCommand(number))
}

// SetContext sets the context to continue in when the session ends.
func (s *Session) SetContext(context string) (Result, error) {
	return s.Send(NewSetContextCommand(context))
}

// SetExtension sets the extension to continue at when the session ends.
func (s *Session) SetExtension(extension string) (Result, error) {
	return s.Send(NewSetExtensionCommand(extension))
}

// SetPriority sets the priority to continue at when the session ends.
func (s *Session) SetPriority(priority string) (Result, error) {
	return s.Send(NewSetPriorityCommand(priority))
}

// TDDMode turns TDD mode on or off.
func (s *Session) TDDMode(on bool) (Result, error) {
	return s.Send(NewTDDModeCommand(on))
}

// Verbose logs message on the server console at level.
func (s *Session) Verbose(message string, level int) (Result, error) {
	return s.Send(NewVerboseCommand(message, level))
}

// WaitForDigit waits up to timeout milliseconds for a DTMF digit and
// returns it, or 0 if none was pressed.
func (s *Session) WaitForDigit(timeout int) (rune, error) {
	res, err := s.Send(NewWaitForDigitCommand(timeout))
	if err != nil {
		return 0, err
	}
	if res.Failed() {
		return 0, fmt.Errorf("wait for digit: %w", ErrCommandFailed)
	}
	return rune(res.Code), nil
}

// SpeechSet sets a speech engine setting.
func (s *Session) SpeechSet(name, value string) (Result, error) {
	return s.Send(NewSpeechSetCommand(name, value))
}

// SpeechDestroy destroys the speech object of the channel.
func (s *Session) SpeechDestroy() (Result, error) {
	return s.Send(NewSpeechDestroyCommand())
}

// DatabaseGet returns a database value. The second result is false if the
// key does not exist.
func (s *Session) DatabaseGet(family, key string) (string, bool, error) {
	return s.sendValue(NewDatabaseGetCommand(family, key))
}

// DatabasePut stores a database value.
func (s *Session) DatabasePut(family, key, value string) (Result, error) {
	return s.Send(NewDatabasePutCommand(family, key, value))
}

// DatabaseDel deletes a database entry.
func (s *Session) DatabaseDel(family, key string) (Result, error) {
	return s.Send(NewDatabaseDelCommand(family, key))
}
