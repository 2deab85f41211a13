package agiprotocol

import (
	"strings"
)

// CommandParser parses AGI command lines typed by a user or read from a
// script into Commands.
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse parses a command line into a Command.
//
// The command word is matched case-insensitively, longest word first, so
// "set variable" wins over a hypothetical "set". Arguments are split on
// spaces; double quotes group an argument and a backslash escapes the next
// character, the same way Format writes them.
func (p *CommandParser) Parse(line string) (Command, error) {
	commandLine := strings.TrimSpace(line)

	if len(commandLine)+1 > MaxCommandLength {
		return Command{}, ErrCommandTooLong
	}

	tokens, err := SplitArgs(commandLine)
	if err != nil {
		return Command{}, err
	}
	if len(tokens) == 0 {
		return Command{}, newInvalidCommandError("")
	}

	t, n, ok := p.matchWord(tokens)
	if !ok {
		return Command{}, newInvalidCommandError(strings.ToLower(tokens[0]))
	}

	var args []string
	if len(tokens) > n {
		args = tokens[n:]
	}
	cmd := Command{Type: t, Args: args}
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// matchWord finds the longest command word at the start of tokens. It
// returns the type and the number of tokens the word used.
func (p *CommandParser) matchWord(tokens []string) (CommandType, int, bool) {
	for n := min(maxCommandWords, len(tokens)); n > 0; n-- {
		word := strings.ToLower(strings.Join(tokens[:n], " "))
		if t, ok := commandWords[word]; ok {
			return t, n, true
		}
	}
	return 0, 0, false
}

// SplitArgs splits a line into arguments the way the server does: spaces
// and tabs separate arguments, double quotes group, and a backslash escapes
// the next character. An unterminated quote or a trailing backslash is an
// error.
func SplitArgs(s string) ([]string, error) {
	var (
		args     []string
		cur      strings.Builder
		inArg    bool
		inQuotes bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
			inArg = true
		case ch == '"':
			inQuotes = !inQuotes
			inArg = true
		case (ch == ' ' || ch == '\t') && !inQuotes:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteByte(ch)
			inArg = true
		}
	}
	if escaped {
		return nil, newInvalidArgumentError(s, "trailing backslash")
	}
	if inQuotes {
		return nil, newInvalidArgumentError(s, "unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
