// =============================================================================
// repl.go - Console REPL Loop
// =============================================================================
//
// The REPL reads AGI commands typed by the user, checks them with the
// command parser, sends them on the session and prints each response line.
// Lines starting with a dot are console commands handled locally, except
// .raw which sends its line unchecked.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goagi/agi/agiprotocol"
)

// consolePrompt is shown before every command.
const consolePrompt = "agi> "

// repl is the state of one console session.
type repl struct {
	sess   *agiprotocol.Session
	editor lineReader
	parser *agiprotocol.CommandParser
	out    io.Writer
	errOut io.Writer
}

// runREPL runs the console until the user quits, the input ends or the
// channel hangs up.
func runREPL(sess *agiprotocol.Session, editor lineReader, out, errOut io.Writer) error {
	r := &repl{
		sess:   sess,
		editor: editor,
		parser: agiprotocol.NewCommandParser(),
		out:    out,
		errOut: errOut,
	}
	return r.loop()
}

func (r *repl) loop() error {
	for {
		line, err := r.editor.GetLine(consolePrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var done bool
		if strings.HasPrefix(line, ".") {
			done = r.dotCommand(line)
		} else {
			done = r.command(line)
		}
		if done {
			return nil
		}
	}
}

// command parses and sends one AGI command line. It returns true when the
// session is over.
func (r *repl) command(line string) bool {
	cmd, err := r.parser.Parse(line)
	if err != nil {
		printError(r.errOut, err.Error())
		return false
	}
	return r.report(r.sess.Send(cmd))
}

// report prints a command outcome. It returns true when the channel is gone.
func (r *repl) report(res agiprotocol.Result, err error) bool {
	if err != nil {
		if agiprotocol.IsClosed(err) {
			fmt.Fprintln(r.out, "Channel hung up.")
			return true
		}
		printError(r.errOut, err.Error())
		return false
	}

	fmt.Fprintln(r.out, res.String())
	if d := res.Digit(); d != "" && strings.Contains(dtmfKeys, d) {
		fmt.Fprintf(r.out, "  (digit %s)\n", d)
	}
	return false
}

// dtmfKeys are the keys whose ASCII code a command can return.
const dtmfKeys = "0123456789*#ABCD"

// dotCommand handles a console command. It returns true to leave the REPL.
func (r *repl) dotCommand(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case ".quit", ".exit":
		return true

	case ".help":
		printHelp(r.out, r.errOut, rest)

	case ".env":
		printEnv(r.out, r.sess.Env())

	case ".arg":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > agiprotocol.MaxArgs {
			printError(r.errOut, fmt.Sprintf(".arg needs a number from 1 to %d", agiprotocol.MaxArgs))
			return false
		}
		if v := r.sess.Env().Arg(n); v != "" {
			fmt.Fprintln(r.out, v)
		} else {
			fmt.Fprintln(r.out, "(not set)")
		}

	case ".raw":
		if rest == "" {
			printError(r.errOut, ".raw needs a command line")
			return false
		}
		return r.report(r.sess.SendRaw(rest))

	default:
		printError(r.errOut, fmt.Sprintf("Unknown command '%s'. Type .help to see available commands.", name))
	}
	return false
}

// printEnv writes the headers that are set, one per line.
func printEnv(w io.Writer, env *agiprotocol.Environment) {
	for _, f := range env.Fields() {
		fmt.Fprintf(w, "%s%s: %s\n", agiprotocol.HeaderPrefix, f[0], f[1])
	}
}
