// =============================================================================
// script.go - YAML Step Scripts
// =============================================================================
//
// A step script is a list of AGI commands run in order on one session:
//
//	steps:
//	  - command: answer
//	  - command: stream file welcome ""
//	    on_error: continue
//	  - command: get variable CALLERID(num)
//	    expect: 1
//	  - command: say digits ${value} ""
//	  - command: verbose "call from ${callerid} for ${arg_1}" 1
//	scripts:
//	  menus/main:
//	    - command: answer
//
// ${name} is replaced by a header value of the session (callerid, arg_1,
// agi_channel, ...) or by a field of the previous step's result: result
// (the code), data, or value (the text inside the parentheses). Unknown
// names are left as is so that dialplan expressions such as ${EXTEN} reach
// the server untouched. Substitution happens inside each argument, so a
// value with spaces stays one argument.
//
// In serve mode the FastAGI request path selects a list under scripts;
// requests without an entry run the top-level steps.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goagi/agi/agiprotocol"
)

// errUnexpectedResult reports a step whose result code differs from its
// expect value.
var errUnexpectedResult = errors.New("unexpected result")

// Step error policies.
const (
	onErrorAbort    = "abort"
	onErrorContinue = "continue"
)

// step is one command of a script.
type step struct {
	Command string `yaml:"command"`

	// OnError is "abort" (the default) or "continue".
	OnError string `yaml:"on_error"`

	// Expect, when set, is the result code the step must return. Without
	// it, any code but -1 is success.
	Expect *int `yaml:"expect"`
}

// script is the YAML form of a step script.
type script struct {
	Steps   []step            `yaml:"steps"`
	Scripts map[string][]step `yaml:"scripts"`
}

// loadScript reads and checks the script at path.
func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return parseScript(data)
}

// parseScript decodes a script and checks every step. Argument values are
// only checked at run time, after substitution.
func parseScript(data []byte) (*script, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 && len(sc.Scripts) == 0 {
		return nil, errors.New("script has no steps")
	}

	check := func(where string, steps []step) error {
		for i, st := range steps {
			if err := st.check(); err != nil {
				return fmt.Errorf("%s step %d: %w", where, i+1, err)
			}
		}
		return nil
	}
	if err := check("steps", sc.Steps); err != nil {
		return nil, err
	}
	for name, steps := range sc.Scripts {
		if err := check("scripts."+name, steps); err != nil {
			return nil, err
		}
	}
	return &sc, nil
}

// forRequest returns the steps for a request script name.
func (sc *script) forRequest(name string) []step {
	if steps, ok := sc.Scripts[name]; ok {
		return steps
	}
	return sc.Steps
}

func (st step) check() error {
	switch st.OnError {
	case "", onErrorAbort, onErrorContinue:
	default:
		return fmt.Errorf("on_error %q: want %s or %s", st.OnError, onErrorAbort, onErrorContinue)
	}
	if strings.TrimSpace(st.Command) == "" {
		return errors.New("empty command")
	}
	if _, err := agiprotocol.SplitArgs(st.Command); err != nil {
		return err
	}
	// Substitution changes argument values, never the command word or the
	// argument count.
	_, err := agiprotocol.NewCommandParser().Parse(st.Command)
	if agiprotocol.IsParseError(err, agiprotocol.ErrKindInvalidCommand) ||
		agiprotocol.IsParseError(err, agiprotocol.ErrKindMissingArgument) {
		return err
	}
	return nil
}

// runner executes steps on one session.
type runner struct {
	sess   *agiprotocol.Session
	parser *agiprotocol.CommandParser
	log    *slog.Logger

	// last is the result of the previous step.
	last agiprotocol.Result
}

func newRunner(sess *agiprotocol.Session) *runner {
	return &runner{sess: sess, parser: agiprotocol.NewCommandParser(), log: sess.Logger()}
}

// run executes steps in order. It stops at the first failed step unless
// the step continues on error, and always when the peer hangs up.
func (r *runner) run(ctx context.Context, steps []step) error {
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.exec(st)
		if err == nil {
			continue
		}
		if agiprotocol.IsClosed(err) {
			return err
		}
		if st.OnError == onErrorContinue {
			r.log.Warn("step failed, continuing", "step", i+1, "command", st.Command, "error", err)
			continue
		}
		return fmt.Errorf("step %d (%s): %w", i+1, st.Command, err)
	}
	return nil
}

// exec runs one step and records its result.
func (r *runner) exec(st step) error {
	cmd, err := r.build(st.Command)
	if err != nil {
		return err
	}
	res, err := r.sess.Send(cmd)
	if err != nil {
		return err
	}
	r.last = res
	r.log.Debug("step done", "command", cmd.Type, "result", res.Code, "data", res.Data)

	if st.Expect != nil {
		if res.Code != *st.Expect {
			return fmt.Errorf("%w: got %d, want %d", errUnexpectedResult, res.Code, *st.Expect)
		}
		return nil
	}
	if res.Failed() {
		return agiprotocol.ErrCommandFailed
	}
	return nil
}

// build substitutes variables in each argument of line and parses it.
func (r *runner) build(line string) (agiprotocol.Command, error) {
	tokens, err := agiprotocol.SplitArgs(line)
	if err != nil {
		return agiprotocol.Command{}, err
	}
	for i, tok := range tokens {
		tokens[i] = agiprotocol.QuoteArg(expandVars(tok, r.lookup))
	}
	return r.parser.Parse(strings.Join(tokens, " "))
}

// lookup resolves a variable name against the previous result and the
// session environment.
func (r *runner) lookup(name string) (string, bool) {
	switch name {
	case "result":
		return strconv.Itoa(r.last.Code), true
	case "data":
		return r.last.Data, true
	case "value":
		v, _ := r.last.Value()
		return v, true
	}
	return r.sess.Env().Lookup(name)
}

// expandVars replaces ${name} in s with the value lookup returns. Names
// lookup does not know are kept.
func expandVars(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(s[:start])
		if v, ok := lookup(s[start+2 : end]); ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
