// =============================================================================
// lineeditor.go - Console Line Editor with Dual-Mode Operation
// =============================================================================
//
// The console reads commands through a line editor that picks its input
// method from the terminal:
//
//   - Interactive (stdin is a TTY): ergochat/readline with Emacs key
//     bindings, Ctrl-R history search and a persistent history file.
//   - Non-interactive (piped input, Emacs comint): a plain bufio.Scanner,
//     with the prompt printed by hand.
//
// History is stored at ~/.agi_history with a 500-entry limit.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the name of the history file in the user's home
	// directory.
	historyFileName = ".agi_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// GO CONCEPT: Interfaces and Structural Typing
// ---------------------------------------------
// The REPL only needs GetLine and Close, so it takes this small interface
// instead of *LineEditor. Tests pass a scanner-backed editor over a
// strings.Reader; nothing has to declare that it implements lineReader.
type lineReader interface {
	GetLine(prompt string) (string, error)
	Close()
}

// LineEditor wraps line editing with dual-mode operation.
type LineEditor struct {
	// interactive is true when input is a TTY.
	interactive bool

	// rl is the readline instance in interactive mode, nil otherwise.
	rl *readline.Instance

	// scanner reads lines in non-interactive mode, nil otherwise.
	scanner *bufio.Scanner

	// out receives prompts in non-interactive mode.
	out io.Writer
}

// NewLineEditor creates a LineEditor for in, detecting the mode. Under Emacs
// the editor is always non-interactive because Emacs edits the line itself.
func NewLineEditor(in *os.File, out io.Writer) *LineEditor {
	isInteractive := term.IsTerminal(int(in.Fd())) && os.Getenv("INSIDE_EMACS") == ""
	if !isInteractive {
		return newPipedEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  filepath.Join(homeDir(), historyFileName),
		HistoryLimit: historySize,

		// Only non-empty lines are saved, by getInteractiveLine.
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedEditor(in, out)
	}

	return &LineEditor{interactive: true, rl: rl, out: out}
}

// newPipedEditor creates a non-interactive editor reading from r.
func newPipedEditor(r io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(r), out: out}
}

// GetLine reads a line of input with the given prompt. It returns io.EOF
// when the input ends or the user presses Ctrl-D or Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	// Emacs comint matches the prompt to find where input begins.
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves the history and releases the terminal. It is safe to call
// more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor uses readline.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// homeDir returns the current user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
