// =============================================================================
// script_test.go - Tests for Step Scripts (script.go)
// =============================================================================
//
// Scripts run against agitest.Peer, a scripted call-control peer on an
// in-memory pipe, so every test sees exactly which command lines reached
// the wire.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/goagi/agi/agiprotocol"
	"github.com/goagi/agi/agiprotocol/agitest"
)

var testBlock = agitest.HeaderBlock(
	"request", "agi://127.0.0.1/ivr",
	"channel", "SIP/100-00000001",
	"callerid", "100",
	"arg_1", "sales dept",
)

// openTestSession opens a session on a pipe served by peer.
func openTestSession(t *testing.T, peer *agitest.Peer) *agiprotocol.Session {
	t.Helper()
	sess, err := agiprotocol.Open(peer.Pipe(t), agiprotocol.Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return sess
}

func mustParseScript(t *testing.T, text string) *script {
	t.Helper()
	sc, err := parseScript([]byte(text))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	return sc
}

// =============================================================================
// Parsing
// =============================================================================

func TestParseScript(t *testing.T) {
	sc := mustParseScript(t, `
steps:
  - command: answer
  - command: stream file welcome ""
    on_error: continue
  - command: wait for digit ${arg_1}
    expect: 0
scripts:
  menus/main:
    - command: hangup
`)

	if len(sc.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(sc.Steps))
	}
	if sc.Steps[1].OnError != onErrorContinue {
		t.Errorf("step 2 on_error = %q", sc.Steps[1].OnError)
	}
	if sc.Steps[2].Expect == nil || *sc.Steps[2].Expect != 0 {
		t.Errorf("step 3 expect = %v, want 0", sc.Steps[2].Expect)
	}
	if sc.Steps[0].Expect != nil {
		t.Errorf("step 1 expect should be unset")
	}

	if got := sc.forRequest("menus/main"); len(got) != 1 || got[0].Command != "hangup" {
		t.Errorf("forRequest(menus/main) = %v", got)
	}
	if got := sc.forRequest("other"); len(got) != 3 {
		t.Errorf("forRequest(other) should fall back to steps, got %v", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "steps: []\n", "no steps"},
		{"bad yaml", "steps: [", "parse script"},
		{"bad on_error", "steps:\n  - command: answer\n    on_error: retry\n", "on_error"},
		{"empty command", "steps:\n  - command: \"\"\n", "empty command"},
		{"unknown command", "steps:\n  - command: dance\n", "invalid command"},
		{"missing argument", "steps:\n  - command: get variable\n", "usage"},
		{"unterminated quote", "steps:\n  - command: 'verbose \"hi'\n", "unterminated"},
		{"bad named script", "scripts:\n  x:\n    - command: dance\n", "scripts.x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseScript([]byte(tc.text))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadScriptMissingFile(t *testing.T) {
	if _, err := loadScript(t.TempDir() + "/nope.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// =============================================================================
// Variable Substitution
// =============================================================================

func TestExpandVars(t *testing.T) {
	vars := map[string]string{"callerid": "100", "empty": "", "arg_1": "x y"}
	lookup := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${callerid}", "100"},
		{"from ${callerid} to ${arg_1}", "from 100 to x y"},
		{"${empty}end", "end"},
		{"${EXTEN}", "${EXTEN}"},
		{"${CALLERID(num)}-${callerid}", "${CALLERID(num)}-100"},
		{"${unclosed", "${unclosed"},
		{"$callerid", "$callerid"},
		{"${}", "${}"},
	}

	for _, tc := range tests {
		if got := expandVars(tc.in, lookup); got != tc.want {
			t.Errorf("expandVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// =============================================================================
// Running Steps
// =============================================================================

func TestRunnerSubstitutesVariables(t *testing.T) {
	peer := agitest.NewPeer(testBlock).Respond("200 result=1", "200 result=1 (Alice)", "200 result=1", "200 result=1")
	sess := openTestSession(t, peer)

	sc := mustParseScript(t, `
steps:
  - command: answer
  - command: get variable CALLERID(name)
  - command: verbose "hello ${value} from ${callerid}" 1
  - command: set variable DEPT ${arg_1}
  - command: get full variable ${EXTEN}
`)
	if err := newRunner(sess).run(context.Background(), sc.Steps); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"answer",
		"get variable CALLERID(name)",
		`verbose "hello Alice from 100" 1`,
		`set variable DEPT "sales dept"`,
		"get full variable ${EXTEN}",
	}
	if got := peer.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %q\nwant %q", got, want)
	}
}

func TestRunnerPreviousResult(t *testing.T) {
	peer := agitest.NewPeer(testBlock).Respond("200 result=53 endpos=1200")
	sess := openTestSession(t, peer)

	sc := mustParseScript(t, `
steps:
  - command: stream file menu 12345
  - command: verbose "key ${result} (${data})"
`)
	if err := newRunner(sess).run(context.Background(), sc.Steps); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := peer.Commands()[1]; got != `verbose "key 53 (endpos=1200)"` {
		t.Errorf("second command = %q", got)
	}
}

func TestRunnerFailures(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		responses []string
		wantErr   error
		wantSent  int
	}{
		{
			name:      "failure aborts",
			script:    "steps:\n  - command: exec Nope\n  - command: answer\n",
			responses: []string{"200 result=-1"},
			wantErr:   agiprotocol.ErrCommandFailed,
			wantSent:  1,
		},
		{
			name:      "failure continues",
			script:    "steps:\n  - command: exec Nope\n    on_error: continue\n  - command: answer\n",
			responses: []string{"200 result=-1"},
			wantSent:  2,
		},
		{
			name:      "unexpected result",
			script:    "steps:\n  - command: get variable X\n    expect: 1\n  - command: answer\n",
			responses: []string{"200 result=0"},
			wantErr:   errUnexpectedResult,
			wantSent:  1,
		},
		{
			name:      "expected failure",
			script:    "steps:\n  - command: exec Nope\n    expect: -1\n",
			responses: []string{"200 result=-1"},
			wantSent:  1,
		},
		{
			name:     "bad value after substitution",
			script:   "steps:\n  - command: wait for digit ${arg_1}\n  - command: answer\n",
			wantErr:  errInvalidArgument,
			wantSent: 0,
		},
		{
			name:      "malformed response",
			script:    "steps:\n  - command: answer\n",
			responses: []string{"510 Invalid or unknown command"},
			wantErr:   errMalformedResponse,
			wantSent:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			peer := agitest.NewPeer(testBlock).Respond(tc.responses...)
			sess := openTestSession(t, peer)

			err := newRunner(sess).run(context.Background(), mustParseScript(t, tc.script).Steps)
			switch {
			case tc.wantErr == nil && err != nil:
				t.Fatalf("run: %v", err)
			case tc.wantErr == errInvalidArgument:
				if !agiprotocol.IsParseError(err, agiprotocol.ErrKindInvalidArgument) {
					t.Errorf("error = %v, want an invalid argument", err)
				}
			case tc.wantErr == errMalformedResponse:
				if !agiprotocol.IsParseError(err, agiprotocol.ErrKindMalformedResponse) {
					t.Errorf("error = %v, want a malformed response", err)
				}
			case tc.wantErr != nil && !errors.Is(err, tc.wantErr):
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}

			if got := len(peer.Commands()); got != tc.wantSent {
				t.Errorf("sent %d commands, want %d", got, tc.wantSent)
			}
		})
	}
}

// Markers for parse error kinds in TestRunnerFailures.
var (
	errInvalidArgument   = errors.New("invalid argument")
	errMalformedResponse = errors.New("malformed response")
)

func TestRunnerStopsOnHangup(t *testing.T) {
	peer := agitest.NewPeer(testBlock).CloseAfter(1)
	sess := openTestSession(t, peer)

	sc := mustParseScript(t, `
steps:
  - command: answer
  - command: stream file welcome ""
    on_error: continue
  - command: hangup
`)
	err := newRunner(sess).run(context.Background(), sc.Steps)
	if !agiprotocol.IsClosed(err) {
		t.Fatalf("error = %v, want a closed connection", err)
	}
	if got := len(peer.Commands()); got != 2 {
		t.Errorf("peer saw %d commands, want 2", got)
	}
}

func TestRunnerCanceled(t *testing.T) {
	peer := agitest.NewPeer(testBlock)
	sess := openTestSession(t, peer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newRunner(sess).run(ctx, mustParseScript(t, "steps:\n  - command: answer\n").Steps)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(peer.Commands()) != 0 {
		t.Errorf("nothing should be sent after cancel")
	}
}
