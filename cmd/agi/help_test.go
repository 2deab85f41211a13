package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goagi/agi/agiprotocol"
)

func TestHelpSectionsCoverAllCommands(t *testing.T) {
	next := agiprotocol.CmdAnswer
	for _, sec := range helpSections {
		if sec.first != next {
			t.Errorf("section %q starts at %v, want %v", sec.title, sec.first, next)
		}
		if sec.last < sec.first {
			t.Errorf("section %q is empty", sec.title)
		}
		next = sec.last + 1
	}
	if !strings.HasPrefix(next.String(), "CommandType(") {
		t.Errorf("command %q is not in any help section", next)
	}
}

func TestHelpOverview(t *testing.T) {
	var out, errOut bytes.Buffer
	printHelp(&out, &errOut, "")

	text := out.String()
	for _, sec := range helpSections {
		if !strings.Contains(text, "\n"+sec.title+":\n") {
			t.Errorf("overview missing section %q", sec.title)
		}
		for ct := sec.first; ct <= sec.last; ct++ {
			if !strings.Contains(text, "  "+ct.String()+" ") {
				t.Errorf("overview missing command %q", ct)
			}
		}
	}
	for name := range dotHelp {
		if !strings.Contains(text, "."+name) {
			t.Errorf("overview missing .%s", name)
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected errors: %s", errOut.String())
	}
}

func TestHelpTopics(t *testing.T) {
	tests := []struct {
		topic   string
		want    string
		wantErr string
	}{
		{topic: "stream file", want: "  stream file <file> <escape digits> [offset]\n    Play a file.\n"},
		{topic: "STREAM FILE", want: "stream file <file>"},
		{topic: "wait for digit", want: "wait for digit <timeout>"},
		{topic: ".raw", want: ".raw <line>"},
		{topic: "arg", want: ".arg <n>"},
		{topic: "  .quit ", want: "Leave the console"},
		{topic: "dance", wantErr: "Error: No help for 'dance'"},
		{topic: "stream", wantErr: "No help for 'stream'"},
	}

	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			var out, errOut bytes.Buffer
			printHelp(&out, &errOut, tc.topic)

			if tc.wantErr != "" {
				if !strings.Contains(errOut.String(), tc.wantErr) {
					t.Errorf("errors = %q, want %q", errOut.String(), tc.wantErr)
				}
				if out.Len() != 0 {
					t.Errorf("unexpected output: %q", out.String())
				}
				return
			}
			if !strings.Contains(out.String(), tc.want) {
				t.Errorf("help = %q, want %q", out.String(), tc.want)
			}
		})
	}
}
