package agiprotocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderLine(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantEnd   bool
		wantNext  int
	}{
		{"simple", "agi_channel: SIP/100-1\n", "channel", "SIP/100-1", false, 23},
		{"no space after colon", "agi_channel:SIP/100\n", "channel", "SIP/100", false, 20},
		{"several spaces before value", "agi_type:   SIP\n", "type", "SIP", false, 16},
		{"trailing spaces", "agi_type: SIP  \n", "type", "SIP", false, 16},
		{"inner spaces kept", "agi_calleridname: John Q Public\n", "calleridname", "John Q Public", false, 32},
		{"empty value", "agi_rdnis: \n", "rdnis", "", false, 12},
		{"empty value no space", "agi_rdnis:\n", "rdnis", "", false, 11},
		{"name without colon", "agi_enhanced\n", "enhanced", "", false, 13},
		{"underscore in name", "agi_network_script: foo\n", "network_script", "foo", false, 24},
		{"argument", "agi_arg_12: x\n", "arg_12", "x", false, 14},
		{"value with colon", "agi_request: agi://h:4573/x\n", "request", "agi://h:4573/x", false, 28},
		{"terminator", "\n", "", "", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.input)
			line, next, err := ParseHeaderLine(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd, line.End)
			assert.Equal(t, tt.wantNext, next)
			if !tt.wantEnd {
				assert.Equal(t, tt.wantName, string(line.Name.Bytes(buf)))
				assert.Equal(t, tt.wantValue, string(line.Value.Bytes(buf)))
			}
		})
	}
}

func TestParseHeaderLineMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong prefix", "agx_channel: x\n"},
		{"missing prefix", "channel: x\n"},
		{"uppercase prefix", "AGI_channel: x\n"},
		{"empty name", "agi_: x\n"},
		{"uppercase name", "agi_Channel: x\n"},
		{"space in name", "agi_chan nel: x\n"},
		{"NUL in value", "agi_channel: a\x00b\n"},
		{"NUL after trailing space", "agi_channel: a \x00\n"},
		{"unterminated", "agi_channel: x"},
		{"unterminated prefix", "agi"},
		{"carriage return line end in name", "agi_channel\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, next, err := ParseHeaderLine([]byte(tt.input), 0)
			require.Error(t, err)
			assert.True(t, IsParseError(err, ErrKindMalformedLine), "got %v", err)
			assert.Equal(t, 0, next)
		})
	}
}

func TestParseHeaderLineEmptyBuffer(t *testing.T) {
	_, _, err := ParseHeaderLine(nil, 0)
	assert.True(t, IsParseError(err, ErrKindMalformedLine))
}

// TestParseHeaderLineResumes checks that the returned offset starts the next
// line even when a value had trailing spaces.
func TestParseHeaderLineResumes(t *testing.T) {
	buf := []byte("agi_type: SIP   \nagi_channel: SIP/1\n\n")

	var names []string
	for pos := 0; ; {
		line, next, err := ParseHeaderLine(buf, pos)
		require.NoError(t, err)
		if line.End {
			assert.Equal(t, len(buf), next)
			break
		}
		names = append(names, string(line.Name.Bytes(buf))+"="+string(line.Value.Bytes(buf)))
		pos = next
	}
	if diff := cmp.Diff([]string{"type=SIP", "channel=SIP/1"}, names); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

// TestParseHeaderLineIdempotent re-runs the parser over the same bytes and
// expects identical spans.
func TestParseHeaderLineIdempotent(t *testing.T) {
	buf := []byte("agi_request: agi://1.2.3.4/foo.agi\nagi_channel: SIP/100-1  \nagi_arg_1: a b\n\n")

	scan := func() []HeaderLine {
		var lines []HeaderLine
		for pos := 0; ; {
			line, next, err := ParseHeaderLine(buf, pos)
			require.NoError(t, err)
			lines = append(lines, line)
			if line.End {
				return lines
			}
			pos = next
		}
	}

	first := scan()
	second := scan()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second scan differs (-first +second):\n%s", diff)
	}
	assert.Len(t, first, 4)
}

func TestParseErrorMessage(t *testing.T) {
	_, _, err := ParseHeaderLine([]byte("agi_Bad: x\nagi_type: SIP\n\n"), 0)
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "agi_Bad: x", pe.Value)
	assert.Equal(t, 4, pe.Offset)
	assert.Contains(t, pe.Error(), "malformed header line")
}

func FuzzParseHeaderLine(f *testing.F) {
	f.Add([]byte("agi_channel: SIP/100-1\n\n"))
	f.Add([]byte("agi_arg_1: x  \n"))
	f.Add([]byte("\n"))
	f.Add([]byte("agi_"))

	f.Fuzz(func(t *testing.T, buf []byte) {
		line, next, err := ParseHeaderLine(buf, 0)
		if err != nil {
			return
		}
		if next <= 0 || next > len(buf) || buf[next-1] != LineTerminator {
			t.Fatalf("next = %d does not follow a terminator in %q", next, buf)
		}
		if line.End {
			return
		}
		if line.Name.From > line.Name.Edge || line.Value.From > line.Value.Edge || line.Value.Edge > next {
			t.Fatalf("bad spans %+v for %q", line, buf)
		}
		for _, c := range line.Name.Bytes(buf) {
			if !isNameChar(c) {
				t.Fatalf("name %q has byte %q outside the name class", line.Name.Bytes(buf), c)
			}
		}
	})
}
