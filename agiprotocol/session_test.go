package agiprotocol

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goagi/agi/agiprotocol/agitest"
)

var sessionBlock = agitest.HeaderBlock(
	"request", "agi://127.0.0.1/ivr?lang=en",
	"channel", "PJSIP/alice-00000001",
	"uniqueid", "1700000000.7",
	"callerid", "100",
	"arg_1", "first",
)

func openSession(t *testing.T, peer *agitest.Peer) *Session {
	t.Helper()
	s, err := Open(peer.Pipe(t), Config{})
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	s := openSession(t, agitest.NewPeer(sessionBlock))

	env := s.Env()
	assert.Equal(t, "ivr", env.Script())
	assert.Equal(t, "en", env.Query().Get("lang"))
	assert.Equal(t, "PJSIP/alice-00000001", env.Channel)
	assert.Equal(t, "first", env.Arg(1))
}

func TestOpenMalformedBlock(t *testing.T) {
	peer := agitest.NewPeer("agi_channel: a\nnot a header\n\n")
	_, err := Open(peer.Pipe(t), Config{})
	assert.True(t, IsParseError(err, ErrKindMalformedLine), "got %v", err)
}

func TestSessionLoggerAnnotated(t *testing.T) {
	var logs bytes.Buffer
	cfg := Config{Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	s, err := Open(agitest.NewPeer(sessionBlock).Pipe(t), cfg)
	require.NoError(t, err)
	_, err = s.Answer()
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "channel=PJSIP/alice-00000001")
	assert.Contains(t, logs.String(), "uniqueid=1700000000.7")
}

func TestSessionCommands(t *testing.T) {
	tests := []struct {
		name    string
		call    func(s *Session) (Result, error)
		command string
	}{
		{"Answer", (*Session).Answer, "answer"},
		{"Noop", (*Session).Noop, "noop"},
		{"AsyncAGIBreak", (*Session).AsyncAGIBreak, "asyncagi break"},
		{"SpeechDestroy", (*Session).SpeechDestroy, "speech destroy"},
		{"Hangup", func(s *Session) (Result, error) { return s.Hangup("") }, "hangup"},
		{"Exec", func(s *Session) (Result, error) { return s.Exec("Playback", "tt-monkeys") }, "exec Playback tt-monkeys"},
		{"SetVariable", func(s *Session) (Result, error) { return s.SetVariable("FOO", "a b") }, `set variable FOO "a b"`},
		{"StreamFile", func(s *Session) (Result, error) { return s.StreamFile("welcome", "#", 0) }, "stream file welcome #"},
		{"SayDigits", func(s *Session) (Result, error) { return s.SayDigits("123", "") }, `say digits 123 ""`},
		{"SayNumber", func(s *Session) (Result, error) { return s.SayNumber(42, "#") }, "say number 42 #"},
		{"SayTime", func(s *Session) (Result, error) { return s.SayTime(1700000000, "#") }, "say time 1700000000 #"},
		{"SayDate", func(s *Session) (Result, error) { return s.SayDate(1700000000, "#") }, "say date 1700000000 #"},
		{"ReceiveChar", func(s *Session) (Result, error) { return s.ReceiveChar(500) }, "receive char 500"},
		{"SetAutoHangup", func(s *Session) (Result, error) { return s.SetAutoHangup(30) }, "set autohangup 30"},
		{"SetCallerID", func(s *Session) (Result, error) { return s.SetCallerID("200") }, "set callerid 200"},
		{"SetContext", func(s *Session) (Result, error) { return s.SetContext("default") }, "set context default"},
		{"SetExtension", func(s *Session) (Result, error) { return s.SetExtension("s") }, "set extension s"},
		{"SetPriority", func(s *Session) (Result, error) { return s.SetPriority("1") }, "set priority 1"},
		{"TDDMode", func(s *Session) (Result, error) { return s.TDDMode(true) }, "tdd mode on"},
		{"Verbose", func(s *Session) (Result, error) { return s.Verbose("hi there", 2) }, `verbose "hi there" 2`},
		{"SpeechSet", func(s *Session) (Result, error) { return s.SpeechSet("confidence", "50") }, "speech set confidence 50"},
		{"DatabasePut", func(s *Session) (Result, error) { return s.DatabasePut("cid", "100", "Alice") }, "database put cid 100 Alice"},
		{"DatabaseDel", func(s *Session) (Result, error) { return s.DatabaseDel("cid", "100") }, "database del cid 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peer := agitest.NewPeer(sessionBlock).Respond("200 result=1")
			s := openSession(t, peer)

			res, err := tt.call(s)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Code)
			assert.Equal(t, []string{tt.command}, peer.Commands())
		})
	}
}

func TestSessionSendValidates(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock)
	s := openSession(t, peer)

	_, err := s.Send(Command{Type: CmdGetVariable})
	assert.True(t, IsParseError(err, ErrKindMissingArgument), "got %v", err)
	assert.Empty(t, peer.Commands(), "nothing sent")
}

func TestSessionSendRaw(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=1 (raw)")
	s := openSession(t, peer)

	res, err := s.SendRaw("GET VARIABLE FOO")
	require.NoError(t, err)
	assert.Equal(t, "(raw)", res.Data)
	assert.Equal(t, []string{"GET VARIABLE FOO"}, peer.Commands())

	_, err = s.SendRaw(strings.Repeat("x", MaxCommandLength))
	assert.ErrorIs(t, err, ErrCommandTooLong)
}

func TestSessionGetVariable(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantOK   bool
		wantErr  error
	}{
		{"set", "200 result=1 (Alice Smith)", "Alice Smith", true, nil},
		{"nested parentheses", "200 result=1 (f(x))", "f(x)", true, nil},
		{"empty value", "200 result=1 ()", "", true, nil},
		{"not set", "200 result=0", "", false, nil},
		{"failure", "200 result=-1", "", false, ErrCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openSession(t, agitest.NewPeer(sessionBlock).Respond(tt.response))
			got, ok, err := s.GetVariable("NAME")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionGetFullVariable(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=1 (100 Alice)")
	s := openSession(t, peer)

	got, ok, err := s.GetFullVariable("${CALLERID(num)} ${CALLERID(name)}", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "100 Alice", got)
	assert.Equal(t, []string{`get full variable "${CALLERID(num)} ${CALLERID(name)}"`}, peer.Commands())
}

func TestSessionDatabaseGet(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=1 (Alice)", "200 result=0")
	s := openSession(t, peer)

	v, ok, err := s.DatabaseGet("cid", "100")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)

	_, ok, err = s.DatabaseGet("cid", "999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionGetData(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=0042", "200 result= (timeout)", "200 result=-1")
	s := openSession(t, peer)

	digits, err := s.GetData("enter-pin", 5000, 4)
	require.NoError(t, err)
	assert.Equal(t, "0042", digits)

	_, err = s.GetData("enter-pin", 5000, 4)
	assert.True(t, IsParseError(err, ErrKindMalformedResponse), "got %v", err)

	_, err = s.GetData("enter-pin", 5000, 4)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestSessionWaitForDigit(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=35", "200 result=0", "200 result=-1")
	s := openSession(t, peer)

	d, err := s.WaitForDigit(1000)
	require.NoError(t, err)
	assert.Equal(t, '#', d)

	d, err = s.WaitForDigit(1000)
	require.NoError(t, err)
	assert.Equal(t, rune(0), d)

	_, err = s.WaitForDigit(1000)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestSessionChannelStatus(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Respond("200 result=6", "200 result=-1")
	s := openSession(t, peer)

	status, err := s.ChannelStatus("")
	require.NoError(t, err)
	assert.Equal(t, 6, status)

	_, err = s.ChannelStatus("SIP/gone")
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, []string{"channel status", "channel status SIP/gone"}, peer.Commands())
}

func TestSessionFragmentedResponses(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).Fragment(5).Respond("200 result=1 (a long value in pieces)")
	s := openSession(t, peer)

	v, ok, err := s.GetVariable("X")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a long value in pieces", v)
}

func TestSessionPeerHangsUp(t *testing.T) {
	peer := agitest.NewPeer(sessionBlock).CloseAfter(0)
	s := openSession(t, peer)

	_, err := s.Answer()
	assert.True(t, IsClosed(err), "got %v", err)
}
