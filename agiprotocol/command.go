package agiprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType represents an AGI command word.
type CommandType int

const (
	// Channel control
	CmdAnswer CommandType = iota
	CmdAsyncAGIBreak
	CmdChannelStatus
	CmdExec
	CmdGosub
	CmdHangup
	CmdNoop
	CmdSetAutoHangup
	CmdSetCallerID
	CmdSetContext
	CmdSetExtension
	CmdSetMusic
	CmdSetPriority

	// Variables and the database
	CmdGetVariable
	CmdGetFullVariable
	CmdSetVariable
	CmdDatabaseDel
	CmdDatabaseDelTree
	CmdDatabaseGet
	CmdDatabasePut

	// Playback and input
	CmdControlStreamFile
	CmdGetData
	CmdGetOption
	CmdReceiveChar
	CmdReceiveText
	CmdRecordFile
	CmdStreamFile
	CmdWaitForDigit

	// Say
	CmdSayAlpha
	CmdSayDate
	CmdSayDateTime
	CmdSayDigits
	CmdSayNumber
	CmdSayPhonetic
	CmdSayTime

	// Text, image and TDD
	CmdSendImage
	CmdSendText
	CmdTDDMode
	CmdVerbose

	// Speech
	CmdSpeechActivateGrammar
	CmdSpeechCreate
	CmdSpeechDeactivateGrammar
	CmdSpeechDestroy
	CmdSpeechLoadGrammar
	CmdSpeechRecognize
	CmdSpeechSet
	CmdSpeechUnloadGrammar

	numCommandTypes
)

// commandSpec describes the wire form of a command.
type commandSpec struct {
	word    string
	minArgs int
	maxArgs int
	usage   string
	summary string

	// check validates argument values beyond their count.
	check func(args []string) error
}

var commandSpecs = [numCommandTypes]commandSpec{
	CmdAnswer:        {word: "answer", usage: "answer", summary: "Answer the channel"},
	CmdAsyncAGIBreak: {word: "asyncagi break", usage: "asyncagi break", summary: "Interrupt Async AGI"},
	CmdChannelStatus: {word: "channel status", maxArgs: 1, usage: "channel status [channel]",
		summary: "Return the status of a channel"},
	CmdExec: {word: "exec", minArgs: 1, maxArgs: 2, usage: "exec <application> [options]",
		summary: "Execute a dialplan application"},
	CmdGosub: {word: "gosub", minArgs: 3, maxArgs: 4, usage: "gosub <context> <extension> <priority> [arguments]",
		summary: "Run a dialplan subroutine"},
	CmdHangup: {word: "hangup", maxArgs: 1, usage: "hangup [channel]", summary: "Hang up a channel"},
	CmdNoop:   {word: "noop", maxArgs: 1, usage: "noop [text]", summary: "Do nothing"},
	CmdSetAutoHangup: {word: "set autohangup", minArgs: 1, maxArgs: 1, usage: "set autohangup <seconds>",
		summary: "Hang up the channel after a number of seconds", check: intArgs(0)},
	CmdSetCallerID: {word: "set callerid", minArgs: 1, maxArgs: 1, usage: "set callerid <number>",
		summary: "Set the caller ID of the channel"},
	CmdSetContext: {word: "set context", minArgs: 1, maxArgs: 1, usage: "set context <context>",
		summary: "Set the dialplan context for continuation"},
	CmdSetExtension: {word: "set extension", minArgs: 1, maxArgs: 1, usage: "set extension <extension>",
		summary: "Set the dialplan extension for continuation"},
	CmdSetMusic: {word: "set music", minArgs: 1, maxArgs: 2, usage: "set music <on|off> [class]",
		summary: "Enable or disable music on hold", check: choiceArg(0, "on", "off")},
	CmdSetPriority: {word: "set priority", minArgs: 1, maxArgs: 1, usage: "set priority <priority>",
		summary: "Set the dialplan priority for continuation"},

	CmdGetVariable: {word: "get variable", minArgs: 1, maxArgs: 1, usage: "get variable <name>",
		summary: "Get a channel variable"},
	CmdGetFullVariable: {word: "get full variable", minArgs: 1, maxArgs: 2, usage: "get full variable <expression> [channel]",
		summary: "Evaluate an expression with variables and functions"},
	CmdSetVariable: {word: "set variable", minArgs: 2, maxArgs: 2, usage: "set variable <name> <value>",
		summary: "Set a channel variable"},
	CmdDatabaseDel: {word: "database del", minArgs: 2, maxArgs: 2, usage: "database del <family> <key>",
		summary: "Delete a database entry"},
	CmdDatabaseDelTree: {word: "database deltree", minArgs: 1, maxArgs: 2, usage: "database deltree <family> [keytree]",
		summary: "Delete a family or key tree from the database"},
	CmdDatabaseGet: {word: "database get", minArgs: 2, maxArgs: 2, usage: "database get <family> <key>",
		summary: "Get a database value"},
	CmdDatabasePut: {word: "database put", minArgs: 3, maxArgs: 3, usage: "database put <family> <key> <value>",
		summary: "Store a database value"},

	CmdControlStreamFile: {word: "control stream file", minArgs: 2, maxArgs: 7,
		usage:   "control stream file <file> <escape digits> [skipms] [ffchar] [rewchar] [pausechar] [offsetms]",
		summary: "Play a file the caller can fast-forward and rewind", check: intArgs(2, 6)},
	CmdGetData: {word: "get data", minArgs: 1, maxArgs: 3, usage: "get data <file> [timeout] [maxdigits]",
		summary: "Play a prompt and collect DTMF digits", check: intArgs(1, 2)},
	CmdGetOption: {word: "get option", minArgs: 2, maxArgs: 3, usage: "get option <file> <escape digits> [timeout]",
		summary: "Play a file and wait for one digit", check: intArgs(2)},
	CmdReceiveChar: {word: "receive char", minArgs: 1, maxArgs: 1, usage: "receive char <timeout>",
		summary: "Receive one character of text", check: intArgs(0)},
	CmdReceiveText: {word: "receive text", minArgs: 1, maxArgs: 1, usage: "receive text <timeout>",
		summary: "Receive a text message", check: intArgs(0)},
	CmdRecordFile: {word: "record file", minArgs: 4, maxArgs: 7,
		usage:   "record file <file> <format> <escape digits> <timeout> [offset] [BEEP] [s=silence]",
		summary: "Record audio to a file", check: intArgs(3)},
	CmdStreamFile: {word: "stream file", minArgs: 2, maxArgs: 3, usage: "stream file <file> <escape digits> [offset]",
		summary: "Play a file", check: intArgs(2)},
	CmdWaitForDigit: {word: "wait for digit", minArgs: 1, maxArgs: 1, usage: "wait for digit <timeout>",
		summary: "Wait for one DTMF digit", check: intArgs(0)},

	CmdSayAlpha: {word: "say alpha", minArgs: 2, maxArgs: 2, usage: "say alpha <text> <escape digits>",
		summary: "Spell out characters"},
	CmdSayDate: {word: "say date", minArgs: 2, maxArgs: 2, usage: "say date <unix time> <escape digits>",
		summary: "Say the date of a Unix time", check: intArgs(0)},
	CmdSayDateTime: {word: "say datetime", minArgs: 2, maxArgs: 4, usage: "say datetime <unix time> <escape digits> [format] [timezone]",
		summary: "Say a date and time in a format", check: intArgs(0)},
	CmdSayDigits: {word: "say digits", minArgs: 2, maxArgs: 2, usage: "say digits <digits> <escape digits>",
		summary: "Say a digit string"},
	CmdSayNumber: {word: "say number", minArgs: 2, maxArgs: 3, usage: "say number <number> <escape digits> [gender]",
		summary: "Say a number", check: intArgs(0)},
	CmdSayPhonetic: {word: "say phonetic", minArgs: 2, maxArgs: 2, usage: "say phonetic <text> <escape digits>",
		summary: "Spell out characters with the phonetic alphabet"},
	CmdSayTime: {word: "say time", minArgs: 2, maxArgs: 2, usage: "say time <unix time> <escape digits>",
		summary: "Say the time of a Unix time", check: intArgs(0)},

	CmdSendImage: {word: "send image", minArgs: 1, maxArgs: 1, usage: "send image <image>",
		summary: "Send an image to the channel"},
	CmdSendText: {word: "send text", minArgs: 1, maxArgs: 1, usage: "send text <text>",
		summary: "Send text to the channel"},
	CmdTDDMode: {word: "tdd mode", minArgs: 1, maxArgs: 1, usage: "tdd mode <on|off|tdd|mate>",
		summary: "Toggle TDD mode", check: choiceArg(0, "on", "off", "tdd", "mate")},
	CmdVerbose: {word: "verbose", minArgs: 1, maxArgs: 2, usage: "verbose <message> [level]",
		summary: "Log a message on the server console", check: intArgs(1)},

	CmdSpeechActivateGrammar: {word: "speech activate grammar", minArgs: 1, maxArgs: 1,
		usage: "speech activate grammar <grammar>", summary: "Activate a loaded grammar"},
	CmdSpeechCreate: {word: "speech create", minArgs: 1, maxArgs: 1, usage: "speech create <engine>",
		summary: "Create a speech recognition object"},
	CmdSpeechDeactivateGrammar: {word: "speech deactivate grammar", minArgs: 1, maxArgs: 1,
		usage: "speech deactivate grammar <grammar>", summary: "Deactivate a grammar"},
	CmdSpeechDestroy: {word: "speech destroy", usage: "speech destroy", summary: "Destroy the speech object"},
	CmdSpeechLoadGrammar: {word: "speech load grammar", minArgs: 2, maxArgs: 2,
		usage: "speech load grammar <grammar> <path>", summary: "Load a grammar"},
	CmdSpeechRecognize: {word: "speech recognize", minArgs: 2, maxArgs: 3, usage: "speech recognize <prompt> <timeout> [offset]",
		summary: "Play a prompt and recognize speech", check: intArgs(1, 2)},
	CmdSpeechSet: {word: "speech set", minArgs: 2, maxArgs: 2, usage: "speech set <name> <value>",
		summary: "Set a speech engine setting"},
	CmdSpeechUnloadGrammar: {word: "speech unload grammar", minArgs: 1, maxArgs: 1,
		usage: "speech unload grammar <grammar>", summary: "Unload a grammar"},
}

// commandWords maps command words to their types.
var commandWords = func() map[string]CommandType {
	m := make(map[string]CommandType, numCommandTypes)
	for t := CommandType(0); t < numCommandTypes; t++ {
		m[commandSpecs[t].word] = t
	}
	return m
}()

// maxCommandWords is the most words any command word has.
const maxCommandWords = 3

// String returns the command word, such as "stream file".
func (t CommandType) String() string {
	if !t.valid() {
		return fmt.Sprintf("CommandType(%d)", int(t))
	}
	return commandSpecs[t].word
}

// Usage returns the command syntax.
func (t CommandType) Usage() string {
	if !t.valid() {
		return ""
	}
	return commandSpecs[t].usage
}

// Summary returns a one-line description of the command.
func (t CommandType) Summary() string {
	if !t.valid() {
		return ""
	}
	return commandSpecs[t].summary
}

func (t CommandType) valid() bool {
	return t >= 0 && t < numCommandTypes
}

// CommandTypes returns all command types in declaration order.
func CommandTypes() []CommandType {
	types := make([]CommandType, numCommandTypes)
	for i := range types {
		types[i] = CommandType(i)
	}
	return types
}

// LookupCommand returns the command type for a command word. Matching
// ignores case and collapses runs of spaces.
func LookupCommand(word string) (CommandType, bool) {
	t, ok := commandWords[strings.ToLower(strings.Join(strings.Fields(word), " "))]
	return t, ok
}

// Command is an AGI command with its arguments. Use the constructor
// functions (NewAnswerCommand, NewStreamFileCommand, etc.) to create
// Command instances.
type Command struct {
	Type CommandType
	Args []string
}

// Validate checks the argument count and values. Arguments must not contain
// line terminators, carriage returns or NUL bytes.
func (c Command) Validate() error {
	if !c.Type.valid() {
		return newInvalidCommandError(c.Type.String())
	}
	spec := commandSpecs[c.Type]
	if len(c.Args) < spec.minArgs {
		return newMissingArgumentError("usage: " + spec.usage)
	}
	if len(c.Args) > spec.maxArgs {
		return newInvalidArgumentError(c.Args[spec.maxArgs], "too many arguments, usage: "+spec.usage)
	}
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, "\n\r\x00") {
			return newInvalidArgumentError(arg, "argument contains a line break or NUL byte")
		}
	}
	if spec.check != nil {
		return spec.check(c.Args)
	}
	return nil
}

// Format returns the command as sent on the wire, without the line
// terminator. Arguments that are empty or contain spaces, quotes or
// backslashes are double-quoted.
func (c Command) Format() string {
	var b strings.Builder
	b.WriteString(c.Type.String())
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(QuoteArg(arg))
	}
	return b.String()
}

// FormatLine validates the command and returns it as a complete protocol
// line with the line terminator.
func (c Command) FormatLine() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	line := c.Format() + "\n"
	if len(line) > MaxCommandLength {
		return "", fmt.Errorf("%s: %d bytes: %w", c.Type, len(line), ErrCommandTooLong)
	}
	return line, nil
}

var argEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// QuoteArg returns arg in the form the server's argument splitter reads
// back as arg.
func QuoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\"\\") {
		return arg
	}
	return `"` + argEscaper.Replace(arg) + `"`
}

func intArgs(positions ...int) func([]string) error {
	return func(args []string) error {
		for _, i := range positions {
			if i >= len(args) {
				continue
			}
			if _, err := strconv.ParseInt(args[i], 10, 64); err != nil {
				return newInvalidArgumentError(args[i], "expected an integer")
			}
		}
		return nil
	}
}

func choiceArg(position int, choices ...string) func([]string) error {
	return func(args []string) error {
		if position >= len(args) {
			return nil
		}
		for _, c := range choices {
			if strings.EqualFold(args[position], c) {
				return nil
			}
		}
		return newInvalidArgumentError(args[position], "expected one of "+strings.Join(choices, ", "))
	}
}

// optional drops trailing empty optional arguments.
func optional(required []string, opts ...string) []string {
	n := len(opts)
	for n > 0 && opts[n-1] == "" {
		n--
	}
	return append(required, opts[:n]...)
}

// itoaOpt formats a positive value, or returns "" to leave it out.
func itoaOpt(n int64) string {
	if n <= 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// Command constructors. Optional arguments are left out when they are
// trailing and zero.

// NewAnswerCommand creates an answer command.
func NewAnswerCommand() Command {
	return Command{Type: CmdAnswer}
}

// NewAsyncAGIBreakCommand creates an asyncagi break command.
func NewAsyncAGIBreakCommand() Command {
	return Command{Type: CmdAsyncAGIBreak}
}

// NewChannelStatusCommand creates a channel status command. An empty
// channel means the current channel.
func NewChannelStatusCommand(channel string) Command {
	return Command{Type: CmdChannelStatus, Args: optional(nil, channel)}
}

// NewExecCommand creates a command that runs a dialplan application.
func NewExecCommand(application, options string) Command {
	return Command{Type: CmdExec, Args: optional([]string{application}, options)}
}

// NewGosubCommand creates a gosub command.
func NewGosubCommand(context, extension, priority, arguments string) Command {
	return Command{Type: CmdGosub, Args: optional([]string{context, extension, priority}, arguments)}
}

// NewHangupCommand creates a hangup command. An empty channel hangs up the
// current channel.
func NewHangupCommand(channel string) Command {
	return Command{Type: CmdHangup, Args: optional(nil, channel)}
}

// NewNoopCommand creates a noop command.
func NewNoopCommand() Command {
	return Command{Type: CmdNoop}
}

// NewSetAutoHangupCommand creates a command that hangs up the channel after
// seconds. Zero disables the automatic hangup.
func NewSetAutoHangupCommand(seconds int) Command {
	return Command{Type: CmdSetAutoHangup, Args: []string{strconv.Itoa(seconds)}}
}

// NewSetCallerIDCommand creates a set callerid command.
func NewSetCallerIDCommand(number string) Command {
	return Command{Type: CmdSetCallerID, Args: []string{number}}
}

// NewSetContextCommand creates a set context command.
func NewSetContextCommand(context string) Command {
	return Command{Type: CmdSetContext, Args: []string{context}}
}

// NewSetExtensionCommand creates a set extension command.
func NewSetExtensionCommand(extension string) Command {
	return Command{Type: CmdSetExtension, Args: []string{extension}}
}

// NewSetMusicCommand creates a set music command.
func NewSetMusicCommand(on bool, class string) Command {
	state := "off"
	if on {
		state = "on"
	}
	return Command{Type: CmdSetMusic, Args: optional([]string{state}, class)}
}

// NewSetPriorityCommand creates a set priority command. The priority is a
// number or a label.
func NewSetPriorityCommand(priority string) Command {
	return Command{Type: CmdSetPriority, Args: []string{priority}}
}

// NewGetVariableCommand creates a get variable command.
func NewGetVariableCommand(name string) Command {
	return Command{Type: CmdGetVariable, Args: []string{name}}
}

// NewGetFullVariableCommand creates a get full variable command. An empty
// channel evaluates on the current channel.
func NewGetFullVariableCommand(expression, channel string) Command {
	return Command{Type: CmdGetFullVariable, Args: optional([]string{expression}, channel)}
}

// NewSetVariableCommand creates a set variable command.
func NewSetVariableCommand(name, value string) Command {
	return Command{Type: CmdSetVariable, Args: []string{name, value}}
}

// NewDatabaseDelCommand creates a database del command.
func NewDatabaseDelCommand(family, key string) Command {
	return Command{Type: CmdDatabaseDel, Args: []string{family, key}}
}

// NewDatabaseDelTreeCommand creates a database deltree command.
func NewDatabaseDelTreeCommand(family, keyTree string) Command {
	return Command{Type: CmdDatabaseDelTree, Args: optional([]string{family}, keyTree)}
}

// NewDatabaseGetCommand creates a database get command.
func NewDatabaseGetCommand(family, key string) Command {
	return Command{Type: CmdDatabaseGet, Args: []string{family, key}}
}

// NewDatabasePutCommand creates a database put command.
func NewDatabasePutCommand(family, key, value string) Command {
	return Command{Type: CmdDatabasePut, Args: []string{family, key, value}}
}

// NewControlStreamFileCommand creates a control stream file command.
// skipMS is the skip distance for fast-forward and rewind; the control
// characters pick the keys for fast-forward, rewind and pause.
func NewControlStreamFileCommand(filename, escapeDigits string, skipMS int, ffChar, rewChar, pauseChar string) Command {
	return Command{Type: CmdControlStreamFile,
		Args: optional([]string{filename, escapeDigits}, itoaOpt(int64(skipMS)), ffChar, rewChar, pauseChar)}
}

// NewGetDataCommand creates a get data command. timeout is in milliseconds.
func NewGetDataCommand(prompt string, timeout, maxDigits int) Command {
	args := []string{prompt}
	if timeout > 0 || maxDigits > 0 {
		args = append(args, strconv.Itoa(timeout))
	}
	if maxDigits > 0 {
		args = append(args, strconv.Itoa(maxDigits))
	}
	return Command{Type: CmdGetData, Args: args}
}

// NewGetOptionCommand creates a get option command. timeout is in
// milliseconds.
func NewGetOptionCommand(filename, escapeDigits string, timeout int) Command {
	return Command{Type: CmdGetOption, Args: optional([]string{filename, escapeDigits}, itoaOpt(int64(timeout)))}
}

// NewReceiveCharCommand creates a receive char command. timeout is in
// milliseconds; zero waits forever.
func NewReceiveCharCommand(timeout int) Command {
	return Command{Type: CmdReceiveChar, Args: []string{strconv.Itoa(timeout)}}
}

// NewReceiveTextCommand creates a receive text command. timeout is in
// milliseconds; zero waits forever.
func NewReceiveTextCommand(timeout int) Command {
	return Command{Type: CmdReceiveText, Args: []string{strconv.Itoa(timeout)}}
}

// NewRecordFileCommand creates a record file command. timeout is in
// milliseconds, -1 for none. silence is the seconds of silence that end the
// recording.
func NewRecordFileCommand(filename, format, escapeDigits string, timeout int, offset int64, beep bool, silence int) Command {
	args := []string{filename, format, escapeDigits, strconv.Itoa(timeout)}
	if offset > 0 {
		args = append(args, strconv.FormatInt(offset, 10))
	}
	if beep {
		args = append(args, "BEEP")
	}
	if silence > 0 {
		args = append(args, "s="+strconv.Itoa(silence))
	}
	return Command{Type: CmdRecordFile, Args: args}
}

// NewStreamFileCommand creates a stream file command. offset is the sample
// offset to start playback at.
func NewStreamFileCommand(filename, escapeDigits string, offset int64) Command {
	return Command{Type: CmdStreamFile, Args: optional([]string{filename, escapeDigits}, itoaOpt(offset))}
}

// NewWaitForDigitCommand creates a wait for digit command. timeout is in
// milliseconds, -1 waits forever.
func NewWaitForDigitCommand(timeout int) Command {
	return Command{Type: CmdWaitForDigit, Args: []string{strconv.Itoa(timeout)}}
}

// NewSayAlphaCommand creates a say alpha command.
func NewSayAlphaCommand(text, escapeDigits string) Command {
	return Command{Type: CmdSayAlpha, Args: []string{text, escapeDigits}}
}

// NewSayDateCommand creates a say date command for a Unix time.
func NewSayDateCommand(date int64, escapeDigits string) Command {
	return Command{Type: CmdSayDate, Args: []string{strconv.FormatInt(date, 10), escapeDigits}}
}

// NewSayDateTimeCommand creates a say datetime command for a Unix time.
func NewSayDateTimeCommand(t int64, escapeDigits, format, timezone string) Command {
	return Command{Type: CmdSayDateTime,
		Args: optional([]string{strconv.FormatInt(t, 10), escapeDigits}, format, timezone)}
}

// NewSayDigitsCommand creates a say digits command.
func NewSayDigitsCommand(digits, escapeDigits string) Command {
	return Command{Type: CmdSayDigits, Args: []string{digits, escapeDigits}}
}

// NewSayNumberCommand creates a say number command.
func NewSayNumberCommand(number int, escapeDigits, gender string) Command {
	return Command{Type: CmdSayNumber, Args: optional([]string{strconv.Itoa(number), escapeDigits}, gender)}
}

// NewSayPhoneticCommand creates a say phonetic command.
func NewSayPhoneticCommand(text, escapeDigits string) Command {
	return Command{Type: CmdSayPhonetic, Args: []string{text, escapeDigits}}
}

// NewSayTimeCommand creates a say time command for a Unix time.
func NewSayTimeCommand(t int64, escapeDigits string) Command {
	return Command{Type: CmdSayTime, Args: []string{strconv.FormatInt(t, 10), escapeDigits}}
}

// NewSendImageCommand creates a send image command.
func NewSendImageCommand(image string) Command {
	return Command{Type: CmdSendImage, Args: []string{image}}
}

// NewSendTextCommand creates a send text command.
func NewSendTextCommand(text string) Command {
	return Command{Type: CmdSendText, Args: []string{text}}
}

// NewTDDModeCommand creates a tdd mode command.
func NewTDDModeCommand(on bool) Command {
	if on {
		return Command{Type: CmdTDDMode, Args: []string{"on"}}
	}
	return Command{Type: CmdTDDMode, Args: []string{"off"}}
}

// NewVerboseCommand creates a verbose command. level is 1 to 4; zero leaves
// it to the server.
func NewVerboseCommand(message string, level int) Command {
	return Command{Type: CmdVerbose, Args: optional([]string{message}, itoaOpt(int64(level)))}
}

// NewSpeechActivateGrammarCommand creates a speech activate grammar command.
func NewSpeechActivateGrammarCommand(grammar string) Command {
	return Command{Type: CmdSpeechActivateGrammar, Args: []string{grammar}}
}

// NewSpeechCreateCommand creates a speech create command.
func NewSpeechCreateCommand(engine string) Command {
	return Command{Type: CmdSpeechCreate, Args: []string{engine}}
}

// NewSpeechDeactivateGrammarCommand creates a speech deactivate grammar command.
func NewSpeechDeactivateGrammarCommand(grammar string) Command {
	return Command{Type: CmdSpeechDeactivateGrammar, Args: []string{grammar}}
}

// NewSpeechDestroyCommand creates a speech destroy command.
func NewSpeechDestroyCommand() Command {
	return Command{Type: CmdSpeechDestroy}
}

// NewSpeechLoadGrammarCommand creates a speech load grammar command.
func NewSpeechLoadGrammarCommand(grammar, path string) Command {
	return Command{Type: CmdSpeechLoadGrammar, Args: []string{grammar, path}}
}

// NewSpeechRecognizeCommand creates a speech recognize command. timeout is
// in milliseconds.
func NewSpeechRecognizeCommand(prompt string, timeout int, offset int64) Command {
	return Command{Type: CmdSpeechRecognize,
		Args: optional([]string{prompt, strconv.Itoa(timeout)}, itoaOpt(offset))}
}

// NewSpeechSetCommand creates a speech set command.
func NewSpeechSetCommand(name, value string) Command {
	return Command{Type: CmdSpeechSet, Args: []string{name, value}}
}

// NewSpeechUnloadGrammarCommand creates a speech unload grammar command.
func NewSpeechUnloadGrammarCommand(grammar string) Command {
	return Command{Type: CmdSpeechUnloadGrammar, Args: []string{grammar}}
}
