// =============================================================================
// help.go - Console Help
// =============================================================================
//
// ".help" lists the console dot-commands and every AGI command word with a
// one-line summary. ".help <topic>" shows the syntax of one dot-command or
// AGI command; multi-word commands are given as typed ("stream file").
//
// The AGI command text comes from the agiprotocol command table, so help
// always matches what the parser accepts.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goagi/agi/agiprotocol"
)

// helpSection groups a contiguous range of command types for the listing.
type helpSection struct {
	title       string
	first, last agiprotocol.CommandType
}

var helpSections = []helpSection{
	{"Channel Control", agiprotocol.CmdAnswer, agiprotocol.CmdSetPriority},
	{"Variables and Database", agiprotocol.CmdGetVariable, agiprotocol.CmdDatabasePut},
	{"Playback and Input", agiprotocol.CmdControlStreamFile, agiprotocol.CmdWaitForDigit},
	{"Say", agiprotocol.CmdSayAlpha, agiprotocol.CmdSayTime},
	{"Text and TDD", agiprotocol.CmdSendImage, agiprotocol.CmdVerbose},
	{"Speech", agiprotocol.CmdSpeechActivateGrammar, agiprotocol.CmdSpeechUnloadGrammar},
}

// GO CONCEPT: Package-Level Variables with Map Literals
// ---------------------------------------------------
// Maps cannot be const, so lookup tables that never change are declared
// with var and initialized once when the package loads.

// dotHelp contains detailed help for console dot-commands, keyed without
// the leading dot.
var dotHelp = map[string]string{
	"env": `  .env
    Show the header block the server sent for this call, one
    name: value pair per line, arguments included.`,

	"arg": `  .arg <n>
    Show argument n (1-127) of the AGI invocation.
    Example:
      .arg 1`,

	"help": `  .help [command]
    Show all commands, or the syntax of one command.
    Examples:
      .help
      .help stream file
      .help .raw`,

	"raw": `  .raw <line>
    Send a line to the server exactly as typed, without checking the
    command word or arguments.
    Example:
      .raw EXEC Playback tt-monkeys`,

	"quit": `  .quit
    Leave the console. The call continues in the dialplan.`,
}

// printHelp writes the full listing when topic is empty, or help for one
// topic. Unknown topics are reported on errOut.
func printHelp(out, errOut io.Writer, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		printHelpOverview(out)
		return
	}

	key := strings.ToLower(strings.TrimPrefix(topic, "."))
	if text, ok := dotHelp[key]; ok {
		fmt.Fprintln(out, text)
		return
	}
	if t, ok := agiprotocol.LookupCommand(key); ok {
		fmt.Fprintf(out, "  %s\n    %s.\n", t.Usage(), t.Summary())
		return
	}

	printError(errOut, fmt.Sprintf("No help for '%s'. Type .help to see available commands.", topic))
}

// printHelpOverview writes the dot-commands and all AGI commands.
func printHelpOverview(out io.Writer) {
	fmt.Fprint(out, `Console Commands:
  .env                        Show the call's header block
  .arg <n>                    Show argument n
  .help [cmd]                 Show help (or help for a specific command)
  .raw <line>                 Send a line without checking it
  .quit                       Leave the console
`)

	for _, sec := range helpSections {
		fmt.Fprintf(out, "\n%s:\n", sec.title)
		for t := sec.first; t <= sec.last; t++ {
			fmt.Fprintf(out, "  %-27s %s\n", t.String(), t.Summary())
		}
	}
}
