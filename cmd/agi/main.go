// =============================================================================
// main.go - agi CLI Entry Point
// =============================================================================
//
// agi hosts AGI sessions from the command line. It runs scripted sessions
// for a call-control server, either as a classic AGI script on stdin/stdout
// or as a FastAGI service, and it has an interactive console for trying
// commands against a live channel.
//
// Usage:
//
//	agi run --script ivr.yaml                   Classic AGI (stdin/stdout)
//	agi serve --listen :4573 --script ivr.yaml  FastAGI server
//	agi console --listen 127.0.0.1:4573         Interactive console
//	agi version                                 Show version
//
// Logging goes to stderr. In run mode stdout is the AGI channel, so nothing
// else may ever be printed there.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goagi/agi/agiprotocol"
)

const (
	// version is the current version of the CLI.
	version = "0.3.0"

	// appName is the application name.
	appName = "agi"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// GO CONCEPT: Package-Level Flag Variables
// ----------------------------------------
// cobra binds each flag to a variable. Persistent flags live on the root
// command and are visible to every subcommand, so they are declared at
// package level where all the command files can read them.
var (
	configPath string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:   "agi",
	Short: "Host AGI call-control sessions",
	Long: `agi runs AGI sessions for a call-control server.

It can run a YAML step script as a classic AGI program on stdin/stdout,
serve the same scripts over FastAGI, or open an interactive console on a
single FastAGI connection.

Environment:
  AGI_CONFIG  Default configuration file (overridden by --config)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Configuration file (default: $AGI_CONFIG)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Log protocol detail to stderr (-v debug, -vv raw header blocks)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), fullTitle())
	},
}

// logLevel maps the -v count to a slog level.
func logLevel(v int) slog.Level {
	switch {
	case v >= 2:
		return agiprotocol.LevelTrace
	case v == 1:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// newLogger creates the structured logger for w at the -v level.
func newLogger(w io.Writer, v int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel(v)}))
}

// printError prints an error message to w.
func printError(w io.Writer, message string) {
	fmt.Fprintf(w, "Error: %s\n", message)
}
