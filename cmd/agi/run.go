// =============================================================================
// run.go - Classic AGI Mode
// =============================================================================
//
// "agi run" is started by the call-control server for each call. The server
// writes the header block to our stdin and reads commands from our stdout,
// so all diagnostics go to stderr.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goagi/agi/agiprotocol"
)

var (
	runScriptPath string
	runAllowTTY   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a step script as a classic AGI program on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr(), verbosity)

		fc, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg, err := fc.protocolConfig(log)
		if err != nil {
			return err
		}
		path := override(runScriptPath, fc.Script)
		if path == "" {
			return errors.New("no script: use --script or set script in the config file")
		}
		sc, err := loadScript(path)
		if err != nil {
			return err
		}

		if term.IsTerminal(int(os.Stdin.Fd())) && !runAllowTTY {
			return errors.New("stdin is a terminal; agi run is meant to be started by the call-control server (use --allow-tty to type the header block yourself)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()
		return runSession(ctx, agiprotocol.NewStdio(os.Stdin, os.Stdout), sc, cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runScriptPath, "script", "s", "", "Step script to run (YAML)")
	runCmd.Flags().BoolVar(&runAllowTTY, "allow-tty", false, "Accept a terminal on stdin")
}

// runSession opens a session on conn and runs the script steps for its
// request. A hangup by the peer ends the session normally. Canceling ctx
// closes conn when it can be closed.
func runSession(ctx context.Context, conn io.ReadWriter, sc *script, cfg agiprotocol.Config) error {
	if c, ok := conn.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}

	sess, err := agiprotocol.Open(conn, cfg)
	if err != nil {
		return fmt.Errorf("read agi environment: %w", err)
	}
	log := sess.Logger()
	log.Info("agi session", "request", sess.Env().Request, "callerid", sess.Env().CallerID)

	err = newRunner(sess).run(ctx, sc.forRequest(sess.Env().Script()))
	if agiprotocol.IsClosed(err) {
		log.Info("channel hung up")
		return nil
	}
	return err
}
