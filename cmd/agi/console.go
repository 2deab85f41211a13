// =============================================================================
// console.go - Interactive Console Mode
// =============================================================================
//
// "agi console" waits for one FastAGI connection, prints the call's header
// block and hands the session to the REPL. Point a test extension at it:
//
//	exten => 600,1,AGI(agi://192.0.2.10/console)
//
// and every command typed at the prompt runs on that call.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goagi/agi/agiprotocol"
)

var consoleListen string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open an interactive console on one FastAGI connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		log := newLogger(errOut, verbosity)

		fc, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg, err := fc.protocolConfig(log)
		if err != nil {
			return err
		}
		addr := override(consoleListen, fc.Listen)
		if addr == "" {
			addr = agiprotocol.DefaultListenAddr("127.0.0.1")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var lc net.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Waiting for a FastAGI connection on %s...\n", ln.Addr())

		editor := NewLineEditor(os.Stdin, out)
		defer editor.Close()
		return runConsole(ctx, ln, cfg, editor, out, errOut)
	},
}

func init() {
	consoleCmd.Flags().StringVarP(&consoleListen, "listen", "l", "",
		"Listen address (default "+agiprotocol.DefaultListenAddr("127.0.0.1")+")")
}

// welcomeBanner returns the banner displayed when a call connects.
func welcomeBanner(env *agiprotocol.Environment) string {
	return fmt.Sprintf(`%s - AGI console
Connected to %s (request %s)

Type '.help' for available commands.
Type '.quit' to exit.

`, fullTitle(), env.Channel, env.Request)
}

// runConsole accepts one connection on ln, closes ln and runs the REPL on
// the session.
func runConsole(ctx context.Context, ln net.Listener, cfg agiprotocol.Config, editor lineReader, out, errOut io.Writer) error {
	conn, err := acceptOne(ctx, ln)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sess, err := agiprotocol.Open(conn, cfg)
	if err != nil {
		return fmt.Errorf("read agi environment: %w", err)
	}

	fmt.Fprint(out, welcomeBanner(sess.Env()))
	printEnv(out, sess.Env())
	fmt.Fprintln(out)

	return runREPL(sess, editor, out, errOut)
}

// acceptOne waits for a single connection and closes ln.
func acceptOne(ctx context.Context, ln net.Listener) (net.Conn, error) {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	return conn, nil
}
