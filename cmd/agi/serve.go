// =============================================================================
// serve.go - FastAGI Mode
// =============================================================================
//
// "agi serve" listens for FastAGI connections and runs the step script for
// each call. The request path of agi://host/path selects the step list, so
// one server can host several dialplan entry points:
//
//	exten => 100,1,AGI(agi://127.0.0.1/menus/main)
//
// With --watch the script file is reloaded when it changes (see watch.go).
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goagi/agi/agiprotocol"
)

var (
	serveListen     string
	serveScriptPath string
	serveWatch      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve step scripts over FastAGI",
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
		path := override(serveScriptPath, fc.Script)
		if path == "" {
			return errors.New("no script: use --script or set script in the config file")
		}
		sc, err := loadScript(path)
		if err != nil {
			return err
		}

		store := newScriptStore(path, sc, log)
		srv := &agiprotocol.Server{
			Addr:    override(serveListen, fc.Listen),
			Handler: scriptHandler(store.load),
			Config:  cfg,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveWatch {
			go func() {
				if err := store.watch(ctx); err != nil {
					log.Error("script watch stopped", "path", path, "error", err)
				}
			}()
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "",
		"Listen address (default "+agiprotocol.DefaultListenAddr("")+")")
	serveCmd.Flags().StringVarP(&serveScriptPath, "script", "s", "", "Step script to serve (YAML)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload the script when its file changes")
}

// scriptHandler runs the steps that match each session's request in the
// script current returns when the session starts.
func scriptHandler(current func() *script) agiprotocol.Handler {
	return agiprotocol.HandlerFunc(func(ctx context.Context, sess *agiprotocol.Session) error {
		steps := current().forRequest(sess.Env().Script())
		if len(steps) == 0 {
			sess.Logger().Warn("no steps for request", "script", sess.Env().Script())
			_, err := sess.Hangup("")
			return err
		}
		return newRunner(sess).run(ctx, steps)
	})
}
