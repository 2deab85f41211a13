// =============================================================================
// watch.go - Script Reloading for Serve Mode
// =============================================================================
//
// "agi serve --watch" reloads the step script whenever its file changes, so
// a dialplan can be developed against a running server. Sessions already
// running keep the steps they started with; new sessions get the new
// script. A script that fails to load is logged and the previous one stays
// active.
//
// =============================================================================

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// scriptStore holds the active script of a server.
type scriptStore struct {
	path string
	log  *slog.Logger
	cur  atomic.Pointer[script]
}

func newScriptStore(path string, sc *script, log *slog.Logger) *scriptStore {
	s := &scriptStore{path: filepath.Clean(path), log: log}
	s.cur.Store(sc)
	return s
}

// load returns the active script.
func (s *scriptStore) load() *script {
	return s.cur.Load()
}

// reload reads the script file again and makes it active if it is valid.
func (s *scriptStore) reload() {
	sc, err := loadScript(s.path)
	if err != nil {
		s.log.Warn("script reload failed, keeping previous script", "path", s.path, "error", err)
		return
	}
	s.cur.Store(sc)
	s.log.Info("script reloaded", "path", s.path)
}

// watch reloads the script on every change to its file until ctx is done.
// The directory is watched rather than the file because editors often
// replace a file by renaming a new one over it.
func (s *scriptStore) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.reload()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("script watch error", "error", err)
		}
	}
}
