package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is a bytes.Buffer safe for a logger and a test to share.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestScriptStoreReload(t *testing.T) {
	path := writeFile(t, "ivr.yaml", "steps:\n  - command: answer\n")
	sc, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	var logs lockedBuffer
	store := newScriptStore(path, sc, newLogger(&logs, 0))

	if err := os.WriteFile(path, []byte("steps:\n  - command: dance\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store.reload()
	if got := store.load().Steps[0].Command; got != "answer" {
		t.Errorf("a bad script replaced the active one: %q", got)
	}
	if !strings.Contains(logs.String(), "script reload failed") {
		t.Errorf("failed reload not logged:\n%s", logs.String())
	}

	if err := os.WriteFile(path, []byte("steps:\n  - command: hangup\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store.reload()
	if got := store.load().Steps[0].Command; got != "hangup" {
		t.Errorf("active script = %q, want the reloaded one", got)
	}
}

func TestScriptStoreWatch(t *testing.T) {
	path := writeFile(t, "ivr.yaml", "steps:\n  - command: answer\n")
	sc, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	store := newScriptStore(path, sc, newLogger(io.Discard, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.watch(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch: %v", err)
		}
	}()

	// The watcher may not be registered yet, so keep rewriting the file
	// until the change is seen.
	deadline := time.Now().Add(5 * time.Second)
	for store.load().Steps[0].Command != "noop" {
		if time.Now().After(deadline) {
			t.Fatal("script was not reloaded")
		}
		if err := os.WriteFile(path, []byte("steps:\n  - command: noop\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
