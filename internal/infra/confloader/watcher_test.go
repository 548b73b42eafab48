package confloader

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.watcher == nil {
		t.Error("fsnotify watcher should be set")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

func TestWatcher_NotifyCallbacks(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var calls atomic.Int32
	var got atomic.Value
	w.OnChange(func(path string) {
		calls.Add(1)
		got.Store(path)
	})
	w.OnChange(func(string) { calls.Add(1) })

	w.notifyCallbacks("/etc/pumpd.yaml")

	if calls.Load() != 2 {
		t.Errorf("callbacks = %d, want 2", calls.Load())
	}
	if got.Load() != "/etc/pumpd.yaml" {
		t.Errorf("path = %v", got.Load())
	}
}

func TestWatcher_FileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pumpd.yaml")
	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 16)
	w.OnChange(func(p string) { changed <- p })
	w.StartAsync()

	// Writes to unrelated files in the same directory are ignored.
	if err := os.WriteFile(other, []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if p != filepath.Clean(path) {
			t.Errorf("changed path = %q, want %q", p, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "pumpd.yaml")); err == nil {
		t.Error("Watch() should fail when the directory does not exist")
	}
}
