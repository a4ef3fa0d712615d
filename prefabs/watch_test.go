package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsPrefabEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	path := filepath.Join(dir, "grunt.yaml")
	if err := os.WriteFile(path, []byte("name: grunt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event for %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the edited prefab")
	}
}

func TestWatcherCloseDrainsAndClosesChannels(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}

	// queue a few edits the consumer never reads, then shut down
	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, "agent.yaml")
		if err := os.WriteFile(name, []byte("name: agent\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(debounceWindow + 20*time.Millisecond)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after Close")
		}
	}
}
