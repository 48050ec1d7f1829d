package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"refaudit/internal/parser"
)

func newTestWatcher(t *testing.T, onChange func([]string)) *Watcher {
	t.Helper()
	spec := parser.DialectRegistry()["go"]
	w, err := NewWatcher(spec, 50*time.Millisecond, []string{".git"}, []string{"*.gen.go"}, onChange)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestRelevantFile(t *testing.T) {
	w := newTestWatcher(t, func([]string) {})

	cases := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"pkg/thing.go", true},
		{"main_test.go", false},
		{"README.md", false},
		{"Widget.java", false},
		{"types.gen.go", false},
	}
	for _, c := range cases {
		if got := w.relevantFile(c.path); got != c.want {
			t.Errorf("relevantFile(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	changes := make(chan []string, 1)
	w := newTestWatcher(t, func(paths []string) { changes <- paths })

	root := t.TempDir()
	target := filepath.Join(root, "a.go")
	if err := os.WriteFile(target, []byte("package demo\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := w.Watch(root); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("package demo\n// rev\n"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 {
			t.Errorf("expected one debounced path, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change batch delivered")
	}
}

func TestWatcherIgnoresForeignFiles(t *testing.T) {
	changes := make(chan []string, 1)
	w := newTestWatcher(t, func(paths []string) { changes <- paths })

	root := t.TempDir()
	if err := w.Watch(root); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case paths := <-changes:
		t.Fatalf("unexpected change batch %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}
