package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string) <-chan []string {
	t.Helper()
	w, err := New(root, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) { batches <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
		_ = w.Close()
	})
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch delivered")
		return nil
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir)

	path := filepath.Join(dir, "algo.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, batches)
	if len(batch) != 1 || batch[0] != path {
		t.Errorf("batch = %v, want [%s]", batch, path)
	}
}

func TestWatchNewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir)

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(sub, "walk.py")
	if err := os.WriteFile(path, []byte("y = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case b := <-batches:
			for _, p := range b {
				if p == path {
					return
				}
			}
		case <-deadline:
			t.Fatal("file in new subdirectory never reported")
		}
	}
}

func TestWatchSingleFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.py")
	other := filepath.Join(dir, "other.py")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("a = 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	batches := startWatcher(t, target)

	if err := os.WriteFile(other, []byte("a = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("a = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, batches)
	if len(batch) != 1 || batch[0] != target {
		t.Errorf("batch = %v, want only %s", batch, target)
	}
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Fatal("expected error for missing root")
	}
}
