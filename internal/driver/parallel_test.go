package driver_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"algotex/internal/driver"
	"algotex/internal/render"
)

func TestListPyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "")
	writeFile(t, dir, "a.py", "")
	writeFile(t, dir, "sub/c.py", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "__pycache__/a.py", "")
	writeFile(t, dir, ".venv/lib.py", "")

	files, err := driver.ListPyFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if got := strings.Join(rel, ","); got != "a.py,b.py,sub/c.py" {
		t.Errorf("files = %s", got)
	}
}

func TestRenderDirOrderedAndIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.py", "z = 3\n")
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.py", "class B:\n    pass\n")

	_, results, err := driver.RenderDir(context.Background(), dir, driver.Options{Jobs: 3})
	if err != nil {
		t.Fatalf("RenderDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i, want := range []string{"a.py", "b.py", "c.py"} {
		if filepath.Base(results[i].Path) != want {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Path, want)
		}
	}
	if !errors.Is(results[1].Err, render.ErrUnhandledConstruct) {
		t.Errorf("b.py err = %v", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("failure leaked into siblings: %v, %v", results[0].Err, results[2].Err)
	}
	if !strings.Contains(string(results[2].Output), `$z \gets 3 $`) {
		t.Errorf("c.py output = %q", results[2].Output)
	}
}

func TestRenderFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.py", "x = 1\n")
	missing := filepath.Join(dir, "missing.py")

	fs, results, err := driver.RenderFiles(context.Background(), dir, []string{missing, ok}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err == nil || results[0].Bag.Len() != 1 {
		t.Fatalf("missing file result = %+v", results[0])
	}
	if f := fs.Get(results[0].Bag.Items()[0].Primary.File); f == nil || filepath.Base(f.Path) != "missing.py" {
		t.Errorf("load diagnostic points at the wrong file")
	}
	if results[1].Err != nil {
		t.Errorf("ok.py: %v", results[1].Err)
	}
}

func TestRenderDirEmpty(t *testing.T) {
	_, results, err := driver.RenderDir(context.Background(), t.TempDir(), driver.Options{})
	if err != nil || len(results) != 0 {
		t.Errorf("empty dir: %v, %d results", err, len(results))
	}
}
