package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("algo.py", []byte("x = 1"), 0)
	id2 := fs.Add("algo.py", []byte("x = 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("algo.py")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "x = 1" {
		t.Errorf("old version content = %q", got)
	}
}

func TestResolveLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.py", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // the '\n' itself
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{8, LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.py", []byte("first\nsecond\nthird")))

	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestCRLFAndBOMNormalization(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.py", []byte("\xEF\xBB\xBFx = 1\r\ny = 2\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "x = 1\ny = 2\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("flags = %b, want BOM|CRLF|virtual", f.Flags)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "algo.py")
	if err := os.WriteFile(path, []byte("def f():\n    pass\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileVirtual != 0 {
		t.Errorf("loaded file marked virtual")
	}
	if got := f.FormatPath("relative", dir); got != "algo.py" {
		t.Errorf("relative path = %q", got)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.py")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 20}); got != a {
		t.Errorf("cross-file Cover changed span: %v", got)
	}
}

func TestLineCount(t *testing.T) {
	fs := NewFileSet()
	for src, want := range map[string]int{"": 0, "x": 1, "x\n": 1, "x\ny": 2, "x\n\n": 2} {
		if got := fs.Get(fs.AddVirtual("t.py", []byte(src))).LineCount(); got != want {
			t.Errorf("LineCount(%q) = %d, want %d", src, got, want)
		}
	}
}
