package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"algotex/internal/diag"
	"algotex/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("x = 1\ns = \"unterminated\ny = 2\n")
	fileID := fs.AddVirtual("/home/user/project/src/algo.py", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 10, End: 23},
		"Unterminated string literal",
	)
	bag.Add(d.WithNote(source.Span{File: fileID, Start: 0, End: 1}, "first assignment here"))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/algo.py:2:5"},
		{"Relative path", PathModeRelative, "src/algo.py:2:5"},
		{"Basename only", PathModeBasename, "algo.py:2:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "LEX1002") {
				t.Error("Expected LEX1002 code in output")
			}
			if !strings.Contains(output, "Unterminated string literal") {
				t.Error("Expected message in output")
			}
		})
	}
}

func TestPrettyContextAndCaret(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := "algo.py:2:5: ERROR LEX1002: Unterminated string literal\n" +
		"1 | x = 1\n" +
		"2 | s = \"unterminated\n" +
		"  |     ^~~~~~~~~~~~~\n" +
		"3 | y = 2\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()
	if !strings.Contains(output, "note: algo.py:1:1: first assignment here") {
		t.Errorf("note missing:\n%s", output)
	}
	if strings.Count(output, "^") != 2 {
		t.Errorf("expected carets for primary and note:\n%s", output)
	}
}

func TestPrettyColorToggle(t *testing.T) {
	bag, fs := sampleBag(t)

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes: %q", colored.String())
	}
}

func TestCaretColumnsWide(t *testing.T) {
	line := "s = '日本'"
	start := source.LineCol{Line: 1, Col: 5}
	end := source.LineCol{Line: 1, Col: uint32(len(line)) + 1}
	lead, width := caretColumns(line, start, end)
	if lead != 4 {
		t.Errorf("lead = %d, want 4", lead)
	}
	if width != 6 {
		t.Errorf("width = %d, want 6 (two wide runes plus quotes)", width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 0); got != "abcdef" {
		t.Errorf("unbounded truncate = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}
