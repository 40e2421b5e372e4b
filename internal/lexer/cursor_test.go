package lexer

import (
	"testing"

	"algotex/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.py", []byte(content)))
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Fatalf("cursor must be exhausted")
	}
}

func TestMarkResetSpan(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Fatalf("span = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Peek() != 'h' {
		t.Fatalf("Reset did not rewind")
	}
	if !cursor.Eat('h') || cursor.Eat('x') {
		t.Fatalf("Eat mismatch")
	}
}

func TestRangeCursorLimit(t *testing.T) {
	cursor := NewRangeCursor(createFile("abcdef"), 1, 3)
	if cursor.Peek() != 'b' || cursor.PeekAt(1) != 'c' || cursor.PeekAt(2) != 0 {
		t.Fatalf("range peeks wrong")
	}
	cursor.Bump()
	cursor.Bump()
	if !cursor.EOF() || len(cursor.Rest()) != 0 {
		t.Fatalf("range cursor must stop at limit")
	}
}
