package lexer_test

import (
	"strings"
	"testing"

	"algotex/internal/diag"
	"algotex/internal/lexer"
	"algotex/internal/source"
	"algotex/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	rep := &testReporter{}
	return lexer.Tokenize(file, lexer.Options{Reporter: rep}), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, rep := lexAll(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", input, rep.codes())
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestSimpleAssignment(t *testing.T) {
	toks := expectKinds(t, "x = 1\n",
		token.Ident, token.Assign, token.IntLit, token.Newline, token.EOF)
	if toks[0].Text != "x" || toks[2].Text != "1" {
		t.Errorf("texts = %q %q", toks[0].Text, toks[2].Text)
	}
}

func TestMissingTrailingNewline(t *testing.T) {
	expectKinds(t, "pass",
		token.KwPass, token.Newline, token.EOF)
}

func TestIndentDedent(t *testing.T) {
	src := "def f(x):\n    if x:\n        return 1\n    return 2\n"
	expectKinds(t, src,
		token.KwDef, token.Ident, token.LParen, token.Ident, token.RParen, token.Colon, token.Newline,
		token.Indent, token.KwIf, token.Ident, token.Colon, token.Newline,
		token.Indent, token.KwReturn, token.IntLit, token.Newline,
		token.Dedent, token.KwReturn, token.IntLit, token.Newline,
		token.Dedent, token.EOF)
}

func TestBlankLinesAndCommentsDoNotAffectLayout(t *testing.T) {
	src := "while x:\n\n    # comment\n    y = 1\n  \n# trailing\n"
	toks := expectKinds(t, src,
		token.KwWhile, token.Ident, token.Colon, token.Newline,
		token.Indent, token.Ident, token.Assign, token.IntLit, token.Newline,
		token.Dedent, token.EOF)

	found := false
	for _, tr := range toks[5].Leading {
		if tr.Kind == token.TriviaComment && tr.Text == "# comment" {
			found = true
		}
	}
	if !found {
		t.Errorf("comment not attached as leading trivia of %q: %+v", toks[5].Text, toks[5].Leading)
	}
}

func TestNewlinesInsideBrackets(t *testing.T) {
	expectKinds(t, "f(1,\n  2)\n",
		token.Ident, token.LParen, token.IntLit, token.Comma, token.IntLit, token.RParen, token.Newline, token.EOF)
}

func TestBackslashContinuation(t *testing.T) {
	expectKinds(t, "x = 1 + \\\n    2\n",
		token.Ident, token.Assign, token.IntLit, token.Plus, token.IntLit, token.Newline, token.EOF)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0o17", token.IntLit},
		{"0b1010", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"1.", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.5E+10", token.FloatLit},
		{"2j", token.ImagLit},
		{"1.5J", token.ImagLit},
	}
	for _, tt := range tests {
		toks, rep := lexAll(t, tt.src)
		if len(rep.diagnostics) != 0 {
			t.Errorf("%q: diagnostics %v", tt.src, rep.codes())
			continue
		}
		if toks[0].Kind != tt.kind || toks[0].Text != tt.src {
			t.Errorf("%q: got %v %q, want %v", tt.src, toks[0].Kind, toks[0].Text, tt.kind)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	for _, src := range []string{"0x", "12abc"} {
		toks, rep := lexAll(t, src)
		if toks[0].Kind != token.Invalid {
			t.Errorf("%q: expected Invalid, got %v", src, toks[0].Kind)
		}
		if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexBadNumber {
			t.Errorf("%q: expected LexBadNumber, got %v", src, rep.codes())
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{`"hi"`, token.StringLit},
		{`'it''s'`, token.StringLit}, // две строки подряд, проверяем первую
		{`'a\'b'`, token.StringLit},
		{`r"\d+"`, token.StringLit},
		{`u"x"`, token.StringLit},
		{`b"raw"`, token.BytesLit},
		{`Rb'x'`, token.BytesLit},
		{`f"{x}"`, token.FStringLit},
		{`rf'{x}\n'`, token.FStringLit},
		{"\"\"\"multi\nline\"\"\"", token.StringLit},
	}
	for _, tt := range tests {
		toks, rep := lexAll(t, tt.src)
		if len(rep.diagnostics) != 0 {
			t.Errorf("%q: diagnostics %v", tt.src, rep.codes())
			continue
		}
		if toks[0].Kind != tt.kind {
			t.Errorf("%q: got %v, want %v", tt.src, toks[0].Kind, tt.kind)
		}
	}
}

func TestPrefixLikeIdentifiers(t *testing.T) {
	toks := expectKinds(t, "bar = fr + rb\n",
		token.Ident, token.Assign, token.Ident, token.Plus, token.Ident, token.Newline, token.EOF)
	if toks[2].Text != "fr" {
		t.Errorf("got %q", toks[2].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, rep := lexAll(t, "x = 'abc\ny = 1\n")
	if toks[2].Kind != token.Invalid {
		t.Fatalf("expected Invalid string token, got %v", toks[2].Kind)
	}
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %v", rep.codes())
	}
	// лексер продолжает со следующей строки
	if toks[3].Kind != token.Newline || toks[4].Text != "y" {
		t.Errorf("lexer did not recover: %v", kinds(toks))
	}
}

func TestOperators(t *testing.T) {
	expectKinds(t, "a **= b // c << d >= e != f := g -> h ... ~i @ j\n",
		token.Ident, token.StarStarEq, token.Ident, token.SlashSlash, token.Ident, token.Shl,
		token.Ident, token.GtEq, token.Ident, token.BangEq, token.Ident, token.ColonAssign,
		token.Ident, token.Arrow, token.Ident, token.Ellipsis, token.Tilde, token.Ident,
		token.At, token.Ident, token.Newline, token.EOF)
}

func TestKeywordsAndSoftKeywords(t *testing.T) {
	toks := expectKinds(t, "match = lambda: None\n",
		token.Ident, token.Assign, token.KwLambda, token.Colon, token.KwNone, token.Newline, token.EOF)
	if toks[0].Text != "match" {
		t.Errorf("soft keyword text = %q", toks[0].Text)
	}
}

func TestUnicodeIdentifierNFKC(t *testing.T) {
	// U+FB01 (ﬁ) нормализуется в "fi"
	toks := expectKinds(t, "\uFB01x = 1\n",
		token.Ident, token.Assign, token.IntLit, token.Newline, token.EOF)
	if toks[0].Text != "fix" {
		t.Errorf("NFKC text = %q, want fix", toks[0].Text)
	}
	if toks[0].Span.Len() != 4 {
		t.Errorf("span must cover source bytes, got len %d", toks[0].Span.Len())
	}
}

func TestBadDedent(t *testing.T) {
	_, rep := lexAll(t, "if x:\n        a\n    b\n")
	found := false
	for _, c := range rep.codes() {
		if c == diag.LexBadDedent {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexBadDedent, got %v", rep.codes())
	}
}

func TestUnbalancedBrackets(t *testing.T) {
	_, rep := lexAll(t, "x = (1, 2]\n")
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnbalancedBracket {
		t.Fatalf("expected LexUnbalancedBracket, got %v", rep.codes())
	}
	_, rep = lexAll(t, "x = [1, 2\n")
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnbalancedBracket {
		t.Fatalf("expected LexUnbalancedBracket for unclosed bracket, got %v", rep.codes())
	}
}

func TestUnknownChar(t *testing.T) {
	toks, rep := lexAll(t, "x = $\n")
	if toks[2].Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", toks[2].Kind)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar, got %v", rep.codes())
	}
}

func TestRangeLexer(t *testing.T) {
	src := `f"{a + b!r}"`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	start := uint32(strings.Index(src, "a"))
	end := uint32(strings.Index(src, "}"))
	toks := lexer.NewRange(file, start, end, lexer.Options{}).All()
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Plus, token.Ident, token.Bang, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if toks[0].Span.Start != start {
		t.Errorf("range lexer spans must be file-absolute")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte("a b")))
	lx := lexer.New(file, lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
}
