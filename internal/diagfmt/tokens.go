package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"algotex/internal/source"
	"algotex/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// untilEOF trims anything the lexer left after EOF.
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

// describeTrivia summarises leading trivia: comments keep their text, runs
// of the same kind collapse into "Kind×n".
func describeTrivia(trivia []token.Trivia) []string {
	var out []string
	for i := 0; i < len(trivia); {
		tr := trivia[i]
		if tr.Kind == token.TriviaComment {
			out = append(out, tr.Text)
			i++
			continue
		}
		j := i + 1
		for j < len(trivia) && trivia[j].Kind == tr.Kind {
			j++
		}
		if n := j - i; n > 1 {
			out = append(out, fmt.Sprintf("%s×%d", tr.Kind, n))
		} else {
			out = append(out, tr.Kind.String())
		}
		i = j
	}
	return out
}

// FormatTokensPretty печатает по строке на токен: номер, вид, текст, позиция.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if leading := describeTrivia(tok.Leading); len(leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(leading, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON пишет токены JSON-массивом.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	toks := untilEOF(tokens)
	out := make([]TokenOutput, len(toks))
	for i, tok := range toks {
		out[i] = TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: describeTrivia(tok.Leading),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
