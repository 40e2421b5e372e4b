package fuzztests

import (
	"testing"

	"algotex/internal/diag"
	"algotex/internal/lexer"
	"algotex/internal/source"
	"algotex/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.py", clampInput(input)))

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		end := uint32(len(file.Content))
		for _, tok := range toks {
			if tok.Span.Start > tok.Span.End || tok.Span.End > end {
				t.Fatalf("token %v has span %v outside [0,%d]", tok.Kind, tok.Span, end)
			}
		}
	})
}
