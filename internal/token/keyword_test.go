package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"def":      KwDef,
		"lambda":   KwLambda,
		"return":   KwReturn,
		"yield":    KwYield,
		"nonlocal": KwNonlocal,
		"True":     KwTrue,
		"None":     KwNone,
		"is":       KwIs,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// soft keywords и регистр
	notKw := []string{
		"match", "case", "type", "_",
		"true", "none", "DEF",
		"print", "len",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
