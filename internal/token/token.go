package token

import (
	"algotex/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, string, or bytes literal.
// True/False/None are keywords.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, ImagLit, StringLit, BytesLit, FStringLit:
		return true
	default:
		return false
	}
}

// IsString reports whether the token can take part in implicit string concatenation.
func (t Token) IsString() bool {
	switch t.Kind {
	case StringLit, BytesLit, FStringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a hard keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFalse && t.Kind <= KwYield
}

// IsAugAssign reports whether the token is an augmented assignment operator.
func (t Token) IsAugAssign() bool {
	return t.Kind >= PlusAssign && t.Kind <= StarStarEq
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
