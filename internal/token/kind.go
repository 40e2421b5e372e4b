package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line.
	Newline
	// Indent opens a block.
	Indent
	// Dedent closes a block.
	Dedent

	// Ident represents an identifier token.
	Ident

	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield

	// IntLit represents an integer literal (any base).
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// ImagLit represents an imaginary literal (1j).
	ImagLit
	// StringLit represents a str literal, any quoting, without the f prefix.
	StringLit
	// BytesLit represents a bytes literal (b"...").
	BytesLit
	// FStringLit represents a formatted string literal (f"...").
	FStringLit

	Plus          // +
	Minus         // -
	Star          // *
	StarStar      // **
	Slash         // /
	SlashSlash    // //
	Percent       // %
	At            // @
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	ColonAssign   // :=
	Lt            // <
	Gt            // >
	LtEq          // <=
	GtEq          // >=
	EqEq          // ==
	BangEq        // !=
	LParen        // (
	RParen        // )
	LBracket      // [
	RBracket      // ]
	LBrace        // {
	RBrace        // }
	Comma         // ,
	Colon         // :
	Dot           // .
	Semicolon     // ;
	Assign        // =
	Arrow         // ->
	Ellipsis      // ...
	Bang          // ! (only inside f-string fields)
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	SlashSlashEq  // //=
	PercentAssign // %=
	AtAssign      // @=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	StarStarEq    // **=

	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "Newline", Indent: "Indent", Dedent: "Dedent",
	Ident: "Ident",
	KwFalse: "False", KwNone: "None", KwTrue: "True", KwAnd: "and", KwAs: "as",
	KwAssert: "assert", KwAsync: "async", KwAwait: "await", KwBreak: "break",
	KwClass: "class", KwContinue: "continue", KwDef: "def", KwDel: "del",
	KwElif: "elif", KwElse: "else", KwExcept: "except", KwFinally: "finally",
	KwFor: "for", KwFrom: "from", KwGlobal: "global", KwIf: "if", KwImport: "import",
	KwIn: "in", KwIs: "is", KwLambda: "lambda", KwNonlocal: "nonlocal", KwNot: "not",
	KwOr: "or", KwPass: "pass", KwRaise: "raise", KwReturn: "return", KwTry: "try",
	KwWhile: "while", KwWith: "with", KwYield: "yield",
	IntLit: "IntLit", FloatLit: "FloatLit", ImagLit: "ImagLit", StringLit: "StringLit",
	BytesLit: "BytesLit", FStringLit: "FStringLit",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", SlashSlash: "//",
	Percent: "%", At: "@", Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^",
	Tilde: "~", ColonAssign: ":=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	EqEq: "==", BangEq: "!=", LParen: "(", RParen: ")", LBracket: "[", RBracket: "]",
	LBrace: "{", RBrace: "}", Comma: ",", Colon: ":", Dot: ".", Semicolon: ";",
	Assign: "=", Arrow: "->", Ellipsis: "...", Bang: "!",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	SlashSlashEq: "//=", PercentAssign: "%=", AtAssign: "@=", AmpAssign: "&=",
	PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	StarStarEq: "**=",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}
