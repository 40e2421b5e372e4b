// Package token defines lexical token kinds and trivia for the Python front end.
// Invariants:
//   - Token.Text is a slice of the original source, except for non-ASCII
//     identifiers, which carry their NFKC form (PEP 3131).
//   - Token.Span covers the source bytes of the token (Start..End).
//   - Newline, Indent and Dedent are synthesised by the lexer; Indent/Dedent
//     have empty spans positioned at the first token of the line.
//   - Comments and blank lines never appear in the main stream; they are kept
//     as leading Trivia.
//   - The soft keywords match/case/type are identifiers; the parser decides.
package token
