// Package diag defines the diagnostic model shared by the lexer, the parser
// and the render driver.
//
// Producers emit through a Reporter (BagReporter collects into a Bag, which
// supports limits, sorting and deduplication). Formatting lives in
// internal/diagfmt; FormatShort gives a stable one-line-per-entry form used by
// the quiet CLI mode and by tests.
//
// Keep the data model deterministic: diagnostics are cached alongside rendered
// markup and compared in tests.
package diag
