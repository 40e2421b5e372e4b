// Package naming turns Python identifiers into algorithm2e macro names.
//
// Normalize strips every '_' and upper-cases the first remaining rune:
//
//	binary_search -> BinarySearch
//	__init__      -> Init
//
// Names listed as verbatim are returned untouched. The collector and the
// renderer must share one Normalizer so declared macros match their uses.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PythonBuiltins is an opt-in verbatim preset: the builtin functions that
// render as ordinary calls. len, abs, min, max, set, all and any are absent
// because they render as math and never reach the normalizer.
var PythonBuiltins = []string{
	"bin", "bool", "callable", "chr", "dict", "dir", "divmod", "enumerate",
	"filter", "float", "format", "frozenset", "getattr", "hasattr", "hash",
	"hex", "id", "input", "int", "isinstance", "issubclass", "iter", "list",
	"map", "next", "oct", "open", "ord", "pow", "print", "range", "repr",
	"reversed", "round", "setattr", "sorted", "str", "sum", "super", "tuple",
	"type", "vars", "zip",
}

// Normalizer is immutable after New and safe for concurrent use.
type Normalizer struct {
	verbatim map[string]struct{}
}

// New returns a Normalizer that leaves the given names unchanged.
func New(verbatim ...string) *Normalizer {
	n := &Normalizer{verbatim: make(map[string]struct{}, len(verbatim))}
	for _, v := range verbatim {
		if v != "" {
			n.verbatim[v] = struct{}{}
		}
	}
	return n
}

// IsVerbatim reports whether name bypasses normalization.
func (n *Normalizer) IsVerbatim(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.verbatim[name]
	return ok
}

// Normalize maps name to its macro spelling. A name made only of
// underscores has nothing left to capitalise and is returned as is.
func (n *Normalizer) Normalize(name string) string {
	if n.IsVerbatim(name) {
		return name
	}
	stripped := strings.ReplaceAll(name, "_", "")
	if stripped == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(stripped)
	if up := unicode.ToUpper(r); up != r {
		return string(up) + stripped[size:]
	}
	return stripped
}

// Verbatim returns the verbatim names in no particular order.
func (n *Normalizer) Verbatim() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.verbatim))
	for v := range n.verbatim {
		out = append(out, v)
	}
	return out
}
