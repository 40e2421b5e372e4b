package parser

import (
	"fmt"
	"strings"
	"testing"

	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/source"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) has(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func diagnosticsSummary(r *testReporter) string {
	var b strings.Builder
	for _, d := range r.diagnostics {
		fmt.Fprintf(&b, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
	}
	return b.String()
}

func parseSource(t *testing.T, src string) (*pyast.Tree, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	rep := &testReporter{}
	res := ParseFile(file, Options{MaxErrors: 100, Reporter: rep})
	return res.Tree, rep
}

func mustParse(t *testing.T, src string) *pyast.Tree {
	t.Helper()
	tree, rep := parseSource(t, src)
	if len(rep.diagnostics) > 0 {
		t.Fatalf("unexpected diagnostics for %q:\n%s", src, diagnosticsSummary(rep))
	}
	return tree
}

// sexpr печатает узел компактно: Label[attrs](children...)
func sexpr(tree *pyast.Tree, n pyast.Node) string {
	var b strings.Builder
	b.WriteString(tree.Label(n))
	if attrs := tree.Attrs(n); len(attrs) > 0 {
		vals := make([]string, 0, len(attrs))
		for _, a := range attrs {
			vals = append(vals, a.Value)
		}
		b.WriteString("[" + strings.Join(vals, " ") + "]")
	}
	var kids []string
	for _, s := range tree.Slots(n) {
		for _, c := range s.Nodes {
			kids = append(kids, sexpr(tree, c))
		}
	}
	if len(kids) > 0 {
		b.WriteString("(" + strings.Join(kids, " ") + ")")
	}
	return b.String()
}

func moduleSexpr(tree *pyast.Tree) []string {
	out := make([]string, 0, len(tree.Module.Body))
	for _, id := range tree.Module.Body {
		out = append(out, sexpr(tree, pyast.StmtNode(id)))
	}
	return out
}
