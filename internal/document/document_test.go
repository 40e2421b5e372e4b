package document

import (
	"bytes"
	"strings"
	"testing"
)

func assemble(t *testing.T, body string, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Assemble(&buf, []byte(body), opts); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return buf.String()
}

func TestAssembleDefaults(t *testing.T) {
	out := assemble(t, "$x \\gets 1 $ \n", Options{})

	for _, want := range []string{
		"\\usepackage[linesnumbered,lined,boxed,commentsnumbered]{algorithm2e}\n",
		"\\title{Python2Algorithm}\n",
		"\\begin{algorithm}\n$x \\gets 1 $ \n\\end{algorithm}\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "\\documentclass{article}\n") {
		t.Errorf("bad prefix: %q", out[:40])
	}
	if !strings.HasSuffix(out, "\\end{document}\n") {
		t.Errorf("bad suffix: %q", out[len(out)-40:])
	}
	for _, unwanted := range []string{"paracol", "minted", "columnratio"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("unexpected %q without source column", unwanted)
		}
	}
}

func TestAssembleSourceColumn(t *testing.T) {
	out := assemble(t, "body", Options{
		PackageOptions: "lined",
		Title:          "Graph walks",
		Author:         "A. B.",
		SourceColumn:   true,
		SourcePath:     "src/sample/bench.py",
	})

	order := []string{
		"\\usepackage[lined]{algorithm2e}",
		"\\usepackage{minted}",
		"\\usepackage{paracol}",
		"\\columnratio{0.55}",
		"\\title{Graph walks}",
		"\\author{A. B.}",
		"\\begin{paracol}{2}",
		"\\begin{algorithm}\nbody\n\\end{algorithm}",
		"\\switchcolumn\n\\inputminted{python3}{src/sample/bench.py}",
		"\\end{paracol}",
		"\\end{document}",
	}
	pos := 0
	for _, want := range order {
		i := strings.Index(out[pos:], want)
		if i < 0 {
			t.Fatalf("%q missing or out of order in:\n%s", want, out)
		}
		pos += i + len(want)
	}
}

func TestAssembleSourceColumnNeedsPath(t *testing.T) {
	out := assemble(t, "body", Options{SourceColumn: true})
	if strings.Contains(out, "paracol") {
		t.Errorf("source column emitted without a path:\n%s", out)
	}
}

func TestAssembleEscapesMetadata(t *testing.T) {
	out := assemble(t, "body", Options{Title: "50% of R&D", Author: "a_b"})
	if !strings.Contains(out, `\title{50\% of R\&D}`) {
		t.Errorf("title not escaped:\n%s", out)
	}
	if !strings.Contains(out, `\author{a\_b}`) {
		t.Errorf("author not escaped:\n%s", out)
	}
}
