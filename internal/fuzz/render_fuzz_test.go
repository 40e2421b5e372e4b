package fuzztests

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"algotex/internal/diag"
	"algotex/internal/naming"
	"algotex/internal/parser"
	"algotex/internal/render"
	"algotex/internal/source"
)

// FuzzRender feeds every syntactically valid input to the renderer. A render
// either fails with one of the render sentinels or produces markup whose
// math runs are closed.
func FuzzRender(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.py", clampInput(input)))
		bag := diag.NewBag(32)
		res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 32})
		if bag.HasErrors() {
			return
		}

		var out bytes.Buffer
		err := render.Render(res.Tree, &out, render.Options{Normalizer: naming.New("print")})
		if err != nil {
			if !isRenderError(err) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if out.Len() != 0 {
				t.Fatalf("failed render wrote %d bytes", out.Len())
			}
			return
		}
		if n := unescapedDollars(out.String()); n%2 != 0 {
			t.Fatalf("unbalanced math runs (%d '$'):\n%s", n, out.String())
		}
	})
}

func isRenderError(err error) bool {
	for _, kind := range []error{
		render.ErrUnsupportedLiteral,
		render.ErrUnexpectedOperator,
		render.ErrUnhandledConstruct,
		render.ErrTooDeep,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// unescapedDollars counts '$' not written as "\$".
func unescapedDollars(s string) int {
	return strings.Count(s, "$") - strings.Count(s, `\$`)
}
