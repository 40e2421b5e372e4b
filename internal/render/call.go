package render

import (
	"algotex/internal/collect"
	"algotex/internal/pyast"
)

// bracketed builtins render as open args close.
var bracketed = map[string][2]string{
	"len":   {`\lvert`, `\rvert`},
	"abs":   {`\lVert`, `\rVert`},
	"ceil":  {`\lceil`, `\rceil`},
	"floor": {`\lfloor`, `\rfloor`},
	"min":   {`\min(`, `)`},
	"max":   {`\max(`, `)`},
}

var quantifiers = map[string]string{
	"all": `\forall`,
	"any": `\exists`,
}

func (r *Renderer) call(id pyast.ExprID) error {
	n := pyast.ExprNode(id)
	d, _ := r.tree.Exprs.Call(id)
	if builtin, ok := collect.Symbolic(r.tree, d.Func); ok {
		return r.builtin(builtin, d)
	}
	name, ok := collect.CallName(r.tree, d.Func, r.opts.Normalizer)
	if !ok {
		return r.fail(ErrUnhandledConstruct, n, "call of "+r.tree.Label(pyast.ExprNode(d.Func)))
	}
	r.w.tokenEnd(`\`+name, noMath, "")
	r.w.token("{", noMath)
	if err := r.arguments(d, ""); err != nil {
		return err
	}
	r.w.token("}", noMath)
	return nil
}

// arguments renders positional then keyword arguments, separated by sep
// when sep is non-empty.
func (r *Renderer) arguments(d *pyast.CallData, sep string) error {
	if err := r.joined(d.Args, sep); err != nil {
		return err
	}
	for i, kw := range d.Keywords {
		if sep != "" && (i > 0 || len(d.Args) > 0) {
			r.w.token(sep, neutral)
		}
		if kw.Arg == "" {
			r.w.token("**", neutral)
		} else {
			r.w.token(kw.Arg+"=", noMath)
		}
		if err := r.expr(kw.Value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) builtin(name string, d *pyast.CallData) error {
	if q, ok := quantifiers[name]; ok {
		r.w.token(q, inMath)
		return r.arguments(d, "")
	}
	if name == "set" {
		return r.braced(len(d.Args) == 0 && len(d.Keywords) == 0, func() error {
			return r.arguments(d, "")
		})
	}
	pair := bracketed[name]
	sep := ""
	if name == "min" || name == "max" {
		sep = ","
	}
	r.w.token(pair[0], inMath)
	if err := r.arguments(d, sep); err != nil {
		return err
	}
	r.w.token(pair[1], inMath)
	return nil
}
