package pyast

import "algotex/internal/source"

// Arg is a single parameter of a def or lambda.
type Arg struct {
	Name       string
	Annotation ExprID
	Span       source.Span
	Line       uint32
}

// Arguments mirrors a Python parameter list.
// Defaults align with the tail of PosOnly+Args; KwDefaults align with KwOnly
// (NoExprID where a keyword-only parameter has no default).
type Arguments struct {
	PosOnly    []Arg
	Args       []Arg
	Vararg     *Arg
	KwOnly     []Arg
	KwDefaults []ExprID
	Kwarg      *Arg
	Defaults   []ExprID
}

// Positional returns PosOnly followed by Args.
func (a *Arguments) Positional() []Arg {
	out := make([]Arg, 0, len(a.PosOnly)+len(a.Args))
	out = append(out, a.PosOnly...)
	return append(out, a.Args...)
}

// Named returns the parameters in declaration order without the */** collectors.
func (a *Arguments) Named() []Arg {
	return append(a.Positional(), a.KwOnly...)
}

// Empty reports whether the list declares no parameters at all.
func (a *Arguments) Empty() bool {
	return len(a.PosOnly) == 0 && len(a.Args) == 0 && a.Vararg == nil &&
		len(a.KwOnly) == 0 && a.Kwarg == nil
}
