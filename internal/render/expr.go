package render

import (
	"algotex/internal/pyast"
)

type symbol struct {
	text string
	m    mode
}

var binarySymbols = map[pyast.BinaryOp]symbol{
	pyast.Add:     {"+", neutral},
	pyast.Sub:     {"-", neutral},
	pyast.Mult:    {`\cdot`, inMath},
	pyast.Mod:     {`\mod`, inMath},
	pyast.LShift:  {`\ll`, inMath},
	pyast.RShift:  {`\gg`, inMath},
	pyast.BitOr:   {`\mathbin{|}`, inMath},
	pyast.BitAnd:  {`\mathbin{\&}`, inMath},
	pyast.BitXor:  {`\mathbin{\oplus}`, inMath},
	pyast.MatMult: {`\times`, inMath},
}

var unarySymbols = map[pyast.UnaryOp]symbol{
	pyast.UAdd:   {"+", neutral},
	pyast.USub:   {"-", neutral},
	pyast.Not:    {`\neg`, inMath},
	pyast.Invert: {`\mathord{\sim}`, inMath},
}

var compareSymbols = map[pyast.CmpOp]string{
	pyast.Eq:    "=",
	pyast.NotEq: `\ne`,
	pyast.Lt:    "<",
	pyast.LtE:   `\leq`,
	pyast.Gt:    ">",
	pyast.GtE:   `\geq`,
	pyast.Is:    `\equiv`,
	pyast.IsNot: `\not\equiv`,
	pyast.In:    `\in`,
	pyast.NotIn: `\not\in`,
}

var boolSymbols = map[pyast.BoolOp]string{
	pyast.And: `\land`,
	pyast.Or:  `\lor`,
}

func (r *Renderer) expr(id pyast.ExprID) error {
	n := pyast.ExprNode(id)
	ex := r.tree.Exprs.Get(id)
	if ex == nil {
		return r.fail(ErrUnhandledConstruct, n, "missing expression")
	}
	if err := r.enter(n); err != nil {
		return err
	}
	defer r.leave()

	switch ex.Kind {
	case pyast.ExprConstant:
		return r.constant(id)
	case pyast.ExprName:
		r.name(id)
		return nil
	case pyast.ExprBinOp:
		d, _ := r.tree.Exprs.BinOp(id)
		return r.binary(n, d.Op,
			func() error { return r.expr(d.Left) },
			func() error { return r.expr(d.Right) })
	case pyast.ExprBoolOp:
		return r.boolOp(id)
	case pyast.ExprCompare:
		return r.compare(id)
	case pyast.ExprUnaryOp:
		return r.unary(id)
	case pyast.ExprCall:
		return r.call(id)
	case pyast.ExprAttribute:
		return r.attribute(id)
	case pyast.ExprSubscript:
		return r.subscript(id)
	case pyast.ExprSlice:
		return r.slice(id)
	case pyast.ExprList, pyast.ExprTuple:
		return r.sequence(id, ex.Kind)
	case pyast.ExprSet:
		return r.set(id)
	case pyast.ExprDict:
		return r.dict(id)
	case pyast.ExprStarred:
		d, _ := r.tree.Exprs.Starred(id)
		r.w.token("*", neutral)
		return r.expr(d.Value)
	case pyast.ExprNamedExpr:
		d, _ := r.tree.Exprs.NamedExpr(id)
		if err := r.plainExpr(d.Target); err != nil {
			return err
		}
		r.w.token(":=", neutral)
		return r.expr(d.Value)
	case pyast.ExprIfExp:
		return r.ifExp(id)
	case pyast.ExprLambda:
		d, _ := r.tree.Exprs.Lambda(id)
		r.w.token(`\lambda`, inMath)
		r.params(&d.Args)
		r.w.token(":", neutral)
		return r.expr(d.Body)
	case pyast.ExprJoinedStr:
		return r.joinedStr(id)
	case pyast.ExprFormattedValue:
		return r.formattedValue(id)
	case pyast.ExprYield, pyast.ExprYieldFrom:
		d, _ := r.tree.Exprs.Value(id)
		kw := `\KwYield`
		if ex.Kind == pyast.ExprYieldFrom {
			kw = `\KwYieldFrom`
		}
		r.w.token(kw, noMath)
		if !d.Value.IsValid() {
			return nil
		}
		return r.expr(d.Value)
	case pyast.ExprListComp, pyast.ExprSetComp, pyast.ExprDictComp,
		pyast.ExprGeneratorExp, pyast.ExprAwait:
		return r.fail(ErrUnhandledConstruct, n, "")
	}
	return r.fail(ErrUnhandledConstruct, n, "unknown expression kind")
}

// plainExpr renders a store or delete target as if it were read: no arrow,
// no DEL marker.
func (r *Renderer) plainExpr(id pyast.ExprID) error {
	r.plain++
	defer func() { r.plain-- }()
	return r.expr(id)
}

// joined renders ids separated by sep (neutral).
func (r *Renderer) joined(ids []pyast.ExprID, sep string) error {
	for i, id := range ids {
		if i > 0 && sep != "" {
			r.w.token(sep, neutral)
		}
		if err := r.expr(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) constant(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Constant(id)
	switch d.Kind {
	case pyast.LitBool:
		if d.Bool {
			r.w.token(`\top`, inMath)
		} else {
			r.w.token(`\bot`, inMath)
		}
	case pyast.LitInt:
		r.w.token(intText(d.Text), neutral)
	case pyast.LitFloat:
		r.w.token(floatText(d.Text), neutral)
	case pyast.LitStr:
		r.w.token("``"+r.text(d.Str)+"''", noMath)
	case pyast.LitNone:
		r.w.token(`\blacktriangle`, inMath)
	default:
		return r.fail(ErrUnsupportedLiteral, pyast.ExprNode(id), d.Kind.String())
	}
	return nil
}

func (r *Renderer) name(id pyast.ExprID) {
	d, _ := r.tree.Exprs.Name(id)
	switch {
	case r.plain > 0 || d.Ctx == pyast.Load:
		r.w.token(d.ID, inMath)
	case d.Ctx == pyast.Store:
		r.w.token(d.ID+` \gets`, inMath)
	default:
		r.w.token("DEL "+d.ID, noMath)
	}
}

// targetOpen and targetClose frame a compound store/delete target.
func (r *Renderer) targetOpen(ctx pyast.ExprCtx) {
	if ctx == pyast.Del && r.plain == 0 {
		r.w.token("DEL", noMath)
	}
}

func (r *Renderer) targetClose(ctx pyast.ExprCtx) {
	if ctx == pyast.Store && r.plain == 0 {
		r.w.token(`\gets`, inMath)
	}
}

func (r *Renderer) binary(n pyast.Node, op pyast.BinaryOp, left, right func() error) error {
	switch op {
	case pyast.Div, pyast.FloorDiv:
		floor := op == pyast.FloorDiv
		if floor {
			r.w.token(`\lfloor`, inMath)
		}
		r.w.token(`\frac{`, inMath)
		if err := left(); err != nil {
			return err
		}
		r.w.token(`}{`, neutral)
		if err := right(); err != nil {
			return err
		}
		r.w.token(`}`, inMath)
		if floor {
			r.w.token(`\rfloor`, inMath)
		}
		return nil
	case pyast.Pow:
		if err := left(); err != nil {
			return err
		}
		r.w.token(`^{`, inMath)
		if err := right(); err != nil {
			return err
		}
		r.w.token(`}`, inMath)
		return nil
	}
	sym, ok := binarySymbols[op]
	if !ok {
		return r.fail(ErrUnexpectedOperator, n, op.String())
	}
	if err := left(); err != nil {
		return err
	}
	r.w.token(sym.text, sym.m)
	return right()
}

func (r *Renderer) boolOp(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.BoolOp(id)
	sym, ok := boolSymbols[d.Op]
	if !ok {
		return r.fail(ErrUnexpectedOperator, pyast.ExprNode(id), d.Op.String())
	}
	for i, v := range d.Values {
		if i > 0 {
			r.w.token(sym, inMath)
		}
		if err := r.expr(v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) compare(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Compare(id)
	if err := r.expr(d.Left); err != nil {
		return err
	}
	for i, op := range d.Ops {
		sym, ok := compareSymbols[op]
		if !ok {
			return r.fail(ErrUnexpectedOperator, pyast.ExprNode(id), op.String())
		}
		r.w.token(sym, inMath)
		if err := r.expr(d.Comparators[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) unary(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.UnaryOp(id)
	sym, ok := unarySymbols[d.Op]
	if !ok {
		return r.fail(ErrUnexpectedOperator, pyast.ExprNode(id), d.Op.String())
	}
	r.w.token(sym.text, sym.m)
	return r.expr(d.Operand)
}

func (r *Renderer) attribute(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Attribute(id)
	r.targetOpen(d.Ctx)
	if err := r.expr(d.Value); err != nil {
		return err
	}
	r.w.token("."+d.Attr, noMath)
	r.targetClose(d.Ctx)
	return nil
}

func (r *Renderer) subscript(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Subscript(id)
	r.targetOpen(d.Ctx)
	if err := r.expr(d.Value); err != nil {
		return err
	}
	r.w.token("[", neutral)
	var err error
	// a[i, j] без скобок кортежа
	if tup, ok := r.tree.Exprs.Seq(d.Slice); ok && r.tree.Exprs.Get(d.Slice).Kind == pyast.ExprTuple {
		err = r.joined(tup.Elts, ",")
	} else {
		err = r.expr(d.Slice)
	}
	if err != nil {
		return err
	}
	r.w.token("]", neutral)
	r.targetClose(d.Ctx)
	return nil
}

func (r *Renderer) slice(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Slice(id)
	part := func(e pyast.ExprID) error {
		if !e.IsValid() {
			return nil
		}
		return r.expr(e)
	}
	if err := part(d.Lower); err != nil {
		return err
	}
	r.w.token(":", neutral)
	if err := part(d.Upper); err != nil {
		return err
	}
	if !d.Step.IsValid() {
		return nil
	}
	r.w.token(":", neutral)
	return r.expr(d.Step)
}

// sequence renders a list or tuple. As an assignment target the whole
// sequence gets one arrow, its elements are rendered plain.
func (r *Renderer) sequence(id pyast.ExprID, kind pyast.ExprKind) error {
	d, _ := r.tree.Exprs.Seq(id)
	open, closing := "[", "]"
	if kind == pyast.ExprTuple {
		open, closing = "(", ")"
	}
	r.targetOpen(d.Ctx)
	r.plain++
	r.w.token(open, neutral)
	err := r.joined(d.Elts, ",")
	r.plain--
	if err != nil {
		return err
	}
	r.w.token(closing, neutral)
	r.targetClose(d.Ctx)
	return nil
}

func (r *Renderer) set(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Seq(id)
	return r.braced(len(d.Elts) == 0, func() error { return r.joined(d.Elts, ",") })
}

// braced emits \{ body \} or \emptyset when empty.
func (r *Renderer) braced(empty bool, body func() error) error {
	if empty {
		r.w.token(`\emptyset`, inMath)
		return nil
	}
	r.w.token(`\{`, inMath)
	if err := body(); err != nil {
		return err
	}
	r.w.token(`\}`, inMath)
	return nil
}

func (r *Renderer) dict(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.Dict(id)
	if len(d.Values) == 0 {
		r.w.token(`\{\}`, inMath)
		return nil
	}
	r.w.token(`\{`, inMath)
	for i, v := range d.Values {
		if i > 0 {
			r.w.token(",", neutral)
		}
		if k := d.Keys[i]; k.IsValid() {
			if err := r.expr(k); err != nil {
				return err
			}
			r.w.token(`\mapsto`, inMath)
		} else {
			r.w.token("**", neutral)
		}
		if err := r.expr(v); err != nil {
			return err
		}
	}
	r.w.token(`\}`, inMath)
	return nil
}

func (r *Renderer) ifExp(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.IfExp(id)
	if err := r.expr(d.Body); err != nil {
		return err
	}
	r.w.token(`\text{ if }`, inMath)
	if err := r.expr(d.Test); err != nil {
		return err
	}
	r.w.token(`\text{ else }`, inMath)
	return r.expr(d.Orelse)
}

func (r *Renderer) joinedStr(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.JoinedStr(id)
	r.w.token("f'", noMath)
	if err := r.joined(d.Values, ""); err != nil {
		return err
	}
	r.w.token("'", noMath)
	return nil
}

func (r *Renderer) formattedValue(id pyast.ExprID) error {
	d, _ := r.tree.Exprs.FormattedValue(id)
	if err := r.expr(d.Value); err != nil {
		return err
	}
	if d.Conversion != pyast.NoConversion {
		r.w.token("!"+string(rune(d.Conversion)), neutral)
	}
	spec, ok := r.tree.Exprs.JoinedStr(d.FormatSpec)
	if !ok {
		return nil
	}
	r.w.token(":", neutral)
	return r.joined(spec.Values, "")
}
