package pyast

import (
	"algotex/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena           *Arena[Expr]
	BoolOps         *Arena[BoolOpData]
	NamedExprs      *Arena[NamedExprData]
	BinOps          *Arena[BinOpData]
	UnaryOps        *Arena[UnaryOpData]
	Lambdas         *Arena[LambdaData]
	IfExps          *Arena[IfExpData]
	Dicts           *Arena[DictData]
	Comps           *Arena[CompData]
	Values          *Arena[ValueData]
	Compares        *Arena[CompareData]
	Calls           *Arena[CallData]
	FormattedValues *Arena[FormattedValueData]
	JoinedStrs      *Arena[JoinedStrData]
	Constants       *Arena[ConstantData]
	Attributes      *Arena[AttributeData]
	Subscripts      *Arena[SubscriptData]
	Starreds        *Arena[StarredData]
	Names           *Arena[NameData]
	Seqs            *Arena[SeqData]
	Slices          *Arena[SliceData]

	lines func(off uint32) uint32
}

// NewExprs creates expression arenas with capHint initial capacity (1<<8 when zero).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:           NewArena[Expr](capHint),
		BoolOps:         NewArena[BoolOpData](small),
		NamedExprs:      NewArena[NamedExprData](small),
		BinOps:          NewArena[BinOpData](capHint),
		UnaryOps:        NewArena[UnaryOpData](small),
		Lambdas:         NewArena[LambdaData](small),
		IfExps:          NewArena[IfExpData](small),
		Dicts:           NewArena[DictData](small),
		Comps:           NewArena[CompData](small),
		Values:          NewArena[ValueData](small),
		Compares:        NewArena[CompareData](small),
		Calls:           NewArena[CallData](capHint),
		FormattedValues: NewArena[FormattedValueData](small),
		JoinedStrs:      NewArena[JoinedStrData](small),
		Constants:       NewArena[ConstantData](capHint),
		Attributes:      NewArena[AttributeData](small),
		Subscripts:      NewArena[SubscriptData](small),
		Starreds:        NewArena[StarredData](small),
		Names:           NewArena[NameData](capHint),
		Seqs:            NewArena[SeqData](small),
		Slices:          NewArena[SliceData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	var line uint32
	if e.lines != nil {
		line = e.lines(span.Start)
	}
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Line:    line,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (PayloadID, bool) {
	ex := e.Get(id)
	if ex == nil {
		return NoPayloadID, false
	}
	for _, k := range kinds {
		if ex.Kind == k {
			return ex.Payload, true
		}
	}
	return NoPayloadID, false
}

func (e *Exprs) NewBoolOp(span source.Span, op BoolOp, values []ExprID) ExprID {
	return e.new(ExprBoolOp, span, e.BoolOps.Allocate(BoolOpData{Op: op, Values: values}))
}

func (e *Exprs) BoolOp(id ExprID) (*BoolOpData, bool) {
	p, ok := e.payload(id, ExprBoolOp)
	if !ok {
		return nil, false
	}
	return e.BoolOps.Get(uint32(p)), true
}

func (e *Exprs) NewNamedExpr(span source.Span, target, value ExprID) ExprID {
	return e.new(ExprNamedExpr, span, e.NamedExprs.Allocate(NamedExprData{Target: target, Value: value}))
}

func (e *Exprs) NamedExpr(id ExprID) (*NamedExprData, bool) {
	p, ok := e.payload(id, ExprNamedExpr)
	if !ok {
		return nil, false
	}
	return e.NamedExprs.Get(uint32(p)), true
}

// NewBinOp creates a new binary expression.
func (e *Exprs) NewBinOp(span source.Span, left ExprID, op BinaryOp, right ExprID) ExprID {
	return e.new(ExprBinOp, span, e.BinOps.Allocate(BinOpData{Left: left, Op: op, Right: right}))
}

// BinOp returns the binary data for the given expression ID.
func (e *Exprs) BinOp(id ExprID) (*BinOpData, bool) {
	p, ok := e.payload(id, ExprBinOp)
	if !ok {
		return nil, false
	}
	return e.BinOps.Get(uint32(p)), true
}

func (e *Exprs) NewUnaryOp(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnaryOp, span, e.UnaryOps.Allocate(UnaryOpData{Op: op, Operand: operand}))
}

func (e *Exprs) UnaryOp(id ExprID) (*UnaryOpData, bool) {
	p, ok := e.payload(id, ExprUnaryOp)
	if !ok {
		return nil, false
	}
	return e.UnaryOps.Get(uint32(p)), true
}

func (e *Exprs) NewLambda(span source.Span, args Arguments, body ExprID) ExprID {
	return e.new(ExprLambda, span, e.Lambdas.Allocate(LambdaData{Args: args, Body: body}))
}

func (e *Exprs) Lambda(id ExprID) (*LambdaData, bool) {
	p, ok := e.payload(id, ExprLambda)
	if !ok {
		return nil, false
	}
	return e.Lambdas.Get(uint32(p)), true
}

func (e *Exprs) NewIfExp(span source.Span, test, body, orelse ExprID) ExprID {
	return e.new(ExprIfExp, span, e.IfExps.Allocate(IfExpData{Test: test, Body: body, Orelse: orelse}))
}

func (e *Exprs) IfExp(id ExprID) (*IfExpData, bool) {
	p, ok := e.payload(id, ExprIfExp)
	if !ok {
		return nil, false
	}
	return e.IfExps.Get(uint32(p)), true
}

func (e *Exprs) NewDict(span source.Span, keys, values []ExprID) ExprID {
	return e.new(ExprDict, span, e.Dicts.Allocate(DictData{Keys: keys, Values: values}))
}

func (e *Exprs) Dict(id ExprID) (*DictData, bool) {
	p, ok := e.payload(id, ExprDict)
	if !ok {
		return nil, false
	}
	return e.Dicts.Get(uint32(p)), true
}

// NewComp creates ListComp, SetComp, DictComp or GeneratorExp depending on kind.
func (e *Exprs) NewComp(span source.Span, kind ExprKind, data CompData) ExprID {
	return e.new(kind, span, e.Comps.Allocate(data))
}

func (e *Exprs) Comp(id ExprID) (*CompData, bool) {
	p, ok := e.payload(id, ExprListComp, ExprSetComp, ExprDictComp, ExprGeneratorExp)
	if !ok {
		return nil, false
	}
	return e.Comps.Get(uint32(p)), true
}

// NewValue creates Await, Yield or YieldFrom depending on kind.
func (e *Exprs) NewValue(span source.Span, kind ExprKind, value ExprID) ExprID {
	return e.new(kind, span, e.Values.Allocate(ValueData{Value: value}))
}

func (e *Exprs) Value(id ExprID) (*ValueData, bool) {
	p, ok := e.payload(id, ExprAwait, ExprYield, ExprYieldFrom)
	if !ok {
		return nil, false
	}
	return e.Values.Get(uint32(p)), true
}

func (e *Exprs) NewCompare(span source.Span, left ExprID, ops []CmpOp, comparators []ExprID) ExprID {
	return e.new(ExprCompare, span, e.Compares.Allocate(CompareData{Left: left, Ops: ops, Comparators: comparators}))
}

func (e *Exprs) Compare(id ExprID) (*CompareData, bool) {
	p, ok := e.payload(id, ExprCompare)
	if !ok {
		return nil, false
	}
	return e.Compares.Get(uint32(p)), true
}

// NewCall creates a new function call expression.
func (e *Exprs) NewCall(span source.Span, fn ExprID, args []ExprID, keywords []Keyword) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(CallData{Func: fn, Args: args, Keywords: keywords}))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(uint32(p)), true
}

func (e *Exprs) NewFormattedValue(span source.Span, value ExprID, conv Conversion, spec ExprID) ExprID {
	return e.new(ExprFormattedValue, span, e.FormattedValues.Allocate(FormattedValueData{Value: value, Conversion: conv, FormatSpec: spec}))
}

func (e *Exprs) FormattedValue(id ExprID) (*FormattedValueData, bool) {
	p, ok := e.payload(id, ExprFormattedValue)
	if !ok {
		return nil, false
	}
	return e.FormattedValues.Get(uint32(p)), true
}

func (e *Exprs) NewJoinedStr(span source.Span, values []ExprID) ExprID {
	return e.new(ExprJoinedStr, span, e.JoinedStrs.Allocate(JoinedStrData{Values: values}))
}

func (e *Exprs) JoinedStr(id ExprID) (*JoinedStrData, bool) {
	p, ok := e.payload(id, ExprJoinedStr)
	if !ok {
		return nil, false
	}
	return e.JoinedStrs.Get(uint32(p)), true
}

// NewConstant creates a literal expression.
func (e *Exprs) NewConstant(span source.Span, data ConstantData) ExprID {
	return e.new(ExprConstant, span, e.Constants.Allocate(data))
}

// Constant returns the literal data for the given expression ID.
func (e *Exprs) Constant(id ExprID) (*ConstantData, bool) {
	p, ok := e.payload(id, ExprConstant)
	if !ok {
		return nil, false
	}
	return e.Constants.Get(uint32(p)), true
}

func (e *Exprs) NewAttribute(span source.Span, value ExprID, attr string, ctx ExprCtx) ExprID {
	return e.new(ExprAttribute, span, e.Attributes.Allocate(AttributeData{Value: value, Attr: attr, Ctx: ctx}))
}

func (e *Exprs) Attribute(id ExprID) (*AttributeData, bool) {
	p, ok := e.payload(id, ExprAttribute)
	if !ok {
		return nil, false
	}
	return e.Attributes.Get(uint32(p)), true
}

func (e *Exprs) NewSubscript(span source.Span, value, slice ExprID, ctx ExprCtx) ExprID {
	return e.new(ExprSubscript, span, e.Subscripts.Allocate(SubscriptData{Value: value, Slice: slice, Ctx: ctx}))
}

func (e *Exprs) Subscript(id ExprID) (*SubscriptData, bool) {
	p, ok := e.payload(id, ExprSubscript)
	if !ok {
		return nil, false
	}
	return e.Subscripts.Get(uint32(p)), true
}

func (e *Exprs) NewStarred(span source.Span, value ExprID, ctx ExprCtx) ExprID {
	return e.new(ExprStarred, span, e.Starreds.Allocate(StarredData{Value: value, Ctx: ctx}))
}

func (e *Exprs) Starred(id ExprID) (*StarredData, bool) {
	p, ok := e.payload(id, ExprStarred)
	if !ok {
		return nil, false
	}
	return e.Starreds.Get(uint32(p)), true
}

// NewName creates a new identifier expression.
func (e *Exprs) NewName(span source.Span, name string, ctx ExprCtx) ExprID {
	return e.new(ExprName, span, e.Names.Allocate(NameData{ID: name, Ctx: ctx}))
}

// Name returns the identifier data for the given expression ID.
func (e *Exprs) Name(id ExprID) (*NameData, bool) {
	p, ok := e.payload(id, ExprName)
	if !ok {
		return nil, false
	}
	return e.Names.Get(uint32(p)), true
}

// NewSeq creates List, Tuple or Set depending on kind.
func (e *Exprs) NewSeq(span source.Span, kind ExprKind, elts []ExprID, ctx ExprCtx) ExprID {
	return e.new(kind, span, e.Seqs.Allocate(SeqData{Elts: elts, Ctx: ctx}))
}

func (e *Exprs) Seq(id ExprID) (*SeqData, bool) {
	p, ok := e.payload(id, ExprList, ExprTuple, ExprSet)
	if !ok {
		return nil, false
	}
	return e.Seqs.Get(uint32(p)), true
}

func (e *Exprs) NewSlice(span source.Span, lower, upper, step ExprID) ExprID {
	return e.new(ExprSlice, span, e.Slices.Allocate(SliceData{Lower: lower, Upper: upper, Step: step}))
}

func (e *Exprs) Slice(id ExprID) (*SliceData, bool) {
	p, ok := e.payload(id, ExprSlice)
	if !ok {
		return nil, false
	}
	return e.Slices.Get(uint32(p)), true
}

// SetCtx rewrites the binding role of a target expression and of its nested
// elements (tuple/list unpacking, starred). It reports false when the
// expression cannot be a target.
func (e *Exprs) SetCtx(id ExprID, ctx ExprCtx) bool {
	ex := e.Get(id)
	if ex == nil {
		return false
	}
	switch ex.Kind {
	case ExprName:
		e.Names.Get(uint32(ex.Payload)).Ctx = ctx
	case ExprAttribute:
		e.Attributes.Get(uint32(ex.Payload)).Ctx = ctx
	case ExprSubscript:
		e.Subscripts.Get(uint32(ex.Payload)).Ctx = ctx
	case ExprStarred:
		st := e.Starreds.Get(uint32(ex.Payload))
		st.Ctx = ctx
		return e.SetCtx(st.Value, ctx)
	case ExprList, ExprTuple:
		seq := e.Seqs.Get(uint32(ex.Payload))
		seq.Ctx = ctx
		for _, el := range seq.Elts {
			if !e.SetCtx(el, ctx) {
				return false
			}
		}
	default:
		return false
	}
	return true
}
