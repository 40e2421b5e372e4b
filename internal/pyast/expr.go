package pyast

import (
	"algotex/internal/source"
)

type ExprKind uint8

const (
	ExprBoolOp ExprKind = iota
	ExprNamedExpr
	ExprBinOp
	ExprUnaryOp
	ExprLambda
	ExprIfExp
	ExprDict
	ExprSet
	ExprListComp
	ExprSetComp
	ExprDictComp
	ExprGeneratorExp
	ExprAwait
	ExprYield
	ExprYieldFrom
	ExprCompare
	ExprCall
	ExprFormattedValue
	ExprJoinedStr
	ExprConstant
	ExprAttribute
	ExprSubscript
	ExprStarred
	ExprName
	ExprList
	ExprTuple
	ExprSlice

	exprKindCount
)

var exprNames = [...]string{
	ExprBoolOp: "BoolOp", ExprNamedExpr: "NamedExpr", ExprBinOp: "BinOp",
	ExprUnaryOp: "UnaryOp", ExprLambda: "Lambda", ExprIfExp: "IfExp", ExprDict: "Dict",
	ExprSet: "Set", ExprListComp: "ListComp", ExprSetComp: "SetComp",
	ExprDictComp: "DictComp", ExprGeneratorExp: "GeneratorExp", ExprAwait: "Await",
	ExprYield: "Yield", ExprYieldFrom: "YieldFrom", ExprCompare: "Compare",
	ExprCall: "Call", ExprFormattedValue: "FormattedValue", ExprJoinedStr: "JoinedStr",
	ExprConstant: "Constant", ExprAttribute: "Attribute", ExprSubscript: "Subscript",
	ExprStarred: "Starred", ExprName: "Name", ExprList: "List", ExprTuple: "Tuple",
	ExprSlice: "Slice",
}

func (k ExprKind) String() string {
	if k < exprKindCount {
		return exprNames[k]
	}
	return "ExprKind(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Line    uint32 // 1-based
	Payload PayloadID
}

type BoolOpData struct {
	Op     BoolOp
	Values []ExprID
}

type NamedExprData struct {
	Target ExprID
	Value  ExprID
}

type BinOpData struct {
	Left  ExprID
	Op    BinaryOp
	Right ExprID
}

type UnaryOpData struct {
	Op      UnaryOp
	Operand ExprID
}

type LambdaData struct {
	Args Arguments
	Body ExprID
}

type IfExpData struct {
	Test   ExprID
	Body   ExprID
	Orelse ExprID
}

// DictData keeps parallel slices; a NoExprID key marks a **mapping unpack.
type DictData struct {
	Keys   []ExprID
	Values []ExprID
}

type Comprehension struct {
	Target  ExprID
	Iter    ExprID
	Ifs     []ExprID
	IsAsync bool
}

// CompData serves ListComp, SetComp, DictComp (Key+Elt) and GeneratorExp.
type CompData struct {
	Key        ExprID // только DictComp
	Elt        ExprID
	Generators []Comprehension
}

// ValueData serves Await, Yield and YieldFrom; Yield may have no value.
type ValueData struct {
	Value ExprID
}

type CompareData struct {
	Left        ExprID
	Ops         []CmpOp
	Comparators []ExprID
}

// Keyword is a call keyword argument; Arg is empty for **kwargs.
type Keyword struct {
	Arg   string
	Value ExprID
	Span  source.Span
}

type CallData struct {
	Func     ExprID
	Args     []ExprID
	Keywords []Keyword
}

type FormattedValueData struct {
	Value      ExprID
	Conversion Conversion
	FormatSpec ExprID // JoinedStr или NoExprID
}

type JoinedStrData struct {
	Values []ExprID
}

// ConstantData: Text is the literal as written (numbers keep their digits),
// Str the decoded value of str/bytes literals, Bool the truth value.
type ConstantData struct {
	Kind LitKind
	Text string
	Str  string
	Bool bool
}

type AttributeData struct {
	Value ExprID
	Attr  string
	Ctx   ExprCtx
}

type SubscriptData struct {
	Value ExprID
	Slice ExprID
	Ctx   ExprCtx
}

type StarredData struct {
	Value ExprID
	Ctx   ExprCtx
}

type NameData struct {
	ID  string
	Ctx ExprCtx
}

// SeqData serves List, Tuple and Set (Ctx is always Load for Set).
type SeqData struct {
	Elts []ExprID
	Ctx  ExprCtx
}

type SliceData struct {
	Lower ExprID
	Upper ExprID
	Step  ExprID
}
