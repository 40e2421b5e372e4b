package pyast

// ExprCtx is the binding role of a name-like target.
type ExprCtx uint8

const (
	Load ExprCtx = iota
	Store
	Del
)

func (c ExprCtx) String() string {
	switch c {
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Load"
	}
}

// LitKind is decided by the parser from the literal token.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitComplex
	LitStr
	LitBytes
	LitBool
	LitNone
	LitEllipsis
)

var litNames = [...]string{
	LitInt: "int", LitFloat: "float", LitComplex: "complex", LitStr: "str",
	LitBytes: "bytes", LitBool: "bool", LitNone: "None", LitEllipsis: "Ellipsis",
}

func (k LitKind) String() string {
	if int(k) < len(litNames) {
		return litNames[k]
	}
	return "LitKind(?)"
}

type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var binaryNames = [...]string{
	Add: "Add", Sub: "Sub", Mult: "Mult", MatMult: "MatMult", Div: "Div", Mod: "Mod",
	Pow: "Pow", LShift: "LShift", RShift: "RShift", BitOr: "BitOr", BitXor: "BitXor",
	BitAnd: "BitAnd", FloorDiv: "FloorDiv",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "BinaryOp(?)"
}

type UnaryOp uint8

const (
	Invert UnaryOp = iota
	Not
	UAdd
	USub
)

func (op UnaryOp) String() string {
	switch op {
	case Invert:
		return "Invert"
	case Not:
		return "Not"
	case UAdd:
		return "UAdd"
	case USub:
		return "USub"
	}
	return "UnaryOp(?)"
}

type BoolOp uint8

const (
	And BoolOp = iota
	Or
)

func (op BoolOp) String() string {
	if op == Or {
		return "Or"
	}
	return "And"
}

type CmpOp uint8

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpNames = [...]string{
	Eq: "Eq", NotEq: "NotEq", Lt: "Lt", LtE: "LtE", Gt: "Gt", GtE: "GtE",
	Is: "Is", IsNot: "IsNot", In: "In", NotIn: "NotIn",
}

func (op CmpOp) String() string {
	if int(op) < len(cmpNames) {
		return cmpNames[op]
	}
	return "CmpOp(?)"
}

// Conversion of a formatted value: -1 (none), 's', 'r' or 'a'.
type Conversion int

const NoConversion Conversion = -1
