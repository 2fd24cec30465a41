// Package tast holds the typed AST produced by the generator.
//
// Every expression embeds the resolve.ExprID assigned when its type was
// fixed, so later stages can ask the resolve context about it. Children are
// owned pointers; the tree is never shared between functions.
package tast

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// ExprKind enumerates typed expression kinds.
type ExprKind uint8

const (
	// ExprLiteral is a bool, char, float or string literal.
	ExprLiteral ExprKind = iota
	// ExprIntValue is an integer known at compile time: a literal or a folded
	// intrinsic.
	ExprIntValue
	ExprBindingRef
	ExprConstRef
	ExprFnRef
	ExprUnary
	ExprBinary
	ExprCall
	ExprField
	ExprTupleIndex
	ExprIndex
	ExprDeref
	ExprAddrOf
	ExprStructLit
	ExprArrayLit
	ExprTupleLit
	ExprCast
	ExprBlock
	ExprIf
	ExprWhile
	ExprFor
	ExprReturn
	ExprBreak
	ExprContinue
	// ExprWrap tags a value into the variant type of the expression.
	ExprWrap
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIntValue:
		return "IntValue"
	case ExprBindingRef:
		return "BindingRef"
	case ExprConstRef:
		return "ConstRef"
	case ExprFnRef:
		return "FnRef"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprField:
		return "Field"
	case ExprTupleIndex:
		return "TupleIndex"
	case ExprIndex:
		return "Index"
	case ExprDeref:
		return "Deref"
	case ExprAddrOf:
		return "AddrOf"
	case ExprStructLit:
		return "StructLit"
	case ExprArrayLit:
		return "ArrayLit"
	case ExprTupleLit:
		return "TupleLit"
	case ExprCast:
		return "Cast"
	case ExprBlock:
		return "Block"
	case ExprIf:
		return "If"
	case ExprWhile:
		return "While"
	case ExprFor:
		return "For"
	case ExprReturn:
		return "Return"
	case ExprBreak:
		return "Break"
	case ExprContinue:
		return "Continue"
	case ExprWrap:
		return "Wrap"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression. Ty repeats the type stored for ID.
type Expr struct {
	Kind ExprKind
	ID   resolve.ExprID
	Ty   types.TyID
	Span source.Span
	Data ExprData // nil for Break and Continue
}

// ExprData is implemented by every kind-specific payload.
type ExprData interface {
	exprData()
}

// LiteralKind tells which literal an ExprLiteral holds.
type LiteralKind uint8

const (
	LiteralBool LiteralKind = iota
	LiteralChar
	LiteralFloat
	LiteralString
)

// LiteralData holds the decoded value of a literal.
type LiteralData struct {
	Kind  LiteralKind
	Bool  bool
	Char  rune
	Float float64
	Str   string // unquoted
}

func (LiteralData) exprData() {}

type IntValueData struct {
	Value *big.Int
}

func (IntValueData) exprData() {}

type BindingRefData struct {
	Binding resolve.BindingID
	Global  bool
}

func (BindingRefData) exprData() {}

type ConstRefData struct {
	Const resolve.ConstID
}

func (ConstRefData) exprData() {}

type FnRefData struct {
	Const resolve.ConstID
	Item  resolve.ItemID
}

func (FnRefData) exprData() {}

// UnaryOp is an arithmetic or logical prefix operator.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "~"
	}
}

type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

type BinaryData struct {
	Op  BinaryOp
	Lhs *Expr
	Rhs *Expr
}

func (BinaryData) exprData() {}

type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// FieldData is a struct field access; Offset is the laid-out byte offset.
type FieldData struct {
	Base   *Expr
	Field  symbol.Symbol
	Index  int
	Offset uint64
}

func (FieldData) exprData() {}

type TupleIndexData struct {
	Base  *Expr
	Index uint32
}

func (TupleIndexData) exprData() {}

type IndexData struct {
	Base  *Expr
	Index *Expr
}

func (IndexData) exprData() {}

type DerefData struct {
	Operand *Expr
}

func (DerefData) exprData() {}

type AddrOfData struct {
	Operand *Expr
	Mutable bool
}

func (AddrOfData) exprData() {}

// FieldInit initializes one struct field; Index is its declaration index.
type FieldInit struct {
	Field symbol.Symbol
	Index int
	Value *Expr
}

// StructLitData lists initializers in declaration order of the struct.
type StructLitData struct {
	Fields []FieldInit
}

func (StructLitData) exprData() {}

type ArrayLitData struct {
	Elems []*Expr
}

func (ArrayLitData) exprData() {}

type TupleLitData struct {
	Elems []*Expr
}

func (TupleLitData) exprData() {}

type CastData struct {
	Value *Expr
}

func (CastData) exprData() {}

type BlockData struct {
	Block *Block
}

func (BlockData) exprData() {}

type IfData struct {
	Cond *Expr
	Then *Block
	Else *Expr // nil, ExprBlock or ExprIf
}

func (IfData) exprData() {}

type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) exprData() {}

// ForData is a C-style loop. Init and Step may be nil; Frame holds the
// binding introduced by Init.
type ForData struct {
	Frame resolve.FrameID
	Init  *Stmt
	Cond  *Expr
	Step  *Stmt
	Body  *Block
}

func (ForData) exprData() {}

type ReturnData struct {
	Value *Expr // nil returns unit
}

func (ReturnData) exprData() {}

// WrapData tags Value into the variant Expr.Ty with Tag.
type WrapData struct {
	Value *Expr
	Tag   int
}

func (WrapData) exprData() {}

// Block is a sequence of statements with an optional tail value.
type Block struct {
	Frame resolve.FrameID
	Stmts []*Stmt
	Tail  *Expr
	Span  source.Span
}
