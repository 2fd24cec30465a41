package ast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprUnary
	ExprBinary
	ExprCast
	ExprCall
	ExprIndex
	ExprMember
	ExprTupleIndex
	ExprStruct
	ExprArray
	ExprTuple
	ExprBlock
	ExprIf
	ExprIntrinsic
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type UnaryOp uint8

const (
	UnaryNeg     UnaryOp = iota // -x
	UnaryNot                    // !x
	UnaryBitNot                 // ~x
	UnaryAddr                   // &x
	UnaryAddrMut                // &mut x
	UnaryDeref                  // *x
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "~"
	case UnaryAddr:
		return "&"
	case UnaryAddrMut:
		return "&mut "
	case UnaryDeref:
		return "*"
	}
	return "?"
}

type ExprIdentData struct {
	Sym symbol.Symbol
}

// ExprLitData holds a literal. Kind is a literal token kind, or Keyword for
// true and false; Sym is the interned source text.
type ExprLitData struct {
	Kind token.Kind
	Sym  symbol.Symbol
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op  token.Kind
	Lhs ExprID
	Rhs ExprID
}

type ExprCastData struct {
	Value ExprID
	Ty    TypeID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Base  ExprID
	Index ExprID
}

// ExprMemberData is `base.field`. When base names a module the generator
// reads it as a path instead.
type ExprMemberData struct {
	Base  ExprID
	Field Symbol
}

type ExprTupleIndexData struct {
	Base  ExprID
	Index uint32
}

type FieldInit struct {
	Name  Symbol
	Value ExprID
}

type ExprStructData struct {
	Ty     TypeID
	Fields []FieldInit
}

// ExprListData backs array and tuple literals.
type ExprListData struct {
	Elems []ExprID
}

type ExprBlockData struct {
	Stmts []StmtID
	Tail  ExprID // optional value of the block
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID // ExprBlock
	Else ExprID // optional, ExprBlock or ExprIf
}

// ExprIntrinsicData is size_of(T), align_of(T) or offset_of(T, field).
type ExprIntrinsicData struct {
	Name  symbol.Symbol // KwSizeOf, KwAlignOf or KwOffsetOf
	Ty    TypeID
	Field Symbol
}

type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Literals     *Arena[ExprLitData]
	Unaries      *Arena[ExprUnaryData]
	Binaries     *Arena[ExprBinaryData]
	Casts        *Arena[ExprCastData]
	Calls        *Arena[ExprCallData]
	Indices      *Arena[ExprIndexData]
	Members      *Arena[ExprMemberData]
	TupleIndices *Arena[ExprTupleIndexData]
	Structs      *Arena[ExprStructData]
	Lists        *Arena[ExprListData]
	Blocks       *Arena[ExprBlockData]
	Ifs          *Arena[ExprIfData]
	Intrinsics   *Arena[ExprIntrinsicData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint / 2),
		Literals:     NewArena[ExprLitData](capHint / 2),
		Unaries:      NewArena[ExprUnaryData](small),
		Binaries:     NewArena[ExprBinaryData](capHint / 4),
		Casts:        NewArena[ExprCastData](small),
		Calls:        NewArena[ExprCallData](small),
		Indices:      NewArena[ExprIndexData](small),
		Members:      NewArena[ExprMemberData](small),
		TupleIndices: NewArena[ExprTupleIndexData](small),
		Structs:      NewArena[ExprStructData](small),
		Lists:        NewArena[ExprListData](small),
		Blocks:       NewArena[ExprBlockData](small),
		Ifs:          NewArena[ExprIfData](small),
		Intrinsics:   NewArena[ExprIntrinsicData](small),
	}
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) new(kind ExprKind, sp source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (e *Exprs) NewIdent(sp source.Span, sym symbol.Symbol) ExprID {
	return e.new(ExprIdent, sp, e.Idents.Allocate(ExprIdentData{Sym: sym}))
}

func (e *Exprs) NewLit(sp source.Span, kind token.Kind, sym symbol.Symbol) ExprID {
	return e.new(ExprLit, sp, e.Literals.Allocate(ExprLitData{Kind: kind, Sym: sym}))
}

func (e *Exprs) NewUnary(sp source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, sp, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) NewBinary(sp source.Span, op token.Kind, lhs, rhs ExprID) ExprID {
	return e.new(ExprBinary, sp, e.Binaries.Allocate(ExprBinaryData{Op: op, Lhs: lhs, Rhs: rhs}))
}

func (e *Exprs) NewCast(sp source.Span, value ExprID, ty TypeID) ExprID {
	return e.new(ExprCast, sp, e.Casts.Allocate(ExprCastData{Value: value, Ty: ty}))
}

func (e *Exprs) NewCall(sp source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, sp, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) NewIndex(sp source.Span, base, index ExprID) ExprID {
	return e.new(ExprIndex, sp, e.Indices.Allocate(ExprIndexData{Base: base, Index: index}))
}

func (e *Exprs) NewMember(sp source.Span, base ExprID, field Symbol) ExprID {
	return e.new(ExprMember, sp, e.Members.Allocate(ExprMemberData{Base: base, Field: field}))
}

func (e *Exprs) NewTupleIndex(sp source.Span, base ExprID, index uint32) ExprID {
	return e.new(ExprTupleIndex, sp, e.TupleIndices.Allocate(ExprTupleIndexData{Base: base, Index: index}))
}

func (e *Exprs) NewStruct(sp source.Span, ty TypeID, fields []FieldInit) ExprID {
	return e.new(ExprStruct, sp, e.Structs.Allocate(ExprStructData{Ty: ty, Fields: fields}))
}

func (e *Exprs) NewArray(sp source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, sp, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) NewTuple(sp source.Span, elems []ExprID) ExprID {
	return e.new(ExprTuple, sp, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) NewBlock(sp source.Span, stmts []StmtID, tail ExprID) ExprID {
	return e.new(ExprBlock, sp, e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Tail: tail}))
}

func (e *Exprs) NewIf(sp source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, sp, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) NewIntrinsic(sp source.Span, data ExprIntrinsicData) ExprID {
	return e.new(ExprIntrinsic, sp, e.Intrinsics.Allocate(data))
}

func (e *Exprs) Ident(id ExprID) *ExprIdentData {
	if x := e.Get(id); x != nil && x.Kind == ExprIdent {
		return e.Idents.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Lit(id ExprID) *ExprLitData {
	if x := e.Get(id); x != nil && x.Kind == ExprLit {
		return e.Literals.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Unary(id ExprID) *ExprUnaryData {
	if x := e.Get(id); x != nil && x.Kind == ExprUnary {
		return e.Unaries.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Binary(id ExprID) *ExprBinaryData {
	if x := e.Get(id); x != nil && x.Kind == ExprBinary {
		return e.Binaries.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Cast(id ExprID) *ExprCastData {
	if x := e.Get(id); x != nil && x.Kind == ExprCast {
		return e.Casts.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Call(id ExprID) *ExprCallData {
	if x := e.Get(id); x != nil && x.Kind == ExprCall {
		return e.Calls.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Index(id ExprID) *ExprIndexData {
	if x := e.Get(id); x != nil && x.Kind == ExprIndex {
		return e.Indices.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Member(id ExprID) *ExprMemberData {
	if x := e.Get(id); x != nil && x.Kind == ExprMember {
		return e.Members.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) TupleIndex(id ExprID) *ExprTupleIndexData {
	if x := e.Get(id); x != nil && x.Kind == ExprTupleIndex {
		return e.TupleIndices.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Struct(id ExprID) *ExprStructData {
	if x := e.Get(id); x != nil && x.Kind == ExprStruct {
		return e.Structs.Get(uint32(x.Payload))
	}
	return nil
}

// List returns the elements of an array or tuple literal.
func (e *Exprs) List(id ExprID) *ExprListData {
	if x := e.Get(id); x != nil && (x.Kind == ExprArray || x.Kind == ExprTuple) {
		return e.Lists.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Block(id ExprID) *ExprBlockData {
	if x := e.Get(id); x != nil && x.Kind == ExprBlock {
		return e.Blocks.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) If(id ExprID) *ExprIfData {
	if x := e.Get(id); x != nil && x.Kind == ExprIf {
		return e.Ifs.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Intrinsic(id ExprID) *ExprIntrinsicData {
	if x := e.Get(id); x != nil && x.Kind == ExprIntrinsic {
		return e.Intrinsics.Get(uint32(x.Payload))
	}
	return nil
}
