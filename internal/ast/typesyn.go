package ast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprPath    TypeExprKind = iota // i32, a.b.T
	TypeExprPtr                         // *T, *mut T
	TypeExprManyPtr                     // [*]T, [*mut]T
	TypeExprSlice                       // []T, []mut T
	TypeExprArray                       // [N]T
	TypeExprTuple                       // (), (A, B)
	TypeExprFn                          // fn(A, ...) -> R
	TypeExprVariant                     // A | B
)

// TypeExpr is a type as written. Only the fields of its kind are set.
type TypeExpr struct {
	Kind     TypeExprKind
	Span     source.Span
	Path     Path
	Mutable  bool
	Elem     TypeID
	Len      ExprID
	Elems    []TypeID // tuple elements, fn params, variant members
	Ret      TypeID
	Variadic bool
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) New(ty TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(ty))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
