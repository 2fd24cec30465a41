package resolve

import "github.com/LechintanTudor/cool-compiler-sub001/internal/types"

// ExprKind tells whether an expression denotes a place.
type ExprKind uint8

const (
	Rvalue ExprKind = iota
	Lvalue
	LvalueMut
)

// IsLvalue reports whether the expression denotes a place.
func (k ExprKind) IsLvalue() bool { return k != Rvalue }

// Expr is a resolved expression. Its type is fixed when it is added.
type Expr struct {
	Kind ExprKind
	Ty   types.TyID
}

// AddExpr records an expression with its final type.
func (c *Context) AddExpr(kind ExprKind, ty types.TyID) ExprID {
	return c.exprs.Push(Expr{Kind: kind, Ty: ty})
}

// AddExprUnified unifies found against expected and records the expression
// with the unified type.
func (c *Context) AddExprUnified(found, expected types.TyID, kind ExprKind) (ExprID, Method, error) {
	ty, method, err := c.Unify(found, expected)
	if err != nil {
		return 0, 0, err
	}
	return c.AddExpr(kind, ty), method, nil
}
