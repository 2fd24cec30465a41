package tast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

// StmtKind enumerates typed statement kinds. Control flow lives in
// expressions of diverging or unit type.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtDefer
	StmtExpr
	StmtAssign
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtDefer:
		return "Defer"
	case StmtExpr:
		return "Expr"
	case StmtAssign:
		return "Assign"
	default:
		return "Unknown"
	}
}

// Stmt is a typed statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is implemented by every kind-specific payload.
type StmtData interface {
	stmtData()
}

// LetData declares Binding in Frame, a frame opened right after Value was
// resolved.
type LetData struct {
	Binding resolve.BindingID
	Frame   resolve.FrameID
	Mutable bool
	Value   *Expr
}

func (LetData) stmtData() {}

// DeferData runs Stmt at scope exit. Frame is the frame Stmt was resolved in.
type DeferData struct {
	Frame resolve.FrameID
	Stmt  *Stmt
}

func (DeferData) stmtData() {}

type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// AssignData is `Lhs = Rhs`, or `Lhs op= Rhs` when Compound is set.
type AssignData struct {
	Compound bool
	Op       BinaryOp
	Lhs      *Expr
	Rhs      *Expr
}

func (AssignData) stmtData() {}
