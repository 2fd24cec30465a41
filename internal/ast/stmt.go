package ast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtAssign
	StmtDefer
	StmtReturn
	StmtBreak
	StmtContinue
	StmtWhile
	StmtFor
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// LetStmt covers `x := e;`, `mut x := e;` and `x : T = e;`.
type LetStmt struct {
	Name    Symbol
	Mutable bool
	Ty      TypeID // optional
	Value   ExprID
}

type ExprStmt struct {
	Expr ExprID
}

// AssignStmt is `lhs op rhs` with op = or a compound assignment.
type AssignStmt struct {
	Op  token.Kind
	Lhs ExprID
	Rhs ExprID
}

type DeferStmt struct {
	Stmt StmtID
}

type ReturnStmt struct {
	Value ExprID // optional
}

type WhileStmt struct {
	Cond ExprID
	Body ExprID // ExprBlock
}

// ForStmt is the C-style `for init; cond; step { body }`.
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Step StmtID
	Body ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Lets    *Arena[LetStmt]
	Exprs   *Arena[ExprStmt]
	Assigns *Arena[AssignStmt]
	Defers  *Arena[DeferStmt]
	Returns *Arena[ReturnStmt]
	Whiles  *Arena[WhileStmt]
	Fors    *Arena[ForStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Lets:    NewArena[LetStmt](capHint / 4),
		Exprs:   NewArena[ExprStmt](capHint / 4),
		Assigns: NewArena[AssignStmt](capHint / 4),
		Defers:  NewArena[DeferStmt](capHint / 16),
		Returns: NewArena[ReturnStmt](capHint / 8),
		Whiles:  NewArena[WhileStmt](capHint / 16),
		Fors:    NewArena[ForStmt](capHint / 16),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) new(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (s *Stmts) NewLet(sp source.Span, data LetStmt) StmtID {
	return s.new(StmtLet, sp, s.Lets.Allocate(data))
}

func (s *Stmts) NewExpr(sp source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, sp, s.Exprs.Allocate(ExprStmt{Expr: expr}))
}

func (s *Stmts) NewAssign(sp source.Span, op token.Kind, lhs, rhs ExprID) StmtID {
	return s.new(StmtAssign, sp, s.Assigns.Allocate(AssignStmt{Op: op, Lhs: lhs, Rhs: rhs}))
}

func (s *Stmts) NewDefer(sp source.Span, stmt StmtID) StmtID {
	return s.new(StmtDefer, sp, s.Defers.Allocate(DeferStmt{Stmt: stmt}))
}

func (s *Stmts) NewReturn(sp source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, sp, s.Returns.Allocate(ReturnStmt{Value: value}))
}

func (s *Stmts) NewBreak(sp source.Span) StmtID {
	return s.new(StmtBreak, sp, 0)
}

func (s *Stmts) NewContinue(sp source.Span) StmtID {
	return s.new(StmtContinue, sp, 0)
}

func (s *Stmts) NewWhile(sp source.Span, cond, body ExprID) StmtID {
	return s.new(StmtWhile, sp, s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body}))
}

func (s *Stmts) NewFor(sp source.Span, data ForStmt) StmtID {
	return s.new(StmtFor, sp, s.Fors.Allocate(data))
}

func (s *Stmts) Let(id StmtID) *LetStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtLet {
		return s.Lets.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtExpr {
		return s.Exprs.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Assign(id StmtID) *AssignStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtAssign {
		return s.Assigns.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Defer(id StmtID) *DeferStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtDefer {
		return s.Defers.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Return(id StmtID) *ReturnStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtReturn {
		return s.Returns.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) While(id StmtID) *WhileStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtWhile {
		return s.Whiles.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) For(id StmtID) *ForStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtFor {
		return s.Fors.Get(uint32(st.Payload))
	}
	return nil
}
