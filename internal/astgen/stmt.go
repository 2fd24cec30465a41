package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// fnState tracks the function whose body is being generated. Global
// initializers run with global set.
type fnState struct {
	ret    types.TyID
	global bool
	// one entry per open loop, set once a break leaves it
	loops  []bool
	defers int
}

// genStmt types one statement. The returned scope is the one following
// statements resolve in: a let opens a child frame so the new binding
// shadows older ones without being visible to its own initializer. The
// scope is valid even when err is not nil.
func (g *Generator) genStmt(scope resolve.Scope, id ast.StmtID) (*tast.Stmt, resolve.Scope, error) {
	st := g.tree.Stmts.Get(id)
	b := g.tys.Builtins()

	switch st.Kind {
	case ast.StmtLet:
		return g.genLet(scope, id)

	case ast.StmtExpr:
		e, err := g.genExpr(scope, g.tree.Stmts.Expr(id).Expr, b.Infer)
		if err != nil {
			return nil, scope, err
		}
		return &tast.Stmt{Kind: tast.StmtExpr, Span: st.Span, Data: tast.ExprStmtData{Expr: e}}, scope, nil

	case ast.StmtAssign:
		s, err := g.genAssign(scope, id)
		return s, scope, err

	case ast.StmtDefer:
		if g.fn.global {
			return nil, scope, errorf(st.Span, diag.SemaInvalidOperand, "defer outside of a function")
		}
		if g.fn.defers > 0 {
			return nil, scope, errorf(st.Span, diag.SemaInvalidOperand, "defer cannot be nested in another defer")
		}
		frame := g.ctx.AddFrame(scope)
		loops := g.fn.loops
		g.fn.defers++
		g.fn.loops = nil
		inner, _, err := g.genStmt(resolve.FrameScope(frame), g.tree.Stmts.Defer(id).Stmt)
		g.fn.defers--
		g.fn.loops = loops
		if err != nil {
			return nil, scope, err
		}
		return &tast.Stmt{Kind: tast.StmtDefer, Span: st.Span, Data: tast.DeferData{Frame: frame, Stmt: inner}}, scope, nil

	case ast.StmtReturn:
		s, err := g.genReturn(scope, st, g.tree.Stmts.Return(id).Value)
		return s, scope, err

	case ast.StmtBreak, ast.StmtContinue:
		kind, word := tast.ExprBreak, "break"
		if st.Kind == ast.StmtContinue {
			kind, word = tast.ExprContinue, "continue"
		}
		if len(g.fn.loops) == 0 {
			return nil, scope, errorf(st.Span, diag.SemaOutsideLoop, "`%s` outside of a loop", word)
		}
		if st.Kind == ast.StmtBreak {
			g.fn.loops[len(g.fn.loops)-1] = true
		}
		return g.controlExpr(st, kind, b.Diverge, nil), scope, nil

	case ast.StmtWhile:
		w := g.tree.Stmts.While(id)
		cond, err := g.genExpr(scope, w.Cond, b.Bool)
		if err != nil {
			return nil, scope, err
		}
		body, broke, err := g.genLoopBody(scope, w.Body)
		if err != nil {
			return nil, scope, err
		}
		ty := b.Unit
		if !broke && isTrue(cond) {
			ty = b.Diverge
		}
		return g.controlExpr(st, tast.ExprWhile, ty, tast.WhileData{Cond: cond, Body: body}), scope, nil

	case ast.StmtFor:
		s, err := g.genFor(scope, st, g.tree.Stmts.For(id))
		return s, scope, err
	}
	return nil, scope, errorf(st.Span, diag.SemaInvalidOperand, "unsupported statement")
}

func (g *Generator) genLet(scope resolve.Scope, id ast.StmtID) (*tast.Stmt, resolve.Scope, error) {
	st := g.tree.Stmts.Get(id)
	let := g.tree.Stmts.Let(id)
	declared := g.tys.Builtins().Infer
	var tyErr error
	if let.Ty.IsValid() {
		declared, tyErr = g.resolveValueType(scope, let.Ty)
	}
	var (
		value *tast.Expr
		err   = tyErr
	)
	if err == nil {
		value, err = g.genExpr(scope, let.Value, declared)
	}

	mut := resolve.Immutable
	if let.Mutable {
		mut = resolve.Mutable
	}
	frame := g.ctx.AddFrame(scope)
	next := resolve.FrameScope(frame)
	binding, bindErr := g.ctx.InsertLocalBinding(frame, mut, let.Name.Sym)
	if bindErr != nil {
		return nil, next, errAt(let.Name.Span, bindErr)
	}

	if err == nil && !g.tys.IsDefinable(value.Ty) {
		err = errorf(let.Name.Span, diag.SemaTyMismatch, "cannot infer the type of `%s`", g.syms.MustLookup(let.Name.Sym))
	}
	if err != nil {
		if tyErr == nil && g.tys.IsDefinable(declared) {
			g.ctx.SetBindingTy(binding, declared)
		} else {
			g.poisoned[binding] = true
		}
		return nil, next, err
	}
	g.ctx.SetBindingTy(binding, value.Ty)
	return &tast.Stmt{Kind: tast.StmtLet, Span: st.Span, Data: tast.LetData{
		Binding: binding,
		Frame:   frame,
		Mutable: let.Mutable,
		Value:   value,
	}}, next, nil
}

func (g *Generator) genAssign(scope resolve.Scope, id ast.StmtID) (*tast.Stmt, error) {
	st := g.tree.Stmts.Get(id)
	as := g.tree.Stmts.Assign(id)
	b := g.tys.Builtins()

	lhs, err := g.genExpr(scope, as.Lhs, b.Infer)
	if err != nil {
		return nil, err
	}
	switch g.place(lhs) {
	case resolve.Rvalue:
		return nil, errorf(lhs.Span, diag.SemaNotAssignable, "cannot assign to a temporary value")
	case resolve.Lvalue:
		return nil, errorf(lhs.Span, diag.SemaNotAssignable, "cannot assign to an immutable place")
	}

	data := tast.AssignData{Lhs: lhs}
	rhsHint := lhs.Ty
	if as.Op != token.Eq {
		op, ok := tast.BinaryOpOf(as.Op)
		if !ok {
			return nil, errorf(st.Span, diag.SemaInvalidOperand, "unsupported assignment %s", as.Op)
		}
		spec := binarySpecs[op]
		if spec.result != resultLeft || !spec.accepts(g.tys, lhs.Ty) {
			return nil, errorf(st.Span, diag.SemaInvalidOperand, "operator `%s` cannot be applied to `%s`", op, g.tys.Display(lhs.Ty))
		}
		if !spec.sameType {
			rhsHint = b.InferInt
		}
		data.Compound, data.Op = true, op
	}
	if data.Rhs, err = g.genExpr(scope, as.Rhs, rhsHint); err != nil {
		return nil, err
	}
	if data.Compound && !binarySpecs[data.Op].sameType && !familyIntegral.accepts(familyOf(g.tys, data.Rhs.Ty)) {
		return nil, errorf(data.Rhs.Span, diag.SemaInvalidOperand, "shift amount must be an integer, found `%s`", g.tys.Display(data.Rhs.Ty))
	}
	return &tast.Stmt{Kind: tast.StmtAssign, Span: st.Span, Data: data}, nil
}

func (g *Generator) genReturn(scope resolve.Scope, st *ast.Stmt, value ast.ExprID) (*tast.Stmt, error) {
	if g.fn.global {
		return nil, errorf(st.Span, diag.SemaInvalidOperand, "return outside of a function")
	}
	if g.fn.defers > 0 {
		return nil, errorf(st.Span, diag.SemaInvalidOperand, "cannot return from a deferred statement")
	}
	var data tast.ReturnData
	if value.IsValid() {
		v, err := g.genExpr(scope, value, g.fn.ret)
		if err != nil {
			return nil, err
		}
		data.Value = v
	} else if _, _, err := g.ctx.Unify(g.tys.Builtins().Unit, g.fn.ret); err != nil {
		return nil, errAt(st.Span, err)
	}
	return g.controlExpr(st, tast.ExprReturn, g.tys.Builtins().Diverge, data), nil
}

func (g *Generator) genFor(scope resolve.Scope, st *ast.Stmt, f *ast.ForStmt) (*tast.Stmt, error) {
	frame := g.ctx.AddFrame(scope)
	cur := resolve.FrameScope(frame)
	data := tast.ForData{Frame: frame}
	if f.Init.IsValid() {
		init, next, err := g.genStmt(cur, f.Init)
		if err != nil {
			return nil, err
		}
		data.Init, cur = init, next
	}
	if f.Cond.IsValid() {
		cond, err := g.genExpr(cur, f.Cond, g.tys.Builtins().Bool)
		if err != nil {
			return nil, err
		}
		data.Cond = cond
	}
	if f.Step.IsValid() {
		step, _, err := g.genStmt(cur, f.Step)
		if err != nil {
			return nil, err
		}
		data.Step = step
	}
	body, broke, err := g.genLoopBody(cur, f.Body)
	if err != nil {
		return nil, err
	}
	data.Body = body
	ty := g.tys.Builtins().Unit
	if !broke && (data.Cond == nil || isTrue(data.Cond)) {
		ty = g.tys.Builtins().Diverge
	}
	return g.controlExpr(st, tast.ExprFor, ty, data), nil
}

// genLoopBody types the body of a loop. broke reports whether a break
// leaves this loop; without one a loop whose condition is always true never
// completes.
func (g *Generator) genLoopBody(scope resolve.Scope, id ast.ExprID) (body *tast.Block, broke bool, err error) {
	g.fn.loops = append(g.fn.loops, false)
	defer func() {
		broke = g.fn.loops[len(g.fn.loops)-1]
		g.fn.loops = g.fn.loops[:len(g.fn.loops)-1]
	}()
	body, _, err = g.genBlock(scope, id, g.tys.Builtins().Unit)
	return body, broke, err
}

// isTrue reports whether cond is the literal `true`.
func isTrue(cond *tast.Expr) bool {
	lit, ok := cond.Data.(tast.LiteralData)
	return ok && cond.Kind == tast.ExprLiteral && lit.Kind == tast.LiteralBool && lit.Bool
}
