package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// genBlock types a block in a fresh frame under scope. Statement errors are
// reported and skipped so later statements are still checked. The returned
// type is the tail's, Diverge when a statement never completes, or Unit.
// A block without tail whose statements failed has no meaningful type and
// fails with errSilent, as does a block whose tail failed.
func (g *Generator) genBlock(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Block, types.TyID, error) {
	data := g.tree.Exprs.Block(id)
	b := g.tys.Builtins()
	frame := g.ctx.AddFrame(scope)
	blk := &tast.Block{Frame: frame, Span: g.exprSpan(id)}

	cur := resolve.FrameScope(frame)
	diverges, failed := false, false
	for _, sid := range data.Stmts {
		st, next, err := g.genStmt(cur, sid)
		cur = next
		if err != nil {
			g.report(g.tree.Stmts.Get(sid).Span, err)
			failed = true
			continue
		}
		blk.Stmts = append(blk.Stmts, st)
		if g.stmtDiverges(st) {
			diverges = true
		}
	}

	if data.Tail.IsValid() {
		tail, err := g.genExpr(cur, data.Tail, expected)
		if err != nil {
			g.report(g.exprSpan(data.Tail), err)
			return blk, b.Unit, errSilent
		}
		blk.Tail = tail
		return blk, tail.Ty, nil
	}
	switch {
	case diverges:
		return blk, b.Diverge, nil
	case failed:
		return blk, b.Unit, errSilent
	}
	return blk, b.Unit, nil
}

func (g *Generator) stmtDiverges(st *tast.Stmt) bool {
	switch d := st.Data.(type) {
	case tast.ExprStmtData:
		return g.tys.IsDiverge(d.Expr.Ty)
	case tast.LetData:
		return d.Value != nil && g.tys.IsDiverge(d.Value.Ty)
	}
	return false
}

func (g *Generator) genBlockExpr(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	blk, ty, err := g.genBlock(scope, id, expected)
	if err != nil {
		return nil, err
	}
	return g.finish(blk.Span, tast.ExprBlock, resolve.Rvalue, ty, expected, tast.BlockData{Block: blk})
}

// genIf types a conditional. Without an else branch the result is unit; a
// diverging then-branch lets the else branch pick the type.
func (g *Generator) genIf(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	data := g.tree.Exprs.If(id)
	b := g.tys.Builtins()

	cond, err := g.genExpr(scope, data.Cond, b.Bool)
	if err != nil {
		return nil, err
	}
	if !data.Else.IsValid() {
		then, _, err := g.genBlock(scope, data.Then, b.Unit)
		if err != nil {
			return nil, err
		}
		return g.finish(sp, tast.ExprIf, resolve.Rvalue, b.Unit, expected, tast.IfData{Cond: cond, Then: then})
	}

	then, thenTy, err := g.genBlock(scope, data.Then, expected)
	if err != nil {
		return nil, err
	}
	elseHint := expected
	if !g.tys.IsDefinable(expected) && g.tys.IsDefinable(thenTy) {
		elseHint = thenTy
	}
	els, err := g.genExpr(scope, data.Else, elseHint)
	if err != nil {
		return nil, err
	}
	ty := thenTy
	if g.tys.IsDiverge(thenTy) {
		ty = els.Ty
	} else if !g.tys.IsDefinable(elseHint) {
		// neither side had a concrete type: the branches must agree
		if ty, _, err = g.ctx.Unify(els.Ty, thenTy); err != nil {
			return nil, errAt(els.Span, err)
		}
	}
	return g.finish(sp, tast.ExprIf, resolve.Rvalue, ty, expected, tast.IfData{Cond: cond, Then: then, Else: els})
}

// controlExpr records a loop or jump expression of the given type.
func (g *Generator) controlExpr(st *ast.Stmt, kind tast.ExprKind, ty types.TyID, data tast.ExprData) *tast.Stmt {
	e := &tast.Expr{Kind: kind, ID: g.ctx.AddExpr(resolve.Rvalue, ty), Ty: ty, Span: st.Span, Data: data}
	return &tast.Stmt{Kind: tast.StmtExpr, Span: st.Span, Data: tast.ExprStmtData{Expr: e}}
}
