package astgen

import (
	"slices"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// autoDeref looks through one level of single-item pointer so that fields
// of *T are reachable as p.field.
func (g *Generator) autoDeref(base *tast.Expr) *tast.Expr {
	s := g.tys.Shape(base.Ty)
	if s.Kind != types.KindPtr {
		return base
	}
	place := resolve.Lvalue
	if s.Mutable {
		place = resolve.LvalueMut
	}
	return &tast.Expr{
		Kind: tast.ExprDeref,
		ID:   g.ctx.AddExpr(place, s.Elem),
		Ty:   s.Elem,
		Span: base.Span,
		Data: tast.DerefData{Operand: base},
	}
}

func (g *Generator) genMember(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	m := g.tree.Exprs.Member(id)
	base, err := g.genExpr(scope, m.Base, g.tys.Builtins().Infer)
	if err != nil {
		return nil, err
	}
	base = g.autoDeref(base)
	if g.tys.Shape(base.Ty).Kind != types.KindStruct {
		return nil, errAt(m.Field.Span, &resolve.Error{Kind: resolve.FieldNotFound, Sym: m.Field.Sym, Found: base.Ty})
	}
	fields, err := g.tys.Fields(base.Ty)
	if err != nil {
		return nil, errAt(sp, tyErr(err))
	}
	idx := slices.IndexFunc(fields, func(f types.Field) bool { return f.Sym == m.Field.Sym })
	if idx < 0 {
		return nil, errAt(m.Field.Span, &resolve.Error{Kind: resolve.FieldNotFound, Sym: m.Field.Sym, Found: base.Ty})
	}
	f := fields[idx]
	return g.finish(sp, tast.ExprField, g.place(base), f.Ty, expected, tast.FieldData{
		Base:   base,
		Field:  f.Sym,
		Index:  idx,
		Offset: f.Offset,
	})
}

func (g *Generator) genTupleIndex(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	ti := g.tree.Exprs.TupleIndex(id)
	base, err := g.genExpr(scope, ti.Base, g.tys.Builtins().Infer)
	if err != nil {
		return nil, err
	}
	base = g.autoDeref(base)
	if g.tys.Shape(base.Ty).Kind != types.KindTuple {
		return nil, errorf(sp, diag.SemaFieldNotFound, "no field `%d` on type `%s`", ti.Index, g.tys.Display(base.Ty))
	}
	elems := g.tys.Elems(base.Ty)
	if int(ti.Index) >= len(elems) {
		return nil, errorf(sp, diag.SemaFieldNotFound, "no field `%d` on type `%s`", ti.Index, g.tys.Display(base.Ty))
	}
	return g.finish(sp, tast.ExprTupleIndex, g.place(base), elems[ti.Index], expected,
		tast.TupleIndexData{Base: base, Index: ti.Index})
}

func (g *Generator) genIndex(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	ix := g.tree.Exprs.Index(id)
	b := g.tys.Builtins()
	base, err := g.genExpr(scope, ix.Base, b.Infer)
	if err != nil {
		return nil, err
	}
	var place resolve.ExprKind
	s := g.tys.Shape(base.Ty)
	switch s.Kind {
	case types.KindArray:
		place = g.place(base)
	case types.KindSlice, types.KindManyPtr:
		place = resolve.Lvalue
		if s.Mutable {
			place = resolve.LvalueMut
		}
	default:
		return nil, errorf(sp, diag.SemaInvalidOperand, "cannot index a value of type `%s`", g.tys.Display(base.Ty))
	}
	index, err := g.genExpr(scope, ix.Index, b.InferSubscript)
	if err != nil {
		return nil, err
	}
	return g.finish(sp, tast.ExprIndex, place, s.Elem, expected, tast.IndexData{Base: base, Index: index})
}

func (g *Generator) genStructLit(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	lit := g.tree.Exprs.Struct(id)
	ty, err := g.resolveType(scope, lit.Ty)
	if err != nil {
		return nil, err
	}
	if g.tys.Shape(ty).Kind != types.KindStruct {
		return nil, errorf(g.typeSpan(lit.Ty), diag.SemaSymbolNotTy, "`%s` is not a struct", g.tys.Display(ty))
	}
	fields, err := g.tys.Fields(ty)
	if err != nil {
		return nil, errAt(sp, tyErr(err))
	}

	inits := make([]tast.FieldInit, 0, len(lit.Fields))
	seen := make([]bool, len(fields))
	for _, fi := range lit.Fields {
		idx := slices.IndexFunc(fields, func(f types.Field) bool { return f.Sym == fi.Name.Sym })
		if idx < 0 {
			return nil, errAt(fi.Name.Span, &resolve.Error{Kind: resolve.FieldNotFound, Sym: fi.Name.Sym, Found: ty})
		}
		if seen[idx] {
			return nil, errorf(fi.Name.Span, diag.SemaInvalidOperand,
				"field `%s` is initialized more than once", g.syms.MustLookup(fi.Name.Sym))
		}
		seen[idx] = true
		value, err := g.genExpr(scope, fi.Value, fields[idx].Ty)
		if err != nil {
			return nil, err
		}
		inits = append(inits, tast.FieldInit{Field: fi.Name.Sym, Index: idx, Value: value})
	}

	var missing []string
	for i, ok := range seen {
		if !ok {
			missing = append(missing, "`"+g.syms.MustLookup(fields[i].Sym)+"`")
		}
	}
	if len(missing) > 0 {
		return nil, errorf(sp, diag.SemaFieldNotFound, "missing fields %s in `%s`",
			strings.Join(missing, ", "), g.tys.Display(ty))
	}
	slices.SortFunc(inits, func(a, b tast.FieldInit) int { return a.Index - b.Index })
	return g.finish(sp, tast.ExprStructLit, resolve.Rvalue, ty, expected, tast.StructLitData{Fields: inits})
}

func (g *Generator) genArrayLit(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	list := g.tree.Exprs.List(id)
	elemTy := g.tys.Builtins().Infer
	if s := g.tys.Shape(expected); s.Kind == types.KindArray {
		elemTy = s.Elem
	}
	if len(list.Elems) == 0 && !g.tys.IsDefinable(elemTy) {
		return nil, errorf(sp, diag.SemaTyMismatch, "cannot infer the element type of an empty array")
	}
	elems := make([]*tast.Expr, len(list.Elems))
	for i, el := range list.Elems {
		v, err := g.genExpr(scope, el, elemTy)
		if err != nil {
			return nil, err
		}
		if !g.tys.IsDefinable(elemTy) && g.tys.IsDefinable(v.Ty) {
			elemTy = v.Ty
		}
		elems[i] = v
	}
	if !g.tys.IsDefinable(elemTy) {
		return nil, errorf(sp, diag.SemaTyMismatch, "cannot infer the element type of the array")
	}
	return g.finish(sp, tast.ExprArrayLit, resolve.Rvalue, g.tys.Array(elemTy, uint64(len(elems))), expected,
		tast.ArrayLitData{Elems: elems})
}

func (g *Generator) genTupleLit(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	list := g.tree.Exprs.List(id)
	var hints []types.TyID
	if g.tys.Shape(expected).Kind == types.KindTuple {
		hints = g.tys.Elems(expected)
	}
	if len(hints) != len(list.Elems) {
		hints = nil
	}
	elems := make([]*tast.Expr, len(list.Elems))
	tys := make([]types.TyID, len(list.Elems))
	for i, el := range list.Elems {
		hint := g.tys.Builtins().Infer
		if hints != nil {
			hint = hints[i]
		}
		v, err := g.genExpr(scope, el, hint)
		if err != nil {
			return nil, err
		}
		elems[i], tys[i] = v, v.Ty
	}
	return g.finish(sp, tast.ExprTupleLit, resolve.Rvalue, g.tys.Tuple(tys), expected, tast.TupleLitData{Elems: elems})
}
