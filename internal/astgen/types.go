package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// resolveType maps a written type to its TyID. Aliases and array lengths
// that are not defined yet fail with a retryable error.
func (g *Generator) resolveType(scope resolve.Scope, id ast.TypeID) (types.TyID, error) {
	te := g.tree.Types.Get(id)
	switch te.Kind {
	case ast.TypeExprPath:
		ty, err := g.ctx.ResolveTyPath(scope, te.Path.Syms)
		return ty, errAt(te.Path.Span, err)

	case ast.TypeExprPtr, ast.TypeExprManyPtr, ast.TypeExprSlice:
		elem, err := g.resolveType(scope, te.Elem)
		if err != nil {
			return 0, err
		}
		switch te.Kind {
		case ast.TypeExprPtr:
			return g.tys.Ptr(elem, te.Mutable), nil
		case ast.TypeExprManyPtr:
			return g.tys.ManyPtr(elem, te.Mutable), nil
		default:
			return g.tys.Slice(elem, te.Mutable), nil
		}

	case ast.TypeExprArray:
		n, err := g.evalConst(scope, te.Len)
		if err != nil {
			return 0, err
		}
		if n.Sign() < 0 || !n.IsUint64() {
			return 0, errorf(g.exprSpan(te.Len), diag.SemaLiteralOutOfRange,
				"array length %s is out of range", n)
		}
		elem, err := g.resolveType(scope, te.Elem)
		if err != nil {
			return 0, err
		}
		return g.tys.Array(elem, n.Uint64()), nil

	case ast.TypeExprTuple, ast.TypeExprVariant:
		elems, err := g.resolveTypes(scope, te.Elems)
		if err != nil {
			return 0, err
		}
		if te.Kind == ast.TypeExprVariant {
			return g.tys.Variant(elems), nil
		}
		return g.tys.Tuple(elems), nil

	case ast.TypeExprFn:
		params, err := g.resolveTypes(scope, te.Elems)
		if err != nil {
			return 0, err
		}
		ret := g.tys.Builtins().Unit
		if te.Ret.IsValid() {
			if ret, err = g.resolveType(scope, te.Ret); err != nil {
				return 0, err
			}
		}
		return g.tys.Fn(params, ret, te.Variadic), nil
	}
	return 0, errorf(te.Span, diag.SemaTyNotDefined, "unsupported type expression")
}

func (g *Generator) resolveTypes(scope resolve.Scope, ids []ast.TypeID) ([]types.TyID, error) {
	out := make([]types.TyID, len(ids))
	for i, id := range ids {
		ty, err := g.resolveType(scope, id)
		if err != nil {
			return nil, err
		}
		out[i] = ty
	}
	return out, nil
}

// resolveValueType resolves a type that values are stored in; placeholders
// and meta types are rejected.
func (g *Generator) resolveValueType(scope resolve.Scope, id ast.TypeID) (types.TyID, error) {
	ty, err := g.resolveType(scope, id)
	if err != nil {
		return 0, err
	}
	if !g.tys.IsDefinable(ty) {
		return 0, errorf(g.tree.Types.Get(id).Span, diag.SemaSymbolNotTy,
			"`%s` cannot be used as a value type", g.tys.Display(ty))
	}
	return ty, nil
}

func (g *Generator) typeSpan(id ast.TypeID) source.Span {
	return g.tree.Types.Get(id).Span
}

func (g *Generator) exprSpan(id ast.ExprID) source.Span {
	return g.tree.Exprs.Get(id).Span
}
