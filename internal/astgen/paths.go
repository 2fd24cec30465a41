package astgen

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// exprPath reads an identifier or a chain of member accesses on one as a
// dotted path.
func (g *Generator) exprPath(id ast.ExprID) ([]symbol.Symbol, bool) {
	e := g.tree.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		return []symbol.Symbol{g.tree.Exprs.Ident(id).Sym}, true
	case ast.ExprMember:
		m := g.tree.Exprs.Member(id)
		base, ok := g.exprPath(m.Base)
		if !ok {
			return nil, false
		}
		return append(base, m.Field.Sym), true
	}
	return nil, false
}

// isItemPath reports whether a member chain starting at path[0] names an
// item rather than fields of a value: its head is crate, self, super or a
// module or type visible from scope.
func (g *Generator) isItemPath(scope resolve.Scope, path []symbol.Symbol) bool {
	if len(path) < 2 {
		return false
	}
	if symbol.IsPathKeyword(path[0]) {
		return true
	}
	r, err := g.ctx.GetSymbol(scope, path[0])
	if err != nil {
		return false
	}
	return r.Kind == resolve.ResolvedModule || r.Kind == resolve.ResolvedTy
}

// enumVariant resolves `Enum.Variant`. ok is false when the prefix of path
// does not name an enum.
func (g *Generator) enumVariant(scope resolve.Scope, sp source.Span, path []symbol.Symbol) (types.TyID, *big.Int, bool, error) {
	if len(path) < 2 {
		return 0, nil, false, nil
	}
	ty, err := g.ctx.ResolveTyPath(scope, path[:len(path)-1])
	if err != nil || g.tys.Shape(ty).Kind != types.KindEnum {
		return 0, nil, false, nil
	}
	_, variants, defined := g.tys.Enum(ty)
	if !defined {
		return 0, nil, true, errAt(sp, &resolve.Error{Kind: resolve.TyNotDefined, Sym: path[len(path)-2], Path: path[:len(path)-1]})
	}
	name := path[len(path)-1]
	for _, v := range variants {
		if v.Sym == name {
			return ty, big.NewInt(v.Value), true, nil
		}
	}
	return 0, nil, true, errAt(sp, &resolve.Error{Kind: resolve.FieldNotFound, Sym: name, Found: ty})
}
