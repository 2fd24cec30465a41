package astgen

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// intrinsicValue folds size_of(T), align_of(T) and offset_of(T, field) using
// the computed layout of T.
func (g *Generator) intrinsicValue(scope resolve.Scope, id ast.ExprID) (*big.Int, error) {
	sp := g.exprSpan(id)
	data := g.tree.Exprs.Intrinsic(id)
	ty, err := g.resolveType(scope, data.Ty)
	if err != nil {
		return nil, err
	}
	tySpan := g.typeSpan(data.Ty)
	if !g.tys.IsDefinable(ty) {
		return nil, errorf(tySpan, diag.SemaInvalidIntrinsic,
			"`%s` has no runtime representation", g.tys.Display(ty))
	}
	lay, err := g.tys.Layout(ty)
	if err != nil {
		return nil, errAt(tySpan, tyErr(err))
	}

	switch data.Name {
	case symbol.KwSizeOf:
		return new(big.Int).SetUint64(lay.Size), nil
	case symbol.KwAlignOf:
		return new(big.Int).SetUint64(lay.Align), nil
	case symbol.KwOffsetOf:
		if g.tys.Shape(ty).Kind != types.KindStruct {
			return nil, errorf(tySpan, diag.SemaInvalidIntrinsic,
				"offset_of expects a struct, found `%s`", g.tys.Display(ty))
		}
		f, ok, err := g.tys.Field(ty, data.Field.Sym)
		if err != nil {
			return nil, errAt(tySpan, tyErr(err))
		}
		if !ok {
			return nil, errAt(data.Field.Span, &resolve.Error{Kind: resolve.FieldNotFound, Sym: data.Field.Sym, Found: ty})
		}
		return new(big.Int).SetUint64(f.Offset), nil
	}
	return nil, errorf(sp, diag.SemaInvalidIntrinsic, "unknown intrinsic")
}
