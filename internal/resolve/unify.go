package resolve

import "github.com/LechintanTudor/cool-compiler-sub001/internal/types"

// Method tells how a found type was reconciled with an expected one.
type Method uint8

const (
	// Direct means the value is used as is.
	Direct Method = iota
	// Wrap means the value must be tagged into the expected variant.
	Wrap
)

func (m Method) String() string {
	if m == Wrap {
		return "wrap"
	}
	return "direct"
}

// Unify reconciles the type an expression produces with the type its context
// expects and returns the type the expression takes.
//
//   - equal types unify directly;
//   - diverge unifies directly with anything and takes the expected type when
//     that is concrete;
//   - an expected placeholder accepts a concrete found type satisfying it;
//     a narrower placeholder is accepted too, except by infer itself, which
//     only takes concrete types;
//   - a found placeholder takes a concrete expected type that satisfies it;
//   - a leaf member of an expected variant unifies by wrapping.
func (c *Context) Unify(found, expected types.TyID) (types.TyID, Method, error) {
	tys := c.tys
	if found == expected {
		return found, Direct, nil
	}
	if tys.IsDiverge(found) {
		if tys.IsDefinable(expected) {
			return expected, Direct, nil
		}
		return found, Direct, nil
	}

	fs, es := tys.Shape(found), tys.Shape(expected)
	switch {
	case es.Kind == types.KindInfer && fs.Kind == types.KindInfer:
		if es.Infer != types.InferAny && types.Narrower(fs.Infer, es.Infer) {
			return found, Direct, nil
		}
	case es.Kind == types.KindInfer:
		if tys.Satisfies(es.Infer, found) {
			return found, Direct, nil
		}
	case fs.Kind == types.KindInfer:
		if tys.Satisfies(fs.Infer, expected) {
			return expected, Direct, nil
		}
	case es.Kind == types.KindVariant:
		if tys.VariantHas(expected, found) {
			return found, Wrap, nil
		}
	}
	return 0, 0, &Error{Kind: TyMismatch, Found: found, Expected: expected}
}
