package resolve

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// IntRange returns the inclusive bounds of integers of kind k on the context's
// target.
func (c *Context) IntRange(k types.IntKind) (lo, hi *big.Int) {
	bits := uint(k.Bits(c.tys.Target().PtrSize))
	if k.Signed() {
		hi = new(big.Int).Lsh(big.NewInt(1), bits-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))
		return lo, hi
	}
	hi = new(big.Int).Lsh(big.NewInt(1), bits)
	hi.Sub(hi, big.NewInt(1))
	return new(big.Int), hi
}

// FitsInt reports whether v is representable by integers of kind k.
func (c *Context) FitsInt(k types.IntKind, v *big.Int) bool {
	lo, hi := c.IntRange(k)
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// IntLiteralTy picks the type of an integer literal from the type expected
// at the literal itself. A concrete integer or float expectation is taken as
// is, as is the only integer (or else the only float) member of an expected
// variant; anything else defaults to i32, or i64 when the value does not fit.
func (c *Context) IntLiteralTy(v *big.Int, expected types.TyID) (types.TyID, error) {
	b := c.tys.Builtins()
	if c.tys.IsVariant(expected) {
		if m, ok := c.soleMember(expected, types.KindInt); ok {
			expected = m
		} else if m, ok := c.soleMember(expected, types.KindFloat); ok {
			expected = m
		}
	}
	s := c.tys.Shape(expected)
	switch s.Kind {
	case types.KindInt:
		if !c.FitsInt(s.Int, v) {
			return 0, &Error{Kind: LiteralOutOfRange, Expected: expected}
		}
		return expected, nil
	case types.KindFloat:
		return expected, nil
	}
	for _, ty := range []types.TyID{b.I32, b.I64} {
		if c.FitsInt(c.tys.Shape(ty).Int, v) {
			return ty, nil
		}
	}
	return 0, &Error{Kind: LiteralOutOfRange, Expected: b.I64}
}

// FloatLiteralTy picks the type of a float literal: the expected float type
// or the only float member of an expected variant, otherwise f64.
func (c *Context) FloatLiteralTy(expected types.TyID) types.TyID {
	if c.tys.IsFloat(expected) {
		return expected
	}
	if m, ok := c.soleMember(expected, types.KindFloat); ok {
		return m
	}
	return c.tys.Builtins().F64
}

// soleMember returns the member of variant of the given kind when there is
// exactly one.
func (c *Context) soleMember(variant types.TyID, kind types.Kind) (types.TyID, bool) {
	if !c.tys.IsVariant(variant) {
		return 0, false
	}
	var found types.TyID
	n := 0
	for _, m := range c.tys.Elems(variant) {
		if c.tys.Shape(m).Kind == kind {
			found = m
			n++
		}
	}
	return found, n == 1
}
