package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// family is a broad category of types an operator accepts.
type family uint16

const (
	familyNone family = 0
	familyBool family = 1 << iota
	familyChar
	familySignedInt
	familyUnsignedInt
	familyFloat
	familyPointer
	familyEnum

	familyIntegral = familySignedInt | familyUnsignedInt
	familyNumeric  = familyIntegral | familyFloat
	familyOrdered  = familyChar | familyNumeric | familyPointer
)

// binaryResult tells how the result type of a binary operator is derived.
type binaryResult uint8

const (
	resultLeft binaryResult = iota // the operand type
	resultBool
)

// binarySpec lists what an operator accepts. sameType requires both
// operands to have one type; shifts take any integer on the right. Equality
// operators accept every type the table considers comparable.
type binarySpec struct {
	operands family
	result   binaryResult
	sameType bool
	equality bool
}

func (s binarySpec) accepts(tys *types.Table, ty types.TyID) bool {
	if s.equality {
		return tys.IsComparable(ty)
	}
	return s.operands.accepts(familyOf(tys, ty))
}

var binarySpecs = map[tast.BinaryOp]binarySpec{
	tast.BinaryAdd:    {operands: familyNumeric, result: resultLeft, sameType: true},
	tast.BinarySub:    {operands: familyNumeric, result: resultLeft, sameType: true},
	tast.BinaryMul:    {operands: familyNumeric, result: resultLeft, sameType: true},
	tast.BinaryDiv:    {operands: familyNumeric, result: resultLeft, sameType: true},
	tast.BinaryRem:    {operands: familyIntegral, result: resultLeft, sameType: true},
	tast.BinaryBitAnd: {operands: familyIntegral | familyBool, result: resultLeft, sameType: true},
	tast.BinaryBitOr:  {operands: familyIntegral | familyBool, result: resultLeft, sameType: true},
	tast.BinaryBitXor: {operands: familyIntegral | familyBool, result: resultLeft, sameType: true},
	tast.BinaryShl:    {operands: familyIntegral, result: resultLeft},
	tast.BinaryShr:    {operands: familyIntegral, result: resultLeft},
	tast.BinaryEq:     {result: resultBool, sameType: true, equality: true},
	tast.BinaryNe:     {result: resultBool, sameType: true, equality: true},
	tast.BinaryLt:     {operands: familyOrdered, result: resultBool, sameType: true},
	tast.BinaryLe:     {operands: familyOrdered, result: resultBool, sameType: true},
	tast.BinaryGt:     {operands: familyOrdered, result: resultBool, sameType: true},
	tast.BinaryGe:     {operands: familyOrdered, result: resultBool, sameType: true},
	tast.BinaryAnd:    {operands: familyBool, result: resultBool, sameType: true},
	tast.BinaryOr:     {operands: familyBool, result: resultBool, sameType: true},
}

var unarySpecs = map[tast.UnaryOp]family{
	tast.UnaryNeg:    familySignedInt | familyFloat,
	tast.UnaryNot:    familyBool,
	tast.UnaryBitNot: familyIntegral,
}

// familyOf classifies ty.
func familyOf(tys *types.Table, ty types.TyID) family {
	if tys.IsPointerLike(ty) {
		return familyPointer
	}
	s := tys.Shape(ty)
	switch s.Kind {
	case types.KindBool:
		return familyBool
	case types.KindChar:
		return familyChar
	case types.KindInt:
		if s.Int.Signed() {
			return familySignedInt
		}
		return familyUnsignedInt
	case types.KindFloat:
		return familyFloat
	case types.KindEnum:
		return familyEnum
	}
	return familyNone
}

func (f family) accepts(other family) bool {
	return other != familyNone && f&other != 0
}

// castAllowed reports whether `from as to` is a valid conversion.
func castAllowed(tys *types.Table, from, to types.TyID) bool {
	if from == to {
		return true
	}
	ff, tf := familyOf(tys, from), familyOf(tys, to)
	switch {
	case familyNumeric.accepts(ff) && familyNumeric.accepts(tf):
		return true
	case (ff == familyBool || ff == familyChar || ff == familyEnum) && familyIntegral.accepts(tf):
		return true
	case ff == familyUnsignedInt && tf == familyChar:
		return tys.Shape(from).Int == types.U8 || tys.Shape(from).Int == types.U32
	case ff == familyPointer && tf == familyPointer:
		return true
	case ff == familyPointer && familyIntegral.accepts(tf), familyIntegral.accepts(ff) && tf == familyPointer:
		k := tys.Shape(from).Int
		if ff == familyPointer {
			k = tys.Shape(to).Int
		}
		return k == types.Usize || k == types.Isize
	}
	return false
}
