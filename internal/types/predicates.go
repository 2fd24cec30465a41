package types

// IsInfer reports whether id is an inference placeholder.
func (t *Table) IsInfer(id TyID) bool {
	return t.Shape(id).Kind == KindInfer
}

// IsDefinable reports whether values of id can exist at runtime, i.e. id is
// neither a placeholder, a meta type nor diverge.
func (t *Table) IsDefinable(id TyID) bool {
	switch t.Shape(id).Kind {
	case KindInfer, KindItem, KindDiverge:
		return false
	default:
		return true
	}
}

func (t *Table) IsDiverge(id TyID) bool { return t.Shape(id).Kind == KindDiverge }
func (t *Table) IsVariant(id TyID) bool { return t.Shape(id).Kind == KindVariant }
func (t *Table) IsInt(id TyID) bool     { return t.Shape(id).Kind == KindInt }
func (t *Table) IsFloat(id TyID) bool   { return t.Shape(id).Kind == KindFloat }

func (t *Table) IsSignedInt(id TyID) bool {
	s := t.Shape(id)
	return s.Kind == KindInt && s.Int.Signed()
}

func (t *Table) IsUnsignedInt(id TyID) bool {
	s := t.Shape(id)
	return s.Kind == KindInt && !s.Int.Signed()
}

// IsNumber reports integers and floats.
func (t *Table) IsNumber(id TyID) bool {
	k := t.Shape(id).Kind
	return k == KindInt || k == KindFloat
}

// IsComparable reports whether == and != are defined for id.
func (t *Table) IsComparable(id TyID) bool {
	switch t.Shape(id).Kind {
	case KindBool, KindChar, KindInt, KindFloat, KindPtr, KindManyPtr, KindEnum:
		return true
	default:
		return false
	}
}

// IsPointerLike reports pointers and many-pointers.
func (t *Table) IsPointerLike(id TyID) bool {
	k := t.Shape(id).Kind
	return k == KindPtr || k == KindManyPtr
}

// Satisfies reports whether a concrete type is accepted by a placeholder.
func (t *Table) Satisfies(infer InferKind, id TyID) bool {
	s := t.Shape(id)
	switch infer {
	case InferAny:
		return t.IsDefinable(id)
	case InferInt, InferSubscript:
		return s.Kind == KindInt
	case InferFloat:
		return s.Kind == KindFloat
	case InferNumber:
		return s.Kind == KindInt || s.Kind == KindFloat
	case InferIntOrBool:
		return s.Kind == KindInt || s.Kind == KindBool
	case InferEmptyArray:
		return s.Kind == KindArray && s.Len == 0
	default:
		return false
	}
}

// Narrower reports whether placeholder a accepts only a subset of what b
// accepts, so a found a may flow into an expected b.
func Narrower(a, b InferKind) bool {
	if a == b || b == InferAny {
		return true
	}
	switch b {
	case InferNumber:
		return a == InferInt || a == InferFloat || a == InferSubscript
	case InferIntOrBool, InferSubscript:
		return a == InferInt
	case InferInt:
		return a == InferSubscript
	}
	return false
}
