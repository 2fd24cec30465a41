package types

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"
)

// Variant builds the tagged union of members. Nested variants are flattened
// into their leaves and duplicates collapse, so member order never matters. A
// single remaining member is returned as is and an empty union is unit.
func (t *Table) Variant(members []TyID) TyID {
	leaves := set.NewTreeSet[TyID](cmp.Compare[TyID])
	for _, m := range members {
		if t.Shape(m).Kind == KindVariant {
			for _, leaf := range t.Elems(m) {
				leaves.Insert(leaf)
			}
			continue
		}
		leaves.Insert(m)
	}
	switch leaves.Size() {
	case 0:
		return t.builtins.Unit
	case 1:
		return leaves.Min()
	}
	return t.InsertOrGet(Shape{Kind: KindVariant, List: t.lists.InsertOrGet(leaves.Slice())})
}

// VariantHas reports whether member is one of the leaves of variant.
func (t *Table) VariantHas(variant, member TyID) bool {
	if t.Shape(variant).Kind != KindVariant {
		return false
	}
	for _, leaf := range t.Elems(variant) {
		if leaf == member {
			return true
		}
	}
	return false
}

// VariantTag returns the tag value that selects member inside variant.
func (t *Table) VariantTag(variant, member TyID) (int, bool) {
	for i, leaf := range t.Elems(variant) {
		if leaf == member {
			return i, true
		}
	}
	return 0, false
}
