package types

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

// DeclareStruct reserves the TyID of a struct. decl is the caller's key for
// the declaration (the item ID); declaring the same key twice returns the
// same TyID.
func (t *Table) DeclareStruct(decl uint32, name string) TyID {
	return t.declare(Shape{Kind: KindStruct, Decl: decl}, name)
}

// DeclareEnum reserves the TyID of an enum.
func (t *Table) DeclareEnum(decl uint32, name string) TyID {
	return t.declare(Shape{Kind: KindEnum, Decl: decl}, name)
}

func (t *Table) declare(shape Shape, name string) TyID {
	if id, ok := t.index[shape]; ok {
		return id
	}
	id := t.push(shape, stateDeclared)
	t.nominals[id] = &nominal{name: name}
	return id
}

// DefineStruct supplies the fields of a declared struct and computes its
// layout. A nil result means the layout is final. ErrNotReady means a field
// type is still being defined; the fields are kept and the call may be
// repeated. A *DefineError or ErrIncomplete is permanent.
func (t *Table) DefineStruct(id TyID, fields []Field) error {
	e := t.entry(id)
	if e.shape.Kind != KindStruct {
		panic(fmt.Sprintf("types: DefineStruct on %s", e.shape.Kind))
	}
	nom := t.nominals[id]
	switch {
	case nom.defined:
		return ErrAlreadyDefined
	case nom.err != nil:
		return nom.err
	case e.state == stateReady:
		// laid out while defining another struct; the body must match
		if !sameFields(nom.fields, fields) {
			return ErrAlreadyDefined
		}
		nom.defined = true
		return nil
	}

	for i, f := range fields {
		for _, prev := range fields[:i] {
			if prev.Sym == f.Sym {
				return t.fail(id, &DefineError{Kind: DuplicatedField, Ty: id, Sym: f.Sym})
			}
		}
	}
	nom.fields = slices.Clone(fields)
	e.state = statePending

	_, err := t.resolveLayout(id, nil)
	switch {
	case err == nil:
		nom.defined = true
		return nil
	case errors.Is(err, ErrNotReady):
		return ErrNotReady
	}
	if nom.err != nil {
		// id sits on the cycle
		return nom.err
	}
	return t.fail(id, ErrIncomplete)
}

func (t *Table) fail(id TyID, err error) error {
	t.entry(id).state = stateBroken
	t.nominals[id].err = err
	return err
}

func sameFields(a, b []Field) bool {
	return slices.EqualFunc(a, b, func(x, y Field) bool {
		return x.Sym == y.Sym && x.Ty == y.Ty
	})
}

// DefineEnum supplies storage and discriminants of a declared enum. Passing
// Builtins().InferInt as storage selects the smallest integer type holding
// every discriminant.
func (t *Table) DefineEnum(id TyID, storage TyID, variants []EnumVariant) error {
	e := t.entry(id)
	if e.shape.Kind != KindEnum {
		panic(fmt.Sprintf("types: DefineEnum on %s", e.shape.Kind))
	}
	nom := t.nominals[id]
	if nom.defined {
		return ErrAlreadyDefined
	}
	if nom.err != nil {
		return nom.err
	}
	for i, v := range variants {
		for _, prev := range variants[:i] {
			if prev.Sym == v.Sym {
				return t.fail(id, &DefineError{Kind: DuplicatedVariant, Ty: id, Sym: v.Sym})
			}
		}
	}

	if storage == t.builtins.InferInt {
		storage = t.defaultStorage(variants)
	}
	st := t.Shape(storage)
	if st.Kind != KindInt {
		return t.fail(id, &DefineError{Kind: InvalidEnumStorage, Ty: id})
	}
	for _, v := range variants {
		if !t.FitsInt(st.Int, v.Value) {
			return t.fail(id, &DefineError{Kind: DiscriminantOutOfRange, Ty: id, Sym: v.Sym})
		}
	}

	nom.storage = storage
	nom.variants = slices.Clone(variants)
	nom.defined = true
	e.layout = t.entry(storage).layout
	e.state = stateReady
	return nil
}

func (t *Table) defaultStorage(variants []EnumVariant) TyID {
	var lo, hi int64
	for _, v := range variants {
		lo = min(lo, v.Value)
		hi = max(hi, v.Value)
	}
	kinds := []IntKind{U8, U16, U32, U64}
	if lo < 0 {
		kinds = []IntKind{I8, I16, I32, I64}
	}
	for _, k := range kinds {
		if t.FitsInt(k, lo) && t.FitsInt(k, hi) {
			return t.Int(k)
		}
	}
	return t.Int(kinds[len(kinds)-1])
}

// FitsInt reports whether v is representable by integers of kind k.
func (t *Table) FitsInt(k IntKind, v int64) bool {
	bits := k.Bits(t.target.PtrSize)
	if k.Signed() {
		if bits >= 64 {
			return true
		}
		limit := int64(1) << (bits - 1)
		return v >= -limit && v < limit
	}
	if v < 0 {
		return false
	}
	if bits >= 64 {
		return true
	}
	return uint64(v) <= uint64(math.MaxUint64)>>(64-bits)
}

// Fields returns the laid-out fields of a struct.
func (t *Table) Fields(id TyID) ([]Field, error) {
	if t.Shape(id).Kind != KindStruct {
		return nil, fmt.Errorf("types: %s is not a struct", t.Display(id))
	}
	if _, err := t.Layout(id); err != nil {
		return nil, err
	}
	return t.nominals[id].fields, nil
}

// Field looks up a struct field by name.
func (t *Table) Field(id TyID, sym symbol.Symbol) (Field, bool, error) {
	fields, err := t.Fields(id)
	if err != nil {
		return Field{}, false, err
	}
	for _, f := range fields {
		if f.Sym == sym {
			return f, true, nil
		}
	}
	return Field{}, false, nil
}

// Enum returns the storage type and discriminants of a defined enum.
func (t *Table) Enum(id TyID) (TyID, []EnumVariant, bool) {
	nom, ok := t.nominals[id]
	if !ok || t.Shape(id).Kind != KindEnum || !nom.defined {
		return 0, nil, false
	}
	return nom.storage, nom.variants, true
}

// Name returns the declared name of a struct or enum.
func (t *Table) Name(id TyID) string {
	if nom, ok := t.nominals[id]; ok {
		return nom.name
	}
	return ""
}
