package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/arena"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
)

// Builtins stores the TyIDs every Table is seeded with.
type Builtins struct {
	Infer           TyID
	InferInt        TyID
	InferFloat      TyID
	InferNumber     TyID
	InferIntOrBool  TyID
	InferEmptyArray TyID
	InferSubscript  TyID

	Module TyID
	Ty     TyID

	Diverge TyID
	Unit    TyID
	Bool    TyID
	Char    TyID

	I8, I16, I32, I64, I128, Isize TyID
	U8, U16, U32, U64, U128, Usize TyID
	F32, F64                       TyID

	// CStr is [*]u8, the type of string literals.
	CStr TyID
}

type state uint8

const (
	stateReady    state = iota
	stateNoLayout       // placeholders, meta types, diverge
	stateLazy           // composite waiting for a component
	stateDeclared       // struct/enum without body
	statePending        // struct with fields, layout not computed yet
	stateBroken
)

type entry struct {
	shape  Shape
	layout Layout
	state  state
}

type nominal struct {
	name     string
	fields   []Field
	storage  TyID
	variants []EnumVariant
	defined  bool
	err      error
}

// Table hash-conses shapes into TyIDs and owns their layouts. A Table is bound
// to one target; it is not safe for concurrent mutation.
type Table struct {
	target   layout.Target
	entries  []entry
	index    map[Shape]TyID
	lists    *arena.Interner[TyID]
	nominals map[TyID]*nominal
	builtins Builtins
}

// NewTable constructs a table seeded with primitives and placeholders.
func NewTable(target layout.Target) *Table {
	t := &Table{
		target:   target,
		index:    make(map[Shape]TyID, 128),
		lists:    arena.NewInterner[TyID](),
		nominals: make(map[TyID]*nominal),
	}
	// handle 0 is the empty list, so a zero Shape.List means "no elements"
	t.lists.InsertOrGet(nil)

	b := &t.builtins
	b.Infer = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferAny})
	b.InferInt = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferInt})
	b.InferFloat = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferFloat})
	b.InferNumber = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferNumber})
	b.InferIntOrBool = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferIntOrBool})
	b.InferEmptyArray = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferEmptyArray})
	b.InferSubscript = t.InsertOrGet(Shape{Kind: KindInfer, Infer: InferSubscript})
	b.Module = t.InsertOrGet(Shape{Kind: KindItem, Item: ItemModule})
	b.Ty = t.InsertOrGet(Shape{Kind: KindItem, Item: ItemTy})
	b.Diverge = t.InsertOrGet(Shape{Kind: KindDiverge})
	b.Unit = t.InsertOrGet(Shape{Kind: KindUnit})
	b.Bool = t.InsertOrGet(Shape{Kind: KindBool})
	b.Char = t.InsertOrGet(Shape{Kind: KindChar})
	ints := []*TyID{&b.I8, &b.I16, &b.I32, &b.I64, &b.I128, &b.Isize, &b.U8, &b.U16, &b.U32, &b.U64, &b.U128, &b.Usize}
	for k, dst := range ints {
		*dst = t.InsertOrGet(Shape{Kind: KindInt, Int: IntKind(k)})
	}
	b.F32 = t.InsertOrGet(Shape{Kind: KindFloat, Float: F32})
	b.F64 = t.InsertOrGet(Shape{Kind: KindFloat, Float: F64})
	b.CStr = t.ManyPtr(b.U8, false)
	return t
}

// Builtins returns the seeded TyIDs.
func (t *Table) Builtins() Builtins {
	return t.builtins
}

// Target returns the target the table computes layouts for.
func (t *Table) Target() layout.Target {
	return t.target
}

// Len reports the number of types.
func (t *Table) Len() int {
	return len(t.entries)
}

// Int returns the TyID of an integer kind.
func (t *Table) Int(k IntKind) TyID {
	return t.builtins.I8 + TyID(k)
}

// Float returns the TyID of a float kind.
func (t *Table) Float(k FloatKind) TyID {
	if k == F32 {
		return t.builtins.F32
	}
	return t.builtins.F64
}

// Shape returns the descriptor of id.
func (t *Table) Shape(id TyID) Shape {
	return t.entry(id).shape
}

// List returns the element list referenced by a shape.
func (t *Table) List(h arena.Handle) []TyID {
	return t.lists.MustGet(h)
}

// Elems returns tuple elements, fn params or variant members of id.
func (t *Table) Elems(id TyID) []TyID {
	return t.List(t.entry(id).shape.List)
}

func (t *Table) entry(id TyID) *entry {
	if int(id) >= len(t.entries) {
		panic(fmt.Sprintf("types: unknown TyID %d", id))
	}
	return &t.entries[id]
}

// InsertOrGet returns the TyID for shape, creating it on first use. Struct and
// enum shapes must go through DeclareStruct and DeclareEnum.
func (t *Table) InsertOrGet(shape Shape) TyID {
	if id, ok := t.index[shape]; ok {
		return id
	}
	if shape.Kind == KindStruct || shape.Kind == KindEnum {
		panic(fmt.Sprintf("types: %s shapes must be declared", shape.Kind))
	}
	id := t.push(shape, stateLazy)
	e := t.entry(id)
	switch shape.Kind {
	case KindInfer, KindItem, KindDiverge:
		e.state = stateNoLayout
	case KindArray, KindTuple, KindVariant:
		// settles now when every component is laid out, lazily otherwise
		_, _ = t.resolveLayout(id, nil)
	default:
		e.layout = t.scalarLayout(shape)
		e.state = stateReady
	}
	return id
}

func (t *Table) push(shape Shape, st state) TyID {
	n, err := safecast.Conv[uint32](len(t.entries))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TyID(n)
	t.entries = append(t.entries, entry{shape: shape, state: st})
	t.index[shape] = id
	return id
}

func (t *Table) scalarLayout(shape Shape) Layout {
	ptr := Layout{Size: t.target.PtrSize, Align: t.target.PtrAlign}
	switch shape.Kind {
	case KindUnit:
		return Layout{Size: 0, Align: 1}
	case KindBool:
		return Layout{Size: 1, Align: 1}
	case KindChar:
		return Layout{Size: 4, Align: 4}
	case KindInt:
		size := shape.Int.Bits(t.target.PtrSize) / 8
		if shape.Int == Isize || shape.Int == Usize {
			return ptr
		}
		return Layout{Size: size, Align: size}
	case KindFloat:
		if shape.Float == F32 {
			return Layout{Size: 4, Align: 4}
		}
		return Layout{Size: 8, Align: 8}
	case KindPtr, KindManyPtr, KindFn:
		return ptr
	case KindSlice:
		return Layout{Size: 2 * t.target.PtrSize, Align: t.target.PtrAlign}
	default:
		panic(fmt.Sprintf("types: no scalar layout for %s", shape.Kind))
	}
}

// Ptr returns *elem or *mut elem.
func (t *Table) Ptr(elem TyID, mutable bool) TyID {
	return t.InsertOrGet(Shape{Kind: KindPtr, Elem: elem, Mutable: mutable})
}

// ManyPtr returns [*]elem or [*mut]elem.
func (t *Table) ManyPtr(elem TyID, mutable bool) TyID {
	return t.InsertOrGet(Shape{Kind: KindManyPtr, Elem: elem, Mutable: mutable})
}

// Slice returns []elem or []mut elem.
func (t *Table) Slice(elem TyID, mutable bool) TyID {
	return t.InsertOrGet(Shape{Kind: KindSlice, Elem: elem, Mutable: mutable})
}

// Array returns [n]elem.
func (t *Table) Array(elem TyID, n uint64) TyID {
	return t.InsertOrGet(Shape{Kind: KindArray, Elem: elem, Len: n})
}

// Tuple returns the tuple of elems; the empty tuple is unit.
func (t *Table) Tuple(elems []TyID) TyID {
	if len(elems) == 0 {
		return t.builtins.Unit
	}
	return t.InsertOrGet(Shape{Kind: KindTuple, List: t.lists.InsertOrGet(elems)})
}

// Fn returns the function type fn(params) -> ret.
func (t *Table) Fn(params []TyID, ret TyID, variadic bool) TyID {
	return t.InsertOrGet(Shape{Kind: KindFn, List: t.lists.InsertOrGet(params), Elem: ret, Variadic: variadic})
}

// Layout returns the size, alignment and member offsets of id.
func (t *Table) Layout(id TyID) (Layout, error) {
	return t.resolveLayout(id, nil)
}

// Size is Layout(id).Size.
func (t *Table) Size(id TyID) (uint64, error) {
	l, err := t.Layout(id)
	return l.Size, err
}

// Align is Layout(id).Align.
func (t *Table) Align(id TyID) (uint64, error) {
	l, err := t.Layout(id)
	return l.Align, err
}

// IsLaidOut reports whether the layout of id is final.
func (t *Table) IsLaidOut(id TyID) bool {
	return t.entry(id).state == stateReady
}

// resolveLayout computes the layout of id, walking by-value components.
// stack holds the types currently being laid out; meeting one of them again
// means the type contains itself by value.
func (t *Table) resolveLayout(id TyID, stack []TyID) (Layout, error) {
	e := t.entry(id)
	switch e.state {
	case stateReady:
		return e.layout, nil
	case stateNoLayout:
		return Layout{}, ErrNoLayout
	case stateDeclared:
		return Layout{}, ErrNotReady
	case stateBroken:
		return Layout{}, ErrIncomplete
	}
	for i, seen := range stack {
		if seen == id {
			cycle := append(append([]TyID(nil), stack[i:]...), id)
			t.breakCycle(cycle)
			return Layout{}, &DefineError{Kind: StructHasInfiniteSize, Ty: id, Cycle: cycle}
		}
	}
	stack = append(stack, id)

	shape := e.shape
	var (
		lay Layout
		err error
	)
	switch shape.Kind {
	case KindArray:
		var elem Layout
		if elem, err = t.resolveLayout(shape.Elem, stack); err == nil {
			m := layout.Array(layout.Member{Size: elem.Size, Align: elem.Align}, shape.Len)
			lay = Layout{Size: m.Size, Align: m.Align}
		}
	case KindTuple:
		lay, err = t.packList(t.List(shape.List), stack)
	case KindVariant:
		lay, err = t.variantLayout(t.List(shape.List), stack)
	case KindStruct:
		lay, err = t.structLayout(id, stack)
	default:
		return Layout{}, ErrNoLayout
	}
	if err != nil {
		return Layout{}, err
	}
	e = t.entry(id)
	e.layout = lay
	e.state = stateReady
	return lay, nil
}

func (t *Table) packList(elems []TyID, stack []TyID) (Layout, error) {
	members := make([]layout.Member, len(elems))
	for i, el := range elems {
		l, err := t.resolveLayout(el, stack)
		if err != nil {
			return Layout{}, err
		}
		members[i] = layout.Member{Size: l.Size, Align: l.Align}
	}
	res := layout.Pack(members)
	return Layout{Size: res.Size, Align: res.Align, Offsets: res.Offsets}, nil
}

func (t *Table) variantLayout(members []TyID, stack []TyID) (Layout, error) {
	payload := layout.Member{Align: 1}
	for _, m := range members {
		l, err := t.resolveLayout(m, stack)
		if err != nil {
			return Layout{}, err
		}
		payload.Size = max(payload.Size, l.Size)
		payload.Align = max(payload.Align, l.Align)
	}
	tag := layout.Member{Size: 1, Align: 1}
	if len(members) > 256 {
		tag = layout.Member{Size: 2, Align: 2}
	}
	res := layout.Pack([]layout.Member{payload, tag})
	return Layout{Size: res.Size, Align: res.Align, Offsets: res.Offsets}, nil
}

func (t *Table) structLayout(id TyID, stack []TyID) (Layout, error) {
	nom := t.nominals[id]
	tys := make([]TyID, len(nom.fields))
	for i, f := range nom.fields {
		tys[i] = f.Ty
	}
	lay, err := t.packList(tys, stack)
	if err != nil {
		return Layout{}, err
	}
	for i := range nom.fields {
		nom.fields[i].Offset = lay.Offsets[i]
	}
	return lay, nil
}

// breakCycle marks every struct on a by-value cycle as permanently broken.
func (t *Table) breakCycle(cycle []TyID) {
	for _, id := range cycle {
		e := t.entry(id)
		if e.shape.Kind != KindStruct || e.state == stateBroken {
			continue
		}
		e.state = stateBroken
		t.nominals[id].err = &DefineError{Kind: StructHasInfiniteSize, Ty: id, Cycle: rotate(cycle, id)}
	}
}

// rotate returns the closed cycle starting and ending at id.
func rotate(cycle []TyID, id TyID) []TyID {
	open := cycle[:len(cycle)-1]
	for i, c := range open {
		if c == id {
			out := make([]TyID, 0, len(cycle))
			out = append(out, open[i:]...)
			out = append(out, open[:i]...)
			return append(out, id)
		}
	}
	return cycle
}
