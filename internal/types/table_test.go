package types

import (
	"errors"
	"slices"
	"testing"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

func newTestTable() (*Table, *symbol.Table) {
	return NewTable(layout.X86_64LinuxGNU()), symbol.NewTable()
}

func TestBuiltinsAreHashConsed(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()
	if got := tbl.InsertOrGet(Shape{Kind: KindInt, Int: I32}); got != b.I32 {
		t.Fatalf("i32 interned to %d, want %d", got, b.I32)
	}
	if tbl.Int(Usize) != b.Usize || tbl.Int(I8) != b.I8 {
		t.Fatalf("Int lookup does not match builtins")
	}
	if tbl.Ptr(b.I32, false) != tbl.Ptr(b.I32, false) {
		t.Fatalf("pointer types must be deduplicated")
	}
	if tbl.Ptr(b.I32, true) == tbl.Ptr(b.I32, false) {
		t.Fatalf("mutability must affect identity")
	}
	if tbl.Tuple([]TyID{b.I32, b.Bool}) != tbl.Tuple([]TyID{b.I32, b.Bool}) {
		t.Fatalf("tuples must be deduplicated")
	}
	if tbl.Tuple(nil) != b.Unit {
		t.Fatalf("empty tuple must be unit")
	}
}

func TestScalarLayouts(t *testing.T) {
	tests := []struct {
		target layout.Target
		name   string
		ty     func(*Table) TyID
		size   uint64
		align  uint64
	}{
		{layout.X86_64LinuxGNU(), "u8", func(t *Table) TyID { return t.Builtins().U8 }, 1, 1},
		{layout.X86_64LinuxGNU(), "i64", func(t *Table) TyID { return t.Builtins().I64 }, 8, 8},
		{layout.X86_64LinuxGNU(), "usize", func(t *Table) TyID { return t.Builtins().Usize }, 8, 8},
		{layout.I386LinuxGNU(), "usize", func(t *Table) TyID { return t.Builtins().Usize }, 4, 4},
		{layout.X86_64LinuxGNU(), "char", func(t *Table) TyID { return t.Builtins().Char }, 4, 4},
		{layout.X86_64LinuxGNU(), "unit", func(t *Table) TyID { return t.Builtins().Unit }, 0, 1},
		{layout.X86_64LinuxGNU(), "*i8", func(t *Table) TyID { return t.Ptr(t.Builtins().I8, false) }, 8, 8},
		{layout.I386LinuxGNU(), "[]u8", func(t *Table) TyID { return t.Slice(t.Builtins().U8, false) }, 8, 4},
		{layout.X86_64LinuxGNU(), "[3]i32", func(t *Table) TyID { return t.Array(t.Builtins().I32, 3) }, 12, 4},
		{layout.X86_64LinuxGNU(), "(u8, i64)", func(t *Table) TyID {
			return t.Tuple([]TyID{t.Builtins().U8, t.Builtins().I64})
		}, 16, 8},
	}
	for _, tt := range tests {
		t.Run(tt.target.Triple+"/"+tt.name, func(t *testing.T) {
			tbl := NewTable(tt.target)
			l, err := tbl.Layout(tt.ty(tbl))
			if err != nil {
				t.Fatalf("layout: %v", err)
			}
			if l.Size != tt.size || l.Align != tt.align {
				t.Fatalf("size/align = %d/%d, want %d/%d", l.Size, l.Align, tt.size, tt.align)
			}
		})
	}
}

func TestPlaceholdersHaveNoLayout(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()
	for _, id := range []TyID{b.Infer, b.InferInt, b.Module, b.Diverge} {
		if _, err := tbl.Layout(id); !errors.Is(err, ErrNoLayout) {
			t.Fatalf("%s: expected ErrNoLayout, got %v", tbl.Display(id), err)
		}
	}
}

func TestDefineStructPacksFields(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	s := tbl.DeclareStruct(1, "S")
	fields := []Field{
		{Sym: syms.Intern("a"), Ty: b.U8},
		{Sym: syms.Intern("b"), Ty: b.U64},
		{Sym: syms.Intern("c"), Ty: b.U32},
		{Sym: syms.Intern("d"), Ty: b.U64},
	}
	if err := tbl.DefineStruct(s, fields); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := tbl.Fields(s)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	offsets := make([]uint64, len(got))
	for i, f := range got {
		offsets[i] = f.Offset
	}
	if !slices.Equal(offsets, []uint64{20, 0, 16, 8}) {
		t.Fatalf("offsets = %v", offsets)
	}
	l, _ := tbl.Layout(s)
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 24/8", l.Size, l.Align)
	}
	if err := tbl.DefineStruct(s, fields); !errors.Is(err, ErrAlreadyDefined) {
		t.Fatalf("second define: expected ErrAlreadyDefined, got %v", err)
	}
}

func TestDefineStructWaitsForFieldTypes(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	outer := tbl.DeclareStruct(1, "Outer")
	inner := tbl.DeclareStruct(2, "Inner")
	arr := tbl.Array(inner, 2)

	outerFields := []Field{{Sym: syms.Intern("items"), Ty: arr}, {Sym: syms.Intern("n"), Ty: b.U8}}
	if err := tbl.DefineStruct(outer, outerFields); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := tbl.Size(arr); !errors.Is(err, ErrNotReady) {
		t.Fatalf("array of declared struct: expected ErrNotReady, got %v", err)
	}
	if err := tbl.DefineStruct(inner, []Field{{Sym: syms.Intern("v"), Ty: b.I32}}); err != nil {
		t.Fatalf("define inner: %v", err)
	}
	if err := tbl.DefineStruct(outer, outerFields); err != nil {
		t.Fatalf("retry outer: %v", err)
	}
	l, _ := tbl.Layout(outer)
	if l.Size != 12 || l.Align != 4 {
		t.Fatalf("outer size/align = %d/%d, want 12/4", l.Size, l.Align)
	}
}

func TestPendingStructLaidOutByDependent(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	a := tbl.DeclareStruct(1, "A")
	c := tbl.DeclareStruct(2, "C")
	bb := tbl.DeclareStruct(3, "B")

	aFields := []Field{{Sym: syms.Intern("c"), Ty: c}}
	bFields := []Field{{Sym: syms.Intern("a"), Ty: a}}
	if err := tbl.DefineStruct(a, aFields); !errors.Is(err, ErrNotReady) {
		t.Fatalf("A: expected ErrNotReady, got %v", err)
	}
	if err := tbl.DefineStruct(bb, bFields); !errors.Is(err, ErrNotReady) {
		t.Fatalf("B: expected ErrNotReady, got %v", err)
	}
	if err := tbl.DefineStruct(c, []Field{{Sym: syms.Intern("x"), Ty: b.I16}}); err != nil {
		t.Fatalf("C: %v", err)
	}
	// B's retry lays out A on the way
	if err := tbl.DefineStruct(bb, bFields); err != nil {
		t.Fatalf("B retry: %v", err)
	}
	if !tbl.IsLaidOut(a) {
		t.Fatalf("A should be laid out through B")
	}
	if err := tbl.DefineStruct(a, aFields); err != nil {
		t.Fatalf("A retry must succeed once, got %v", err)
	}
	if err := tbl.DefineStruct(a, aFields); !errors.Is(err, ErrAlreadyDefined) {
		t.Fatalf("A third define: expected ErrAlreadyDefined, got %v", err)
	}
}

func TestStructContainingItselfIsRejected(t *testing.T) {
	tbl, syms := newTestTable()
	s := tbl.DeclareStruct(1, "S")
	err := tbl.DefineStruct(s, []Field{{Sym: syms.Intern("s"), Ty: s}})
	var de *DefineError
	if !errors.As(err, &de) || de.Kind != StructHasInfiniteSize {
		t.Fatalf("expected StructHasInfiniteSize, got %v", err)
	}
	if !slices.Equal(de.Cycle, []TyID{s, s}) {
		t.Fatalf("cycle = %v", de.Cycle)
	}
	if Retryable(err) {
		t.Fatalf("infinite size must not be retryable")
	}
}

func TestInfiniteSizeThroughChain(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	a := tbl.DeclareStruct(1, "A")
	bb := tbl.DeclareStruct(2, "B")
	c := tbl.DeclareStruct(3, "C")

	if err := tbl.DefineStruct(a, []Field{{Sym: syms.Intern("b"), Ty: bb}}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("A: expected ErrNotReady, got %v", err)
	}
	tuple := tbl.Tuple([]TyID{b.I32, a})
	if err := tbl.DefineStruct(bb, []Field{{Sym: syms.Intern("c"), Ty: c}}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("B: expected ErrNotReady, got %v", err)
	}
	err := tbl.DefineStruct(c, []Field{{Sym: syms.Intern("t"), Ty: tuple}})
	var de *DefineError
	if !errors.As(err, &de) || de.Kind != StructHasInfiniteSize {
		t.Fatalf("C: expected StructHasInfiniteSize, got %v", err)
	}
	if de.Cycle[0] != c || de.Cycle[len(de.Cycle)-1] != c {
		t.Fatalf("cycle must start and end at C: %v", de.Cycle)
	}
	for _, id := range []TyID{a, bb} {
		err := tbl.DefineStruct(id, nil)
		if !errors.As(err, &de) || de.Kind != StructHasInfiniteSize || de.Ty != id {
			t.Fatalf("%s: expected its own infinite size error, got %v", tbl.Name(id), err)
		}
	}
}

func TestSelfPointerIsSized(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	node := tbl.DeclareStruct(1, "Node")
	err := tbl.DefineStruct(node, []Field{
		{Sym: syms.Intern("next"), Ty: tbl.Ptr(node, true)},
		{Sym: syms.Intern("value"), Ty: b.I32},
	})
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	l, _ := tbl.Layout(node)
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 16/8", l.Size, l.Align)
	}
}

func TestDuplicatedField(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	s := tbl.DeclareStruct(1, "S")
	x := syms.Intern("x")
	err := tbl.DefineStruct(s, []Field{{Sym: x, Ty: b.I32}, {Sym: x, Ty: b.I64}})
	var de *DefineError
	if !errors.As(err, &de) || de.Kind != DuplicatedField || de.Sym != x {
		t.Fatalf("expected DuplicatedField on x, got %v", err)
	}
	user := tbl.DeclareStruct(2, "User")
	if err := tbl.DefineStruct(user, []Field{{Sym: syms.Intern("s"), Ty: s}}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("struct using a broken struct: expected ErrIncomplete, got %v", err)
	}
}

func TestEnumStorage(t *testing.T) {
	tbl, syms := newTestTable()
	b := tbl.Builtins()
	red, green, blue := syms.Intern("Red"), syms.Intern("Green"), syms.Intern("Blue")

	color := tbl.DeclareEnum(1, "Color")
	if err := tbl.DefineEnum(color, b.InferInt, []EnumVariant{{red, 0}, {green, 4}, {blue, 5}}); err != nil {
		t.Fatalf("define: %v", err)
	}
	storage, variants, ok := tbl.Enum(color)
	if !ok || storage != b.U8 || len(variants) != 3 {
		t.Fatalf("enum info = %d, %v, %v", storage, variants, ok)
	}
	if size, _ := tbl.Size(color); size != 1 {
		t.Fatalf("size = %d, want 1", size)
	}

	wide := tbl.DeclareEnum(2, "Wide")
	if err := tbl.DefineEnum(wide, b.InferInt, []EnumVariant{{red, 300}}); err != nil {
		t.Fatalf("define wide: %v", err)
	}
	if storage, _, _ := tbl.Enum(wide); storage != b.U16 {
		t.Fatalf("wide storage = %s", tbl.Display(storage))
	}

	neg := tbl.DeclareEnum(3, "Neg")
	if err := tbl.DefineEnum(neg, b.InferInt, []EnumVariant{{red, -1}}); err != nil {
		t.Fatalf("define neg: %v", err)
	}
	if storage, _, _ := tbl.Enum(neg); storage != b.I8 {
		t.Fatalf("neg storage = %s", tbl.Display(storage))
	}

	bad := tbl.DeclareEnum(4, "Bad")
	var de *DefineError
	if err := tbl.DefineEnum(bad, b.F32, nil); !errors.As(err, &de) || de.Kind != InvalidEnumStorage {
		t.Fatalf("expected InvalidEnumStorage, got %v", err)
	}
	small := tbl.DeclareEnum(5, "Small")
	if err := tbl.DefineEnum(small, b.U8, []EnumVariant{{red, 256}}); !errors.As(err, &de) || de.Kind != DiscriminantOutOfRange {
		t.Fatalf("expected DiscriminantOutOfRange, got %v", err)
	}
	dup := tbl.DeclareEnum(6, "Dup")
	if err := tbl.DefineEnum(dup, b.U8, []EnumVariant{{red, 0}, {red, 1}}); !errors.As(err, &de) || de.Kind != DuplicatedVariant {
		t.Fatalf("expected DuplicatedVariant, got %v", err)
	}
}

func TestVariantFlattensAndDedups(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()

	ab := tbl.Variant([]TyID{b.I32, b.F64})
	ba := tbl.Variant([]TyID{b.F64, b.I32, b.F64})
	if ab != ba {
		t.Fatalf("member order and duplicates must not matter")
	}
	nested := tbl.Variant([]TyID{ab, b.Bool, b.I32})
	if got := tbl.Elems(nested); len(got) != 3 {
		t.Fatalf("nested variant has %d leaves, want 3", len(got))
	}
	for _, leaf := range tbl.Elems(nested) {
		if tbl.IsVariant(leaf) {
			t.Fatalf("leaf %s is a variant", tbl.Display(leaf))
		}
	}
	if !tbl.VariantHas(nested, b.F64) || tbl.VariantHas(nested, b.U8) {
		t.Fatalf("VariantHas is wrong")
	}
	if got := tbl.Variant([]TyID{b.I32, b.I32}); got != b.I32 {
		t.Fatalf("single member variant = %s, want i32", tbl.Display(got))
	}
	if got := tbl.Variant(nil); got != b.Unit {
		t.Fatalf("empty variant = %s, want ()", tbl.Display(got))
	}

	l, err := tbl.Layout(ab)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if l.Size != 16 || l.Align != 8 || !slices.Equal(l.Offsets, []uint64{0, 8}) {
		t.Fatalf("variant layout = %+v", l)
	}
}

func TestDisplay(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()
	point := tbl.DeclareStruct(7, "Point")
	tests := []struct {
		ty   TyID
		want string
	}{
		{tbl.Ptr(b.I32, true), "*mut i32"},
		{tbl.ManyPtr(b.U8, false), "[*]u8"},
		{tbl.Slice(point, true), "[]mut Point"},
		{tbl.Array(b.F32, 4), "[4]f32"},
		{tbl.Tuple([]TyID{b.Bool, b.Char}), "(bool, char)"},
		{tbl.Fn([]TyID{b.I32, b.F64}, b.Bool, false), "fn(i32, f64) -> bool"},
		{tbl.Fn([]TyID{b.CStr}, b.I32, true), "fn([*]u8, ...) -> i32"},
		{tbl.Fn(nil, b.Unit, false), "fn()"},
		{tbl.Variant([]TyID{b.I32, b.F64}), "i32 | f64"},
		{b.InferInt, "{infer_int}"},
		{b.Diverge, "!"},
	}
	for _, tt := range tests {
		if got := tbl.Display(tt.ty); got != tt.want {
			t.Fatalf("Display = %q, want %q", got, tt.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()
	if !tbl.IsSignedInt(b.Isize) || tbl.IsSignedInt(b.U8) || !tbl.IsUnsignedInt(b.Usize) {
		t.Fatalf("signedness predicates are wrong")
	}
	if !tbl.IsNumber(b.F32) || tbl.IsNumber(b.Bool) {
		t.Fatalf("IsNumber is wrong")
	}
	if !tbl.IsDefinable(b.Unit) || tbl.IsDefinable(b.InferNumber) || tbl.IsDefinable(b.Diverge) {
		t.Fatalf("IsDefinable is wrong")
	}
	if !tbl.Satisfies(InferIntOrBool, b.Bool) || tbl.Satisfies(InferInt, b.F64) {
		t.Fatalf("Satisfies is wrong")
	}
	if !tbl.Satisfies(InferEmptyArray, tbl.Array(b.I32, 0)) || tbl.Satisfies(InferEmptyArray, tbl.Array(b.I32, 1)) {
		t.Fatalf("empty array placeholder is wrong")
	}
	if !tbl.FitsInt(I8, -128) || tbl.FitsInt(I8, 128) || tbl.FitsInt(U32, -1) || !tbl.FitsInt(U32, 1<<32-1) {
		t.Fatalf("FitsInt is wrong")
	}
}

func TestComparableAndPointerLike(t *testing.T) {
	tbl, _ := newTestTable()
	b := tbl.Builtins()
	tests := []struct {
		name        string
		ty          TyID
		comparable  bool
		pointerLike bool
	}{
		{"bool", b.Bool, true, false},
		{"char", b.Char, true, false},
		{"u16", b.U16, true, false},
		{"f64", b.F64, true, false},
		{"*i32", tbl.Ptr(b.I32, false), true, true},
		{"[*]mut u8", tbl.ManyPtr(b.U8, true), true, true},
		{"[]u8", tbl.Slice(b.U8, false), false, false},
		{"[2]i32", tbl.Array(b.I32, 2), false, false},
		{"()", b.Unit, false, false},
		{"fn() -> i32", tbl.Fn(nil, b.I32, false), false, false},
	}
	for _, tt := range tests {
		if got := tbl.IsComparable(tt.ty); got != tt.comparable {
			t.Errorf("IsComparable(%s) = %v, want %v", tt.name, got, tt.comparable)
		}
		if got := tbl.IsPointerLike(tt.ty); got != tt.pointerLike {
			t.Errorf("IsPointerLike(%s) = %v, want %v", tt.name, got, tt.pointerLike)
		}
	}
}
