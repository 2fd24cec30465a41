package arena

import (
	"fmt"
	"testing"
)

func TestInternerIdempotent(t *testing.T) {
	in := NewInterner[uint32]()
	cases := [][]uint32{
		{},
		{1},
		{1, 2, 3},
		{3, 2, 1},
		{0, 0},
		{0},
	}
	handles := make([]Handle, len(cases))
	for i, c := range cases {
		handles[i] = in.InsertOrGet(c)
	}
	for i, c := range cases {
		if h := in.InsertOrGet(c); h != handles[i] {
			t.Fatalf("case %v: second insert returned %d, want %d", c, h, handles[i])
		}
		got, ok := in.Get(handles[i])
		if !ok {
			t.Fatalf("case %v: handle %d not found", c, handles[i])
		}
		if fmt.Sprint(got) != fmt.Sprint(c) {
			t.Fatalf("case %v: got content %v", c, got)
		}
	}
	if in.Len() != len(cases) {
		t.Fatalf("expected %d entries, got %d", len(cases), in.Len())
	}
}

func TestInternerHandlesFollowInsertionOrder(t *testing.T) {
	in := NewInterner[string]()
	for i := range 10 {
		h := in.InsertOrGet([]string{fmt.Sprint(i)})
		if int(h) != i {
			t.Fatalf("insert %d: got handle %d", i, h)
		}
	}
}

func TestInternerCopiesContent(t *testing.T) {
	in := NewInterner[byte]()
	buf := []byte("hello")
	h := in.InsertOrGet(buf)
	buf[0] = 'J'
	got := in.MustGet(h)
	if string(got) != "hello" {
		t.Fatalf("interned content changed with caller buffer: %q", got)
	}
	if _, ok := in.GetHandle([]byte("Jello")); ok {
		t.Fatalf("mutated buffer must not be interned")
	}
}

func TestInternerInsertIfNotExists(t *testing.T) {
	in := NewInterner[int]()
	h, ok := in.InsertIfNotExists([]int{1, 2})
	if !ok {
		t.Fatalf("first insert must succeed")
	}
	if _, ok := in.InsertIfNotExists([]int{1, 2}); ok {
		t.Fatalf("duplicate insert must fail")
	}
	if got, ok := in.GetHandle([]int{1, 2}); !ok || got != h {
		t.Fatalf("GetHandle = %d, %v; want %d, true", got, ok, h)
	}
}

func TestInternerStableAcrossGrowth(t *testing.T) {
	in := NewInterner[int]()
	first := in.MustGet(in.InsertOrGet([]int{42, 43}))
	for i := range 10_000 {
		in.InsertOrGet([]int{i, i + 1, i + 2})
	}
	if first[0] != 42 || first[1] != 43 {
		t.Fatalf("earlier slice was invalidated: %v", first)
	}
}

func TestStrInterner(t *testing.T) {
	in := NewStrInterner()
	a := in.InsertOrGet("alpha")
	b := in.InsertOrGet("beta")
	if a == b {
		t.Fatalf("distinct strings share a handle")
	}
	if in.InsertOrGet("alpha") != a {
		t.Fatalf("re-insert changed handle")
	}
	if _, ok := in.InsertIfNotExists("beta"); ok {
		t.Fatalf("InsertIfNotExists accepted a duplicate")
	}
	if s, ok := in.Get(b); !ok || s != "beta" {
		t.Fatalf("Get(b) = %q, %v", s, ok)
	}
	if _, ok := in.Get(Handle(99)); ok {
		t.Fatalf("unknown handle resolved")
	}
}

func TestTable(t *testing.T) {
	type rowID uint32
	tbl := NewTable[rowID, string](0)
	a := tbl.Push("a")
	b := tbl.Push("b")
	if a != 0 || b != 1 {
		t.Fatalf("ids not dense: %d %d", a, b)
	}
	*tbl.Get(a) = "A"
	if tbl.At(a) != "A" || tbl.Len() != 2 || !tbl.Has(b) || tbl.Has(rowID(2)) {
		t.Fatalf("unexpected table state: %v", tbl.All())
	}
}
