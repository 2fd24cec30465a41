package symbol

import (
	"fmt"
	"sync"
	"testing"
)

func TestPredefinedOrder(t *testing.T) {
	tbl := NewTable()
	for i, text := range predefined {
		sym, ok := tbl.Get(text)
		if !ok || sym != Symbol(i) {
			t.Fatalf("%q: got %d (%v), want %d", text, sym, ok, i)
		}
	}
	if got := tbl.Intern("while"); got != KwWhile {
		t.Fatalf("while interned to %d, want %d", got, KwWhile)
	}
}

func TestKeywordRange(t *testing.T) {
	tbl := NewTable()
	for s := FirstKeyword; s <= LastKeyword; s++ {
		if !IsKeyword(s) {
			t.Fatalf("%s not classified as keyword", tbl.MustLookup(s))
		}
		if IsPrimitiveTy(s) {
			t.Fatalf("%s classified as primitive type", tbl.MustLookup(s))
		}
	}
	for _, text := range []string{"foo", "Point", "x", "whilst"} {
		s := tbl.Intern(text)
		if s <= LastKeyword {
			t.Fatalf("user symbol %q got keyword-range handle %d", text, s)
		}
		if IsKeyword(s) {
			t.Fatalf("user symbol %q classified as keyword", text)
		}
	}
	if !IsPrimitiveTy(TyI32) || !IsPrimitiveTy(TyUsize) || IsPrimitiveTy(AbiC) {
		t.Fatalf("primitive range is wrong")
	}
}

func TestInternIdempotent(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("point")
	b := tbl.Intern("point")
	if a != b {
		t.Fatalf("same text interned to %d and %d", a, b)
	}
	if text := tbl.MustLookup(a); text != "point" {
		t.Fatalf("lookup returned %q", text)
	}
}

func TestConcurrentIntern(t *testing.T) {
	tbl := NewTable()
	const workers = 32
	const names = 200

	results := make([][]Symbol, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		go func() {
			defer wg.Done()
			out := make([]Symbol, names)
			for i := range names {
				out[i] = tbl.Intern(fmt.Sprintf("name_%d", i))
			}
			results[w] = out
		}()
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for i := range names {
			if results[w][i] != results[0][i] {
				t.Fatalf("worker %d: name_%d = %d, worker 0 got %d", w, i, results[w][i], results[0][i])
			}
		}
	}
	if want := int(numPredefined) + names; tbl.Len() != want {
		t.Fatalf("table has %d entries, want %d", tbl.Len(), want)
	}
}
