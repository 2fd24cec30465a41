package symbol

import (
	"fmt"
	"sync"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/arena"
)

// Table interns identifier text. One Table is shared by every compilation
// unit of a process, so it is the only structure of the compiler that
// synchronises access: lookups take the read lock, inserts the write lock.
type Table struct {
	mu  sync.RWMutex
	str *arena.StrInterner
}

// NewTable returns a table pre-seeded with the well-known symbols.
func NewTable() *Table {
	t := &Table{str: arena.NewStrInterner()}
	for i, text := range predefined {
		if h := t.str.InsertOrGet(text); Symbol(h) != Symbol(i) {
			panic(fmt.Sprintf("symbol: %q seeded at %d, want %d", text, h, i))
		}
	}
	return t
}

// Intern returns the symbol for text, inserting it when needed.
func (t *Table) Intern(text string) Symbol {
	t.mu.RLock()
	h, ok := t.str.GetHandle(text)
	t.mu.RUnlock()
	if ok {
		return Symbol(h)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// another writer may have won the race between the two locks
	return Symbol(t.str.InsertOrGet(text))
}

// Get looks text up without interning it.
func (t *Table) Get(text string) (Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.str.GetHandle(text)
	return Symbol(h), ok
}

// Lookup returns the text of s.
func (t *Table) Lookup(s Symbol) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.str.Get(arena.Handle(s))
}

// MustLookup returns the text of s and panics for unknown symbols.
func (t *Table) MustLookup(s Symbol) string {
	text, ok := t.Lookup(s)
	if !ok {
		panic(fmt.Sprintf("symbol: unknown symbol %d", s))
	}
	return text
}

// Len reports the number of interned symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.str.Len()
}
