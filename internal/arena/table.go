package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// ID is the constraint for typed table indices.
type ID interface{ ~uint32 }

// Table is an append-only slab of T addressed by a typed index. Records are
// never removed; IDs are dense and start at zero.
type Table[I ID, T any] struct {
	data []T
}

// NewTable creates a table with the given capacity hint.
func NewTable[I ID, T any](capHint int) *Table[I, T] {
	return &Table[I, T]{data: make([]T, 0, capHint)}
}

// Push appends v and returns its ID.
func (t *Table[I, T]) Push(v T) I {
	n, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("table overflow: %w", err))
	}
	t.data = append(t.data, v)
	return I(n)
}

// Get returns a pointer to the record. The pointer is invalidated by the next
// Push, so callers must not hold it across insertions.
func (t *Table[I, T]) Get(id I) *T {
	if int(id) >= len(t.data) {
		panic(fmt.Sprintf("arena: id %d out of range (len %d)", id, len(t.data)))
	}
	return &t.data[id]
}

// At returns a copy of the record.
func (t *Table[I, T]) At(id I) T {
	return *t.Get(id)
}

// Has reports whether id addresses a record.
func (t *Table[I, T]) Has(id I) bool {
	return int(id) < len(t.data)
}

// Len reports the number of records.
func (t *Table[I, T]) Len() int {
	return len(t.data)
}

// All returns the records in ID order. READONLY.
func (t *Table[I, T]) All() []T {
	return t.data
}
