package arena

import (
	"fmt"
	"hash/maphash"
	"slices"

	"fortio.org/safecast"
)

// Handle is a stable index into an interner. Handles are issued in insertion
// order and stay valid for the lifetime of the interner.
type Handle uint32

// Interner deduplicates slices of comparable values.
//
// Every interned slice owns its backing array. The array is never appended to,
// moved or released, so slices returned by Get remain valid while the
// interner is alive.
type Interner[T comparable] struct {
	seed    maphash.Seed
	entries [][]T
	buckets map[uint64][]Handle
}

// NewInterner creates an empty interner.
func NewInterner[T comparable]() *Interner[T] {
	return &Interner[T]{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]Handle, 64),
	}
}

func (in *Interner[T]) hash(content []T) uint64 {
	var h maphash.Hash
	h.SetSeed(in.seed)
	for _, v := range content {
		maphash.WriteComparable(&h, v)
	}
	// length is mixed in so that prefixes of zero values do not collide
	maphash.WriteComparable(&h, len(content))
	return h.Sum64()
}

func (in *Interner[T]) find(hash uint64, content []T) (Handle, bool) {
	for _, h := range in.buckets[hash] {
		if slices.Equal(in.entries[h], content) {
			return h, true
		}
	}
	return 0, false
}

func (in *Interner[T]) insert(hash uint64, content []T) Handle {
	n, err := safecast.Conv[uint32](len(in.entries))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	h := Handle(n)
	owned := make([]T, len(content))
	copy(owned, content)
	in.entries = append(in.entries, owned)
	in.buckets[hash] = append(in.buckets[hash], h)
	return h
}

// InsertOrGet returns the handle of content, interning a private copy when
// the content has not been seen before.
func (in *Interner[T]) InsertOrGet(content []T) Handle {
	hash := in.hash(content)
	if h, ok := in.find(hash, content); ok {
		return h
	}
	return in.insert(hash, content)
}

// InsertIfNotExists interns content only when it is not present yet. The
// second result is false when the content already had a handle.
func (in *Interner[T]) InsertIfNotExists(content []T) (Handle, bool) {
	hash := in.hash(content)
	if _, ok := in.find(hash, content); ok {
		return 0, false
	}
	return in.insert(hash, content), true
}

// Get returns the interned content for h. The returned slice must not be
// modified.
func (in *Interner[T]) Get(h Handle) ([]T, bool) {
	if int(h) >= len(in.entries) {
		return nil, false
	}
	return in.entries[h], true
}

// MustGet is Get that panics on an unknown handle.
func (in *Interner[T]) MustGet(h Handle) []T {
	content, ok := in.Get(h)
	if !ok {
		panic(fmt.Sprintf("arena: unknown handle %d", h))
	}
	return content
}

// GetHandle is the reverse lookup of Get.
func (in *Interner[T]) GetHandle(content []T) (Handle, bool) {
	return in.find(in.hash(content), content)
}

// Len reports the number of interned slices.
func (in *Interner[T]) Len() int {
	return len(in.entries)
}
