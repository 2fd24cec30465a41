package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
	"github.com/hashicorp/go-set/v3"
)

// Bag collects the diagnostics of one crate, lexer through backend, up to a
// fixed limit. The driver sorts and dedups it once the generator is done.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most n diagnostics; n is clamped to the
// uint16 range.
func NewBag(n int) *Bag {
	limit, err := safecast.Conv[uint16](n)
	if err != nil {
		limit = 0
		if n > 0 {
			limit = ^uint16(0)
		}
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(limit), 64)), max: limit}
}

// Add stores d unless the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Full reports whether later diagnostics are being dropped.
func (b *Bag) Full() bool { return len(b.items) >= int(b.max) }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// ErrorCount counts the blocking diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity.Blocking() {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity.Blocking() })
}

// Sort orders diagnostics by file and position, then puts the more severe
// and the lower code first. Files are numbered in load order, so the root
// file of the crate comes first.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic of each code at a span.
func (b *Bag) Dedup() {
	seen := set.New[occurrence](len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		return !seen.Insert(occurrence{code: d.Code, span: d.Primary})
	})
}
