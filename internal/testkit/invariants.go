// Package testkit holds checks shared by the tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed file:
//   - the file span is non-empty, points at sf and stays within its content;
//   - every item span, inline modules included, is non-empty and inside the
//     span of its parent (the file or the enclosing inline module);
//   - sibling items appear in source order without overlapping;
//   - the name span of an item lies inside the item span.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node %d not found", fileID)
	}
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to file %d, want %d", f.Span.File, sf.ID)
	}
	n, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > n {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, n)
	}
	return checkItems(b, f.Items, f.Span)
}

func checkItems(b *ast.Builder, items []ast.ItemID, parent source.Span) error {
	var prevEnd uint32
	for i, id := range items {
		item := b.Items.Get(id)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", id)
		}
		sp := item.Span
		switch {
		case sp.End <= sp.Start:
			return fmt.Errorf("empty item span: %v", sp)
		case sp.File != parent.File:
			return fmt.Errorf("item span file %d, want %d", sp.File, parent.File)
		case sp.Start < parent.Start || sp.End > parent.End:
			return fmt.Errorf("item span %v is outside %v", sp, parent)
		case i > 0 && sp.Start < prevEnd:
			return fmt.Errorf("item span %v overlaps or precedes its previous sibling", sp)
		case item.NameSpan.Start < sp.Start || item.NameSpan.End > sp.End:
			return fmt.Errorf("name span %v is outside item span %v", item.NameSpan, sp)
		}
		prevEnd = sp.End
		if m := b.Items.Module(id); m != nil && m.Inline {
			if err := checkItems(b, m.Items, sp); err != nil {
				return fmt.Errorf("module at %v: %w", sp, err)
			}
		}
	}
	return nil
}
