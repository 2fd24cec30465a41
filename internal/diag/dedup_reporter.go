package diag

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

// occurrence identifies one reported failure. Severity is implied by the
// code in every phase of cool, so it is not part of the key.
type occurrence struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards each occurrence once. The import and define
// fixpoints can fail the same entry again after a retry.
type DedupReporter struct {
	next       Reporter
	seen       *set.Set[occurrence]
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: set.New[occurrence](32)}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	if !r.seen.Insert(occurrence{code: code, span: primary, msg: msg}) {
		r.suppressed++
		return
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed returns how many repeats were dropped.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
