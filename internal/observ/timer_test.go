package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	clock := time.Unix(0, 0)
	tm := NewTimer("app")
	tm.now = func() time.Time { return clock }

	done := tm.Track("parse")
	clock = clock.Add(2 * time.Millisecond)
	done("3 files")

	idx := tm.Begin("define")
	clock = clock.Add(500 * time.Microsecond)
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if r.Crate != "app" || len(r.Phases) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "3 files" {
		t.Fatalf("parse phase = %+v", r.Phases[0])
	}
	if r.TotalMS != 2.5 {
		t.Fatalf("total = %v, want 2.5", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "// 3 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}
