package diag

import (
	"strings"
	"testing"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("src/main.cl", []byte("a\nb\n"))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SemaTyMismatch,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		NewError(SynUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"),
	}

	want := "error SYN2001 src/main.cl:1:1 first line second\n" +
		"error SEM3010 src/main.cl:2:1 another\n" +
		"note SYN2001 src/main.cl:2:1 note line"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:     "LEX1001",
		SynUnexpectedToken: "SYN2001",
		SemaSymbolNotFound: "SEM3002",
		LayoutInfiniteSize: "LAY4001",
		IOModuleNotFound:   "IO5002",
		UnknownCode:        "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
	}
	if SemaTyMismatch.Title() != "Mismatched types" {
		t.Fatalf("unexpected title %q", SemaTyMismatch.Title())
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	bag := NewBag(2)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{Start: 1, End: 2}

	r.Report(SemaSymbolNotFound, SevError, span, "x not found", nil)
	r.Report(SemaSymbolNotFound, SevError, span, "x not found", nil)
	if bag.Len() != 1 {
		t.Fatalf("duplicate not suppressed: %d", bag.Len())
	}
	ReportError(r, SemaTyMismatch, span, "a").Emit()
	ReportError(r, SemaTyMismatch, span, "b").Emit()
	if bag.Len() != 2 || !bag.Full() {
		t.Fatalf("limit not applied: %d", bag.Len())
	}
	if bag.ErrorCount() != 2 || !bag.HasErrors() {
		t.Fatalf("unexpected error count %d", bag.ErrorCount())
	}
	if r.Suppressed() != 1 {
		t.Fatalf("want 1 suppressed repeat, got %d", r.Suppressed())
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(SemaTyMismatch, source.Span{File: 1, Start: 0}, "b"))
	bag.Add(NewError(SemaTyMismatch, source.Span{File: 0, Start: 5}, "a"))
	bag.Add(NewError(LexBadNumber, source.Span{File: 0, Start: 5}, "c"))
	bag.Sort()
	items := bag.Items()
	if items[0].Code != LexBadNumber || items[1].Message != "a" || items[2].Message != "b" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestBagDedupKeepsFirstPerCodeAndSpan(t *testing.T) {
	bag := NewBag(8)
	at := source.Span{File: 0, Start: 4, End: 9}
	bag.Add(NewError(SemaSymbolNotFound, at, "`x` not found"))
	bag.Add(NewError(SemaSymbolNotFound, at, "symbol not found"))
	bag.Add(NewError(SemaTyMismatch, at, "mismatch"))
	bag.Add(NewError(SemaSymbolNotFound, source.Span{Start: 10, End: 11}, "`y` not found"))
	bag.Dedup()

	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	want := []string{"`x` not found", "mismatch", "`y` not found"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestSeverityLabels(t *testing.T) {
	cases := []struct {
		sev      Severity
		str      string
		label    string
		blocking bool
	}{
		{SevInfo, "INFO", "info", false},
		{SevWarning, "WARNING", "warning", false},
		{SevError, "ERROR", "error", true},
		{Severity(9), "Severity(9)", "error", true},
	}
	for _, c := range cases {
		if c.sev.String() != c.str || c.sev.Label() != c.label || c.sev.Blocking() != c.blocking {
			t.Errorf("%d: got %s/%s/%t", c.sev, c.sev, c.sev.Label(), c.sev.Blocking())
		}
	}

	bag := NewBag(4)
	bag.Add(New(SevWarning, SemaInvalidOperand, source.Span{}, "odd"))
	if bag.HasErrors() || bag.ErrorCount() != 0 {
		t.Fatal("a warning must not fail the crate")
	}
}
