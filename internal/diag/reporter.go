// Package diag defines the diagnostic model shared by every compiler phase.
//
// Producers emit through Reporter and never format; rendering lives in
// internal/diagfmt. Codes are grouped by phase: LEX 1xxx, SYN 2xxx, SEM 3xxx,
// LAY 4xxx, IO 5xxx.
package diag

import "github.com/LechintanTudor/cool-compiler-sub001/internal/source"

// Reporter receives diagnostics from the lexer, the parser, the loader and
// the generator. The driver chains DedupReporter in front of BagReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder lets a phase attach notes, such as the other end of an
// import cycle, before the diagnostic is sent.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

// ReportError starts a blocking diagnostic; every phase of cool reports
// through it.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// Emit forwards the diagnostic; calls after the first are ignored.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag.Code, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Notes)
	}
	b.emitted = true
}

// BagReporter stores into Bag, dropping what exceeds its limit.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		d := New(sev, code, primary, msg)
		d.Notes = notes
		r.Bag.Add(d)
	}
}
