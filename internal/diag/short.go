package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line, sorted by position, in the
// form "error SEM3010 main.cl:3:5 message". Used by golden tests and the
// short CLI format.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, shortEntry(fs, d.Severity.Label(), d.Code, d.Primary, d.Message))
		if includeNotes {
			for _, note := range d.Notes {
				rendered = append(rendered, shortEntry(fs, "note", d.Code, note.Span, note.Msg))
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func shortEntry(fs *source.FileSet, sev string, code Code, span source.Span, msg string) shortDiagnostic {
	file := fs.Get(span.File)
	pos := file.Position(span.Start)
	return shortDiagnostic{
		Severity: sev,
		Code:     code.ID(),
		Path:     file.Path,
		Line:     pos.Line,
		Column:   pos.Col,
		Message:  sanitizeMessage(msg),
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
