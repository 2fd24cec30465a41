package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders every diagnostic of bag in order (call bag.Sort first):
//
//	src/main.cl:3:11: ERROR SEM3010: expected `i32`, found `bool`
//	 3 | x : i32 = true;
//	   |           ^~~~
//
// followed by the notes when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.severity(d.Severity)
		fmt.Fprintf(w, "%s: %s %s\n",
			pal.bold.Sprint(location(fs, d.Primary, opts)),
			sev.Sprintf("%s %s:", d.Severity, d.Code.ID()),
			pal.bold.Sprint(d.Message))
		snippet(w, fs, d.Primary, pal, sev)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
			snippet(w, fs, n.Span, pal, pal.note)
		}
	}
}

// Summary prints the error and warning totals of bag, or nothing when it is
// empty.
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return
	}
	pal := newPalette(colored)
	var parts []string
	if errs > 0 {
		parts = append(parts, pal.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, pal.warn.Sprint(plural(warns, "warning")))
	}
	fmt.Fprintf(w, "%s generated\n", strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	f := fs.Get(sp.File)
	pos := f.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col)
}

// snippet prints the first line of sp with a caret underline. Spans reaching
// past the line are underlined to its end.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, pal palette, mark *color.Color) {
	f := fs.Get(sp.File)
	start := f.Position(sp.Start)
	line := f.Line(start.Line)
	if line == "" && sp.Start == sp.End && int(sp.Start) >= len(f.Content) && start.Line > 1 {
		// EOF on an empty last line: point after the previous one
		start.Line--
		line = f.Line(start.Line)
		start.Col = uint32(len(line)) + 1
	}

	col := min(int(start.Col-1), len(line))
	end := len(line)
	if e := f.Position(sp.End); e.Line == start.Line {
		end = min(int(e.Col-1), len(line))
	}
	pad := width(line[:col])
	under := max(width(line[col:end]), 1)

	num := strconv.FormatUint(uint64(start.Line), 10)
	gutter := strings.Repeat(" ", len(num)+2)
	fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprint(" "+num+" |"), expandTabs(line))
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprint(gutter+"|"), strings.Repeat(" ", pad),
		mark.Sprint("^"+strings.Repeat("~", under-1)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func width(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
