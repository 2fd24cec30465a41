package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/project/src/main.cl", []byte("x : i32 = true;\ny := \"日本\" + 1;\n"))
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaTyMismatch, source.Span{File: id, Start: 10, End: 14}, "expected `i32`, found `bool`").
		WithNote(source.Span{File: id, Start: 4, End: 7}, "type declared here"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaInvalidOperand, source.Span{File: id, Start: 21, End: 29}, "odd operand"))
	return bag, fs
}

func TestPrettyLayout(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, BaseDir: "/home/user/project", ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"src/main.cl:1:11: ERROR SEM3010: expected `i32`, found `bool`",
		" 1 | x : i32 = true;",
		"   |" + strings.Repeat(" ", 11) + "^~~~",
		"note: src/main.cl:1:5: type declared here",
		"   |" + strings.Repeat(" ", 5) + "^~~\n",
		"src/main.cl:2:6: WARNING SEM3016: odd operand",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output does not contain %q:\n%s", want, out)
		}
	}
	// "日本" is four columns wide: the caret spans the quotes as well
	if !strings.Contains(out, "   |"+strings.Repeat(" ", 6)+"^~~~~~\n") {
		t.Fatalf("wide characters were not measured by display width:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("colour codes must be absent when Color is false")
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI colour codes:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeBasename, "", "main.cl"},
		{PathModeRelative, "/home/user", "project/src/main.cl"},
		{PathModeAuto, "/elsewhere", "/home/user/project/src/main.cl"},
		{PathModeAuto, "/home/user/project", "src/main.cl"},
		{PathModeAbsolute, "", "/home/user/project/src/main.cl"},
	}
	for _, tt := range tests {
		if got := formatPath("/home/user/project/src/main.cl", tt.mode, tt.base); got != tt.want {
			t.Errorf("formatPath(mode %d, base %q) = %q, want %q", tt.mode, tt.base, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	bag, _ := sampleBag(t)
	var buf bytes.Buffer
	Summary(&buf, bag, false)
	if got := buf.String(); got != "1 error, 1 warning generated\n" {
		t.Fatalf("Summary = %q", got)
	}
	buf.Reset()
	Summary(&buf, diag.NewBag(1), false)
	if buf.Len() != 0 {
		t.Fatalf("empty bag printed %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 {
		t.Fatalf("unexpected counts %+v", out)
	}
	first := out.Diagnostics[0]
	if first.Code != "SEM3010" || first.Location.File != "main.cl" || first.Location.StartCol != 11 || len(first.Notes) != 1 {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}

	limited := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if limited.Count != 1 || limited.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("unexpected limited output %+v", limited)
	}
}

func TestTokensAndOutline(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("m.cl", []byte("export util :: module { Id :: alias u32; };\nf :: fn(a: i32, ...) {};\n")))
	syms := symbol.NewTable()

	var buf bytes.Buffer
	toks := lexer.Tokenize(file, syms, lexer.Options{}, false)
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"util"`) || !strings.Contains(buf.String(), "at 1:8-1:12") {
		t.Fatalf("unexpected token listing:\n%s", buf.String())
	}

	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lexer.New(file, syms, lexer.Options{}), syms, tree, parser.Options{})
	if res.Err != nil {
		t.Fatalf("parse: %v", res.Err)
	}
	buf.Reset()
	if err := FormatASTPretty(&buf, tree, res.File, syms, fs); err != nil {
		t.Fatal(err)
	}
	want := "File m.cl\n" +
		"├─ export module util @1:1\n" +
		"│  └─ alias Id @1:25\n" +
		"└─ fn f (1 params, variadic) @2:1\n"
	if buf.String() != want {
		t.Fatalf("outline mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}
