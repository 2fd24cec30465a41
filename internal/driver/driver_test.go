package driver_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/meta"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type recorder struct {
	mu     sync.Mutex
	events []driver.Event
}

func (r *recorder) OnEvent(ev driver.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) last(crate string) driver.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out driver.Event
	for _, ev := range r.events {
		if ev.Crate == crate {
			out = ev
		}
	}
	return out
}

var appFiles = map[string]string{
	"src/main.cl": `
math :: module;
use crate.math.square;
export main :: fn() -> i32 { return square(3) + math.geo.ORIGIN; };
`,
	"src/math.cl": `
export geo :: module;
export square :: fn(x: i32) -> i32 { return x * x; };
`,
	"src/math/geo.cl": `
export ORIGIN : i32 : 0;
`,
}

func TestCompileWritesOutputs(t *testing.T) {
	dir := writeFiles(t, appFiles)
	out := filepath.Join(dir, "build", "app")
	rec := &recorder{}
	opts := driver.Options{Name: "app", Root: filepath.Join(dir, "src", "main.cl"), Out: out, Progress: rec}

	res, err := driver.Compile(context.Background(), opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(res.Bag.Items(), res.FileSet, false))
	}
	if res.FileSet.Len() != 3 {
		t.Fatalf("expected 3 loaded files, got %d", res.FileSet.Len())
	}
	ll, err := os.ReadFile(out + ".ll")
	if err != nil {
		t.Fatalf("read IR: %v", err)
	}
	if !strings.Contains(string(ll), "@app.math.square") || !strings.Contains(string(ll), "define i32 @main()") {
		t.Fatalf("unexpected IR:\n%s", ll)
	}
	c, err := meta.Read(out + meta.Extension)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if c.Name != "app" || c.Hash != res.Hash {
		t.Fatalf("unexpected meta header %q", c.Name)
	}
	if ev := rec.last("app"); ev.Status != driver.StatusDone || ev.Stage != driver.StageEmit {
		t.Fatalf("unexpected last event %+v", ev)
	}
	var phases []string
	for _, p := range res.Timer.Phases() {
		phases = append(phases, p.Name)
	}
	if got := strings.Join(phases, ","); got != "parse,declare,imports,define,bodies,codegen,write" {
		t.Fatalf("unexpected phases %s", got)
	}

	again, err := driver.Compile(context.Background(), opts)
	if err != nil {
		t.Fatalf("recompile: %v", err)
	}
	if !again.UpToDate || again.Ctx != nil {
		t.Fatal("expected the unchanged crate to be up to date")
	}
	if ev := rec.last("app"); ev.Status != driver.StatusCached {
		t.Fatalf("unexpected last event %+v", ev)
	}

	opts.Force = true
	forced, err := driver.Compile(context.Background(), opts)
	if err != nil || forced.UpToDate {
		t.Fatalf("forced build was skipped: %v", err)
	}
}

func TestCompileReportsMissingModule(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.cl": "gone :: module;\nmain :: fn() {};\n",
	})
	res, err := driver.Compile(context.Background(), driver.Options{
		Name: "app",
		Root: filepath.Join(dir, "main.cl"),
		Out:  filepath.Join(dir, "out", "app"),
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.Failed() || res.Module != nil {
		t.Fatal("expected a failed build without a module")
	}
	found := false
	for _, d := range res.Bag.Items() {
		found = found || d.Code == diag.IOModuleNotFound
	}
	if !found {
		t.Fatalf("missing %s: %s", diag.IOModuleNotFound.ID(), diag.FormatShort(res.Bag.Items(), res.FileSet, false))
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "app.ll")); !os.IsNotExist(err) {
		t.Fatalf("no output expected, stat: %v", err)
	}
}

func TestCompileMissingRoot(t *testing.T) {
	_, err := driver.Compile(context.Background(), driver.Options{Name: "app", Root: filepath.Join(t.TempDir(), "nope.cl")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestCompileAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/main.cl": "export main :: fn() -> i32 { return 1; };\n",
		"b/main.cl": "x : i32 = true;\n",
	})
	rec := &recorder{}
	crates := []driver.Options{
		{Name: "a", Root: filepath.Join(dir, "a", "main.cl")},
		{Name: "b", Root: filepath.Join(dir, "b", "main.cl")},
	}
	results, err := driver.CompileAll(context.Background(), crates, 2, rec)
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	if results[0].Failed() || results[0].Module == nil {
		t.Fatalf("crate a failed: %s", diag.FormatShort(results[0].Bag.Items(), results[0].FileSet, false))
	}
	if !results[1].Failed() {
		t.Fatal("crate b must report a type mismatch")
	}
	if ev := rec.last("b"); ev.Status != driver.StatusError {
		t.Fatalf("unexpected last event for b %+v", ev)
	}

	if _, err := driver.CompileAll(context.Background(), append(crates, crates[0]), 1, nil); err == nil {
		t.Fatal("duplicate crate names must be rejected")
	}
}

func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.CompileAll(ctx, []driver.Options{{Name: "a", Root: "a.cl"}}, 1, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestParseSingleFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"x.cl": "N :: 4;\nbroken ::\n"})
	p, err := driver.Parse(filepath.Join(dir, "x.cl"), 16)
	if err != nil {
		t.Fatal(err)
	}
	if p.Err == nil || !p.Bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	tk, err := driver.Tokenize(filepath.Join(dir, "x.cl"), 16, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(tk.Tokens) == 0 || tk.Bag.HasErrors() {
		t.Fatalf("unexpected tokenize result: %d tokens", len(tk.Tokens))
	}
}
