// Package driver runs the passes of the compiler over whole crates: it loads
// source files, drives astgen, emits LLVM IR and the crate metadata, and
// reports progress, timings and traces along the way.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/llir/llvm/ir"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/astgen"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/backend/llvm"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/meta"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/observ"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/trace"
)

// Options describes one crate to compile.
type Options struct {
	Name string
	// Root is the path of the crate root file.
	Root string
	// Out is the output stem: <Out>.ll and <Out>.coolmeta are written when it
	// is set. An empty Out only checks the crate.
	Out            string
	Target         layout.Target
	MaxDiagnostics int
	// Force rebuilds even when <Out>.coolmeta matches the sources.
	Force bool
	// Symbols is shared between crates compiled together. Nil means a fresh
	// table.
	Symbols  *symbol.Table
	Progress ProgressSink
}

// FromManifest builds the options of the crate described by m.
func FromManifest(m *project.Manifest) Options {
	return Options{
		Name:           m.Name(),
		Root:           m.RootFile(),
		Out:            m.OutPath(),
		Target:         m.Target(),
		MaxDiagnostics: m.MaxDiagnostics(),
	}
}

// Result is everything a compilation produced. Ctx and Package are nil when
// the crate was up to date; Module is nil when there were errors or no output
// was requested.
type Result struct {
	Name     string
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Tree     *ast.Builder
	Ctx      *resolve.Context
	Package  *tast.Package
	Module   *ir.Module
	Timer    *observ.Timer
	Stats    astgen.Stats
	Hash     project.Digest
	UpToDate bool
}

// Failed reports whether the crate has errors.
func (r *Result) Failed() bool { return r.Bag.HasErrors() }

// Compile runs every pass over the crate described by opts. Problems in the
// sources end up in Result.Bag; the returned error is reserved for I/O
// failures, cancellation and internal errors.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Target.Triple == "" {
		opts.Target = layout.Default()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = project.DefaultMaxDiagnostics
	}
	syms := opts.Symbols
	if syms == nil {
		syms = symbol.NewTable()
	}

	res := &Result{
		Name:    opts.Name,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Tree:    ast.NewBuilder(ast.Hints{}),
		Timer:   observ.NewTimer(opts.Name),
	}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	start := time.Now()

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	span.With("crate", opts.Name).With("target", opts.Target.Triple)
	defer func() { span.End(fmt.Sprintf("%d diagnostics", res.Bag.Len())) }()

	c := &compilation{ctx: ctx, opts: opts, res: res}

	c.stage(StageParse)
	done := res.Timer.Track("parse")
	ld := newLoader(ctx, res.FileSet, syms, res.Tree, rep)
	root, err := ld.root(opts.Root)
	done(fmt.Sprintf("%d files", res.FileSet.Len()))
	if err != nil {
		c.fail(err)
		return nil, fmt.Errorf("crate %s: %w", opts.Name, err)
	}
	res.Hash = project.CrateHash(ld.hashes...)

	if opts.Out != "" && !opts.Force && !res.Bag.HasErrors() &&
		meta.UpToDate(opts.Out+meta.Extension, res.Hash, opts.Target.Triple) {
		res.UpToDate = true
		trace.Point(ctx, trace.ScopeDriver, "cached", opts.Name)
		notify(opts.Progress, Event{Crate: opts.Name, Stage: StageParse, Status: StatusCached, Elapsed: time.Since(start)})
		return res, nil
	}

	res.Ctx = resolve.New(syms, opts.Target)
	gen := astgen.New(res.Ctx, res.Tree, astgen.Options{Reporter: rep})

	c.stage(StageResolve)
	declared := false
	c.pass("declare", func() string {
		declared = gen.DeclareItems(astgen.Crate{Name: syms.Intern(opts.Name), Root: root})
		return ""
	})
	if declared {
		c.pass("imports", func() string {
			gen.ResolveImports()
			return fmt.Sprintf("%d passes", gen.Stats().ImportPasses)
		})
		c.pass("define", func() string {
			gen.DefineItems()
			return fmt.Sprintf("%d passes", gen.Stats().DefinePasses)
		})
		c.stage(StageGenerate)
		c.pass("bodies", func() string {
			gen.GenerateBodies()
			return ""
		})
	}
	res.Package = gen.Package()
	res.Stats = gen.Stats()
	if err := ctx.Err(); err != nil {
		c.fail(err)
		return nil, err
	}

	res.Bag.Sort()
	res.Bag.Dedup()
	if n := rep.Suppressed(); n > 0 || res.Bag.Full() {
		trace.Point(ctx, trace.ScopeDriver, "diagnostics", fmt.Sprintf("%d repeats dropped, limit reached: %t", n, res.Bag.Full()))
	}
	if res.Bag.HasErrors() || !declared {
		c.finish(StatusError, nil, start)
		return res, nil
	}

	c.stage(StageEmit)
	if err := c.emit(); err != nil {
		c.fail(err)
		return nil, fmt.Errorf("crate %s: %w", opts.Name, err)
	}
	c.finish(StatusDone, nil, start)
	return res, nil
}

type compilation struct {
	ctx     context.Context
	opts    Options
	res     *Result
	current Stage
}

func (c *compilation) stage(s Stage) {
	c.current = s
	notify(c.opts.Progress, Event{Crate: c.opts.Name, Stage: s, Status: StatusWorking})
}

func (c *compilation) fail(err error) {
	notify(c.opts.Progress, Event{Crate: c.opts.Name, Stage: c.current, Status: StatusError, Err: err})
}

func (c *compilation) finish(status Status, err error, start time.Time) {
	notify(c.opts.Progress, Event{Crate: c.opts.Name, Stage: c.current, Status: status, Err: err, Elapsed: time.Since(start)})
}

// pass runs fn inside a trace span and a timer phase; fn returns the note
// attached to both.
func (c *compilation) pass(name string, fn func() string) {
	_, span := trace.Start(c.ctx, trace.ScopePass, name)
	done := c.res.Timer.Track(name)
	note := fn()
	done(note)
	span.End(note)
}

// emit lowers the package to LLVM IR and writes the outputs.
func (c *compilation) emit() error {
	var err error
	c.pass("codegen", func() string {
		c.res.Module, err = llvm.Emit(c.res.Ctx, c.res.Package)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%d functions", len(c.res.Module.Funcs))
	})
	if err != nil || c.opts.Out == "" {
		return err
	}

	c.pass("write", func() string {
		if err = writeIR(c.opts.Out+".ll", c.res.Module); err != nil {
			return err.Error()
		}
		err = meta.Write(c.opts.Out+meta.Extension, meta.Collect(c.res.Ctx, c.res.Package.Crate, c.res.Hash))
		return c.opts.Out
	})
	return err
}

func writeIR(path string, mod *ir.Module) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(mod.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
