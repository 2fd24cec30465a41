// Package astgen turns parsed files into the typed AST of a crate.
//
// Generation runs in four passes over one resolve.Context:
//
//  1. DeclareItems walks every module and reserves its items;
//  2. ResolveImports binds use items, retrying until no import makes progress;
//  3. DefineItems fixes aliases, structs, enums, constants, globals and
//     function signatures, again as a fixpoint;
//  4. GenerateBodies types every function body and global initializer.
//
// Errors never stop a pass. Each one is reported through the Reporter with
// the span of the offending node, and the pass moves on to the next item.
package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Crate names the root file of a crate.
type Crate struct {
	Name symbol.Symbol
	Root ast.FileID
}

// Options configures a Generator.
type Options struct {
	Reporter diag.Reporter
}

// Stats counts what the fixpoint passes did.
type Stats struct {
	ImportPasses int
	DefinePasses int
}

// Generator owns the per-crate state of all passes. It is single-use and
// not safe for concurrent use.
type Generator struct {
	ctx    *resolve.Context
	tree   *ast.Builder
	syms   *symbol.Table
	tys    *types.Table
	opts   Options
	errors int

	crate   resolve.ModuleID
	imports []pendingImport
	defs    []*pendingDef
	pkg     *tast.Package
	stats   Stats

	fn       *fnState
	poisoned map[resolve.BindingID]bool
}

// New creates a generator over ctx for the files held by tree.
func New(ctx *resolve.Context, tree *ast.Builder, opts Options) *Generator {
	return &Generator{
		ctx:  ctx,
		tree: tree,
		syms: ctx.Symbols(),
		tys:  ctx.Types(),
		opts: opts,
		pkg:  &tast.Package{},

		poisoned: make(map[resolve.BindingID]bool),
	}
}

// Run executes every pass in order and returns the typed package. The
// package is complete only when Errors reports zero.
func (g *Generator) Run(crate Crate) *tast.Package {
	if !g.DeclareItems(crate) {
		return g.pkg
	}
	g.ResolveImports()
	g.DefineItems()
	g.GenerateBodies()
	return g.pkg
}

// Package returns the typed package built so far.
func (g *Generator) Package() *tast.Package { return g.pkg }

// Context returns the resolve context the generator writes to.
func (g *Generator) Context() *resolve.Context { return g.ctx }

// Errors returns the number of errors reported so far.
func (g *Generator) Errors() int { return g.errors }

// Stats returns the pass counts of the fixpoint passes.
func (g *Generator) Stats() Stats { return g.stats }
