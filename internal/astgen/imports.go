package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/fixpoint"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
)

// ResolveImports binds every queued use item. An import whose target is not
// visible yet (it may be another pending import) is retried on the next pass;
// the pass stops once a full sweep binds nothing.
func (g *Generator) ResolveImports() {
	rep := fixpoint.Run(g.imports, g.resolveImport)
	g.stats.ImportPasses = rep.Passes
	for _, f := range rep.Failed {
		it := g.tree.Items.Get(f.Item.item)
		g.report(it.Span, errAt(it.Span, f.Err))
	}
	for _, f := range rep.Unresolved {
		path := g.tree.Items.Use(f.Item.item).Path
		g.reportUnresolved(path.Span, "import `"+g.ctx.JoinPath(path.Syms)+"`", f.Err)
	}
	g.imports = nil
}

func (g *Generator) resolveImport(p pendingImport) error {
	it := g.tree.Items.Get(p.item)
	use := g.tree.Items.Use(p.item)
	target, err := g.ctx.ResolvePath(resolve.ModuleScope(p.module), use.Path.Syms)
	if err != nil {
		return errAt(use.Path.Span, err)
	}
	return errAt(it.NameSpan, g.ctx.ImportItem(p.module, it.Exported, it.Name, target))
}
