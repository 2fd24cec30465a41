package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

type pendingImport struct {
	module resolve.ModuleID
	item   ast.ItemID
}

// pendingDef is an item waiting for DefineItems. Only the IDs matching the
// item kind are set.
type pendingDef struct {
	module  resolve.ModuleID
	item    ast.ItemID
	rid     resolve.ItemID
	ty      types.TyID
	cnst    resolve.ConstID
	binding resolve.BindingID
	defined bool

	// globals without a declared type are typed by their initializer
	init *globalInit
}

// DeclareItems creates the crate root and declares every item of every
// module reachable from the root file. Use items are queued for
// ResolveImports, everything else for DefineItems. It reports false when the
// crate itself could not be created.
func (g *Generator) DeclareItems(crate Crate) bool {
	root, err := g.ctx.AddCrate(crate.Name)
	if err != nil {
		g.report(g.tree.Files.Get(crate.Root).Span, err)
		return false
	}
	g.crate = root
	g.pkg.Crate = root
	g.declareModule(root, g.tree.Files.Get(crate.Root).Items)
	return true
}

func (g *Generator) declareModule(module resolve.ModuleID, items []ast.ItemID) {
	for _, id := range items {
		g.declareItem(module, id)
	}
}

func (g *Generator) declareItem(module resolve.ModuleID, id ast.ItemID) {
	it := g.tree.Items.Get(id)
	def := &pendingDef{module: module, item: id}
	var err error

	switch it.Kind {
	case ast.ItemUse:
		g.imports = append(g.imports, pendingImport{module: module, item: id})
		return
	case ast.ItemModule:
		var child resolve.ModuleID
		if child, err = g.ctx.DeclareModule(module, it.Exported, it.Name); err != nil {
			break
		}
		m := g.tree.Items.Module(id)
		if m.Inline {
			g.declareModule(child, m.Items)
		} else if m.File.IsValid() {
			g.declareModule(child, g.tree.Files.Get(m.File).Items)
		}
		// a file module that failed to load was reported by the driver
		return
	case ast.ItemStruct:
		def.rid, def.ty, err = g.ctx.DeclareStruct(module, it.Exported, it.Name)
	case ast.ItemEnum:
		def.rid, def.ty, err = g.ctx.DeclareEnum(module, it.Exported, it.Name)
	case ast.ItemAlias:
		def.rid, err = g.ctx.DeclareAlias(module, it.Exported, it.Name)
	case ast.ItemConst, ast.ItemFn:
		def.rid, def.cnst, err = g.ctx.DeclareConst(module, it.Exported, it.Name)
	case ast.ItemGlobal:
		mutability := resolve.Immutable
		if g.tree.Items.Global(id).Mutable {
			mutability = resolve.Mutable
		}
		def.rid, def.binding, err = g.ctx.DeclareGlobal(module, it.Exported, mutability, it.Name)
	}
	if err != nil {
		g.report(it.NameSpan, errAt(it.NameSpan, err))
		return
	}
	g.defs = append(g.defs, def)
}
