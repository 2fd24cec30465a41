// Package resolve owns every table the front-end builds while resolving a
// compilation unit: interned item paths, the module and frame graph, bindings,
// constants, expressions and (through types.Table) every type.
//
// A Context is used by one worker at a time. Only the symbol table it is built
// with may be shared between contexts.
package resolve

import (
	"fmt"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/arena"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// ItemKind tells what an item names.
type ItemKind uint8

const (
	ItemModule ItemKind = iota
	ItemTy
	ItemConst
	ItemBinding
)

func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "module"
	case ItemTy:
		return "type"
	case ItemConst:
		return "constant"
	case ItemBinding:
		return "global"
	default:
		return fmt.Sprintf("ItemKind(%d)", k)
	}
}

// Item is a named declaration.
type Item struct {
	Kind    ItemKind
	Sym     symbol.Symbol
	Parent  ModuleID // defining module; a crate root is its own parent
	Module  ModuleID // ItemModule
	Ty      types.TyID
	Defined bool // ItemTy: Ty is final
	Const   ConstID
	Binding BindingID
}

// Member is an entry of a module's namespace: a declaration or an import.
type Member struct {
	Exported bool
	Item     ItemID
}

// Module is a named scope.
type Module struct {
	Item    ItemID
	Root    ModuleID
	Parent  ModuleID
	IsRoot  bool
	Members map[symbol.Symbol]Member
	// order of Members insertion, for deterministic iteration
	Order []symbol.Symbol
}

// Lookup returns the member bound to sym.
func (m *Module) Lookup(sym symbol.Symbol) (Member, bool) {
	mem, ok := m.Members[sym]
	return mem, ok
}

// Context is the resolve context of one compilation unit.
type Context struct {
	syms     *symbol.Table
	tys      *types.Table
	paths    *arena.Interner[symbol.Symbol]
	items    *arena.Table[ItemID, Item]
	modules  *arena.Table[ModuleID, Module]
	frames   *arena.Table[FrameID, Frame]
	bindings *arena.Table[BindingID, Binding]
	consts   *arena.Table[ConstID, ConstItem]
	exprs    *arena.Table[ExprID, Expr]
}

// New creates an empty context for target. syms may be shared with other
// contexts.
func New(syms *symbol.Table, target layout.Target) *Context {
	return &Context{
		syms:     syms,
		tys:      types.NewTable(target),
		paths:    arena.NewInterner[symbol.Symbol](),
		items:    arena.NewTable[ItemID, Item](64),
		modules:  arena.NewTable[ModuleID, Module](8),
		frames:   arena.NewTable[FrameID, Frame](64),
		bindings: arena.NewTable[BindingID, Binding](64),
		consts:   arena.NewTable[ConstID, ConstItem](16),
		exprs:    arena.NewTable[ExprID, Expr](256),
	}
}

// Symbols returns the shared symbol table.
func (c *Context) Symbols() *symbol.Table { return c.syms }

// Types returns the type table.
func (c *Context) Types() *types.Table { return c.tys }

// Builtins is shorthand for Types().Builtins().
func (c *Context) Builtins() types.Builtins { return c.tys.Builtins() }

// Item returns the record of id.
func (c *Context) Item(id ItemID) Item { return c.items.At(id) }

// Module returns the record of id. The pointer is valid until the next
// module is added.
func (c *Context) Module(id ModuleID) *Module { return c.modules.Get(id) }

// Frame returns the record of id.
func (c *Context) Frame(id FrameID) *Frame { return c.frames.Get(id) }

// Binding returns the record of id.
func (c *Context) Binding(id BindingID) Binding { return c.bindings.At(id) }

// Const returns the record of id.
func (c *Context) Const(id ConstID) ConstItem { return c.consts.At(id) }

// Expr returns the record of id.
func (c *Context) Expr(id ExprID) Expr { return c.exprs.At(id) }

// NumItems reports how many items have been declared.
func (c *Context) NumItems() int { return c.items.Len() }

// NumModules reports how many modules exist.
func (c *Context) NumModules() int { return c.modules.Len() }

// NumExprs reports how many expressions have been added.
func (c *Context) NumExprs() int { return c.exprs.Len() }

// ItemPath returns the fully qualified path of id.
func (c *Context) ItemPath(id ItemID) []symbol.Symbol {
	return c.paths.MustGet(arena.Handle(id))
}

// PathString renders the path of id as a.b.c.
func (c *Context) PathString(id ItemID) string {
	return c.JoinPath(c.ItemPath(id))
}

// JoinPath renders symbols as a dotted path.
func (c *Context) JoinPath(path []symbol.Symbol) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = c.syms.MustLookup(s)
	}
	return strings.Join(parts, ".")
}

// AddCrate creates the root module of a crate named name.
func (c *Context) AddCrate(name symbol.Symbol) (ModuleID, error) {
	h, ok := c.paths.InsertIfNotExists([]symbol.Symbol{name})
	if !ok {
		return 0, &Error{Kind: SymbolAlreadyDefined, Sym: name, Path: []symbol.Symbol{name}}
	}
	id := ModuleID(c.modules.Len())
	item := c.pushItem(h, Item{Kind: ItemModule, Sym: name, Parent: id, Module: id, Ty: c.tys.Builtins().Module})
	c.modules.Push(Module{Item: item, Root: id, Parent: id, IsRoot: true, Members: make(map[symbol.Symbol]Member)})
	return id, nil
}

func (c *Context) pushItem(h arena.Handle, item Item) ItemID {
	id := c.items.Push(item)
	if arena.Handle(id) != h {
		panic(fmt.Sprintf("resolve: item %d out of step with path handle %d", id, h))
	}
	return id
}
