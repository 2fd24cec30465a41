package resolve

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// ResolvePath maps a dotted path, seen from scope, to an item.
//
// The first segment is looked up in the module at the root of scope, or is
// one of the pseudo-symbols crate (crate root), self (current module) and
// super (parent module, may repeat). Every later segment must name a member
// of the module reached so far that is visible from the starting module.
func (c *Context) ResolvePath(scope Scope, path []symbol.Symbol) (ItemID, error) {
	if len(path) == 0 {
		return 0, &Error{Kind: SymbolNotFound}
	}
	from := c.ScopeModule(scope)
	cur := from
	rest := path

	switch path[0] {
	case symbol.KwCrate:
		cur = c.modules.Get(from).Root
		rest = path[1:]
	case symbol.KwSelf:
		rest = path[1:]
	case symbol.KwSuper:
		for len(rest) > 0 && rest[0] == symbol.KwSuper {
			m := c.modules.Get(cur)
			if m.IsRoot {
				return 0, &Error{Kind: TooManySuperKeywords, Path: path}
			}
			cur = m.Parent
			rest = rest[1:]
		}
	default:
		mem, ok := c.modules.Get(from).Lookup(path[0])
		if !ok {
			return 0, &Error{Kind: SymbolNotFound, Sym: path[0], Path: path}
		}
		return c.walkMembers(from, mem.Item, path, 1)
	}

	if len(rest) == 0 {
		// bare crate, self or super names a module
		return c.modules.Get(cur).Item, nil
	}
	mem, err := c.member(from, cur, rest[0], path)
	if err != nil {
		return 0, err
	}
	return c.walkMembers(from, mem.Item, path, len(path)-len(rest)+1)
}

func (c *Context) walkMembers(from ModuleID, item ItemID, path []symbol.Symbol, next int) (ItemID, error) {
	for _, sym := range path[next:] {
		it := c.items.At(item)
		if it.Kind != ItemModule {
			return 0, &Error{Kind: SymbolNotModule, Sym: it.Sym, Path: path}
		}
		mem, err := c.member(from, it.Module, sym, path)
		if err != nil {
			return 0, err
		}
		item = mem.Item
	}
	return item, nil
}

// member looks sym up in module, applying visibility from the requesting
// module.
func (c *Context) member(from, module ModuleID, sym symbol.Symbol, path []symbol.Symbol) (Member, error) {
	if symbol.IsPathKeyword(sym) {
		return Member{}, &Error{Kind: SymbolNotFound, Sym: sym, Path: path}
	}
	mem, ok := c.modules.Get(module).Lookup(sym)
	if !ok {
		return Member{}, &Error{Kind: SymbolNotFound, Sym: sym, Path: path}
	}
	if !mem.Exported && !c.IsDescendant(from, module) {
		return Member{}, &Error{Kind: SymbolNotPublic, Sym: sym, Path: path}
	}
	return mem, nil
}

// IsDescendant reports whether module equals ancestor or is nested in it.
func (c *Context) IsDescendant(module, ancestor ModuleID) bool {
	for {
		if module == ancestor {
			return true
		}
		m := c.modules.Get(module)
		if m.IsRoot {
			return false
		}
		module = m.Parent
	}
}

// ResolveTyPath resolves path to a type. Single primitive names resolve
// without consulting modules; aliases that are not defined yet fail with the
// retryable TyNotDefined.
func (c *Context) ResolveTyPath(scope Scope, path []symbol.Symbol) (types.TyID, error) {
	if len(path) == 1 {
		if ty, ok := c.PrimitiveTy(path[0]); ok {
			return ty, nil
		}
	}
	id, err := c.ResolvePath(scope, path)
	if err != nil {
		return 0, err
	}
	item := c.items.At(id)
	if item.Kind != ItemTy {
		return 0, &Error{Kind: SymbolNotTy, Sym: item.Sym, Path: path}
	}
	if !item.Defined {
		return 0, &Error{Kind: TyNotDefined, Sym: item.Sym, Path: path}
	}
	return item.Ty, nil
}

// ResolveConstPath resolves path to a constant.
func (c *Context) ResolveConstPath(scope Scope, path []symbol.Symbol) (ConstID, error) {
	id, err := c.ResolvePath(scope, path)
	if err != nil {
		return 0, err
	}
	item := c.items.At(id)
	if item.Kind != ItemConst {
		return 0, &Error{Kind: SymbolNotConst, Sym: item.Sym, Path: path}
	}
	return item.Const, nil
}

// ResolveValuePath resolves a path used as an expression. A single segment
// goes through GetSymbol so local bindings shadow items; longer paths must
// name a constant or global.
func (c *Context) ResolveValuePath(scope Scope, path []symbol.Symbol) (Resolved, error) {
	if len(path) == 1 && !symbol.IsPathKeyword(path[0]) {
		return c.GetSymbol(scope, path[0])
	}
	id, err := c.ResolvePath(scope, path)
	if err != nil {
		return Resolved{}, err
	}
	return c.resolvedItem(id)
}
