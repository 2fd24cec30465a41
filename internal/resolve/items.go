package resolve

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// DeclareItem reserves an item named sym in module. The item's identity is
// its full path, so declaring the same name twice in one module fails with
// SymbolAlreadyDefined. The returned item has no meaning yet; the typed
// helpers below fill it in.
func (c *Context) DeclareItem(module ModuleID, exported bool, sym symbol.Symbol) (ItemID, error) {
	m := c.modules.Get(module)
	if _, taken := m.Members[sym]; taken {
		return 0, c.alreadyDefined(module, sym)
	}
	parentPath := c.ItemPath(m.Item)
	path := make([]symbol.Symbol, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, sym)

	h, ok := c.paths.InsertIfNotExists(path)
	if !ok {
		return 0, c.alreadyDefined(module, sym)
	}
	id := c.pushItem(h, Item{Sym: sym, Parent: module})
	c.addMember(module, sym, Member{Exported: exported, Item: id})
	return id, nil
}

func (c *Context) alreadyDefined(module ModuleID, sym symbol.Symbol) error {
	path := append(append([]symbol.Symbol(nil), c.ItemPath(c.modules.Get(module).Item)...), sym)
	return &Error{Kind: SymbolAlreadyDefined, Sym: sym, Path: path}
}

func (c *Context) addMember(module ModuleID, sym symbol.Symbol, mem Member) {
	m := c.modules.Get(module)
	m.Members[sym] = mem
	m.Order = append(m.Order, sym)
}

func (c *Context) setItem(id ItemID, item Item) {
	*c.items.Get(id) = item
}

// DeclareModule declares a child module of parent.
func (c *Context) DeclareModule(parent ModuleID, exported bool, sym symbol.Symbol) (ModuleID, error) {
	item, err := c.DeclareItem(parent, exported, sym)
	if err != nil {
		return 0, err
	}
	root := c.modules.Get(parent).Root
	id := c.modules.Push(Module{Item: item, Root: root, Parent: parent, Members: make(map[symbol.Symbol]Member)})
	c.setItem(item, Item{Kind: ItemModule, Sym: sym, Parent: parent, Module: id, Ty: c.tys.Builtins().Module})
	return id, nil
}

// DeclareStruct declares a struct item and reserves its TyID.
func (c *Context) DeclareStruct(module ModuleID, exported bool, sym symbol.Symbol) (ItemID, types.TyID, error) {
	item, err := c.DeclareItem(module, exported, sym)
	if err != nil {
		return 0, 0, err
	}
	ty := c.tys.DeclareStruct(uint32(item), c.syms.MustLookup(sym))
	c.setItem(item, Item{Kind: ItemTy, Sym: sym, Parent: module, Ty: ty, Defined: true})
	return item, ty, nil
}

// DeclareEnum declares an enum item and reserves its TyID.
func (c *Context) DeclareEnum(module ModuleID, exported bool, sym symbol.Symbol) (ItemID, types.TyID, error) {
	item, err := c.DeclareItem(module, exported, sym)
	if err != nil {
		return 0, 0, err
	}
	ty := c.tys.DeclareEnum(uint32(item), c.syms.MustLookup(sym))
	c.setItem(item, Item{Kind: ItemTy, Sym: sym, Parent: module, Ty: ty, Defined: true})
	return item, ty, nil
}

// DeclareAlias declares a type alias whose target is not known yet.
func (c *Context) DeclareAlias(module ModuleID, exported bool, sym symbol.Symbol) (ItemID, error) {
	item, err := c.DeclareItem(module, exported, sym)
	if err != nil {
		return 0, err
	}
	c.setItem(item, Item{Kind: ItemTy, Sym: sym, Parent: module, Ty: c.tys.Builtins().Infer})
	return item, nil
}

// DefineAlias sets the target type of an alias declared with DeclareAlias.
func (c *Context) DefineAlias(id ItemID, ty types.TyID) error {
	item := c.items.Get(id)
	if item.Kind != ItemTy || item.Defined {
		return &Error{Kind: SymbolAlreadyDefined, Sym: item.Sym, Path: c.ItemPath(id)}
	}
	item.Ty = ty
	item.Defined = true
	return nil
}

// DefineStruct defines the fields of a struct declared with DeclareStruct.
func (c *Context) DefineStruct(ty types.TyID, fields []types.Field) error {
	return wrapTypeErr(c.tys.DefineStruct(ty, fields))
}

// DefineEnum defines storage and variants of an enum declared with
// DeclareEnum.
func (c *Context) DefineEnum(ty types.TyID, storage types.TyID, variants []types.EnumVariant) error {
	return wrapTypeErr(c.tys.DefineEnum(ty, storage, variants))
}

// DeclareConst declares a constant whose type and value come later.
func (c *Context) DeclareConst(module ModuleID, exported bool, sym symbol.Symbol) (ItemID, ConstID, error) {
	item, err := c.DeclareItem(module, exported, sym)
	if err != nil {
		return 0, 0, err
	}
	id := c.consts.Push(ConstItem{Item: item, Ty: c.tys.Builtins().Infer})
	c.setItem(item, Item{Kind: ItemConst, Sym: sym, Parent: module, Const: id})
	return item, id, nil
}

// DeclareGlobal declares a module-level binding.
func (c *Context) DeclareGlobal(module ModuleID, exported bool, mutability Mutability, sym symbol.Symbol) (ItemID, BindingID, error) {
	item, err := c.DeclareItem(module, exported, sym)
	if err != nil {
		return 0, 0, err
	}
	id := c.bindings.Push(Binding{Sym: sym, Mutability: mutability, Ty: c.tys.Builtins().Infer, Global: true, Item: item})
	c.setItem(item, Item{Kind: ItemBinding, Sym: sym, Parent: module, Binding: id})
	return item, id, nil
}

// ImportItem makes target visible in module under sym. Exported imports are
// re-exports.
func (c *Context) ImportItem(module ModuleID, exported bool, sym symbol.Symbol, target ItemID) error {
	m := c.modules.Get(module)
	if _, taken := m.Members[sym]; taken {
		return c.alreadyDefined(module, sym)
	}
	c.addMember(module, sym, Member{Exported: exported, Item: target})
	return nil
}

// LookupItem finds an already declared item by its full path.
func (c *Context) LookupItem(path []symbol.Symbol) (ItemID, bool) {
	h, ok := c.paths.GetHandle(path)
	return ItemID(h), ok && int(h) < c.items.Len()
}

// Items returns every item in declaration order.
func (c *Context) Items() []Item {
	return c.items.All()
}
