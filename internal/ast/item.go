package ast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

type ItemKind uint8

const (
	ItemUse ItemKind = iota
	ItemModule
	ItemStruct
	ItemEnum
	ItemAlias
	ItemConst
	ItemGlobal
	ItemFn
)

func (k ItemKind) String() string {
	switch k {
	case ItemUse:
		return "use"
	case ItemModule:
		return "module"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemAlias:
		return "alias"
	case ItemConst:
		return "const"
	case ItemGlobal:
		return "global"
	case ItemFn:
		return "fn"
	}
	return "item"
}

// Item is a module-level declaration. Name is the declared name; for a use
// item it is the alias or the last path segment.
type Item struct {
	Kind     ItemKind
	Span     source.Span
	Exported bool
	Name     symbol.Symbol
	NameSpan source.Span
	Payload  PayloadID
}

type UseItem struct {
	Path Path
}

// ModuleItem is either a file module (`m :: module;`) or an inline one.
type ModuleItem struct {
	Inline bool
	Items  []ItemID
	// File is set by the driver once the module file has been parsed.
	File FileID
}

type Field struct {
	Name Symbol
	Ty   TypeID
}

// Symbol pairs a name with its span.
type Symbol struct {
	Sym  symbol.Symbol
	Span source.Span
}

type StructItem struct {
	Fields []Field
}

type EnumVariant struct {
	Name  Symbol
	Value ExprID // optional explicit discriminant
}

type EnumItem struct {
	Storage  TypeID // optional
	Variants []EnumVariant
}

type AliasItem struct {
	Ty TypeID
}

type ConstItem struct {
	Ty    TypeID // optional
	Value ExprID
}

type GlobalItem struct {
	Mutable bool
	Ty      TypeID // optional when Value is set
	Value   ExprID // optional when Ty is set
}

type Param struct {
	Name    Symbol
	Mutable bool
	Ty      TypeID
}

// FnItem is a function definition or an extern declaration (Body absent).
type FnItem struct {
	Extern   bool
	Abi      symbol.Symbol // interned string literal, quotes included
	AbiSpan  source.Span
	Params   []Param
	Variadic bool
	Ret      TypeID // optional, unit when absent
	Body     ExprID // ExprBlock
}

type Items struct {
	Arena   *Arena[Item]
	Uses    *Arena[UseItem]
	Modules *Arena[ModuleItem]
	Structs *Arena[StructItem]
	Enums   *Arena[EnumItem]
	Aliases *Arena[AliasItem]
	Consts  *Arena[ConstItem]
	Globals *Arena[GlobalItem]
	Fns     *Arena[FnItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Uses:    NewArena[UseItem](capHint / 4),
		Modules: NewArena[ModuleItem](capHint / 8),
		Structs: NewArena[StructItem](capHint / 4),
		Enums:   NewArena[EnumItem](capHint / 8),
		Aliases: NewArena[AliasItem](capHint / 8),
		Consts:  NewArena[ConstItem](capHint / 4),
		Globals: NewArena[GlobalItem](capHint / 8),
		Fns:     NewArena[FnItem](capHint / 2),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) new(kind ItemKind, sp source.Span, exported bool, name Symbol, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:     kind,
		Span:     sp,
		Exported: exported,
		Name:     name.Sym,
		NameSpan: name.Span,
		Payload:  PayloadID(payload),
	}))
}

func (i *Items) NewUse(sp source.Span, exported bool, name Symbol, path Path) ItemID {
	return i.new(ItemUse, sp, exported, name, i.Uses.Allocate(UseItem{Path: path}))
}

func (i *Items) NewModule(sp source.Span, exported bool, name Symbol, data ModuleItem) ItemID {
	return i.new(ItemModule, sp, exported, name, i.Modules.Allocate(data))
}

func (i *Items) NewStruct(sp source.Span, exported bool, name Symbol, fields []Field) ItemID {
	return i.new(ItemStruct, sp, exported, name, i.Structs.Allocate(StructItem{Fields: fields}))
}

func (i *Items) NewEnum(sp source.Span, exported bool, name Symbol, data EnumItem) ItemID {
	return i.new(ItemEnum, sp, exported, name, i.Enums.Allocate(data))
}

func (i *Items) NewAlias(sp source.Span, exported bool, name Symbol, ty TypeID) ItemID {
	return i.new(ItemAlias, sp, exported, name, i.Aliases.Allocate(AliasItem{Ty: ty}))
}

func (i *Items) NewConst(sp source.Span, exported bool, name Symbol, data ConstItem) ItemID {
	return i.new(ItemConst, sp, exported, name, i.Consts.Allocate(data))
}

func (i *Items) NewGlobal(sp source.Span, exported bool, name Symbol, data GlobalItem) ItemID {
	return i.new(ItemGlobal, sp, exported, name, i.Globals.Allocate(data))
}

func (i *Items) NewFn(sp source.Span, exported bool, name Symbol, data FnItem) ItemID {
	return i.new(ItemFn, sp, exported, name, i.Fns.Allocate(data))
}

// Typed payload accessors return nil when the item has another kind.

func (i *Items) Use(id ItemID) *UseItem {
	if it := i.Get(id); it != nil && it.Kind == ItemUse {
		return i.Uses.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Module(id ItemID) *ModuleItem {
	if it := i.Get(id); it != nil && it.Kind == ItemModule {
		return i.Modules.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Struct(id ItemID) *StructItem {
	if it := i.Get(id); it != nil && it.Kind == ItemStruct {
		return i.Structs.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Enum(id ItemID) *EnumItem {
	if it := i.Get(id); it != nil && it.Kind == ItemEnum {
		return i.Enums.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Alias(id ItemID) *AliasItem {
	if it := i.Get(id); it != nil && it.Kind == ItemAlias {
		return i.Aliases.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Const(id ItemID) *ConstItem {
	if it := i.Get(id); it != nil && it.Kind == ItemConst {
		return i.Consts.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Global(id ItemID) *GlobalItem {
	if it := i.Get(id); it != nil && it.Kind == ItemGlobal {
		return i.Globals.Get(uint32(it.Payload))
	}
	return nil
}

func (i *Items) Fn(id ItemID) *FnItem {
	if it := i.Get(id); it != nil && it.Kind == ItemFn {
		return i.Fns.Get(uint32(it.Payload))
	}
	return nil
}
