package resolve

import (
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Mutability of a binding.
type Mutability uint8

const (
	Immutable Mutability = iota
	Mutable
	Const
)

func (m Mutability) String() string {
	switch m {
	case Immutable:
		return "immutable"
	case Mutable:
		return "mutable"
	case Const:
		return "const"
	default:
		return fmt.Sprintf("Mutability(%d)", m)
	}
}

// Frame is a block scope. Frames are never freed.
type Frame struct {
	Parent   Scope
	Module   ModuleID // module at the root of the frame chain
	Bindings []FrameBinding
}

// FrameBinding is a binding declared directly in a frame.
type FrameBinding struct {
	Sym     symbol.Symbol
	Binding BindingID
}

// Binding is a local or global variable. Ty starts as the infer placeholder
// and is set to a concrete type exactly once.
type Binding struct {
	Sym        symbol.Symbol
	Mutability Mutability
	Ty         types.TyID
	Global     bool
	Item       ItemID // globals only
}

// AddFrame opens a new block scope under parent.
func (c *Context) AddFrame(parent Scope) FrameID {
	return c.frames.Push(Frame{Parent: parent, Module: c.ScopeModule(parent)})
}

// ScopeModule returns the module at the root of scope.
func (c *Context) ScopeModule(scope Scope) ModuleID {
	if f, ok := scope.Frame(); ok {
		return c.frames.Get(f).Module
	}
	m, _ := scope.Module()
	return m
}

// InsertLocalBinding declares sym in frame. Rebinding a name of an enclosing
// frame is allowed; rebinding it in the same frame is not.
func (c *Context) InsertLocalBinding(frame FrameID, mutability Mutability, sym symbol.Symbol) (BindingID, error) {
	f := c.frames.Get(frame)
	for _, b := range f.Bindings {
		if b.Sym == sym {
			return 0, &Error{Kind: SymbolAlreadyDefined, Sym: sym}
		}
	}
	id := c.bindings.Push(Binding{Sym: sym, Mutability: mutability, Ty: c.tys.Builtins().Infer})
	f = c.frames.Get(frame)
	f.Bindings = append(f.Bindings, FrameBinding{Sym: sym, Binding: id})
	return id, nil
}

// SetBindingTy records the concrete type of a binding. Setting it a second
// time is a programming error.
func (c *Context) SetBindingTy(id BindingID, ty types.TyID) {
	b := c.bindings.Get(id)
	if !c.tys.IsInfer(b.Ty) {
		panic(fmt.Sprintf("resolve: binding %d already has type %s", id, c.tys.Display(b.Ty)))
	}
	b.Ty = ty
}

// ResolvedKind classifies what a name refers to at a use site.
type ResolvedKind uint8

const (
	ResolvedBinding ResolvedKind = iota
	ResolvedConst
	ResolvedModule
	ResolvedTy
)

// Resolved is the meaning of a symbol at a scope.
type Resolved struct {
	Kind    ResolvedKind
	Item    ItemID // module-level meanings only
	Binding BindingID
	Const   ConstID
	Module  ModuleID
	Ty      types.TyID
}

// GetSymbol resolves sym at scope: the nearest frame binding wins, then the
// members of the root module of the frame chain, then primitive type names.
func (c *Context) GetSymbol(scope Scope, sym symbol.Symbol) (Resolved, error) {
	for scope.Kind == ScopeFrame {
		f := c.frames.Get(FrameID(scope.Index))
		for i := len(f.Bindings) - 1; i >= 0; i-- {
			if f.Bindings[i].Sym == sym {
				return Resolved{Kind: ResolvedBinding, Binding: f.Bindings[i].Binding}, nil
			}
		}
		scope = f.Parent
	}
	module, _ := scope.Module()
	if mem, ok := c.modules.Get(module).Lookup(sym); ok {
		return c.resolvedItem(mem.Item)
	}
	if ty, ok := c.PrimitiveTy(sym); ok {
		return Resolved{Kind: ResolvedTy, Ty: ty}, nil
	}
	return Resolved{}, &Error{Kind: SymbolNotFound, Sym: sym, Path: []symbol.Symbol{sym}}
}

func (c *Context) resolvedItem(id ItemID) (Resolved, error) {
	item := c.items.At(id)
	switch item.Kind {
	case ItemModule:
		return Resolved{Kind: ResolvedModule, Item: id, Module: item.Module, Ty: item.Ty}, nil
	case ItemTy:
		if !item.Defined {
			return Resolved{}, &Error{Kind: TyNotDefined, Sym: item.Sym, Path: c.ItemPath(id)}
		}
		return Resolved{Kind: ResolvedTy, Item: id, Ty: item.Ty}, nil
	case ItemConst:
		return Resolved{Kind: ResolvedConst, Item: id, Const: item.Const, Ty: c.consts.At(item.Const).Ty}, nil
	default:
		return Resolved{Kind: ResolvedBinding, Item: id, Binding: item.Binding, Ty: c.bindings.At(item.Binding).Ty}, nil
	}
}

// PrimitiveTy maps a primitive type name to its TyID.
func (c *Context) PrimitiveTy(sym symbol.Symbol) (types.TyID, bool) {
	b := c.tys.Builtins()
	switch sym {
	case symbol.TyBool:
		return b.Bool, true
	case symbol.TyChar:
		return b.Char, true
	case symbol.TyF32:
		return b.F32, true
	case symbol.TyF64:
		return b.F64, true
	case symbol.TyI8:
		return b.I8, true
	case symbol.TyI16:
		return b.I16, true
	case symbol.TyI32:
		return b.I32, true
	case symbol.TyI64:
		return b.I64, true
	case symbol.TyI128:
		return b.I128, true
	case symbol.TyIsize:
		return b.Isize, true
	case symbol.TyU8:
		return b.U8, true
	case symbol.TyU16:
		return b.U16, true
	case symbol.TyU32:
		return b.U32, true
	case symbol.TyU64:
		return b.U64, true
	case symbol.TyU128:
		return b.U128, true
	case symbol.TyUsize:
		return b.Usize, true
	}
	return 0, false
}
