package resolve

import "fmt"

// ItemID identifies a named declaration. It is the handle of the item's
// interned path, so two references to a.b.c always share one ItemID.
type ItemID uint32

// ModuleID identifies a module scope.
type ModuleID uint32

// FrameID identifies a lexical block scope.
type FrameID uint32

// BindingID identifies a local or global variable.
type BindingID uint32

// ExprID identifies a resolved expression.
type ExprID uint32

// ConstID identifies a compile-time constant.
type ConstID uint32

// ScopeKind tells which table a Scope points into.
type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeFrame
)

// Scope is either a module or a frame.
type Scope struct {
	Kind  ScopeKind
	Index uint32
}

func ModuleScope(id ModuleID) Scope { return Scope{Kind: ScopeModule, Index: uint32(id)} }
func FrameScope(id FrameID) Scope   { return Scope{Kind: ScopeFrame, Index: uint32(id)} }

// Module returns the module a module scope points to.
func (s Scope) Module() (ModuleID, bool) {
	return ModuleID(s.Index), s.Kind == ScopeModule
}

// Frame returns the frame a frame scope points to.
func (s Scope) Frame() (FrameID, bool) {
	return FrameID(s.Index), s.Kind == ScopeFrame
}

func (s Scope) String() string {
	if s.Kind == ScopeModule {
		return fmt.Sprintf("module#%d", s.Index)
	}
	return fmt.Sprintf("frame#%d", s.Index)
}
