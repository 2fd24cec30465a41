package tast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Package is the typed AST of one crate.
type Package struct {
	Crate   resolve.ModuleID
	Fns     []*Fn
	Consts  []*Const
	Globals []*Global
}

// Param is a function parameter bound in the function's frame.
type Param struct {
	Sym     symbol.Symbol
	Binding resolve.BindingID
	Mutable bool
	Ty      types.TyID
}

// Fn is a function constant. Body is nil for extern functions.
type Fn struct {
	Item     resolve.ItemID
	Const    resolve.ConstID
	Ty       types.TyID
	Ret      types.TyID
	Exported bool
	Extern   bool
	Params   []Param
	Body     *Block
	Span     source.Span
}

// Const is a named constant with its folded value.
type Const struct {
	Item  resolve.ItemID
	Const resolve.ConstID
	Ty    types.TyID
	Value *Expr
}

// Global is a module-level binding. Value may be nil.
type Global struct {
	Item    resolve.ItemID
	Binding resolve.BindingID
	Ty      types.TyID
	Mutable bool
	Value   *Expr
}
