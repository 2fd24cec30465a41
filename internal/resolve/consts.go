package resolve

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// ConstKind tells which value a constant holds.
type ConstKind uint8

const (
	ConstUndefined ConstKind = iota
	ConstFn
	ConstInt
)

// ConstValue is the value of a constant.
type ConstValue struct {
	Kind ConstKind
	Int  *big.Int // ConstInt
	// ConstFn
	Extern bool
	Abi    symbol.Symbol
}

// IntValue builds an integer constant value.
func IntValue(v *big.Int) ConstValue {
	return ConstValue{Kind: ConstInt, Int: v}
}

// ConstItem is a named compile-time constant.
type ConstItem struct {
	Item  ItemID
	Ty    types.TyID
	Value ConstValue
}

// DefineConst sets the type and value of a declared constant.
func (c *Context) DefineConst(id ConstID, ty types.TyID, value ConstValue) error {
	ci := c.consts.Get(id)
	if ci.Value.Kind != ConstUndefined {
		item := c.items.At(ci.Item)
		return &Error{Kind: SymbolAlreadyDefined, Sym: item.Sym, Path: c.ItemPath(ci.Item)}
	}
	ci.Ty = ty
	ci.Value = value
	return nil
}

// DefineFn defines a constant as a function of type fnTy. abi is only
// meaningful for extern functions; "C" is the only ABI understood.
func (c *Context) DefineFn(id ConstID, fnTy types.TyID, extern bool, abi symbol.Symbol) error {
	if extern && abi != symbol.AbiC {
		return &Error{Kind: UnknownAbi, Sym: abi}
	}
	return c.DefineConst(id, fnTy, ConstValue{Kind: ConstFn, Extern: extern, Abi: abi})
}

// Consts returns every constant in declaration order.
func (c *Context) Consts() []ConstItem {
	return c.consts.All()
}
