package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
)

// constant folds x into an LLVM constant. It returns nil without an error
// when x needs code to evaluate.
func (e *Emitter) constant(x *tast.Expr) (constant.Constant, error) {
	t, err := e.llType(x.Ty)
	if err != nil {
		return nil, err
	}
	switch d := x.Data.(type) {
	case tast.LiteralData:
		switch d.Kind {
		case tast.LiteralBool:
			return constant.NewBool(d.Bool), nil
		case tast.LiteralChar:
			return constant.NewInt(lltypes.I32, int64(d.Char)), nil
		case tast.LiteralFloat:
			ft, ok := t.(*lltypes.FloatType)
			if !ok {
				return nil, fmt.Errorf("float literal of type `%s`", e.tys.Display(x.Ty))
			}
			return constant.NewFloat(ft, d.Float), nil
		default:
			return e.cstring(d.Str), nil
		}

	case tast.IntValueData:
		it, ok := t.(*lltypes.IntType)
		if !ok {
			return nil, fmt.Errorf("integer of type `%s`", e.tys.Display(x.Ty))
		}
		return intConst(it, d.Value), nil

	case tast.ConstRefData:
		it, ok := t.(*lltypes.IntType)
		if !ok {
			return nil, fmt.Errorf("constant of type `%s`", e.tys.Display(x.Ty))
		}
		return intConst(it, e.ctx.Const(d.Const).Value.Int), nil

	case tast.FnRefData:
		f, ok := e.funcs[d.Const]
		if !ok {
			return nil, fmt.Errorf("function %s was not declared", e.ctx.PathString(d.Item))
		}
		return f, nil

	case tast.StructLitData:
		fields := make([]*tast.Expr, len(d.Fields))
		for _, f := range d.Fields {
			fields[f.Index] = f.Value
		}
		return e.constAggregate(x, t, fields)

	case tast.TupleLitData:
		return e.constAggregate(x, t, d.Elems)

	case tast.ArrayLitData:
		at, ok := t.(*lltypes.ArrayType)
		if !ok {
			return nil, fmt.Errorf("array literal of type `%s`", e.tys.Display(x.Ty))
		}
		elems := make([]constant.Constant, len(d.Elems))
		for i, el := range d.Elems {
			c, err := e.constant(el)
			if c == nil || err != nil {
				return nil, err
			}
			elems[i] = c
		}
		return constant.NewArray(at, elems...), nil
	}
	return nil, nil
}

// constAggregate folds a struct or tuple literal, zeroing the padding.
func (e *Emitter) constAggregate(x *tast.Expr, t lltypes.Type, members []*tast.Expr) (constant.Constant, error) {
	agg := e.aggregates[x.Ty]
	if agg == nil {
		return nil, fmt.Errorf("`%s` is not an aggregate", e.tys.Display(x.Ty))
	}
	fields := make([]constant.Constant, len(agg.ty.Fields))
	for i, f := range agg.ty.Fields {
		fields[i] = constant.NewZeroInitializer(f)
	}
	for i, m := range members {
		c, err := e.constant(m)
		if c == nil || err != nil {
			return nil, err
		}
		fields[agg.index[i]] = c
	}
	st, ok := t.(*lltypes.StructType)
	if !ok {
		return nil, fmt.Errorf("`%s` is not a struct", e.tys.Display(x.Ty))
	}
	return constant.NewStruct(st, fields...), nil
}

// cstring interns a NUL-terminated string literal and returns a pointer to
// its first byte.
func (e *Emitter) cstring(s string) constant.Constant {
	if c, ok := e.strings[s]; ok {
		return c
	}
	data := constant.NewCharArrayFromString(s + "\x00")
	g := e.mod.NewGlobalDef(fmt.Sprintf("str.%d", len(e.strings)), data)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	zero := constant.NewInt(lltypes.I64, 0)
	c := constant.NewGetElementPtr(data.Typ, g, zero, zero)
	e.strings[s] = c
	return c
}
