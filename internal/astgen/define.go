package astgen

import (
	"math/big"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/fixpoint"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

type globalInit struct {
	value *tast.Expr
}

// DefineItems gives every declared item its meaning. Items may refer to each
// other in any order; an item whose dependencies are not defined yet is
// retried until a whole pass defines nothing new.
func (g *Generator) DefineItems() {
	rep := fixpoint.Run(g.defs, g.defineItem)
	g.stats.DefinePasses = rep.Passes
	for _, def := range rep.Resolved {
		def.defined = true
	}
	for _, f := range rep.Failed {
		g.poison(f.Item)
		it := g.tree.Items.Get(f.Item.item)
		g.report(it.NameSpan, errAt(it.NameSpan, f.Err))
	}
	for _, f := range rep.Unresolved {
		g.poison(f.Item)
		it := g.tree.Items.Get(f.Item.item)
		what := it.Kind.String() + " `" + g.ctx.PathString(f.Item.rid) + "`"
		g.reportUnresolved(it.NameSpan, what, errAt(it.NameSpan, f.Err))
	}
}

// poison hides a global that failed to define so its uses do not report
// again.
func (g *Generator) poison(def *pendingDef) {
	if g.tree.Items.Get(def.item).Kind == ast.ItemGlobal {
		g.poisoned[def.binding] = true
	}
}

func (g *Generator) defineItem(def *pendingDef) error {
	it := g.tree.Items.Get(def.item)
	scope := resolve.ModuleScope(def.module)
	switch it.Kind {
	case ast.ItemAlias:
		ty, err := g.resolveType(scope, g.tree.Items.Alias(def.item).Ty)
		if err != nil {
			return err
		}
		return errAt(it.NameSpan, g.ctx.DefineAlias(def.rid, ty))
	case ast.ItemStruct:
		return g.defineStruct(scope, def, it)
	case ast.ItemEnum:
		return g.defineEnum(scope, def, it)
	case ast.ItemConst:
		return g.defineConst(scope, def, it)
	case ast.ItemFn:
		return g.defineFn(scope, def, it)
	case ast.ItemGlobal:
		return g.defineGlobal(scope, def, it)
	}
	return nil
}

func (g *Generator) defineStruct(scope resolve.Scope, def *pendingDef, it *ast.Item) error {
	decl := g.tree.Items.Struct(def.item)
	fields := make([]types.Field, len(decl.Fields))
	for i, f := range decl.Fields {
		ty, err := g.resolveValueType(scope, f.Ty)
		if err != nil {
			return err
		}
		fields[i] = types.Field{Sym: f.Name.Sym, Ty: ty}
	}
	return errAt(it.NameSpan, g.ctx.DefineStruct(def.ty, fields))
}

func (g *Generator) defineEnum(scope resolve.Scope, def *pendingDef, it *ast.Item) error {
	decl := g.tree.Items.Enum(def.item)
	storage := g.tys.Builtins().InferInt
	if decl.Storage.IsValid() {
		var err error
		if storage, err = g.resolveType(scope, decl.Storage); err != nil {
			return err
		}
	}
	variants := make([]types.EnumVariant, len(decl.Variants))
	next := new(big.Int)
	for i, v := range decl.Variants {
		value := next
		if v.Value.IsValid() {
			var err error
			if value, err = g.evalConst(scope, v.Value); err != nil {
				return err
			}
		}
		if !value.IsInt64() {
			return errorf(v.Name.Span, diag.LayoutDiscriminantOutOfRange,
				"discriminant %s of `%s` is out of range", value, g.syms.MustLookup(v.Name.Sym))
		}
		variants[i] = types.EnumVariant{Sym: v.Name.Sym, Value: value.Int64()}
		next = new(big.Int).Add(value, big.NewInt(1))
	}
	return errAt(it.NameSpan, g.ctx.DefineEnum(def.ty, storage, variants))
}

// defineConst folds the value of a constant. Without a declared type the
// constant stays untyped and each use takes the type its context expects.
func (g *Generator) defineConst(scope resolve.Scope, def *pendingDef, it *ast.Item) error {
	decl := g.tree.Items.Const(def.item)
	v, err := g.evalConst(scope, decl.Value)
	if err != nil {
		return err
	}
	ty := g.tys.Builtins().InferInt
	if decl.Ty.IsValid() {
		if ty, err = g.resolveValueType(scope, decl.Ty); err != nil {
			return err
		}
		s := g.tys.Shape(ty)
		if s.Kind != types.KindInt {
			return errorf(g.typeSpan(decl.Ty), diag.SemaNotConstant,
				"constants must have an integer type, found `%s`", g.tys.Display(ty))
		}
		if !g.ctx.FitsInt(s.Int, v) {
			return errAt(g.exprSpan(decl.Value), &resolve.Error{Kind: resolve.LiteralOutOfRange, Expected: ty})
		}
	}
	return errAt(it.NameSpan, g.ctx.DefineConst(def.cnst, ty, resolve.IntValue(v)))
}

func (g *Generator) defineFn(scope resolve.Scope, def *pendingDef, it *ast.Item) error {
	decl := g.tree.Items.Fn(def.item)
	params := make([]types.TyID, len(decl.Params))
	for i, p := range decl.Params {
		ty, err := g.resolveValueType(scope, p.Ty)
		if err != nil {
			return err
		}
		params[i] = ty
	}
	ret := g.tys.Builtins().Unit
	if decl.Ret.IsValid() {
		var err error
		if ret, err = g.resolveValueType(scope, decl.Ret); err != nil {
			return err
		}
	}
	if decl.Variadic && !decl.Extern {
		return errorf(it.NameSpan, diag.SemaInvalidCall, "only extern functions may be variadic")
	}
	abi := symbol.AbiC
	if decl.Extern && !decl.AbiSpan.Empty() {
		text, err := lexer.Unquote(g.syms.MustLookup(decl.Abi))
		if err != nil {
			return errorf(decl.AbiSpan, diag.SemaUnknownAbi, "malformed abi string")
		}
		abi = g.syms.Intern(text)
	}
	fnTy := g.tys.Fn(params, ret, decl.Variadic)
	err := g.ctx.DefineFn(def.cnst, fnTy, decl.Extern, abi)
	if re, ok := resolve.AsError(err); ok && re.Kind == resolve.UnknownAbi {
		return errAt(decl.AbiSpan, err)
	}
	return errAt(it.NameSpan, err)
}

// defineGlobal fixes the type of a global. An untyped global is typed by its
// initializer, which is generated right away.
func (g *Generator) defineGlobal(scope resolve.Scope, def *pendingDef, it *ast.Item) error {
	decl := g.tree.Items.Global(def.item)
	if decl.Ty.IsValid() {
		ty, err := g.resolveValueType(scope, decl.Ty)
		if err != nil {
			return err
		}
		g.ctx.SetBindingTy(def.binding, ty)
		return nil
	}
	value, err := g.genGlobalInit(scope, decl.Value, g.tys.Builtins().Infer)
	if err != nil {
		return err
	}
	if !g.tys.IsDefinable(value.Ty) {
		return errorf(g.exprSpan(decl.Value), diag.SemaTyMismatch,
			"cannot infer the type of global `%s`", g.syms.MustLookup(it.Name))
	}
	g.ctx.SetBindingTy(def.binding, value.Ty)
	def.init = &globalInit{value: value}
	return nil
}
