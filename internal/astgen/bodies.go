package astgen

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// GenerateBodies types every function body and global initializer of the
// items DefineItems managed to define, filling the package in declaration
// order.
func (g *Generator) GenerateBodies() {
	for _, def := range g.defs {
		if !def.defined {
			continue
		}
		it := g.tree.Items.Get(def.item)
		switch it.Kind {
		case ast.ItemConst:
			g.genConstItem(def)
		case ast.ItemGlobal:
			g.genGlobalItem(def, it)
		case ast.ItemFn:
			g.genFnItem(def, it)
		}
	}
}

func (g *Generator) genConstItem(def *pendingDef) {
	ci := g.ctx.Const(def.cnst)
	decl := g.tree.Items.Const(def.item)
	value := &tast.Expr{
		Kind: tast.ExprIntValue,
		ID:   g.ctx.AddExpr(resolve.Rvalue, ci.Ty),
		Ty:   ci.Ty,
		Span: g.exprSpan(decl.Value),
		Data: tast.IntValueData{Value: ci.Value.Int},
	}
	g.pkg.Consts = append(g.pkg.Consts, &tast.Const{Item: def.rid, Const: def.cnst, Ty: ci.Ty, Value: value})
}

func (g *Generator) genGlobalItem(def *pendingDef, it *ast.Item) {
	decl := g.tree.Items.Global(def.item)
	b := g.ctx.Binding(def.binding)
	out := &tast.Global{Item: def.rid, Binding: def.binding, Ty: b.Ty, Mutable: decl.Mutable}
	switch {
	case def.init != nil:
		out.Value = def.init.value
	case decl.Value.IsValid():
		v, err := g.genGlobalInit(resolve.ModuleScope(def.module), decl.Value, b.Ty)
		if err != nil {
			g.report(it.NameSpan, err)
			return
		}
		out.Value = v
	}
	g.pkg.Globals = append(g.pkg.Globals, out)
}

func (g *Generator) genGlobalInit(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	saved := g.fn
	g.fn = &fnState{ret: g.tys.Builtins().Unit, global: true}
	defer func() { g.fn = saved }()
	return g.genExpr(scope, id, expected)
}

// genFnItem binds the parameters in a frame under the module scope and types
// the body against the declared return type.
func (g *Generator) genFnItem(def *pendingDef, it *ast.Item) {
	decl := g.tree.Items.Fn(def.item)
	ci := g.ctx.Const(def.cnst)
	s := g.tys.Shape(ci.Ty)
	params := g.tys.List(s.List)
	fn := &tast.Fn{
		Item:     def.rid,
		Const:    def.cnst,
		Ty:       ci.Ty,
		Ret:      s.Elem,
		Exported: it.Exported,
		Extern:   decl.Extern,
		Span:     it.Span,
	}

	if !decl.Body.IsValid() {
		for i, p := range decl.Params {
			fn.Params = append(fn.Params, tast.Param{Sym: p.Name.Sym, Mutable: p.Mutable, Ty: params[i]})
		}
		g.pkg.Fns = append(g.pkg.Fns, fn)
		return
	}

	frame := g.ctx.AddFrame(resolve.ModuleScope(def.module))
	for i, p := range decl.Params {
		mut := resolve.Immutable
		if p.Mutable {
			mut = resolve.Mutable
		}
		binding, err := g.ctx.InsertLocalBinding(frame, mut, p.Name.Sym)
		if err != nil {
			g.report(p.Name.Span, errAt(p.Name.Span, err))
			continue
		}
		g.ctx.SetBindingTy(binding, params[i])
		fn.Params = append(fn.Params, tast.Param{Sym: p.Name.Sym, Binding: binding, Mutable: p.Mutable, Ty: params[i]})
	}

	saved := g.fn
	g.fn = &fnState{ret: fn.Ret}
	body, ty, err := g.genBlock(resolve.FrameScope(frame), decl.Body, fn.Ret)
	g.fn = saved
	if err != nil {
		g.report(g.exprSpan(decl.Body), err)
		return
	}
	if body.Tail == nil {
		if _, _, err := g.ctx.Unify(ty, fn.Ret); err != nil {
			g.report(body.Span, errAt(body.Span, err))
			return
		}
	}
	fn.Body = body
	g.pkg.Fns = append(g.pkg.Fns, fn)
}
