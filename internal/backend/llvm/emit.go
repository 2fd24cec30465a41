// Package llvm lowers a typed package to an LLVM module.
//
// Every aggregate is emitted as a packed struct with explicit padding so the
// machine layout matches the offsets computed by the type table. Locals live
// in stack slots allocated in the entry block; globals whose initializer is
// not a constant are filled in by a per-crate init function registered in
// llvm.global_ctors.
package llvm

import (
	"fmt"
	"math/big"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Emitter holds the module under construction. It is single-use.
type Emitter struct {
	ctx *resolve.Context
	tys *types.Table
	pkg *tast.Package
	mod *ir.Module

	unit  *lltypes.StructType
	usize *lltypes.IntType

	typeCache  map[types.TyID]lltypes.Type
	aggregates map[types.TyID]*aggregate
	funcs      map[resolve.ConstID]*ir.Func
	globals    map[resolve.BindingID]*ir.Global
	strings    map[string]constant.Constant

	// globals whose initializer runs in the init function
	lateInits []*tast.Global
}

// Emit lowers pkg. The package must come from a generation run that
// reported no errors.
func Emit(ctx *resolve.Context, pkg *tast.Package) (*ir.Module, error) {
	e := &Emitter{
		ctx:        ctx,
		tys:        ctx.Types(),
		pkg:        pkg,
		mod:        ir.NewModule(),
		unit:       lltypes.NewStruct(),
		typeCache:  make(map[types.TyID]lltypes.Type),
		aggregates: make(map[types.TyID]*aggregate),
		funcs:      make(map[resolve.ConstID]*ir.Func),
		globals:    make(map[resolve.BindingID]*ir.Global),
		strings:    make(map[string]constant.Constant),
	}
	target := e.tys.Target()
	e.usize = intType(target.PtrSize * 8)
	e.mod.TargetTriple = target.Triple

	if err := e.declareFuncs(); err != nil {
		return nil, err
	}
	if err := e.emitConsts(); err != nil {
		return nil, err
	}
	if err := e.emitGlobals(); err != nil {
		return nil, err
	}
	for _, fn := range pkg.Fns {
		if fn.Body == nil {
			continue
		}
		if err := e.emitFunc(fn); err != nil {
			return nil, fmt.Errorf("%s: %w", e.ctx.PathString(fn.Item), err)
		}
	}
	if err := e.emitInit(); err != nil {
		return nil, err
	}
	return e.mod, nil
}

// symbolName returns the linkage name of a function. Extern functions keep
// their own name and the crate's root main becomes the entry point.
func (e *Emitter) symbolName(fn *tast.Fn) string {
	path := e.ctx.ItemPath(fn.Item)
	last := e.ctx.Symbols().MustLookup(path[len(path)-1])
	if fn.Extern || (len(path) == 2 && last == "main") {
		return last
	}
	return e.ctx.JoinPath(path)
}

func (e *Emitter) declareFuncs() error {
	for _, fn := range e.pkg.Fns {
		sig, err := e.fnSig(fn.Ty)
		if err != nil {
			return fmt.Errorf("%s: %w", e.ctx.PathString(fn.Item), err)
		}
		params := make([]*ir.Param, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = ir.NewParam(e.ctx.Symbols().MustLookup(p.Sym), sig.Params[i])
		}
		name := e.symbolName(fn)
		f := e.mod.NewFunc(name, sig.RetType, params...)
		f.Sig.Variadic = sig.Variadic
		if !fn.Extern && !fn.Exported && name != "main" {
			f.Linkage = enum.LinkageInternal
		}
		if fn.Extern {
			f.CallingConv = enum.CallingConvC
		}
		e.funcs[fn.Const] = f
	}
	return nil
}

// emitConsts keeps every named constant addressable under its path.
func (e *Emitter) emitConsts() error {
	for _, c := range e.pkg.Consts {
		ty, err := e.llType(c.Ty)
		if err != nil {
			return fmt.Errorf("%s: %w", e.ctx.PathString(c.Item), err)
		}
		it, ok := ty.(*lltypes.IntType)
		if !ok {
			return fmt.Errorf("%s: constant of type `%s`", e.ctx.PathString(c.Item), e.tys.Display(c.Ty))
		}
		g := e.mod.NewGlobalDef(e.ctx.PathString(c.Item), intConst(it, e.ctx.Const(c.Const).Value.Int))
		g.Immutable = true
		g.Linkage = enum.LinkageInternal
	}
	return nil
}

func (e *Emitter) emitGlobals() error {
	for _, gl := range e.pkg.Globals {
		ty, err := e.llType(gl.Ty)
		if err != nil {
			return fmt.Errorf("%s: %w", e.ctx.PathString(gl.Item), err)
		}
		var init constant.Constant
		if gl.Value != nil {
			if init, err = e.constant(gl.Value); err != nil {
				return fmt.Errorf("%s: %w", e.ctx.PathString(gl.Item), err)
			}
		}
		late := false
		if init == nil {
			init = constant.NewZeroInitializer(ty)
			late = gl.Value != nil
		}
		g := e.mod.NewGlobalDef(e.ctx.PathString(gl.Item), init)
		g.Immutable = !gl.Mutable && !late
		if late {
			e.lateInits = append(e.lateInits, gl)
		}
		e.globals[gl.Binding] = g
	}
	return nil
}

// emitInit builds the init function for globals that need code to compute
// their value and registers it as a module constructor.
func (e *Emitter) emitInit() error {
	if len(e.lateInits) == 0 {
		return nil
	}
	crate := e.ctx.Symbols().MustLookup(e.ctx.Item(e.ctx.Module(e.pkg.Crate).Item).Sym)
	f := e.mod.NewFunc(crate+".$init", lltypes.Void)
	f.Linkage = enum.LinkageInternal

	fe := newFuncEmitter(e, f, e.tys.Builtins().Unit)
	for _, gl := range e.lateInits {
		v, err := fe.expr(gl.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", e.ctx.PathString(gl.Item), err)
		}
		fe.cur.NewStore(v, e.globals[gl.Binding])
	}
	fe.cur.NewRet(nil)
	fe.seal()

	ctorTy := lltypes.NewStruct(lltypes.I32, lltypes.NewPointer(f.Sig), lltypes.I8Ptr)
	ctor := constant.NewStruct(ctorTy,
		constant.NewInt(lltypes.I32, 65535),
		f,
		constant.NewNull(lltypes.I8Ptr),
	)
	ctors := e.mod.NewGlobalDef("llvm.global_ctors", constant.NewArray(lltypes.NewArray(1, ctorTy), ctor))
	ctors.Linkage = enum.LinkageAppending
	return nil
}

func intConst(t *lltypes.IntType, v *big.Int) *constant.Int {
	return &constant.Int{Typ: t, X: new(big.Int).Set(v)}
}
