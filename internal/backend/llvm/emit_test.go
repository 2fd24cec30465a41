package llvm_test

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/astgen"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/backend/llvm"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

func emit(t *testing.T, src string) *ir.Module {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("main.cl", []byte(src)))
	syms := symbol.NewTable()
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, syms, lexer.Options{Reporter: rep})
	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lx, syms, tree, parser.Options{Reporter: rep})
	if res.Err != nil {
		t.Fatalf("syntax error: %v", res.Err)
	}
	ctx := resolve.New(syms, layout.X86_64LinuxGNU())
	gen := astgen.New(ctx, tree, astgen.Options{Reporter: rep})
	pkg := gen.Run(astgen.Crate{Name: syms.Intern("app"), Root: res.File})
	for _, d := range bag.Items() {
		t.Fatalf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
	}
	mod, err := llvm.Emit(ctx, pkg)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return mod
}

func requireTerminated(t *testing.T, mod *ir.Module) {
	t.Helper()
	for _, f := range mod.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				t.Fatalf("block of %s has no terminator", f.Name())
			}
		}
	}
}

func TestEmitDeclarations(t *testing.T) {
	mod := emit(t, `
Pair :: struct { a: u8, b: i32 };
puts :: extern "C" fn(s: [*]u8, ...) -> i32;
helper :: fn(p: Pair) -> i32 { return p.b; };
main :: fn() -> i32 {
    puts("hi");
    return helper(Pair { a = 1, b = 2 });
};
`)
	requireTerminated(t, mod)
	out := mod.String()
	for _, want := range []string{
		"x86_64-linux-gnu",
		"<{ i32, i8, [3 x i8] }>",
		"declare",
		"@puts",
		"define i32 @main()",
		"define internal i32 @app.helper",
		`c"hi\00"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("module does not contain %q:\n%s", want, out)
		}
	}
}

func TestEmitControlFlow(t *testing.T) {
	mod := emit(t, `
mut total : i64 = 0;
sum :: fn(n: i64) -> i64 {
    mut acc : i64 = 0;
    defer total += acc;
    for mut i : i64 = 0; i < n; i += 1 {
        if i == 7 { break; }
        if i % 2 == 0 { continue; }
        acc += i;
    }
    mut j : i64 = n;
    while j > 0 && acc < 100 { j -= 1; }
    x := if n > 3 { acc } else { return 0; };
    return x;
};
`)
	requireTerminated(t, mod)
	out := mod.String()
	for _, want := range []string{"icmp slt", "srem", "phi i1", "@app.total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("module does not contain %q:\n%s", want, out)
		}
	}
}

func TestEmitLateGlobalInit(t *testing.T) {
	mod := emit(t, `
seed :: fn() -> u32 { return 4; };
state : u32 = seed() * 2;
`)
	requireTerminated(t, mod)
	out := mod.String()
	if !strings.Contains(out, "llvm.global_ctors") || !strings.Contains(out, "app.$init") {
		t.Fatalf("late initializer was not registered:\n%s", out)
	}
}

func TestEmitVariantAndEnum(t *testing.T) {
	mod := emit(t, `
Number :: alias i32 | f64;
Color :: enum(u16) { Red, Green };
wrap :: fn() -> Number { return 2.5; };
pick :: fn(c: Color) -> bool { return c == Color.Green; };
`)
	requireTerminated(t, mod)
	out := mod.String()
	for _, want := range []string{"bitcast", "i16 %c"} {
		if !strings.Contains(out, want) {
			t.Fatalf("module does not contain %q:\n%s", want, out)
		}
	}
}

func TestEmitInfiniteLoopHasNoReturn(t *testing.T) {
	mod := emit(t, `
spin :: fn() -> i32 { for ;; { } };
wait :: fn(n: i32) -> i32 { while true { if n > 0 { return n; } } };
`)
	requireTerminated(t, mod)
	rets := map[string]int{}
	for _, f := range mod.Funcs {
		for _, b := range f.Blocks {
			if _, ok := b.Term.(*ir.TermRet); ok {
				rets[f.Name()]++
			}
		}
	}
	if rets["app.spin"] != 0 {
		t.Fatalf("spin returns:\n%s", mod)
	}
	if rets["app.wait"] != 1 {
		t.Fatalf("wait should return only from inside the loop, found %d returns:\n%s", rets["app.wait"], mod)
	}
	if !strings.Contains(mod.String(), "unreachable") {
		t.Fatalf("loop exit is not marked unreachable:\n%s", mod)
	}
}
