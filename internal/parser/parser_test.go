package parser_test

import (
	"testing"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/testkit"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

const sample = `
use crate.math.Vec2;
export use util.Id as Ident;
export Point :: struct { x: i32, y: i32 };
Color :: enum(u8) { Red, Green = 4, Blue };
Size :: alias usize;
Number :: alias i32 | f64;
math :: module;
util :: module { export Id :: alias u32; };
N :: 4;
M : u64 : N * 2;
mut counter : i32 = 0;
puts :: extern "C" fn(s: [*]u8, ...) -> i32;
export main :: fn() -> i32 {
    p := Point { x = 1, y = 2 };
    mut i : usize = 0;
    defer i = 0;
    while i < N { i += 1; }
    for j := 0; j < 3; j += 1 { counter += j; }
    q : *Point = &p;
    return offset_of(Point, y) as i32 + q.x + size_of([N]i32) as i32;
};
`

type fixture struct {
	b    *ast.Builder
	syms *symbol.Table
	bag  *diag.Bag
	file *source.File
	res  parser.Result
}

func parse(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cl", []byte(src)))
	syms := symbol.NewTable()
	bag := diag.NewBag(16)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, syms, lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lx, syms, b, parser.Options{Reporter: rep})
	return fixture{b: b, syms: syms, bag: bag, file: file, res: res}
}

func (f fixture) items() []ast.ItemID {
	return f.b.Files.Get(f.res.File).Items
}

func TestParseSample(t *testing.T) {
	f := parse(t, sample)
	if f.res.Err != nil {
		t.Fatalf("unexpected error: %v", f.res.Err)
	}
	if err := testkit.CheckSpanInvariants(f.b, f.res.File, f.file); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	want := []ast.ItemKind{
		ast.ItemUse, ast.ItemUse, ast.ItemStruct, ast.ItemEnum, ast.ItemAlias, ast.ItemAlias,
		ast.ItemModule, ast.ItemModule, ast.ItemConst, ast.ItemConst, ast.ItemGlobal, ast.ItemFn, ast.ItemFn,
	}
	items := f.items()
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, k := range want {
		if got := f.b.Items.Get(items[i]).Kind; got != k {
			t.Fatalf("item %d: expected %v, got %v", i, k, got)
		}
	}

	use := f.b.Items.Get(items[1])
	if !use.Exported || f.syms.MustLookup(use.Name) != "Ident" {
		t.Fatalf("use alias not recorded: %+v", use)
	}
	if st := f.b.Items.Struct(items[2]); len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
	en := f.b.Items.Enum(items[3])
	if !en.Storage.IsValid() || len(en.Variants) != 3 || !en.Variants[1].Value.IsValid() {
		t.Fatalf("unexpected enum %+v", en)
	}
	if ty := f.b.Types.Get(f.b.Items.Alias(items[5]).Ty); ty.Kind != ast.TypeExprVariant || len(ty.Elems) != 2 {
		t.Fatalf("expected variant alias, got %+v", ty)
	}
	if m := f.b.Items.Module(items[6]); m.Inline {
		t.Fatalf("math must be a file module")
	}
	if m := f.b.Items.Module(items[7]); !m.Inline || len(m.Items) != 1 {
		t.Fatalf("util must be inline with one item")
	}
	if c := f.b.Items.Const(items[9]); !c.Ty.IsValid() {
		t.Fatalf("typed const lost its type")
	}
	if g := f.b.Items.Global(items[10]); !g.Mutable || !g.Ty.IsValid() || !g.Value.IsValid() {
		t.Fatalf("unexpected global %+v", g)
	}
	puts := f.b.Items.Fn(items[11])
	if !puts.Extern || !puts.Variadic || len(puts.Params) != 1 || f.syms.MustLookup(puts.Abi) != `"C"` {
		t.Fatalf("unexpected extern fn %+v", puts)
	}
	main := f.b.Items.Fn(items[12])
	body := f.b.Exprs.Block(main.Body)
	kinds := []ast.StmtKind{ast.StmtLet, ast.StmtLet, ast.StmtDefer, ast.StmtWhile, ast.StmtFor, ast.StmtLet, ast.StmtReturn}
	if len(body.Stmts) != len(kinds) {
		t.Fatalf("expected %d statements, got %d", len(kinds), len(body.Stmts))
	}
	for i, k := range kinds {
		if got := f.b.Stmts.Get(body.Stmts[i]).Kind; got != k {
			t.Fatalf("stmt %d: expected %v, got %v", i, k, got)
		}
	}
}

func TestPrecedence(t *testing.T) {
	f := parse(t, "X :: 1 + 2 * 3 << 1 == 4 as u8;")
	if f.res.Err != nil {
		t.Fatalf("unexpected error: %v", f.res.Err)
	}
	value := f.b.Items.Const(f.items()[0]).Value
	eq := f.b.Exprs.Binary(value)
	if eq == nil || eq.Op != token.EqEq {
		t.Fatalf("expected == at the root")
	}
	if f.b.Exprs.Get(eq.Rhs).Kind != ast.ExprCast {
		t.Fatalf("as must bind tighter than ==")
	}
	shl := f.b.Exprs.Binary(eq.Lhs)
	if shl == nil || shl.Op != token.Shl {
		t.Fatalf("expected << under ==")
	}
	add := f.b.Exprs.Binary(shl.Lhs)
	if add == nil || add.Op != token.Plus || f.b.Exprs.Binary(add.Rhs).Op != token.Star {
		t.Fatalf("expected 1 + (2 * 3)")
	}
}

func TestTupleIndexChain(t *testing.T) {
	f := parse(t, "f :: fn(t: ((i32, i32), i32)) -> i32 { t.0.1 };")
	if f.res.Err != nil {
		t.Fatalf("unexpected error: %v", f.res.Err)
	}
	body := f.b.Exprs.Block(f.b.Items.Fn(f.items()[0]).Body)
	outer := f.b.Exprs.TupleIndex(body.Tail)
	if outer == nil || outer.Index != 1 {
		t.Fatalf("expected .1 at the top")
	}
	inner := f.b.Exprs.TupleIndex(outer.Base)
	if inner == nil || inner.Index != 0 {
		t.Fatalf("expected .0 below")
	}
}

func TestNoStructLiteralInCondition(t *testing.T) {
	f := parse(t, "f :: fn() { while ok { P { x = 1 }; } };")
	if f.res.Err != nil {
		t.Fatalf("unexpected error: %v", f.res.Err)
	}
	body := f.b.Exprs.Block(f.b.Items.Fn(f.items()[0]).Body)
	w := f.b.Stmts.While(body.Stmts[0])
	if f.b.Exprs.Get(w.Cond).Kind != ast.ExprIdent {
		t.Fatalf("condition swallowed the body")
	}
	inner := f.b.Exprs.Block(w.Body)
	lit := f.b.Stmts.Expr(inner.Stmts[0])
	if f.b.Exprs.Get(lit.Expr).Kind != ast.ExprStruct {
		t.Fatalf("struct literal expected inside the body")
	}
}

func TestTypes(t *testing.T) {
	f := parse(t, "T :: alias (*mut [*]u8, []mut i32, [4]a.B, fn(i32, ...) -> ());")
	if f.res.Err != nil {
		t.Fatalf("unexpected error: %v", f.res.Err)
	}
	tuple := f.b.Types.Get(f.b.Items.Alias(f.items()[0]).Ty)
	want := []ast.TypeExprKind{ast.TypeExprPtr, ast.TypeExprSlice, ast.TypeExprArray, ast.TypeExprFn}
	if tuple.Kind != ast.TypeExprTuple || len(tuple.Elems) != len(want) {
		t.Fatalf("unexpected tuple %+v", tuple)
	}
	for i, k := range want {
		if got := f.b.Types.Get(tuple.Elems[i]); got.Kind != k {
			t.Fatalf("elem %d: expected %v, got %v", i, k, got.Kind)
		}
	}
	ptr := f.b.Types.Get(tuple.Elems[0])
	if !ptr.Mutable || f.b.Types.Get(ptr.Elem).Kind != ast.TypeExprManyPtr {
		t.Fatalf("unexpected pointer %+v", ptr)
	}
	fn := f.b.Types.Get(tuple.Elems[3])
	if !fn.Variadic || len(fn.Elems) != 1 || f.b.Types.Get(fn.Ret).Kind != ast.TypeExprTuple {
		t.Fatalf("unexpected fn type %+v", fn)
	}
	if arr := f.b.Types.Get(tuple.Elems[2]); f.b.Types.Get(arr.Elem).Path.Syms[1] != f.syms.Intern("B") {
		t.Fatalf("array element path not kept")
	}
}

func TestErrorAbortsFile(t *testing.T) {
	f := parse(t, "A :: 1\nB :: 2;")
	if f.res.Err == nil {
		t.Fatalf("expected a syntax error")
	}
	if f.res.Err.Found.Kind != token.Ident {
		t.Fatalf("expected to stop at B, got %v", f.res.Err.Found.Kind)
	}
	if got := f.res.Err.Error(); got != "expected `;`, found identifier `B`" {
		t.Fatalf("unexpected message %q", got)
	}
	if f.bag.Len() != 1 || f.bag.Items()[0].Code != diag.SynUnexpectedToken {
		t.Fatalf("expected one SynUnexpectedToken, got %d", f.bag.Len())
	}
	if len(f.items()) != 0 {
		t.Fatalf("no item may be pushed after the error")
	}
}

func TestUnexpectedEOF(t *testing.T) {
	f := parse(t, "f :: fn() { x := 1;")
	if f.res.Err == nil || f.res.Err.Found.Kind != token.EOF {
		t.Fatalf("expected EOF error, got %v", f.res.Err)
	}
	d := f.bag.Items()[0]
	if d.Primary.Start != uint32(len("f :: fn() { x := 1;")) {
		t.Fatalf("EOF error must point past the last token, got %v", d.Primary)
	}
}

func TestLexErrorIsNotReportedTwice(t *testing.T) {
	f := parse(t, "A :: @;")
	if f.res.Err == nil || f.res.Err.Found.Kind != token.Invalid {
		t.Fatalf("expected stop at invalid token")
	}
	if f.bag.Len() != 1 || f.bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected only the lexer diagnostic")
	}
}
