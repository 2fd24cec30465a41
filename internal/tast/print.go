//nolint:errcheck // Type assertions are checked by construction
package tast

import (
	"fmt"
	"io"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
)

// DumpOptions configures typed AST dumping.
type DumpOptions struct {
	// Types annotates every composite expression with its type.
	Types bool
}

// Printer writes a typed AST as indented text.
type Printer struct {
	w      io.Writer
	ctx    *resolve.Context
	indent int
	opts   DumpOptions
	err    error
}

// NewPrinter creates a printer that names things through ctx.
func NewPrinter(w io.Writer, ctx *resolve.Context, opts DumpOptions) *Printer {
	return &Printer{w: w, ctx: ctx, opts: opts}
}

// Dump writes pkg to w.
func Dump(w io.Writer, pkg *Package, ctx *resolve.Context, opts DumpOptions) error {
	return NewPrinter(w, ctx, opts).PrintPackage(pkg)
}

// PrintPackage prints constants, globals and functions in that order.
func (p *Printer) PrintPackage(pkg *Package) error {
	for _, c := range pkg.Consts {
		p.printf("const %s: %s = ", p.ctx.PathString(c.Item), p.ty(c.Value))
		p.printExpr(c.Value)
		p.printf("\n")
	}
	if len(pkg.Consts) > 0 {
		p.printf("\n")
	}
	for _, g := range pkg.Globals {
		mut := ""
		if g.Mutable {
			mut = "mut "
		}
		p.printf("global %s%s: %s", mut, p.ctx.PathString(g.Item), p.ctx.Types().Display(g.Ty))
		if g.Value != nil {
			p.printf(" = ")
			p.printExpr(g.Value)
		}
		p.printf("\n")
	}
	if len(pkg.Globals) > 0 {
		p.printf("\n")
	}
	for _, f := range pkg.Fns {
		p.PrintFn(f)
		p.printf("\n")
	}
	return p.err
}

// PrintFn prints one function.
func (p *Printer) PrintFn(f *Fn) {
	if f.Exported {
		p.printf("export ")
	}
	if f.Extern {
		p.printf("extern ")
	}
	p.printf("fn %s(", p.ctx.PathString(f.Item))
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		if param.Mutable {
			p.printf("mut ")
		}
		p.printf("%s: %s", p.sym(param.Binding), p.ctx.Types().Display(param.Ty))
	}
	p.printf(") -> %s", p.ctx.Types().Display(f.Ret))
	if f.Body != nil {
		p.printf(" ")
		p.printBlock(f.Body)
	}
	p.printf("\n")
}

func (p *Printer) printBlock(b *Block) {
	p.printf("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.printIndent()
		p.printStmt(s)
		p.printf("\n")
	}
	if b.Tail != nil {
		p.printIndent()
		p.printExpr(b.Tail)
		p.printf("\n")
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printStmt(s *Stmt) {
	switch s.Kind {
	case StmtLet:
		data := s.Data.(LetData)
		if data.Mutable {
			p.printf("mut ")
		}
		b := p.ctx.Binding(data.Binding)
		p.printf("%s: %s = ", p.sym(data.Binding), p.ctx.Types().Display(b.Ty))
		p.printExpr(data.Value)
	case StmtDefer:
		data := s.Data.(DeferData)
		p.printf("defer ")
		p.printStmt(data.Stmt)
	case StmtExpr:
		p.printExpr(s.Data.(ExprStmtData).Expr)
	case StmtAssign:
		data := s.Data.(AssignData)
		p.printExpr(data.Lhs)
		if data.Compound {
			p.printf(" %s= ", data.Op)
		} else {
			p.printf(" = ")
		}
		p.printExpr(data.Rhs)
	default:
		p.printf("<%s>", s.Kind)
	}
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	annotate := p.opts.Types
	switch e.Kind {
	case ExprLiteral:
		data := e.Data.(LiteralData)
		switch data.Kind {
		case LiteralBool:
			p.printf("%t", data.Bool)
		case LiteralChar:
			p.printf("%q", data.Char)
		case LiteralFloat:
			p.printf("%g", data.Float)
		default:
			p.printf("%q", data.Str)
		}
	case ExprIntValue:
		p.printf("%s", e.Data.(IntValueData).Value)
	case ExprBindingRef:
		p.printf("%s", p.sym(e.Data.(BindingRefData).Binding))
		annotate = false
	case ExprConstRef:
		p.printf("%s", p.ctx.PathString(p.ctx.Const(e.Data.(ConstRefData).Const).Item))
		annotate = false
	case ExprFnRef:
		p.printf("%s", p.ctx.PathString(e.Data.(FnRefData).Item))
		annotate = false
	case ExprUnary:
		data := e.Data.(UnaryData)
		p.printf("(%s", data.Op)
		p.printExpr(data.Operand)
		p.printf(")")
	case ExprBinary:
		data := e.Data.(BinaryData)
		p.printf("(")
		p.printExpr(data.Lhs)
		p.printf(" %s ", data.Op)
		p.printExpr(data.Rhs)
		p.printf(")")
	case ExprCall:
		data := e.Data.(CallData)
		p.printExpr(data.Callee)
		p.printList(data.Args, "(", ")")
	case ExprField:
		data := e.Data.(FieldData)
		p.printExpr(data.Base)
		p.printf(".%s", p.ctx.Symbols().MustLookup(data.Field))
	case ExprTupleIndex:
		data := e.Data.(TupleIndexData)
		p.printExpr(data.Base)
		p.printf(".%d", data.Index)
	case ExprIndex:
		data := e.Data.(IndexData)
		p.printExpr(data.Base)
		p.printf("[")
		p.printExpr(data.Index)
		p.printf("]")
	case ExprDeref:
		p.printf("*")
		p.printExpr(e.Data.(DerefData).Operand)
	case ExprAddrOf:
		data := e.Data.(AddrOfData)
		if data.Mutable {
			p.printf("&mut ")
		} else {
			p.printf("&")
		}
		p.printExpr(data.Operand)
	case ExprStructLit:
		data := e.Data.(StructLitData)
		p.printf("%s { ", p.ctx.Types().Display(e.Ty))
		for i, f := range data.Fields {
			if i > 0 {
				p.printf(", ")
			}
			p.printf("%s = ", p.ctx.Symbols().MustLookup(f.Field))
			p.printExpr(f.Value)
		}
		p.printf(" }")
		annotate = false
	case ExprArrayLit:
		p.printList(e.Data.(ArrayLitData).Elems, "[", "]")
	case ExprTupleLit:
		p.printList(e.Data.(TupleLitData).Elems, "(", ")")
	case ExprCast:
		p.printExpr(e.Data.(CastData).Value)
		p.printf(" as %s", p.ctx.Types().Display(e.Ty))
		annotate = false
	case ExprBlock:
		p.printBlock(e.Data.(BlockData).Block)
	case ExprIf:
		data := e.Data.(IfData)
		p.printf("if ")
		p.printExpr(data.Cond)
		p.printf(" ")
		p.printBlock(data.Then)
		if data.Else != nil {
			p.printf(" else ")
			p.printExpr(data.Else)
		}
	case ExprWhile:
		data := e.Data.(WhileData)
		p.printf("while ")
		p.printExpr(data.Cond)
		p.printf(" ")
		p.printBlock(data.Body)
		annotate = false
	case ExprFor:
		data := e.Data.(ForData)
		p.printf("for ")
		if data.Init != nil {
			p.printStmt(data.Init)
		}
		p.printf("; ")
		if data.Cond != nil {
			p.printExpr(data.Cond)
		}
		p.printf("; ")
		if data.Step != nil {
			p.printStmt(data.Step)
		}
		p.printf(" ")
		p.printBlock(data.Body)
		annotate = false
	case ExprReturn:
		p.printf("return")
		if v := e.Data.(ReturnData).Value; v != nil {
			p.printf(" ")
			p.printExpr(v)
		}
		annotate = false
	case ExprBreak:
		p.printf("break")
		annotate = false
	case ExprContinue:
		p.printf("continue")
		annotate = false
	case ExprWrap:
		data := e.Data.(WrapData)
		p.printf("wrap#%d(", data.Tag)
		p.printExpr(data.Value)
		p.printf(")")
	default:
		p.printf("<%s>", e.Kind)
	}
	if annotate {
		p.printf(" : %s", p.ctx.Types().Display(e.Ty))
	}
}

func (p *Printer) printList(elems []*Expr, open, closing string) {
	p.printf("%s", open)
	for i, el := range elems {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(el)
	}
	p.printf("%s", closing)
}

func (p *Printer) ty(e *Expr) string {
	if e == nil {
		return "?"
	}
	return p.ctx.Types().Display(e.Ty)
}

func (p *Printer) sym(id resolve.BindingID) string {
	return p.ctx.Symbols().MustLookup(p.ctx.Binding(id).Sym)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("    ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
