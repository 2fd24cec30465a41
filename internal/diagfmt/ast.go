package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

// FormatASTPretty prints the item outline of a parsed file as a tree.
// Inline modules are expanded; bodies are not.
func FormatASTPretty(w io.Writer, tree *ast.Builder, file ast.FileID, syms *symbol.Table, fs *source.FileSet) error {
	f := tree.Files.Get(file)
	if f == nil {
		return fmt.Errorf("unknown file %d", file)
	}
	o := outline{w: w, tree: tree, syms: syms, fs: fs}
	fmt.Fprintf(w, "File %s\n", fs.Get(f.Source).Path)
	o.items(f.Items, "")
	return nil
}

type outline struct {
	w    io.Writer
	tree *ast.Builder
	syms *symbol.Table
	fs   *source.FileSet
}

func (o *outline) items(ids []ast.ItemID, prefix string) {
	for i, id := range ids {
		branch, next := "├─ ", "│  "
		if i == len(ids)-1 {
			branch, next = "└─ ", "   "
		}
		it := o.tree.Items.Get(id)
		fmt.Fprintf(o.w, "%s%s%s\n", prefix, branch, o.label(id, it))
		if m := o.tree.Items.Module(id); m != nil && m.Inline {
			o.items(m.Items, prefix+next)
		}
	}
}

func (o *outline) label(id ast.ItemID, it *ast.Item) string {
	var sb strings.Builder
	if it.Exported {
		sb.WriteString("export ")
	}
	sb.WriteString(it.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(o.syms.MustLookup(it.Name))

	switch it.Kind {
	case ast.ItemUse:
		sb.WriteString(" = " + o.path(o.tree.Items.Use(id).Path.Syms))
	case ast.ItemModule:
		if !o.tree.Items.Module(id).Inline {
			sb.WriteString(" (file)")
		}
	case ast.ItemStruct:
		fmt.Fprintf(&sb, " {%d fields}", len(o.tree.Items.Struct(id).Fields))
	case ast.ItemEnum:
		fmt.Fprintf(&sb, " {%d variants}", len(o.tree.Items.Enum(id).Variants))
	case ast.ItemGlobal:
		if o.tree.Items.Global(id).Mutable {
			sb.WriteString(" mut")
		}
	case ast.ItemFn:
		fn := o.tree.Items.Fn(id)
		fmt.Fprintf(&sb, " (%d params", len(fn.Params))
		if fn.Variadic {
			sb.WriteString(", variadic")
		}
		sb.WriteByte(')')
		if fn.Extern {
			sb.WriteString(" extern")
		}
	}
	start := o.fs.Get(it.Span.File).Position(it.Span.Start)
	fmt.Fprintf(&sb, " @%d:%d", start.Line, start.Col)
	return sb.String()
}

func (o *outline) path(syms []symbol.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = o.syms.MustLookup(s)
	}
	return strings.Join(parts, ".")
}
