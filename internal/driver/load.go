package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/hashicorp/go-set/v3"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/trace"
)

// SourceExt is the extension of source files.
const SourceExt = ".cl"

// loader parses the root file of a crate and, transitively, every file
// module it declares. A file module `m :: module;` declared by a module whose
// directory is dir lives in dir/m.cl, and its own file modules live in dir/m/.
type loader struct {
	ctx    context.Context
	fs     *source.FileSet
	syms   *symbol.Table
	tree   *ast.Builder
	rep    diag.Reporter
	seen   *set.Set[string]
	hashes []project.Digest
}

func newLoader(ctx context.Context, fset *source.FileSet, syms *symbol.Table, tree *ast.Builder, rep diag.Reporter) *loader {
	return &loader{
		ctx:  ctx,
		fs:   fset,
		syms: syms,
		tree: tree,
		rep:  rep,
		seen: set.New[string](8),
	}
}

// root parses the crate root. Failing to read it is the only error the
// loader returns; missing module files become diagnostics.
func (l *loader) root(path string) (ast.FileID, error) {
	id, err := l.fs.Load(path)
	if err != nil {
		return ast.NoFileID, err
	}
	l.seen.Insert(filepath.Clean(path))
	file := l.parse(id)
	l.walk(l.tree.Files.Get(file).Items, filepath.Dir(path))
	return file, nil
}

func (l *loader) parse(id source.FileID) ast.FileID {
	f := l.fs.Get(id)
	trace.Point(l.ctx, trace.ScopeModule, "parse", f.Path)
	lx := lexer.New(f, l.syms, lexer.Options{Reporter: l.rep})
	res := parser.ParseFile(lx, l.syms, l.tree, parser.Options{Reporter: l.rep})
	l.hashes = append(l.hashes, f.Hash)
	return res.File
}

func (l *loader) walk(items []ast.ItemID, dir string) {
	for _, id := range items {
		m := l.tree.Items.Module(id)
		if m == nil {
			continue
		}
		it := l.tree.Items.Get(id)
		sub := filepath.Join(dir, l.syms.MustLookup(it.Name))
		if m.Inline {
			l.walk(m.Items, sub)
			continue
		}
		m.File = l.module(it, sub+SourceExt)
		if m.File.IsValid() {
			l.walk(l.tree.Files.Get(m.File).Items, sub)
		}
	}
}

func (l *loader) module(it *ast.Item, path string) ast.FileID {
	if !l.seen.Insert(filepath.Clean(path)) {
		diag.ReportError(l.rep, diag.IOLoadFileFailed, it.NameSpan,
			fmt.Sprintf("file %s is already loaded by another module", path)).Emit()
		return ast.NoFileID
	}
	id, err := l.fs.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		diag.ReportError(l.rep, diag.IOModuleNotFound, it.NameSpan,
			fmt.Sprintf("module file %s not found", path)).Emit()
		return ast.NoFileID
	case err != nil:
		diag.ReportError(l.rep, diag.IOLoadFileFailed, it.NameSpan, err.Error()).Emit()
		return ast.NoFileID
	}
	return l.parse(id)
}
