package driver

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// Tokenized is a single file split into tokens.
type Tokenized struct {
	FileSet *source.FileSet
	File    source.FileID
	Symbols *symbol.Table
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file without looking at the modules it declares.
// Trivia tokens are kept when trivia is set.
func Tokenize(path string, maxDiagnostics int, trivia bool) (*Tokenized, error) {
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		return nil, err
	}
	out := &Tokenized{FileSet: fset, File: id, Symbols: symbol.NewTable(), Bag: diag.NewBag(maxDiagnostics)}
	out.Tokens = lexer.Tokenize(fset.Get(id), out.Symbols, lexer.Options{Reporter: diag.BagReporter{Bag: out.Bag}}, trivia)
	return out, nil
}

// Parsed is a single parsed file.
type Parsed struct {
	FileSet *source.FileSet
	Symbols *symbol.Table
	Tree    *ast.Builder
	File    ast.FileID
	Bag     *diag.Bag
	Err     *parser.SyntaxError
}

// Parse parses one file. File modules it declares are not loaded.
func Parse(path string, maxDiagnostics int) (*Parsed, error) {
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		return nil, err
	}
	out := &Parsed{
		FileSet: fset,
		Symbols: symbol.NewTable(),
		Tree:    ast.NewBuilder(ast.Hints{}),
		Bag:     diag.NewBag(maxDiagnostics),
	}
	rep := diag.BagReporter{Bag: out.Bag}
	lx := lexer.New(fset.Get(id), out.Symbols, lexer.Options{Reporter: rep})
	res := parser.ParseFile(lx, out.Symbols, out.Tree, parser.Options{Reporter: rep})
	out.File, out.Err = res.File, res.Err
	return out, nil
}
