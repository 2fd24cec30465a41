// Package meta reads and writes .coolmeta files: a msgpack summary of the
// items a crate defines, their types and their layouts. The build writes
// one next to every output and consults it to skip unchanged crates.
package meta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Extension is appended to the output path of a crate.
const Extension = ".coolmeta"

// SchemaVersion changes whenever Crate changes shape.
const SchemaVersion uint16 = 1

// ErrSchema is returned for files written by another schema version.
var ErrSchema = errors.New("meta: schema version mismatch")

type Field struct {
	Name   string
	Ty     string
	Offset uint64
}

type Item struct {
	Path     string
	Kind     string
	Exported bool
	Ty       string
	Size     uint64
	Align    uint64
	Fields   []Field `msgpack:",omitempty"`
	Value    string  `msgpack:",omitempty"` // integer constants
}

type Crate struct {
	Schema uint16
	Name   string
	Target string
	Hash   project.Digest
	Items  []Item
}

// Collect summarizes the items of crate found in ctx. Items whose type
// never got a layout are listed without size.
func Collect(ctx *resolve.Context, crate resolve.ModuleID, hash project.Digest) *Crate {
	tys := ctx.Types()
	root := ctx.Module(crate)
	out := &Crate{
		Schema: SchemaVersion,
		Name:   ctx.PathString(root.Item),
		Target: tys.Target().Triple,
		Hash:   hash,
	}
	for i, it := range ctx.Items() {
		id := resolve.ItemID(i)
		if id == root.Item || ctx.Module(it.Parent).Root != root.Root {
			continue
		}
		item := Item{
			Path:     ctx.PathString(id),
			Kind:     it.Kind.String(),
			Exported: exported(ctx, it, id),
		}
		switch it.Kind {
		case resolve.ItemModule:
			out.Items = append(out.Items, item)
			continue
		case resolve.ItemTy:
			if !it.Defined {
				continue
			}
			item.Ty = tys.Display(it.Ty)
			item.Fields = fields(ctx, it.Ty)
			describeLayout(tys, it.Ty, &item)
		case resolve.ItemConst:
			ci := ctx.Const(it.Const)
			if ci.Value.Kind == resolve.ConstUndefined {
				continue
			}
			item.Ty = tys.Display(ci.Ty)
			if ci.Value.Kind == resolve.ConstInt {
				item.Value = ci.Value.Int.String()
				describeLayout(tys, ci.Ty, &item)
			}
		case resolve.ItemBinding:
			b := ctx.Binding(it.Binding)
			if !tys.IsDefinable(b.Ty) {
				continue
			}
			item.Ty = tys.Display(b.Ty)
			describeLayout(tys, b.Ty, &item)
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func exported(ctx *resolve.Context, it resolve.Item, id resolve.ItemID) bool {
	mem, ok := ctx.Module(it.Parent).Lookup(it.Sym)
	return ok && mem.Item == id && mem.Exported
}

func fields(ctx *resolve.Context, ty types.TyID) []Field {
	tys := ctx.Types()
	if tys.Shape(ty).Kind != types.KindStruct {
		return nil
	}
	fs, err := tys.Fields(ty)
	if err != nil {
		return nil
	}
	out := make([]Field, len(fs))
	for i, f := range fs {
		out[i] = Field{Name: ctx.Symbols().MustLookup(f.Sym), Ty: tys.Display(f.Ty), Offset: f.Offset}
	}
	return out
}

func describeLayout(tys *types.Table, ty types.TyID, item *Item) {
	if lay, err := tys.Layout(ty); err == nil {
		item.Size, item.Align = lay.Size, lay.Align
	}
}

// Write stores c at path, replacing any previous file atomically.
func Write(path string, c *Crate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".coolmeta-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("meta: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read loads the file at path. A missing file is reported with an error
// satisfying errors.Is(err, os.ErrNotExist).
func Read(path string) (*Crate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Crate
	if err := msgpack.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("meta: decode %s: %w", path, err)
	}
	if c.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %s has %d, want %d", ErrSchema, path, c.Schema, SchemaVersion)
	}
	return &c, nil
}

// UpToDate reports whether the file at path was written for the same crate
// hash and target.
func UpToDate(path string, hash project.Digest, target string) bool {
	c, err := Read(path)
	return err == nil && c.Hash == hash && c.Target == target
}
