package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/meta"
)

func newCrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addCrateFlags(cmd)
	return cmd
}

func TestCrateOptionsFromWorkspace(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"cool.toml":      "[workspace]\nmembers = [\"core\", \"app\"]\n",
		"core/cool.toml": "[package]\nname = \"core\"\n",
		"app/cool.toml":  "[package]\nname = \"app\"\nroot = \"main.cl\"\n[build]\ntarget = \"aarch64-linux-gnu\"\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	crates, err := crateOptions(newCrateCmd(), []string{dir})
	if err != nil {
		t.Fatalf("crateOptions: %v", err)
	}
	if len(crates) != 2 || crates[0].Name != "core" || crates[1].Name != "app" {
		t.Fatalf("unexpected crates %+v", crates)
	}
	if crates[0].Root != filepath.Join(dir, "core", "src", "main.cl") || crates[1].Root != filepath.Join(dir, "app", "main.cl") {
		t.Fatalf("unexpected roots %q %q", crates[0].Root, crates[1].Root)
	}
	if crates[1].Target.Triple != "aarch64-linux-gnu" || crates[0].MaxDiagnostics != 100 {
		t.Fatalf("manifest settings lost: %+v", crates)
	}

	cmd := newCrateCmd()
	if err := cmd.Flags().Set("target", "i686-linux-gnu"); err != nil {
		t.Fatal(err)
	}
	crates, err = crateOptions(cmd, []string{dir})
	if err != nil || crates[0].Target.PtrSize != 4 || crates[1].Target.PtrSize != 4 {
		t.Fatalf("--target was not applied: %v %+v", err, crates)
	}
}

func TestCrateOptionsSingleFile(t *testing.T) {
	crates, err := crateOptions(newCrateCmd(), []string{filepath.Join("src", "hello.cl")})
	if err != nil {
		t.Fatal(err)
	}
	if len(crates) != 1 || crates[0].Name != "hello" || crates[0].Out != filepath.Join("src", "build", "hello") {
		t.Fatalf("unexpected crate %+v", crates)
	}
	if _, err := crateOptions(newCrateCmd(), []string{t.TempDir()}); err == nil {
		t.Fatal("a directory without cool.toml must be rejected")
	}
}

func TestReadUIMode(t *testing.T) {
	if on, err := readUIMode("ON"); err != nil || !on {
		t.Fatalf("readUIMode(ON) = %v, %v", on, err)
	}
	if on, err := readUIMode("off"); err != nil || on {
		t.Fatalf("readUIMode(off) = %v, %v", on, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestRenderLayout(t *testing.T) {
	c := &meta.Crate{
		Name:   "app",
		Target: "x86_64-linux-gnu",
		Items: []meta.Item{
			{Path: "app.util", Kind: "module"},
			{Path: "app.Point", Kind: "type", Exported: true, Ty: "app.Point", Size: 8, Align: 4,
				Fields: []meta.Field{{Name: "x", Ty: "u8", Offset: 4}, {Name: "y", Ty: "i32", Offset: 0}}},
			{Path: "app.N", Kind: "constant", Ty: "u64", Size: 8, Align: 8, Value: "42"},
		},
	}
	out := renderLayout(c, false)
	for _, want := range []string{"app (x86_64-linux-gnu)", "app.Point *", ".x", "u8"} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "app.N") || strings.Contains(out, "app.util") {
		t.Fatalf("constants and modules are listed only with --all:\n%s", out)
	}
	if all := renderLayout(c, true); !strings.Contains(all, "app.N = 42") || strings.Contains(all, "app.util") {
		t.Fatalf("unexpected --all layout:\n%s", all)
	}
}
