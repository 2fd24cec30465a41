package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
[package]
name = "app"

[build]
target = "i386-unknown-linux-gnu"
`)
	nested := filepath.Join(dir, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Name() != "app" {
		t.Fatalf("name = %q", m.Name())
	}
	if got, want := m.RootFile(), filepath.Join(m.Dir, "src", "main.cl"); got != want {
		t.Fatalf("root = %q, want %q", got, want)
	}
	if got, want := m.OutPath(), filepath.Join(m.Dir, "build", "app"); got != want {
		t.Fatalf("out = %q, want %q", got, want)
	}
	if m.Target().PtrSize != 4 {
		t.Fatalf("i386 target must have 4-byte pointers, got %d", m.Target().PtrSize)
	}
	if m.MaxDiagnostics() != DefaultMaxDiagnostics {
		t.Fatalf("max diagnostics = %d", m.MaxDiagnostics())
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", ``, ErrNoPackage},
		{"no name", "[package]\nroot = \"main.cl\"\n", ErrNoPackageName},
		{"unknown key", "[package]\nname = \"a\"\nflavour = 1\n", nil},
		{"bad target", "[package]\nname = \"a\"\n[build]\ntarget = \"mips-linux\"\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWorkspaceMembers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "[workspace]\nmembers = [\"a\", \"b\"]\n")
	writeFile(t, filepath.Join(dir, "a", FileName), "[package]\nname = \"a\"\n")
	writeFile(t, filepath.Join(dir, "b", FileName), "[package]\nname = \"b\"\nroot = \"lib.cl\"\n")

	m, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	members, err := m.Members()
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0].Name() != "a" || members[1].Name() != "b" {
		t.Fatalf("unexpected members %+v", members)
	}
	if got := members[1].RootFile(); got != filepath.Join(dir, "b", "lib.cl") {
		t.Fatalf("root of b = %q", got)
	}
}

func TestCrateHashIgnoresOrder(t *testing.T) {
	a, b := Digest{1}, Digest{2}
	if CrateHash(a, b) != CrateHash(b, a) {
		t.Fatalf("hash depends on file order")
	}
	if CrateHash(a) == CrateHash(a, b) {
		t.Fatalf("hash ignores a file")
	}
}
