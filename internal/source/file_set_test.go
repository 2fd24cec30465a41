package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.cl", []byte("ab\ncd\n\nxyz"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{10, LineCol{4, 4}}, // end of file
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Fatalf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if got := fs.Describe(Span{File: id, Start: 4, End: 5}); got != "main.cl:2:2" {
		t.Fatalf("Describe = %q", got)
	}
}

func TestLineText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.cl", []byte("first\nsecond\n")))
	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "", 4: ""}
	for n, want := range cases {
		if got := f.Line(n); got != want {
			t.Fatalf("Line(%d) = %q, want %q", n, got, want)
		}
	}
	if got := f.Text(Span{Start: 6, End: 12}); got != "second" {
		t.Fatalf("Text = %q", got)
	}
}

func TestLoadNormalises(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.cl")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a :: 1;\r\nb :: 2;\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a :: 1;\nb :: 2;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if got, ok := fs.Lookup(path); !ok || got != id {
		t.Fatalf("Lookup(%q) = %d, %v", path, got, ok)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.cl")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestAddShadowsPath(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.cl", []byte("x"))
	second := fs.AddVirtual("./a.cl", []byte("y"))
	if first == second {
		t.Fatalf("every Add must create a new file")
	}
	if got, _ := fs.Lookup("a.cl"); got != second {
		t.Fatalf("Lookup returned %d, want latest %d", got, second)
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatalf("different content must hash differently")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file Cover must keep the receiver")
	}
	if !a.Head().Empty() || a.Len() != 4 {
		t.Fatalf("Head/Len are wrong")
	}
}
