package source

import (
	"sort"

	"fortio.org/safecast"
)

// FileID identifies a file inside a FileSet.
type FileID uint32

// FileFlags records what loading did to a file's bytes.
type FileFlags uint8

const (
	// FileVirtual marks content that did not come from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is a loaded source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// Lines holds the byte offset at which every line starts; Lines[0] == 0.
	Lines []uint32
	Hash  [32]byte
	Flags FileFlags
}

// LineCol is a 1-based line and column. Columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position converts a byte offset into a line and column.
func (f *File) Position(off uint32) LineCol {
	// last line starting at or before off
	i := sort.Search(len(f.Lines), func(i int) bool { return f.Lines[i] > off }) - 1
	i = max(i, 0)
	line, err := safecast.Conv[uint32](i + 1)
	if err != nil {
		panic(err)
	}
	return LineCol{Line: line, Col: off - f.Lines[i] + 1}
}

// Line returns the text of a 1-based line without its newline.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.Lines) {
		return ""
	}
	start := f.Lines[n-1]
	end := uint32(len(f.Content))
	if int(n) < len(f.Lines) {
		end = f.Lines[n] - 1
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the bytes covered by span.
func (f *File) Text(span Span) string {
	end := min(int(span.End), len(f.Content))
	start := min(int(span.Start), end)
	return string(f.Content[start:end])
}
