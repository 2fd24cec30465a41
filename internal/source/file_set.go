package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of a compilation. FileIDs are dense and stable.
type FileSet struct {
	files  []*File
	byPath map[string]FileID
}

// NewFileSet creates an empty set.
func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add stores content under path. Adding a path again creates a new file that
// shadows the old one in Lookup.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len(files) overflow: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    path,
		Content: content,
		Lines:   lineStarts(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.byPath[path] = id
	return id
}

// AddVirtual stores in-memory content, e.g. for tests or stdin.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk, drops a UTF-8 BOM and normalises CRLF.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the user or the manifest
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	var flags FileFlags
	content, hadBOM := stripBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeNewlines(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// Get returns the file with id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		panic(fmt.Sprintf("source: unknown file %d", id))
	}
	return fs.files[id]
}

// Lookup returns the latest file added under path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.byPath[normalizePath(path)]
	return id, ok
}

// Len reports the number of files.
func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve converts both ends of span to line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return f.Position(span.Start), f.Position(span.End)
}

// Describe renders span as path:line:col.
func (fs *FileSet) Describe(span Span) string {
	f := fs.Get(span.File)
	pos := f.Position(span.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}
