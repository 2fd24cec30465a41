package source

import (
	"bytes"
	"path/filepath"

	"fortio.org/safecast"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func stripBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bom) {
		return content[len(bom):], true
	}
	return content, false
}

// normalizeNewlines rewrites \r\n to \n; lone \r bytes are kept.
func normalizeNewlines(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, 1+bytes.Count(content, []byte("\n")))
	for i, b := range content {
		if b != '\n' {
			continue
		}
		next, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(err)
		}
		starts = append(starts, next)
	}
	return starts
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
