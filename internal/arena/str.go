package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// StrInterner is the string specialisation of Interner. Strings are
// immutable in Go, so the map key doubles as the owned copy.
type StrInterner struct {
	byID  []string
	index map[string]Handle
}

// NewStrInterner creates an empty string interner.
func NewStrInterner() *StrInterner {
	return &StrInterner{
		byID:  make([]string, 0, 256),
		index: make(map[string]Handle, 256),
	}
}

func (in *StrInterner) insert(s string) Handle {
	n, err := safecast.Conv[uint32](len(in.byID))
	if err != nil {
		panic(fmt.Errorf("string interner overflow: %w", err))
	}
	// detach from the caller's buffer (the text may be a view into a source file)
	cpy := string([]byte(s))
	h := Handle(n)
	in.byID = append(in.byID, cpy)
	in.index[cpy] = h
	return h
}

// InsertOrGet interns s.
func (in *StrInterner) InsertOrGet(s string) Handle {
	if h, ok := in.index[s]; ok {
		return h
	}
	return in.insert(s)
}

// InsertIfNotExists interns s unless it is already present.
func (in *StrInterner) InsertIfNotExists(s string) (Handle, bool) {
	if _, ok := in.index[s]; ok {
		return 0, false
	}
	return in.insert(s), true
}

// Get returns the string behind h.
func (in *StrInterner) Get(h Handle) (string, bool) {
	if int(h) >= len(in.byID) {
		return "", false
	}
	return in.byID[h], true
}

// GetHandle looks s up without interning it.
func (in *StrInterner) GetHandle(s string) (Handle, bool) {
	h, ok := in.index[s]
	return h, ok
}

// Len reports the number of interned strings.
func (in *StrInterner) Len() int {
	return len(in.byID)
}
