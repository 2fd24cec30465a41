package project

import (
	"crypto/sha256"
	"slices"
)

// Digest is a sha256 sum, the same size as source.File.Hash.
type Digest [32]byte

// CrateHash combines the digests of every file of a crate. The order of
// files does not matter.
func CrateHash(files ...Digest) Digest {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b Digest) int { return slices.Compare(a[:], b[:]) })
	h := sha256.New()
	for _, d := range sorted {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
