package layout

import (
	"fmt"
	"strings"
)

// Target describes the ABI target triple and its pointer properties. Type
// tables are built for exactly one Target; two targets never share TyIDs.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  uint64 // bytes
	PtrAlign uint64 // bytes
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

func I386LinuxGNU() Target {
	return Target{
		Triple:   "i386-linux-gnu",
		PtrSize:  4,
		PtrAlign: 4,
	}
}

func Aarch64LinuxGNU() Target {
	return Target{
		Triple:   "aarch64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

// Default is the target used when nothing is configured.
func Default() Target { return X86_64LinuxGNU() }

// Lookup maps a triple (or its architecture prefix) to a known target.
func Lookup(triple string) (Target, error) {
	if triple == "" {
		return Default(), nil
	}
	arch, _, _ := strings.Cut(triple, "-")
	switch arch {
	case "x86_64", "amd64":
		t := X86_64LinuxGNU()
		t.Triple = triple
		return t, nil
	case "i386", "i686", "x86":
		t := I386LinuxGNU()
		t.Triple = triple
		return t, nil
	case "aarch64", "arm64":
		t := Aarch64LinuxGNU()
		t.Triple = triple
		return t, nil
	default:
		return Target{}, fmt.Errorf("unknown target %q", triple)
	}
}

// Triples lists the default triple of every known target.
func Triples() []string {
	return []string{X86_64LinuxGNU().Triple, I386LinuxGNU().Triple, Aarch64LinuxGNU().Triple}
}
