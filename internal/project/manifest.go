// Package project locates and reads cool.toml manifests.
//
//	[package]
//	name = "app"
//	root = "src/main.cl"
//
//	[build]
//	target = "x86_64-unknown-linux-gnu"
//	out = "build/app"
//	max-diagnostics = 100
//
//	[workspace]
//	members = ["tools/gen"]
//
// A manifest has either [package], [workspace], or both.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
)

// FileName is the manifest file looked up by FindManifest.
const FileName = "cool.toml"

// DefaultMaxDiagnostics caps the diagnostics of one crate when the manifest
// does not say otherwise.
const DefaultMaxDiagnostics = 100

var (
	ErrNoPackage     = errors.New("missing [package]")
	ErrNoPackageName = errors.New("missing [package].name")
)

// Manifest is a parsed cool.toml. Paths in Config are resolved against Dir
// by the accessors.
type Manifest struct {
	Path   string
	Dir    string
	Config Config
}

type Config struct {
	Package   *Package  `toml:"package"`
	Build     Build     `toml:"build"`
	Workspace Workspace `toml:"workspace"`
}

type Package struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

type Build struct {
	Target         string `toml:"target"`
	Out            string `toml:"out"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
}

type Workspace struct {
	Members []string `toml:"members"`
}

// FindManifest walks up from startDir to the nearest cool.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") && !meta.IsDefined("workspace") {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPackage)
	}
	if cfg.Package != nil && strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPackageName)
	}
	if cfg.Build.Target != "" {
		if _, err := layout.Lookup(cfg.Build.Target); err != nil {
			return nil, fmt.Errorf("%s: [build].target: %w", path, err)
		}
	}
	if cfg.Build.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [build].max-diagnostics must not be negative", path)
	}
	return &Manifest{Path: path, Dir: filepath.Dir(path), Config: cfg}, nil
}

// Discover finds and loads the manifest governing startDir. ok is false
// when there is none.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	return m, true, err
}

// RootFile is the crate root, src/main.cl by default.
func (m *Manifest) RootFile() string {
	root := "src/main.cl"
	if m.Config.Package != nil && m.Config.Package.Root != "" {
		root = m.Config.Package.Root
	}
	return filepath.Join(m.Dir, filepath.FromSlash(root))
}

// OutPath is the output stem, build/<name> by default.
func (m *Manifest) OutPath() string {
	if m.Config.Build.Out != "" {
		return filepath.Join(m.Dir, filepath.FromSlash(m.Config.Build.Out))
	}
	return filepath.Join(m.Dir, "build", m.Name())
}

func (m *Manifest) Name() string {
	if m.Config.Package == nil {
		return filepath.Base(m.Dir)
	}
	return m.Config.Package.Name
}

func (m *Manifest) Target() layout.Target {
	if m.Config.Build.Target == "" {
		return layout.Default()
	}
	t, err := layout.Lookup(m.Config.Build.Target)
	if err != nil {
		return layout.Default()
	}
	return t
}

func (m *Manifest) MaxDiagnostics() int {
	if m.Config.Build.MaxDiagnostics == 0 {
		return DefaultMaxDiagnostics
	}
	return m.Config.Build.MaxDiagnostics
}

// Members loads the manifests of the workspace members, then this one if it
// has a [package].
func (m *Manifest) Members() ([]*Manifest, error) {
	var out []*Manifest
	for _, rel := range m.Config.Workspace.Members {
		member, err := Load(filepath.Join(m.Dir, filepath.FromSlash(rel), FileName))
		if err != nil {
			return nil, fmt.Errorf("workspace member %s: %w", rel, err)
		}
		if member.Config.Package == nil {
			return nil, fmt.Errorf("workspace member %s: %w", rel, ErrNoPackage)
		}
		out = append(out, member)
	}
	if m.Config.Package != nil {
		out = append(out, m)
	}
	return out, nil
}
