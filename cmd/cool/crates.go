package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
)

// addCrateFlags registers the flags shared by the commands that compile
// whole crates.
func addCrateFlags(cmd *cobra.Command) {
	cmd.Flags().String("target", "", "target triple (default: manifest or "+layout.Default().Triple+")")
	cmd.Flags().String("name", "", "crate name when compiling a single file (default: file name)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

// crateOptions turns the command arguments into the crates to compile. An
// argument ending in .cl is a crate root; a directory or no argument at all
// is searched for cool.toml, upwards from that directory.
func crateOptions(cmd *cobra.Command, args []string) ([]driver.Options, error) {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}

	var crates []driver.Options
	if strings.HasSuffix(arg, driver.SourceExt) {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(arg), driver.SourceExt)
		}
		crates = []driver.Options{{
			Name:           name,
			Root:           arg,
			Out:            filepath.Join(filepath.Dir(arg), "build", name),
			Target:         layout.Default(),
			MaxDiagnostics: project.DefaultMaxDiagnostics,
		}}
	} else {
		m, ok, err := project.Discover(arg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s found in %s or its parents", project.FileName, arg)
		}
		members, err := m.Members()
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("%s: %w", m.Path, project.ErrNoPackage)
		}
		for _, member := range members {
			crates = append(crates, driver.FromManifest(member))
		}
	}

	if triple, _ := cmd.Flags().GetString("target"); triple != "" {
		t, err := layout.Lookup(triple)
		if err != nil {
			return nil, err
		}
		for i := range crates {
			crates[i].Target = t
		}
	}
	for i := range crates {
		crates[i].MaxDiagnostics = maxDiagnostics(cmd, crates[i].MaxDiagnostics)
	}
	return crates, nil
}

// maxDiagnostics prefers --max-diagnostics over fallback.
func maxDiagnostics(cmd *cobra.Command, fallback int) int {
	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		return n
	}
	return fallback
}

// cwd is the base for the paths in diagnostics.
func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}
