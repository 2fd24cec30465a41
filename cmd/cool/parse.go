package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diagfmt"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.cl",
	Short: "Parse a source file and print its item outline",
	Long: `Parse reads one file and prints the tree of its items. File modules it
declares are not loaded. --dump prints the raw syntax arenas instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("dump", false, "dump the syntax arenas with go-spew")
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func runParse(cmd *cobra.Command, args []string) error {
	dump, _ := cmd.Flags().GetBool("dump")
	res, err := driver.Parse(args[0], maxDiagnostics(cmd, project.DefaultMaxDiagnostics))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	}

	out := cmd.OutOrStdout()
	if dump {
		dumpConfig.Fdump(out, res.Tree.Files.Get(res.File), res.Tree.Items, res.Tree.Exprs, res.Tree.Stmts, res.Tree.Types)
	} else if err := diagfmt.FormatASTPretty(out, res.Tree, res.File, res.Symbols, res.FileSet); err != nil {
		return err
	}
	if res.Err != nil || res.Bag.HasErrors() {
		return exitError{}
	}
	return nil
}
