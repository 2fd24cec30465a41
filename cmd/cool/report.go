package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diagfmt"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
)

// report prints the diagnostics and, with --timings, the pass durations of
// every result. It returns exitError when a crate failed.
func report(cmd *cobra.Command, results []*driver.Result) error {
	format, _ := cmd.Flags().GetString("format")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	color := useColor(cmd, os.Stderr)

	failed := false
	for _, res := range results {
		if res == nil {
			continue
		}
		failed = failed || res.Failed()
		switch format {
		case "json":
			opts := diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, BaseDir: cwd()}
			if err := diagfmt.JSON(cmd.OutOrStdout(), res.Bag, res.FileSet, opts); err != nil {
				return err
			}
		case "pretty":
			opts := diagfmt.PrettyOpts{Color: color, BaseDir: cwd(), ShowNotes: true}
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, opts)
			if !quiet {
				diagfmt.Summary(cmd.ErrOrStderr(), res.Bag, color)
			}
		default:
			return fmt.Errorf("unknown format %q (expected pretty|json)", format)
		}
		if timings {
			fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
		}
	}
	if failed {
		return exitError{}
	}
	return nil
}
