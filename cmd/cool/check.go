package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir | file.cl]",
	Short: "Check crates without writing any output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addCrateFlags(checkCmd)
	checkCmd.Flags().IntP("jobs", "j", 0, "crates compiled in parallel (0: GOMAXPROCS)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	crates, err := crateOptions(cmd, args)
	if err != nil {
		return err
	}
	for i := range crates {
		crates[i].Out = ""
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	results, err := driver.CompileAll(cmd.Context(), crates, jobs, nil)
	if rerr := report(cmd, results); rerr != nil && err == nil {
		err = rerr
	}
	if err == nil {
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(os.Stderr, "checked %d crate(s)\n", len(crates))
		}
	}
	return err
}
