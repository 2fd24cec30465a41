package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir | file.cl]",
	Short: "Compile crates to LLVM IR",
	Long: `Build compiles every crate of the project (or the single file given)
and writes <out>.ll and <out>.coolmeta. Crates whose sources did not change
since the last build are skipped unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	addCrateFlags(buildCmd)
	buildCmd.Flags().IntP("jobs", "j", 0, "crates compiled in parallel (0: GOMAXPROCS)")
	buildCmd.Flags().StringP("out", "o", "", "output stem when building a single crate")
	buildCmd.Flags().Bool("force", false, "rebuild crates that are up to date")
	buildCmd.Flags().Bool("print-ir", false, "also print the LLVM IR to stdout")
	buildCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	crates, err := crateOptions(cmd, args)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	out, _ := cmd.Flags().GetString("out")
	if out != "" && len(crates) != 1 {
		return fmt.Errorf("--out needs exactly one crate, have %d", len(crates))
	}
	for i := range crates {
		crates[i].Force = force
		if out != "" {
			crates[i].Out = out
		}
	}
	uiFlag, _ := cmd.Flags().GetString("ui")
	useUI, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")

	var results []*driver.Result
	if useUI {
		results, err = buildWithProgress(cmd.Context(), crates, jobs)
	} else {
		results, err = driver.CompileAll(cmd.Context(), crates, jobs, nil)
	}
	if rerr := report(cmd, results); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return err
	}

	printIR, _ := cmd.Flags().GetBool("print-ir")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	for i, res := range results {
		switch {
		case res.UpToDate && !quiet:
			fmt.Fprintf(os.Stderr, "%s is up to date\n", res.Name)
		case res.Module != nil && !quiet:
			fmt.Fprintf(os.Stderr, "built %s -> %s.ll\n", res.Name, crates[i].Out)
		}
		if printIR && res.Module != nil {
			fmt.Fprint(cmd.OutOrStdout(), res.Module.String())
		}
	}
	return nil
}

// buildWithProgress compiles the crates while a Bubble Tea view follows
// their events.
func buildWithProgress(ctx context.Context, crates []driver.Options, jobs int) ([]*driver.Result, error) {
	names := make([]string, len(crates))
	for i, c := range crates {
		names[i] = c.Name
	}
	// big enough that the driver never waits on a view that already quit
	events := make(chan driver.Event, 8*len(crates))

	var (
		results []*driver.Result
		err     error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		results, err = driver.CompileAll(ctx, crates, jobs, driver.ChannelSink{Ch: events})
	}()
	if uiErr := ui.Run(os.Stderr, "building "+strings.Join(names, ", "), names, events); uiErr != nil {
		fmt.Fprintf(os.Stderr, "ui: %v\n", uiErr)
	}
	<-done
	return results, err
}

// readUIMode resolves --ui; auto enables the view on a terminal.
func readUIMode(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(os.Stderr), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}
