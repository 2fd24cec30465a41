package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diagfmt"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/project"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cl",
	Short: "Print the tokens of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "keep whitespace and comment tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	trivia, _ := cmd.Flags().GetBool("trivia")

	res, err := driver.Tokenize(args[0], maxDiagnostics(cmd, project.DefaultMaxDiagnostics), trivia)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens, res.FileSet)
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	if err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return exitError{}
	}
	return nil
}
