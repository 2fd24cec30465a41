package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "cool",
	Short:         "Compiler for the cool language",
	Long:          `cool parses, checks and lowers cool crates to LLVM IR`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startSession(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopSession(cmd)
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "print the duration of every pass")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per crate (0: manifest or default)")
	flags.String("trace", "", "write a pass trace to this file (- for stderr, *.ndjson for JSON lines)")
	flags.String("trace-level", "off", "trace detail (off|driver|pass|module)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	stopSession(rootCmd)
	if err != nil {
		if _, silent := err.(exitError); !silent {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// exitError fails the process without printing anything more: the
// diagnostics explaining it were already written.
type exitError struct{}

func (exitError) Error() string { return "compilation failed" }

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	return isTerminal(f) && os.Getenv("NO_COLOR") == ""
}
