package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/meta"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] [dir | file.cl]",
	Short: "Show the size, alignment and field offsets of every type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLayout,
}

func init() {
	addCrateFlags(layoutCmd)
	layoutCmd.Flags().Bool("all", false, "list constants and globals as well")
}

func runLayout(cmd *cobra.Command, args []string) error {
	crates, err := crateOptions(cmd, args)
	if err != nil {
		return err
	}
	for i := range crates {
		crates[i].Out = ""
	}
	all, _ := cmd.Flags().GetBool("all")

	results, err := driver.CompileAll(cmd.Context(), crates, 0, nil)
	if err != nil {
		return err
	}
	if err := report(cmd, results); err != nil {
		return err
	}
	for _, res := range results {
		c := meta.Collect(res.Ctx, res.Package.Crate, res.Hash)
		fmt.Fprintln(cmd.OutOrStdout(), renderLayout(c, all))
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderLayout draws one row per type and one indented row per field.
func renderLayout(c *meta.Crate, all bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("item", "type", "size", "align", "offset").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, it := range c.Items {
		switch {
		case it.Kind == "type":
		case all && it.Kind != "module":
		default:
			continue
		}
		name := it.Path
		if it.Exported {
			name += " *"
		}
		if it.Value != "" {
			name += " = " + it.Value
		}
		t.Row(name, it.Ty, layoutText(it.Size, it.Align), layoutText(it.Align, it.Align), "")
		for _, f := range it.Fields {
			t.Row("  ."+f.Name, f.Ty, "", "", strconv.FormatUint(f.Offset, 10))
		}
	}
	return fmt.Sprintf("%s (%s)\n%s", c.Name, c.Target, t.String())
}

// layoutText prints n, or ? for items without a layout.
func layoutText(n, align uint64) string {
	if align == 0 {
		return "?"
	}
	return strconv.FormatUint(n, 10)
}
