package cmd

import (
	"github.com/spf13/cobra"

	"gwprobe/internal/diagnose"
	"gwprobe/internal/ui"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the known error signature table",
	Long: `Print the error signatures the log analyzer matches against, in
match order, with the knowledge center articles each one points at.

Examples:
  gwprobe patterns`,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	rows := make([]ui.PatternRow, 0, len(diagnose.KnownErrors))
	for _, p := range diagnose.KnownErrors {
		rows = append(rows, ui.PatternRow{Name: p.Name, Articles: p.Articles})
	}

	ui.PrintPatternTable(rows)
	return nil
}
