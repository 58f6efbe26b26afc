package cli

import (
	"fmt"
	"os"

	"github.com/pbarbosa/storylens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	compareSheet string
	analysisDir  string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare automated-annotator marks against a previous analysis",
	Long: `Compare reads the automated annotator's workbook (one H<number> sheet per
story, with an IA row of question-code marks) and the per-analyst detail
table of a previous analyze run, and writes the per-story comparison and
its per-category rollup next to the existing tables.

Example:
  storylens compare --sheet Planilha/resultado.xlsx
  storylens compare --sheet marks.xlsx --analysis ./output`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareSheet, "sheet", "", "automated-annotator workbook (.xlsx)")
	compareCmd.Flags().StringVar(&analysisDir, "analysis", "output", "directory holding a previous analyze run")
	_ = compareCmd.MarkFlagRequired("sheet")
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Workbook: %s\n", compareSheet)
		fmt.Fprintf(os.Stderr, "Analysis: %s\n", analysisDir)
		fmt.Fprintln(os.Stderr)
	}

	n, err := pipeline.CompareFiles(compareSheet, analysisDir, log)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Compared %d stories\n", n)
	fmt.Fprintf(os.Stderr, "✓ Comparison tables written to %s\n", analysisDir)
	return nil
}
