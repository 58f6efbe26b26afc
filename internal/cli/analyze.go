package cli

import (
	"fmt"
	"os"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/pbarbosa/storylens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	inputDir  string
	outputDir string
	sheetPath string
	noCharts  bool
	topN      int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze annotated user stories and generate the full report",
	Long: `Analyze ingests every submission JSON under the input directory (flat,
or grouped into per-analyst subdirectories whose names override the
filename-derived analyst id) and generates:
- Per-requirement marking frequency
- Story × requirement matrix
- Inter-analyst agreement and per-story detail
- Requirement co-occurrence, section and question rollups
- Charts and HTML reports

Example:
  storylens analyze
  storylens analyze --input user_stories --output output
  storylens analyze --sheet Planilha/resultado.xlsx`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inputDir, "input", "i", "user_stories", "directory with submission JSON files or per-analyst folders")
	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory where results are written")
	analyzeCmd.Flags().StringVar(&sheetPath, "sheet", "", "automated-annotator workbook (.xlsx); enables the comparison tables")
	analyzeCmd.Flags().BoolVar(&noCharts, "no-charts", false, "skip chart generation")
	analyzeCmd.Flags().IntVar(&topN, "top", 10, "rows in the top-requirements chart and summary table")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// A missing input directory is created as a convenience, with an
	// instructional message instead of silently analyzing nothing.
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(inputDir, 0755); err != nil {
			return fmt.Errorf("create input directory: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Directory %s created. Place the submission JSON files there and run again.\n", inputDir)
		return nil
	}

	cfg := model.DefaultConfig()
	cfg.Input.Dir = inputDir
	cfg.Input.Sheet = sheetPath
	cfg.Output.Dir = outputDir
	cfg.Output.Verbose = verbose
	cfg.Report.Charts = !noCharts
	cfg.Report.TopRequirements = topN

	log := newLogger()
	defer func() { _ = log.Sync() }()

	a := pipeline.New(cfg, log)

	if verbose {
		fmt.Fprintf(os.Stderr, "Input:  %s\n", inputDir)
		fmt.Fprintf(os.Stderr, "Output: %s\n", outputDir)
		fmt.Fprintln(os.Stderr)
	}

	n, err := a.Load()
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d submissions\n", n)

	summary, err := a.GenerateReport()
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ %d unique stories, %d analysts, %d requirements\n",
		summary.Stats.TotalUniqueStories, summary.Stats.TotalAnalysts, summary.Stats.TotalUniqueRequirements)
	fmt.Fprintf(os.Stderr, "✓ Agreement computed for %d stories\n", summary.AgreementStories)
	if sheetPath != "" {
		fmt.Fprintf(os.Stderr, "✓ Compared %d stories against the automated annotator\n", summary.Comparisons)
	}
	fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", summary.OutputDir)

	return nil
}
