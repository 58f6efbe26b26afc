// Package pipeline orchestrates a complete analysis run: ingest the
// submissions, compute the aggregate and agreement tables, and render every
// output. All mutable run state (catalog, records) lives on the Analysis
// value, so multiple runs can coexist in one process.
package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/pbarbosa/storylens/internal/analyze"
	"github.com/pbarbosa/storylens/internal/ingest"
	"github.com/pbarbosa/storylens/internal/model"
	"github.com/pbarbosa/storylens/internal/report"
	"go.uber.org/zap"
)

// Analysis is the run context for one analysis.
type Analysis struct {
	cfg     *model.Config
	log     *zap.Logger
	loader  *ingest.Loader
	sheets  *ingest.SheetLoader
	catalog *model.Catalog
	stories []model.AnnotatedStory
	loaded  bool
}

// Summary reports what a run produced, for CLI chrome.
type Summary struct {
	Submissions      int
	Stats            model.GeneralStats
	AgreementStories int
	Comparisons      int
	OutputDir        string
}

// New creates an analysis run over the given configuration.
func New(cfg *model.Config, log *zap.Logger) *Analysis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analysis{
		cfg:     cfg,
		log:     log,
		loader:  ingest.NewLoader(log),
		sheets:  ingest.NewSheetLoader(log),
		catalog: model.NewCatalog(),
	}
}

// Load ingests all submissions from the configured input directory and
// returns the number of records loaded.
func (a *Analysis) Load() (int, error) {
	stories, err := a.loader.LoadDir(a.cfg.Input.Dir, a.catalog)
	if err != nil {
		return 0, err
	}
	a.stories = stories
	a.loaded = true
	return len(stories), nil
}

// Stories returns the canonical records of the run.
func (a *Analysis) Stories() []model.AnnotatedStory { return a.stories }

// Catalog returns the requirement catalog of the run.
func (a *Analysis) Catalog() *model.Catalog { return a.catalog }

// GenerateReport computes every table and writes the CSV files, charts, and
// HTML reports into the configured output directory. When a workbook is
// configured, the human-vs-automated comparison is included.
func (a *Analysis) GenerateReport() (*Summary, error) {
	if !a.loaded {
		if _, err := a.Load(); err != nil {
			return nil, err
		}
	}

	stats := analyze.GeneralStats(a.stories, a.catalog)
	frequency := analyze.Frequency(a.stories)
	columns, matrixRows := analyze.Matrix(a.stories, a.catalog)
	agreement := analyze.Agreement(a.stories)
	details := analyze.StoryDetails(a.stories)
	perAnalyst := analyze.PerAnalystRows(a.stories)
	convergence := analyze.Convergence(a.stories)
	mostMarked := analyze.GeneralQuestionRollup(a.stories)
	coOccurrence := analyze.CoOccurrence(a.stories)
	sections := analyze.SectionRollup(a.stories, a.catalog)

	writer, err := report.NewWriter(a.cfg.Output.Dir)
	if err != nil {
		return nil, err
	}

	freqTable := report.FrequencyTable(frequency, a.catalog)
	tables := []report.Table{
		report.GeneralStatsTable(stats),
		freqTable,
		report.MatrixTable(columns, matrixRows),
		report.AgreementTable(agreement),
		report.StoryDetailTable(details),
		report.PerAnalystTable(perAnalyst),
		report.ConvergenceTable(convergence),
		report.MostMarkedTable(mostMarked),
		report.CoOccurrenceTable(coOccurrence),
		report.SectionTable(sections),
	}

	summary := &Summary{
		Submissions:      len(a.stories),
		Stats:            stats,
		AgreementStories: len(agreement),
		OutputDir:        a.cfg.Output.Dir,
	}

	if a.cfg.Input.Sheet != "" {
		comparisons, err := a.compareWithSheet(a.cfg.Input.Sheet)
		if err != nil {
			return nil, err
		}
		summary.Comparisons = len(comparisons)
		tables = append(tables,
			report.ComparisonTable(comparisons),
			report.CategoryTable(analyze.CategoryRollup(comparisons)),
		)
	}

	if err := writer.WriteTables(tables); err != nil {
		return nil, err
	}

	if a.cfg.Report.Charts {
		if err := report.TopRequirementsChart(frequency, a.cfg.Report.TopRequirements, writer.Dir); err != nil {
			return nil, err
		}
		if err := report.AgreementHistogram(agreement, a.cfg.Report.HistogramBins, writer.Dir); err != nil {
			return nil, err
		}
		if err := report.ConvergenceChart(convergence, writer.Dir); err != nil {
			return nil, err
		}
	}

	top := freqTable
	if n := a.cfg.Report.TopRequirements; n > 0 && len(top.Rows) > n {
		top.Rows = top.Rows[:n]
	}
	if err := report.WriteSummaryReport(writer.Dir, stats, top, agreement); err != nil {
		return nil, err
	}
	if err := report.WriteFullReport(writer.Dir, tables); err != nil {
		return nil, err
	}

	return summary, nil
}

// compareWithSheet crosses the workbook's automated marks against the
// pooled human marks of the loaded submissions.
func (a *Analysis) compareWithSheet(sheetPath string) ([]model.StoryComparison, error) {
	automated, err := a.sheets.Load(sheetPath)
	if err != nil {
		return nil, fmt.Errorf("load automated marks: %w", err)
	}
	humans := analyze.PooledHumanMarks(a.stories, a.log)
	return analyze.Compare(automated, humans), nil
}

// CompareFiles runs the standalone comparison: automated marks from the
// workbook at sheetPath against the pooled human marks of a previously
// generated per-analyst table in analysisDir. The two comparison tables are
// written back into analysisDir.
func CompareFiles(sheetPath, analysisDir string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	automated, err := ingest.NewSheetLoader(log).Load(sheetPath)
	if err != nil {
		return 0, fmt.Errorf("load automated marks: %w", err)
	}

	marksPath := filepath.Join(analysisDir, report.TablePerAnalyst+".csv")
	humans, err := ingest.LoadHumanMarks(marksPath)
	if err != nil {
		return 0, fmt.Errorf("load human marks: %w", err)
	}

	comparisons := analyze.Compare(automated, humans)

	writer, err := report.NewWriter(analysisDir)
	if err != nil {
		return 0, err
	}
	tables := []report.Table{
		report.ComparisonTable(comparisons),
		report.CategoryTable(analyze.CategoryRollup(comparisons)),
	}
	if err := writer.WriteTables(tables); err != nil {
		return 0, err
	}
	return len(comparisons), nil
}
