package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pbarbosa/storylens/internal/model"
)

// ChartConvergence is the interactive convergence chart page.
const ChartConvergence = "convergencia_grafico.html"

// ConvergenceChart saves an interactive bar chart of per-general-question
// convergence to <dir>/convergencia_grafico.html.
func ConvergenceChart(entries []model.ConvergenceEntry, dir string) error {
	if len(entries) == 0 {
		return nil
	}

	labels := make([]string, 0, len(entries))
	ratios := make([]opts.BarData, 0, len(entries))
	markings := make([]opts.BarData, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.GeneralQuestion)
		ratios = append(ratios, opts.BarData{Value: e.Ratio})
		markings = append(markings, opts.BarData{Value: e.Markings})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Convergência por Questão Geral",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Convergência por Questão Geral",
			Subtitle: fmt.Sprintf("%d questões gerais", len(entries)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("convergência", ratios).
		AddSeries("marcações", markings)

	path := filepath.Join(dir, ChartConvergence)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
