package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/pbarbosa/storylens/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart image file names referenced by the HTML reports.
const (
	ChartTopRequirements = "top10_requisitos.png"
	ChartAgreementHist   = "histograma_concordancia.png"
)

// TopRequirementsChart saves a bar chart of the most frequently marked
// requirements to <dir>/top10_requisitos.png. topN limits the bars; zero or
// negative means all.
func TopRequirementsChart(entries []model.FrequencyEntry, topN int, dir string) error {
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	if len(entries) == 0 {
		return nil
	}

	values := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Count)
		labels[i] = e.ExternalID
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Requisitos Mais Frequentes", len(entries))
	p.X.Label.Text = "Requisito"
	p.Y.Label.Text = "Frequência"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("build frequency bars: %w", err)
	}
	bars.Color = color.RGBA{R: 44, G: 62, B: 80, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	path := filepath.Join(dir, ChartTopRequirements)
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// AgreementHistogram saves a histogram of agreement ratios to
// <dir>/histograma_concordancia.png. With no agreement records there is
// nothing to plot and the chart is skipped.
func AgreementHistogram(records []model.AgreementRecord, bins int, dir string) error {
	if len(records) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = 10
	}

	values := make(plotter.Values, len(records))
	for i, r := range records {
		values[i] = r.Ratio
	}

	p := plot.New()
	p.Title.Text = "Distribuição do Nível de Concordância Entre Analistas"
	p.X.Label.Text = "Nível de Concordância"
	p.Y.Label.Text = "Número de Histórias"

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("build agreement histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 52, G: 152, B: 219, A: 255}
	p.Add(hist)

	path := filepath.Join(dir, ChartAgreementHist)
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
