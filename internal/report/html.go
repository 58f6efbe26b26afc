package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pbarbosa/storylens/internal/model"
	"gonum.org/v1/gonum/stat"
)

// HTML report file names.
const (
	ReportSummary = "relatorio.html"
	ReportFull    = "relatorio_analise.html"
)

const reportStyle = `
body { font-family: Arial, sans-serif; line-height: 1.6; margin: 20px; color: #333; }
h1, h2, h3 { color: #2c3e50; }
table { border-collapse: collapse; width: 100%; margin-bottom: 30px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
tr:nth-child(even) { background-color: #f9f9f9; }
img { max-width: 100%; height: auto; margin: 20px 0; }
.section { margin-bottom: 30px; }
`

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>Relatório de Análise de Histórias de Usuário</title>
<style>{{.Style}}</style>
</head>
<body>
<h1>Relatório de Análise de Histórias de Usuário e Requisitos de Segurança</h1>

<div class="section">
<h2>Estatísticas Gerais</h2>
<table>
<tr><th>Métrica</th><th>Valor</th></tr>
<tr><td>Total de Histórias Únicas</td><td>{{.Stats.TotalUniqueStories}}</td></tr>
<tr><td>Total de Analistas</td><td>{{.Stats.TotalAnalysts}}</td></tr>
<tr><td>Total de Requisitos Únicos</td><td>{{.Stats.TotalUniqueRequirements}}</td></tr>
<tr><td>Total de Requisitos Marcados</td><td>{{.Stats.TotalMarkedRequirements}}</td></tr>
<tr><td>Média de Requisitos por História</td><td>{{printf "%.2f" .Stats.AvgMarkedPerSubmission}}</td></tr>
</table>
</div>

<div class="section">
<h2>Requisitos Mais Frequentes</h2>
<img src="{{.TopChart}}" alt="Requisitos mais frequentes">
<table>
<tr>{{range .Top.Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Top.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</div>

<div class="section">
<h2>Concordância Entre Analistas</h2>
{{if .HasAgreement}}
<img src="{{.HistChart}}" alt="Histograma de concordância">
<p>Concordância média: {{printf "%.2f" .AvgAgreement}} (1.00 representa concordância total).</p>

<h3>Histórias com Maior Concordância</h3>
<table>
<tr><th>História</th><th>Analistas</th><th>Requisitos Únicos</th><th>Requisitos Comuns</th><th>Concordância</th></tr>
{{range .Best}}<tr><td>{{.StoryNumber}}</td><td>{{.AnalystCount}}</td><td>{{.UnionCount}}</td><td>{{.IntersectionCount}}</td><td>{{printf "%.2f" .Ratio}}</td></tr>
{{end}}</table>

<h3>Histórias com Menor Concordância</h3>
<table>
<tr><th>História</th><th>Analistas</th><th>Requisitos Únicos</th><th>Requisitos Comuns</th><th>Concordância</th></tr>
{{range .Worst}}<tr><td>{{.StoryNumber}}</td><td>{{.AnalystCount}}</td><td>{{.UnionCount}}</td><td>{{.IntersectionCount}}</td><td>{{printf "%.2f" .Ratio}}</td></tr>
{{end}}</table>
{{else}}
<p>Não há dados suficientes para calcular concordância.</p>
{{end}}
</div>

<div class="section">
<h2>Referências</h2>
<p>Os dados completos estão disponíveis nos arquivos CSV gerados junto com este relatório
e no relatório detalhado <a href="{{.FullReport}}">{{.FullReport}}</a>.</p>
</div>

<footer><p>Gerado em: {{.GeneratedAt}}</p></footer>
</body>
</html>
`))

var fullTemplate = template.Must(template.New("full").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>Relatório de Análise - Tabelas Completas</title>
<style>{{.Style}}</style>
</head>
<body>
<h1>Relatório de Análise de Histórias de Usuário com Requisitos de Segurança</h1>

<div class="section">
<img src="{{.TopChart}}" alt="Requisitos mais frequentes">
<img src="{{.HistChart}}" alt="Histograma de concordância">
<p><a href="{{.ConvChart}}">Gráfico interativo de convergência</a></p>
</div>

{{range .Tables}}
<div class="section">
<h2>{{.Title}}</h2>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</div>
{{end}}

<footer><p>Gerado em: {{.GeneratedAt}}</p></footer>
</body>
</html>
`))

// WriteSummaryReport writes the self-contained summary page
// (relatorio.html): general statistics, the top-requirements chart and
// table, and the best/worst agreement stories.
func WriteSummaryReport(dir string, stats model.GeneralStats, top Table, agreement []model.AgreementRecord) error {
	best := append([]model.AgreementRecord(nil), agreement...)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Ratio > best[j].Ratio })
	worst := append([]model.AgreementRecord(nil), agreement...)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].Ratio < worst[j].Ratio })

	avg := 0.0
	if len(agreement) > 0 {
		ratios := make([]float64, len(agreement))
		for i, r := range agreement {
			ratios[i] = r.Ratio
		}
		avg = stat.Mean(ratios, nil)
	}

	data := struct {
		Style        template.CSS
		GeneratedAt  string
		Stats        model.GeneralStats
		Top          Table
		TopChart     string
		HistChart    string
		FullReport   string
		HasAgreement bool
		AvgAgreement float64
		Best         []model.AgreementRecord
		Worst        []model.AgreementRecord
	}{
		Style:        template.CSS(reportStyle),
		GeneratedAt:  time.Now().Format("02/01/2006 15:04:05"),
		Stats:        stats,
		Top:          top,
		TopChart:     ChartTopRequirements,
		HistChart:    ChartAgreementHist,
		FullReport:   ReportFull,
		HasAgreement: len(agreement) > 0,
		AvgAgreement: avg,
		Best:         limitRecords(best, 5),
		Worst:        limitRecords(worst, 5),
	}

	return renderToFile(summaryTemplate, filepath.Join(dir, ReportSummary), data)
}

// WriteFullReport writes the full table dump (relatorio_analise.html),
// embedding every generated table.
func WriteFullReport(dir string, tables []Table) error {
	data := struct {
		Style       template.CSS
		GeneratedAt string
		TopChart    string
		HistChart   string
		ConvChart   string
		Tables      []Table
	}{
		Style:       template.CSS(reportStyle),
		GeneratedAt: time.Now().Format("02/01/2006 15:04:05"),
		TopChart:    ChartTopRequirements,
		HistChart:   ChartAgreementHist,
		ConvChart:   ChartConvergence,
		Tables:      tables,
	}

	return renderToFile(fullTemplate, filepath.Join(dir, ReportFull), data)
}

func renderToFile(t *template.Template, path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func limitRecords(records []model.AgreementRecord, n int) []model.AgreementRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
