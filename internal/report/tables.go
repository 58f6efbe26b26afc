// Package report renders computed tables as CSV files, chart images, and
// HTML report pages.
package report

import (
	"fmt"
	"strconv"

	"github.com/pbarbosa/storylens/internal/analyze"
	"github.com/pbarbosa/storylens/internal/model"
)

// Output file names (without extension for Table.Name). These are the wire
// format downstream tooling reads; do not rename.
const (
	TableGeneralStats = "estatisticas_gerais"
	TableFrequency    = "frequencia_requisitos"
	TableMatrix       = "matriz_historias_requisitos"
	TableAgreement    = "concordancia_analistas"
	TableStoryDetail  = "detalhes_por_historia"
	TablePerAnalyst   = "por_analista_historia"
	TableConvergence  = "convergencia_questao_geral"
	TableMostMarked   = "questoes_gerais_mais_marcadas"
	TableCoOccurrence = "coocorrencia_requisitos"
	TableSections     = "requisitos_por_secao"
	TableComparison   = "comparacao_ia_analistas"
	TableCategories   = "analise_por_questao_geral"
)

// Table is one flat output table: a name (the CSV basename), a header, and
// pre-formatted rows. The same tables feed the CSV writer and the HTML
// reports.
type Table struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]string
}

// GeneralStatsTable renders the run summary.
func GeneralStatsTable(s model.GeneralStats) Table {
	return Table{
		Name:  TableGeneralStats,
		Title: "Estatísticas Gerais",
		Header: []string{
			"total_unique_stories", "total_analysts", "total_unique_requirements",
			"total_marked_requirements", "avg_requirements_per_story",
		},
		Rows: [][]string{{
			strconv.Itoa(s.TotalUniqueStories),
			strconv.Itoa(s.TotalAnalysts),
			strconv.Itoa(s.TotalUniqueRequirements),
			strconv.Itoa(s.TotalMarkedRequirements),
			fmt.Sprintf("%.2f", s.AvgMarkedPerSubmission),
		}},
	}
}

// FrequencyTable renders per-requirement marking frequency with
// descriptions resolved through the catalog.
func FrequencyTable(entries []model.FrequencyEntry, catalog *model.Catalog) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ExternalID, strconv.Itoa(e.Count), catalog.Describe(e.ExternalID)})
	}
	return Table{
		Name:   TableFrequency,
		Title:  "Frequência de Requisitos Marcados",
		Header: []string{"requisito_id", "frequencia", "descricao"},
		Rows:   rows,
	}
}

// MatrixTable renders the story × requirement indicator matrix.
func MatrixTable(columns []string, rows []model.MatrixRow) Table {
	header := []string{"story_id", "analyst_id", "story_number", "what", "who", "why"}
	for _, c := range columns {
		header = append(header, "req_"+c)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{r.StoryID, r.AnalystID, r.StoryNumber, r.What, r.Who, r.Why}
		for _, c := range columns {
			if r.Marked[c] {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		out = append(out, row)
	}
	return Table{
		Name:   TableMatrix,
		Title:  "Matriz Histórias × Requisitos",
		Header: header,
		Rows:   out,
	}
}

// AgreementTable renders inter-analyst agreement per story.
func AgreementTable(records []model.AgreementRecord) Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.StoryNumber,
			r.StoryID,
			strconv.Itoa(r.AnalystCount),
			strconv.Itoa(r.UnionCount),
			strconv.Itoa(r.IntersectionCount),
			fmt.Sprintf("%.4f", r.Ratio),
			r.What, r.Who, r.Why,
		})
	}
	return Table{
		Name:  TableAgreement,
		Title: "Concordância entre Analistas",
		Header: []string{
			"story_number", "story_id", "analysts_count", "total_unique_requirements",
			"common_requirements", "agreement_ratio", "what", "who", "why",
		},
		Rows: rows,
	}
}

// StoryDetailTable renders the per-story, per-general-question union and
// intersection membership.
func StoryDetailTable(details []model.StoryDetail) Table {
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			d.StoryNumber,
			d.GeneralQuestion,
			strconv.Itoa(d.AnalystCount),
			analyze.FormatCodeList(d.Union),
			analyze.FormatCodeList(d.Intersection),
			strconv.Itoa(len(d.Union)),
			strconv.Itoa(len(d.Intersection)),
		})
	}
	return Table{
		Name:  TableStoryDetail,
		Title: "Detalhes por História (Interseção e União)",
		Header: []string{
			"story_number", "general_question", "analysts_count",
			"uniao", "intersecao", "uniao_count", "intersecao_count",
		},
		Rows: rows,
	}
}

// PerAnalystTable renders the per-analyst, per-story trace rows.
func PerAnalystTable(rows []model.AnalystMarkRow) Table {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.AnalystID, r.StoryNumber, r.GeneralQuestion, r.SpecificQuestion, r.ExternalID})
	}
	return Table{
		Name:   TablePerAnalyst,
		Title:  "Marcações por Analista e História",
		Header: []string{"analyst_id", "story_number", "general_question", "specific_question", "requisito_id"},
		Rows:   out,
	}
}

// ConvergenceTable renders per-general-question convergence.
func ConvergenceTable(entries []model.ConvergenceEntry) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.GeneralQuestion,
			strconv.Itoa(e.StoriesMarked),
			strconv.Itoa(e.StoriesConvergent),
			strconv.Itoa(e.Markings),
			fmt.Sprintf("%.4f", e.Ratio),
		})
	}
	return Table{
		Name:   TableConvergence,
		Title:  "Convergência por Questão Geral",
		Header: []string{"general_question", "historias_marcadas", "historias_convergentes", "marcacoes", "convergencia"},
		Rows:   rows,
	}
}

// MostMarkedTable renders the most marked general questions.
func MostMarkedTable(entries []model.QuestionCount) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.GeneralQuestion, strconv.Itoa(e.Count)})
	}
	return Table{
		Name:   TableMostMarked,
		Title:  "Questões Gerais Mais Marcadas",
		Header: []string{"general_question", "marcacoes"},
		Rows:   rows,
	}
}

// CoOccurrenceTable renders requirement pair co-occurrence counts.
func CoOccurrenceTable(entries []model.CoOccurrenceEntry) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.A, e.B, strconv.Itoa(e.Count)})
	}
	return Table{
		Name:   TableCoOccurrence,
		Title:  "Coocorrência de Requisitos",
		Header: []string{"requisito_a", "requisito_b", "frequencia"},
		Rows:   rows,
	}
}

// SectionTable renders the per-section rollup.
func SectionTable(entries []model.SectionCount) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.SectionID, strconv.Itoa(e.Count)})
	}
	return Table{
		Name:   TableSections,
		Title:  "Requisitos Marcados por Seção",
		Header: []string{"secao_id", "marcacoes"},
		Rows:   rows,
	}
}

// ComparisonTable renders the human-vs-automated comparison. Set columns
// are ';'-delimited sorted lists (see analyze.FormatCodeList).
func ComparisonTable(comparisons []model.StoryComparison) Table {
	rows := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		rows = append(rows, []string{
			strconv.Itoa(c.StoryNumber),
			analyze.FormatCodeList(c.IA),
			analyze.FormatCodeList(c.Humans),
			analyze.FormatCodeList(c.Intersection),
			analyze.FormatCodeList(c.OnlyIA),
			analyze.FormatCodeList(c.OnlyHumans),
			fmt.Sprintf("%.2f", c.Accuracy),
		})
	}
	return Table{
		Name:  TableComparison,
		Title: "Comparação IA × Analistas",
		Header: []string{
			"story_number", "marcacoes_ia", "marcacoes_analistas",
			"intersecao", "so_ia", "so_analistas", "acuracia",
		},
		Rows: rows,
	}
}

// CategoryTable renders the comparison rollup per general category.
func CategoryTable(entries []model.CategoryComparison) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Category,
			strconv.Itoa(e.Matches),
			strconv.Itoa(e.OnlyIA),
			strconv.Itoa(e.OnlyHumans),
			fmt.Sprintf("%.2f", e.Accuracy),
		})
	}
	return Table{
		Name:   TableCategories,
		Title:  "Análise por Questão Geral (IA × Analistas)",
		Header: []string{"questao_geral", "acertos", "so_ia", "so_humanos", "acuracia_percentual"},
		Rows:   rows,
	}
}
