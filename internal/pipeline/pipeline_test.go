package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/pbarbosa/storylens/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSubmission(t *testing.T, path string, storyID string, marked map[string]bool) {
	t.Helper()

	reqs := ""
	i := 1
	for id, mark := range marked {
		if reqs != "" {
			reqs += ","
		}
		reqs += fmt.Sprintf(`{"id": %d, "id_externo": %q, "descricao": "Requisito %s", "nivel": "1", "fk_Secao_id": "V2", "marked": %t}`, i, id, id, mark)
		i++
	}

	doc := fmt.Sprintf(`{
		"userStory": {"id": %q, "what": "login", "who": "usuário", "why": "acesso"},
		"questions": [{
			"question": {"descricao": "Autenticação"},
			"questoesEspecificas": [{
				"question": {"descricao": "Q1 - A senha é verificada?"},
				"requirements": [%s]
			}]
		}]
	}`, storyID, reqs)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
}

func setupInput(t *testing.T) string {
	t.Helper()
	input := filepath.Join(t.TempDir(), "user_stories")

	writeSubmission(t, filepath.Join(input, "ana", "g1x_1.json"), "101", map[string]bool{"2.1.1": true, "3.1.1": true})
	writeSubmission(t, filepath.Join(input, "bruno", "g1x_1.json"), "101", map[string]bool{"2.1.1": true, "4.1.1": false})
	writeSubmission(t, filepath.Join(input, "ana", "g1x_2.json"), "102", map[string]bool{"2.1.1": true})
	writeSubmission(t, filepath.Join(input, "bruno", "g1x_2.json"), "102", map[string]bool{"2.1.1": true})

	return input
}

func TestAnalysis_GenerateReport(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Input.Dir = setupInput(t)
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")
	cfg.Report.Charts = true

	a := New(cfg, nil)
	n, err := a.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	summary, err := a.GenerateReport()
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Submissions)
	assert.Equal(t, 2, summary.Stats.TotalUniqueStories)
	assert.Equal(t, 2, summary.Stats.TotalAnalysts)
	assert.Equal(t, 2, summary.AgreementStories)
	assert.Equal(t, 0, summary.Comparisons)

	expected := []string{
		report.TableGeneralStats + ".csv",
		report.TableFrequency + ".csv",
		report.TableMatrix + ".csv",
		report.TableAgreement + ".csv",
		report.TableStoryDetail + ".csv",
		report.TablePerAnalyst + ".csv",
		report.TableConvergence + ".csv",
		report.TableMostMarked + ".csv",
		report.TableCoOccurrence + ".csv",
		report.TableSections + ".csv",
		report.ChartTopRequirements,
		report.ChartAgreementHist,
		report.ChartConvergence,
		report.ReportSummary,
		report.ReportFull,
	}
	for _, name := range expected {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, name)
	}

	// Without a workbook the comparison tables are not written.
	_, err = os.Stat(filepath.Join(cfg.Output.Dir, report.TableComparison+".csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalysis_GenerateReport_WithWorkbook(t *testing.T) {
	workbook := filepath.Join(t.TempDir(), "resultado.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("H1")
	require.NoError(t, err)
	header := []interface{}{"Resultados", "Q1", "Q2"}
	require.NoError(t, f.SetSheetRow("H1", "A1", &header))
	iaRow := []interface{}{"IA", 1, 1}
	require.NoError(t, f.SetSheetRow("H1", "A2", &iaRow))
	require.NoError(t, f.SaveAs(workbook))
	require.NoError(t, f.Close())

	cfg := model.DefaultConfig()
	cfg.Input.Dir = setupInput(t)
	cfg.Input.Sheet = workbook
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")
	cfg.Report.Charts = false

	a := New(cfg, nil)

	summary, err := a.GenerateReport()
	require.NoError(t, err)

	// Story 1 appears in both sources, story 2 only in the submissions.
	assert.Equal(t, 2, summary.Comparisons)

	for _, name := range []string{report.TableComparison + ".csv", report.TableCategories + ".csv"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, name)
	}

	// Charts disabled.
	_, err = os.Stat(filepath.Join(cfg.Output.Dir, report.ChartTopRequirements))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalysis_Load_MissingInput(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Input.Dir = filepath.Join(t.TempDir(), "nao_existe")

	_, err := New(cfg, nil).Load()
	assert.Error(t, err)
}

func TestCompareFiles(t *testing.T) {
	// First produce an analysis so the per-analyst table exists.
	cfg := model.DefaultConfig()
	cfg.Input.Dir = setupInput(t)
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")
	cfg.Report.Charts = false

	_, err := New(cfg, nil).GenerateReport()
	require.NoError(t, err)

	workbook := filepath.Join(t.TempDir(), "resultado.xlsx")
	f := excelize.NewFile()
	_, err = f.NewSheet("H1")
	require.NoError(t, err)
	header := []interface{}{"Resultados", "Q1", "Q2"}
	require.NoError(t, f.SetSheetRow("H1", "A1", &header))
	iaRow := []interface{}{"IA", 1, 0}
	require.NoError(t, f.SetSheetRow("H1", "A2", &iaRow))
	require.NoError(t, f.SaveAs(workbook))
	require.NoError(t, f.Close())

	n, err := CompareFiles(workbook, cfg.Output.Dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, name := range []string{report.TableComparison + ".csv", report.TableCategories + ".csv"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, name)
	}
}
