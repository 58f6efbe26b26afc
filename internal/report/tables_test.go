package report

import (
	"testing"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyTable_ResolvesDescriptions(t *testing.T) {
	catalog := model.NewCatalog()
	catalog.Register(model.Requirement{ID: 1, ExternalID: "2.1.1", Description: "Senha forte"})

	table := FrequencyTable([]model.FrequencyEntry{
		{ExternalID: "2.1.1", Count: 3},
		{ExternalID: "9.9.9", Count: 1},
	}, catalog)

	assert.Equal(t, TableFrequency, table.Name)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2.1.1", "3", "Senha forte"}, table.Rows[0])
	assert.Equal(t, []string{"9.9.9", "1", model.DescriptionNotFound}, table.Rows[1])
}

func TestMatrixTable_IndicatorColumns(t *testing.T) {
	columns := []string{"2.1.1", "3.1.1"}
	rows := []model.MatrixRow{{
		StoryID:     "101",
		AnalystID:   "ana",
		StoryNumber: "1",
		Marked:      map[string]bool{"2.1.1": true},
	}}

	table := MatrixTable(columns, rows)

	assert.Equal(t, []string{"story_id", "analyst_id", "story_number", "what", "who", "why", "req_2.1.1", "req_3.1.1"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", table.Rows[0][6])
	assert.Equal(t, "0", table.Rows[0][7])
}

func TestAgreementTable_FormatsRatio(t *testing.T) {
	table := AgreementTable([]model.AgreementRecord{{
		StoryNumber:       "1",
		StoryID:           "101",
		AnalystCount:      3,
		UnionCount:        3,
		IntersectionCount: 1,
		Ratio:             1.0 / 3.0,
	}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "0.3333", table.Rows[0][5])
}

func TestComparisonTable_CodeLists(t *testing.T) {
	table := ComparisonTable([]model.StoryComparison{{
		StoryNumber:  7,
		IA:           []string{"Q1", "Q2"},
		Humans:       []string{"Q2", "Q3"},
		Intersection: []string{"Q2"},
		OnlyIA:       []string{"Q1"},
		OnlyHumans:   []string{"Q3"},
		Accuracy:     50,
	}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"7", "Q1;Q2", "Q2;Q3", "Q2", "Q1", "Q3", "50.00"}, table.Rows[0])
}

func TestGeneralStatsTable(t *testing.T) {
	table := GeneralStatsTable(model.GeneralStats{
		TotalUniqueStories:      4,
		TotalAnalysts:           3,
		TotalUniqueRequirements: 20,
		TotalMarkedRequirements: 35,
		AvgMarkedPerSubmission:  2.9166,
	})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"4", "3", "20", "35", "2.92"}, table.Rows[0])
}
