package analyze

import (
	"testing"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// story builds a submission with every given external id marked once under
// the same question.
func story(analyst, number string, ids ...string) model.AnnotatedStory {
	s := model.AnnotatedStory{
		AnalystID:   analyst,
		StoryNumber: number,
		StoryID:     number,
	}
	for _, id := range ids {
		s.Marked = append(s.Marked, model.MarkedRequirement{
			ExternalID:       id,
			SpecificQuestion: "Q1 - específica",
			GeneralQuestion:  "Autenticação",
		})
	}
	return s
}

func TestFrequency_DedupesWithinSubmission(t *testing.T) {
	// "2.1.1" appears twice inside ana's submission but counts once.
	ana := story("ana", "1", "2.1.1", "2.1.1", "3.1.1")
	bruno := story("bruno", "1", "2.1.1")

	entries := Frequency([]model.AnnotatedStory{ana, bruno})

	require.Len(t, entries, 2)
	assert.Equal(t, model.FrequencyEntry{ExternalID: "2.1.1", Count: 2}, entries[0])
	assert.Equal(t, model.FrequencyEntry{ExternalID: "3.1.1", Count: 1}, entries[1])
}

func TestFrequency_TieBreaksByID(t *testing.T) {
	entries := Frequency([]model.AnnotatedStory{story("ana", "1", "9.1.1", "1.1.1")})

	require.Len(t, entries, 2)
	assert.Equal(t, "1.1.1", entries[0].ExternalID)
	assert.Equal(t, "9.1.1", entries[1].ExternalID)
}

func TestMatrix(t *testing.T) {
	catalog := model.NewCatalog()
	catalog.Register(model.Requirement{ID: 1, ExternalID: "2.1.1"})
	catalog.Register(model.Requirement{ID: 2, ExternalID: "3.1.1"})

	columns, rows := Matrix([]model.AnnotatedStory{story("ana", "1", "2.1.1")}, catalog)

	assert.Equal(t, []string{"2.1.1", "3.1.1"}, columns)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Marked["2.1.1"])
	assert.False(t, rows[0].Marked["3.1.1"])
	assert.Equal(t, "ana", rows[0].AnalystID)
}

func TestCoOccurrence(t *testing.T) {
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1", "3.1.1", "4.1.1"),
		story("bruno", "2", "3.1.1", "2.1.1"),
	}

	entries := CoOccurrence(stories)

	require.Len(t, entries, 3)
	// The canonical pair (2.1.1, 3.1.1) occurs in both submissions.
	assert.Equal(t, model.CoOccurrenceEntry{A: "2.1.1", B: "3.1.1", Count: 2}, entries[0])
	assert.Equal(t, model.CoOccurrenceEntry{A: "2.1.1", B: "4.1.1", Count: 1}, entries[1])
	assert.Equal(t, model.CoOccurrenceEntry{A: "3.1.1", B: "4.1.1", Count: 1}, entries[2])
}

func TestCoOccurrence_PairCountNeverExceedsMemberFrequency(t *testing.T) {
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1", "3.1.1"),
		story("bruno", "2", "2.1.1"),
		story("carla", "3", "2.1.1", "3.1.1"),
	}

	freq := make(map[string]int)
	for _, e := range Frequency(stories) {
		freq[e.ExternalID] = e.Count
	}

	for _, e := range CoOccurrence(stories) {
		assert.LessOrEqual(t, e.Count, freq[e.A])
		assert.LessOrEqual(t, e.Count, freq[e.B])
	}
}

func TestSectionRollup(t *testing.T) {
	catalog := model.NewCatalog()
	catalog.Register(model.Requirement{ID: 1, ExternalID: "2.1.1", SectionID: "V2"})
	catalog.Register(model.Requirement{ID: 2, ExternalID: "3.1.1", SectionID: "V3"})

	s := model.AnnotatedStory{
		AnalystID:   "ana",
		StoryNumber: "1",
		Marked: []model.MarkedRequirement{
			{ExternalID: "2.1.1", InternalID: 1},
			{ExternalID: "3.1.1", InternalID: 2},
			{ExternalID: "9.9.9", InternalID: 99},
		},
	}

	entries := SectionRollup([]model.AnnotatedStory{s, s}, catalog)

	require.Len(t, entries, 3)
	byID := make(map[string]int)
	for _, e := range entries {
		byID[e.SectionID] = e.Count
	}
	assert.Equal(t, 2, byID["V2"])
	assert.Equal(t, 2, byID["V3"])
	assert.Equal(t, 2, byID[model.UnknownSection])
}

func TestGeneralQuestionRollup(t *testing.T) {
	s1 := story("ana", "1", "2.1.1", "3.1.1")
	s2 := story("bruno", "1", "2.1.1")
	s2.Marked[0].GeneralQuestion = "Sessão"

	entries := GeneralQuestionRollup([]model.AnnotatedStory{s1, s2})

	require.Len(t, entries, 2)
	assert.Equal(t, model.QuestionCount{GeneralQuestion: "Autenticação", Count: 2}, entries[0])
	assert.Equal(t, model.QuestionCount{GeneralQuestion: "Sessão", Count: 1}, entries[1])
}

func TestGeneralStats(t *testing.T) {
	catalog := model.NewCatalog()
	catalog.Register(model.Requirement{ID: 1, ExternalID: "2.1.1"})
	catalog.Register(model.Requirement{ID: 2, ExternalID: "3.1.1"})

	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1", "3.1.1"),
		story("bruno", "1", "2.1.1"),
		story("ana", "2"),
	}

	stats := GeneralStats(stories, catalog)

	assert.Equal(t, 2, stats.TotalUniqueStories)
	assert.Equal(t, 2, stats.TotalAnalysts)
	assert.Equal(t, 2, stats.TotalUniqueRequirements)
	assert.Equal(t, 3, stats.TotalMarkedRequirements)
	assert.InDelta(t, 1.0, stats.AvgMarkedPerSubmission, 1e-9)
}

func TestGeneralStats_Empty(t *testing.T) {
	stats := GeneralStats(nil, model.NewCatalog())
	assert.Zero(t, stats.TotalUniqueStories)
	assert.Zero(t, stats.AvgMarkedPerSubmission)
}
