package analyze

import (
	"testing"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgreement_RatioIsIntersectionOverUnion(t *testing.T) {
	// ana marks {2.1.1, 3.1.1}, bruno marks {3.1.1, 4.1.1}:
	// union has 3 members, intersection 1, ratio 1/3.
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1", "3.1.1"),
		story("bruno", "1", "3.1.1", "4.1.1"),
	}

	records := Agreement(stories)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "1", r.StoryNumber)
	assert.Equal(t, 2, r.AnalystCount)
	assert.Equal(t, 3, r.UnionCount)
	assert.Equal(t, 1, r.IntersectionCount)
	assert.InDelta(t, 1.0/3.0, r.Ratio, 1e-9)
}

func TestAgreement_EmptyUnionIsFullAgreement(t *testing.T) {
	// Two analysts who both marked nothing agree completely.
	stories := []model.AnnotatedStory{
		story("ana", "1"),
		story("bruno", "1"),
	}

	records := Agreement(stories)

	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].UnionCount)
	assert.InDelta(t, 1.0, records[0].Ratio, 1e-9)
}

func TestAgreement_SkipsSingleAnalystStories(t *testing.T) {
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1"),
		story("ana", "2", "2.1.1"),
		story("bruno", "2", "2.1.1"),
	}

	records := Agreement(stories)

	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].StoryNumber)
}

func TestAgreement_PoolsResubmissionsPerAnalyst(t *testing.T) {
	// The same analyst submitting twice for one story is still one rater.
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1"),
		story("ana", "1", "3.1.1"),
		story("bruno", "1", "2.1.1", "3.1.1"),
	}

	records := Agreement(stories)

	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].AnalystCount)
	assert.InDelta(t, 1.0, records[0].Ratio, 1e-9)
}

func TestAgreement_SortsStoryNumbersNumerically(t *testing.T) {
	var stories []model.AnnotatedStory
	for _, n := range []string{"10", "2", "9"} {
		stories = append(stories,
			story("ana", n, "2.1.1"),
			story("bruno", n, "2.1.1"),
		)
	}

	records := Agreement(stories)

	require.Len(t, records, 3)
	assert.Equal(t, "2", records[0].StoryNumber)
	assert.Equal(t, "9", records[1].StoryNumber)
	assert.Equal(t, "10", records[2].StoryNumber)
}

func TestStoryDetails(t *testing.T) {
	ana := story("ana", "1", "2.1.1", "3.1.1")
	bruno := story("bruno", "1", "2.1.1")

	// bruno also marks under a question ana never touched; ana's empty set
	// under it empties the intersection.
	bruno.Marked = append(bruno.Marked, model.MarkedRequirement{
		ExternalID:      "5.1.1",
		GeneralQuestion: "Sessão",
	})

	details := StoryDetails([]model.AnnotatedStory{ana, bruno})

	require.Len(t, details, 2)

	autent := details[0]
	assert.Equal(t, "Autenticação", autent.GeneralQuestion)
	assert.Equal(t, 2, autent.AnalystCount)
	assert.Equal(t, []string{"2.1.1", "3.1.1"}, autent.Union)
	assert.Equal(t, []string{"2.1.1"}, autent.Intersection)

	sessao := details[1]
	assert.Equal(t, "Sessão", sessao.GeneralQuestion)
	assert.Equal(t, []string{"5.1.1"}, sessao.Union)
	assert.Empty(t, sessao.Intersection)
}

func TestPerAnalystRows_NoDeduplication(t *testing.T) {
	s := story("ana", "1", "2.1.1", "2.1.1")

	rows := PerAnalystRows([]model.AnnotatedStory{s})

	require.Len(t, rows, 2)
	assert.Equal(t, "ana", rows[0].AnalystID)
	assert.Equal(t, "2.1.1", rows[0].ExternalID)
	assert.Equal(t, "Q1 - específica", rows[0].SpecificQuestion)
}

func TestConvergence(t *testing.T) {
	// Story 1: both analysts mark under Autenticação (convergent).
	// Story 2: only ana marks under Autenticação (not convergent).
	stories := []model.AnnotatedStory{
		story("ana", "1", "2.1.1"),
		story("bruno", "1", "3.1.1"),
		story("ana", "2", "2.1.1"),
		story("bruno", "2"),
	}

	entries := Convergence(stories)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "Autenticação", e.GeneralQuestion)
	assert.Equal(t, 2, e.StoriesMarked)
	assert.Equal(t, 1, e.StoriesConvergent)
	assert.Equal(t, 3, e.Markings)
	assert.InDelta(t, 0.5, e.Ratio, 1e-9)
}
