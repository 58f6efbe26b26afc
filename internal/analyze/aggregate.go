// Package analyze computes the aggregate and agreement tables over
// canonical annotation records. Every function is pure over the full
// collection of records and produces deterministically ordered results.
package analyze

import (
	"sort"

	"github.com/pbarbosa/storylens/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Frequency counts, per requirement external id, the number of submissions
// whose deduplicated marked set contains the id. A requirement marked twice
// within the same submission counts once. Sorted by count descending, then
// id ascending.
func Frequency(stories []model.AnnotatedStory) []model.FrequencyEntry {
	counts := make(map[string]int)
	for _, s := range stories {
		for id := range s.MarkedSet() {
			counts[id]++
		}
	}

	entries := make([]model.FrequencyEntry, 0, len(counts))
	for id, n := range counts {
		entries = append(entries, model.FrequencyEntry{ExternalID: id, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ExternalID < entries[j].ExternalID
	})
	return entries
}

// Matrix builds the story × requirement indicator matrix: one row per
// submission (each analyst's pass is its own row), one column per catalog
// external id. Columns come back sorted; rows keep ingestion order.
func Matrix(stories []model.AnnotatedStory, catalog *model.Catalog) ([]string, []model.MatrixRow) {
	columns := catalog.ExternalIDs()
	rows := make([]model.MatrixRow, 0, len(stories))
	for _, s := range stories {
		rows = append(rows, model.MatrixRow{
			StoryID:     s.StoryID,
			AnalystID:   s.AnalystID,
			StoryNumber: s.StoryNumber,
			What:        s.What,
			Who:         s.Who,
			Why:         s.Why,
			Marked:      s.MarkedSet(),
		})
	}
	return columns, rows
}

// CoOccurrence counts, per unordered requirement pair, the number of
// submissions whose deduplicated marked set contains both. Pairs are
// canonicalized by sorting their members so (a,b) and (b,a) never both
// appear. Sorted by count descending, then pair ascending.
func CoOccurrence(stories []model.AnnotatedStory) []model.CoOccurrenceEntry {
	type pair struct{ a, b string }
	counts := make(map[pair]int)

	for _, s := range stories {
		ids := s.SortedMarkedIDs()
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				counts[pair{ids[i], ids[j]}]++
			}
		}
	}

	entries := make([]model.CoOccurrenceEntry, 0, len(counts))
	for p, n := range counts {
		entries = append(entries, model.CoOccurrenceEntry{A: p.a, B: p.b, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].A != entries[j].A {
			return entries[i].A < entries[j].A
		}
		return entries[i].B < entries[j].B
	})
	return entries
}

// SectionRollup counts marked occurrences per checklist section, resolving
// the section through the catalog from the internal id carried on each
// marked reference. Unresolvable references land in the unknown-section
// bucket. Sorted by count descending, then section ascending.
func SectionRollup(stories []model.AnnotatedStory, catalog *model.Catalog) []model.SectionCount {
	counts := make(map[string]int)
	for _, s := range stories {
		for _, m := range s.Marked {
			section := model.UnknownSection
			if req, ok := catalog.ByInternal(m.InternalID); ok && req.SectionID != "" {
				section = req.SectionID
			}
			counts[section]++
		}
	}

	entries := make([]model.SectionCount, 0, len(counts))
	for section, n := range counts {
		entries = append(entries, model.SectionCount{SectionID: section, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].SectionID < entries[j].SectionID
	})
	return entries
}

// GeneralQuestionRollup counts marked occurrences per general question
// label. Sorted by count descending, then label ascending; this ordering is
// also the "most marked general questions" view.
func GeneralQuestionRollup(stories []model.AnnotatedStory) []model.QuestionCount {
	counts := make(map[string]int)
	for _, s := range stories {
		for _, m := range s.Marked {
			counts[m.GeneralQuestion]++
		}
	}

	entries := make([]model.QuestionCount, 0, len(counts))
	for q, n := range counts {
		entries = append(entries, model.QuestionCount{GeneralQuestion: q, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].GeneralQuestion < entries[j].GeneralQuestion
	})
	return entries
}

// GeneralStats summarizes the run: distinct stories and analysts, distinct
// requirements in the catalog, total marked occurrences, and the mean
// marked occurrences per submission.
func GeneralStats(stories []model.AnnotatedStory, catalog *model.Catalog) model.GeneralStats {
	storyIDs := make(map[string]bool)
	analysts := make(map[string]bool)
	totalMarked := 0
	perSubmission := make([]float64, 0, len(stories))

	for _, s := range stories {
		storyIDs[s.StoryID] = true
		analysts[s.AnalystID] = true
		totalMarked += len(s.Marked)
		perSubmission = append(perSubmission, float64(len(s.Marked)))
	}

	avg := 0.0
	if len(perSubmission) > 0 {
		avg = stat.Mean(perSubmission, nil)
	}

	return model.GeneralStats{
		TotalUniqueStories:      len(storyIDs),
		TotalAnalysts:           len(analysts),
		TotalUniqueRequirements: catalog.Len(),
		TotalMarkedRequirements: totalMarked,
		AvgMarkedPerSubmission:  avg,
	}
}
