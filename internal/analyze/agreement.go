package analyze

import (
	"sort"
	"strconv"

	"github.com/pbarbosa/storylens/internal/model"
)

// Agreement computes inter-analyst agreement per story number. Stories with
// a single submitting analyst are skipped (agreement is not meaningful for
// one rater). The ratio is |intersection| / |union| over the per-analyst
// marked sets; when the union is empty the ratio is 1.0 by convention,
// since analysts who all marked nothing are in complete agreement. Story
// metadata comes from the first submission encountered for the story.
func Agreement(stories []model.AnnotatedStory) []model.AgreementRecord {
	groups, order := groupByStoryNumber(stories)

	var records []model.AgreementRecord
	for _, number := range order {
		subs := groups[number]
		if len(subs) <= 1 {
			continue
		}

		perAnalyst := make(map[string]map[string]bool)
		for _, s := range subs {
			set := perAnalyst[s.AnalystID]
			if set == nil {
				set = make(map[string]bool)
				perAnalyst[s.AnalystID] = set
			}
			for id := range s.MarkedSet() {
				set[id] = true
			}
		}
		if len(perAnalyst) < 2 {
			continue
		}

		union, intersection := unionIntersection(perAnalyst)

		ratio := 1.0
		if len(union) > 0 {
			ratio = float64(len(intersection)) / float64(len(union))
		}

		first := subs[0]
		records = append(records, model.AgreementRecord{
			StoryNumber:       number,
			StoryID:           first.StoryID,
			AnalystCount:      len(perAnalyst),
			UnionCount:        len(union),
			IntersectionCount: len(intersection),
			Ratio:             ratio,
			What:              first.What,
			Who:               first.Who,
			Why:               first.Why,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return storyNumberLess(records[i].StoryNumber, records[j].StoryNumber)
	})
	return records
}

// StoryDetails breaks each story down per general question: the union and
// intersection of marked external ids across the story's analysts under
// that question. Rows with an empty union are omitted.
func StoryDetails(stories []model.AnnotatedStory) []model.StoryDetail {
	groups, order := groupByStoryNumber(stories)

	var details []model.StoryDetail
	for _, number := range order {
		subs := groups[number]

		// per-analyst, per-general-question marked sets
		analysts := make(map[string]bool)
		questions := make(map[string]bool)
		sets := make(map[string]map[string]map[string]bool) // question -> analyst -> ids
		for _, s := range subs {
			analysts[s.AnalystID] = true
			for _, m := range s.Marked {
				questions[m.GeneralQuestion] = true
				if sets[m.GeneralQuestion] == nil {
					sets[m.GeneralQuestion] = make(map[string]map[string]bool)
				}
				if sets[m.GeneralQuestion][s.AnalystID] == nil {
					sets[m.GeneralQuestion][s.AnalystID] = make(map[string]bool)
				}
				sets[m.GeneralQuestion][s.AnalystID][m.ExternalID] = true
			}
		}

		sortedQuestions := sortedKeys(questions)
		for _, q := range sortedQuestions {
			// Analysts without marks under this question contribute an
			// empty set, which empties the intersection.
			perAnalyst := make(map[string]map[string]bool, len(analysts))
			for a := range analysts {
				set := sets[q][a]
				if set == nil {
					set = map[string]bool{}
				}
				perAnalyst[a] = set
			}
			union, intersection := unionIntersection(perAnalyst)
			if len(union) == 0 {
				continue
			}
			details = append(details, model.StoryDetail{
				StoryNumber:     number,
				GeneralQuestion: q,
				AnalystCount:    len(analysts),
				Union:           sortedKeys(union),
				Intersection:    sortedKeys(intersection),
			})
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		if details[i].StoryNumber != details[j].StoryNumber {
			return storyNumberLess(details[i].StoryNumber, details[j].StoryNumber)
		}
		return details[i].GeneralQuestion < details[j].GeneralQuestion
	})
	return details
}

// PerAnalystRows flattens every marked occurrence into one trace row with
// its analyst, story, and question context. No deduplication: this is the
// raw evidence table the comparison stage re-reads.
func PerAnalystRows(stories []model.AnnotatedStory) []model.AnalystMarkRow {
	var rows []model.AnalystMarkRow
	for _, s := range stories {
		for _, m := range s.Marked {
			rows = append(rows, model.AnalystMarkRow{
				AnalystID:        s.AnalystID,
				StoryNumber:      s.StoryNumber,
				GeneralQuestion:  m.GeneralQuestion,
				SpecificQuestion: m.SpecificQuestion,
				ExternalID:       m.ExternalID,
			})
		}
	}
	return rows
}

// Convergence measures, per general question, the fraction of stories where
// every analyst of the story marked something under that question, out of
// the stories where at least one did. Sorted by ratio descending, then
// label ascending.
func Convergence(stories []model.AnnotatedStory) []model.ConvergenceEntry {
	groups, order := groupByStoryNumber(stories)

	markings := make(map[string]int)
	storiesMarked := make(map[string]int)
	storiesConvergent := make(map[string]int)
	questions := make(map[string]bool)

	for _, number := range order {
		subs := groups[number]

		analysts := make(map[string]bool)
		markedBy := make(map[string]map[string]bool) // question -> analysts who marked under it
		for _, s := range subs {
			analysts[s.AnalystID] = true
			for _, m := range s.Marked {
				questions[m.GeneralQuestion] = true
				markings[m.GeneralQuestion]++
				if markedBy[m.GeneralQuestion] == nil {
					markedBy[m.GeneralQuestion] = make(map[string]bool)
				}
				markedBy[m.GeneralQuestion][s.AnalystID] = true
			}
		}

		for q, who := range markedBy {
			storiesMarked[q]++
			if len(who) == len(analysts) {
				storiesConvergent[q]++
			}
		}
	}

	entries := make([]model.ConvergenceEntry, 0, len(questions))
	for q := range questions {
		ratio := 0.0
		if storiesMarked[q] > 0 {
			ratio = float64(storiesConvergent[q]) / float64(storiesMarked[q])
		}
		entries = append(entries, model.ConvergenceEntry{
			GeneralQuestion:   q,
			StoriesMarked:     storiesMarked[q],
			StoriesConvergent: storiesConvergent[q],
			Markings:          markings[q],
			Ratio:             ratio,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ratio != entries[j].Ratio {
			return entries[i].Ratio > entries[j].Ratio
		}
		return entries[i].GeneralQuestion < entries[j].GeneralQuestion
	})
	return entries
}

// groupByStoryNumber groups submissions by story number, preserving first
// encounter order of the numbers.
func groupByStoryNumber(stories []model.AnnotatedStory) (map[string][]model.AnnotatedStory, []string) {
	groups := make(map[string][]model.AnnotatedStory)
	var order []string
	for _, s := range stories {
		if _, seen := groups[s.StoryNumber]; !seen {
			order = append(order, s.StoryNumber)
		}
		groups[s.StoryNumber] = append(groups[s.StoryNumber], s)
	}
	return groups, order
}

// unionIntersection computes the union and intersection over a non-empty
// family of sets. An empty family yields two empty sets.
func unionIntersection(sets map[string]map[string]bool) (union, intersection map[string]bool) {
	union = make(map[string]bool)
	for _, set := range sets {
		for id := range set {
			union[id] = true
		}
	}

	intersection = make(map[string]bool)
	for id := range union {
		inAll := true
		for _, set := range sets {
			if !set[id] {
				inAll = false
				break
			}
		}
		if inAll {
			intersection[id] = true
		}
	}
	return union, intersection
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// storyNumberLess orders story numbers numerically when both parse, so "10"
// sorts after "9", falling back to lexicographic order for sentinels.
func storyNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}
	return a < b
}
