package analyze

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pbarbosa/storylens/internal/model"
	"go.uber.org/zap"
)

// CodeListSeparator delimits set-valued CSV columns. Set columns are always
// written as sorted, separator-joined lists and parsed back with
// ParseCodeList; no expression evaluation is ever involved.
const CodeListSeparator = ";"

// FormatCodeList serializes a code set as a sorted, ';'-delimited list.
func FormatCodeList(codes []string) string {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)
	return strings.Join(sorted, CodeListSeparator)
}

// ParseCodeList parses a ';'-delimited list written by FormatCodeList.
// Blank entries are dropped, so the empty string round-trips to nil.
func ParseCodeList(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, CodeListSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			codes = append(codes, part)
		}
	}
	return codes
}

// PooledHumanMarks pools the question codes marked by any analyst, per
// story number, extracted from the specific-question labels of the marked
// requirements. Stories whose number is not numeric cannot be joined with
// the workbook and are dropped with a warning.
func PooledHumanMarks(stories []model.AnnotatedStory, log *zap.Logger) map[int]map[string]bool {
	if log == nil {
		log = zap.NewNop()
	}
	marks := make(map[int]map[string]bool)
	for _, s := range stories {
		number, err := strconv.Atoi(s.StoryNumber)
		if err != nil {
			log.Warn("dropping submission with non-numeric story number from comparison",
				zap.String("analyst", s.AnalystID),
				zap.String("story_number", s.StoryNumber))
			continue
		}
		for _, m := range s.Marked {
			for _, code := range model.ExtractQuestionCodes(m.SpecificQuestion) {
				if marks[number] == nil {
					marks[number] = make(map[string]bool)
				}
				marks[number][code] = true
			}
		}
	}
	return marks
}

// Compare crosses the automated annotator's marks with the pooled human
// marks, one record per story number present in either source. Accuracy is
// the precision of the automated set against the pooled human set, in
// percent, and is 0.0 exactly when the automated set is empty; the metric
// is deliberately asymmetric.
func Compare(automated map[int][]string, humans map[int]map[string]bool) []model.StoryComparison {
	numbers := make(map[int]bool)
	for n := range automated {
		numbers[n] = true
	}
	for n := range humans {
		numbers[n] = true
	}

	sorted := make([]int, 0, len(numbers))
	for n := range numbers {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	results := make([]model.StoryComparison, 0, len(sorted))
	for _, n := range sorted {
		ia := make(map[string]bool)
		for _, code := range automated[n] {
			ia[code] = true
		}
		human := humans[n]

		var intersection, onlyIA, onlyHumans []string
		for code := range ia {
			if human[code] {
				intersection = append(intersection, code)
			} else {
				onlyIA = append(onlyIA, code)
			}
		}
		for code := range human {
			if !ia[code] {
				onlyHumans = append(onlyHumans, code)
			}
		}

		accuracy := 0.0
		if len(ia) > 0 {
			accuracy = round2(float64(len(intersection)) / float64(len(ia)) * 100)
		}

		results = append(results, model.StoryComparison{
			StoryNumber:  n,
			IA:           sortedCodes(ia),
			Humans:       sortedCodes(human),
			Intersection: sortedSlice(intersection),
			OnlyIA:       sortedSlice(onlyIA),
			OnlyHumans:   sortedSlice(onlyHumans),
			Accuracy:     accuracy,
		})
	}
	return results
}

// CategoryRollup re-maps every compared question code to its general
// category and recomputes matches, automated-only, and human-only counts
// per category, with an accuracy percentage that is 0 when a category has
// no evidence at all. Sorted by accuracy descending, then category.
func CategoryRollup(comparisons []model.StoryComparison) []model.CategoryComparison {
	type tally struct{ matches, onlyIA, onlyHumans int }
	tallies := make(map[string]*tally)
	bump := func(codes []string, f func(*tally)) {
		for _, code := range codes {
			cat, ok := model.GeneralCategoryOf(code)
			if !ok {
				continue
			}
			t := tallies[cat]
			if t == nil {
				t = &tally{}
				tallies[cat] = t
			}
			f(t)
		}
	}

	for _, c := range comparisons {
		bump(c.Intersection, func(t *tally) { t.matches++ })
		bump(c.OnlyIA, func(t *tally) { t.onlyIA++ })
		bump(c.OnlyHumans, func(t *tally) { t.onlyHumans++ })
	}

	entries := make([]model.CategoryComparison, 0, len(tallies))
	for cat, t := range tallies {
		total := t.matches + t.onlyIA + t.onlyHumans
		accuracy := 0.0
		if total > 0 {
			accuracy = round2(float64(t.matches) / float64(total) * 100)
		}
		entries = append(entries, model.CategoryComparison{
			Category:   cat,
			Matches:    t.matches,
			OnlyIA:     t.onlyIA,
			OnlyHumans: t.onlyHumans,
			Accuracy:   accuracy,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Accuracy != entries[j].Accuracy {
			return entries[i].Accuracy > entries[j].Accuracy
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}

func sortedCodes(set map[string]bool) []string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func sortedSlice(codes []string) []string {
	sort.Strings(codes)
	return codes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
