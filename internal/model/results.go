package model

// GeneralStats summarizes one analysis run.
type GeneralStats struct {
	TotalUniqueStories      int
	TotalAnalysts           int
	TotalUniqueRequirements int
	TotalMarkedRequirements int
	AvgMarkedPerSubmission  float64
}

// FrequencyEntry counts the submissions whose deduplicated marked set
// contains a requirement.
type FrequencyEntry struct {
	ExternalID string
	Count      int
}

// MatrixRow is one row of the story × requirement indicator matrix: one
// submission with its traceability metadata and the set of marked ids.
type MatrixRow struct {
	StoryID     string
	AnalystID   string
	StoryNumber string
	What        string
	Who         string
	Why         string
	Marked      map[string]bool
}

// CoOccurrenceEntry counts how many submissions marked both requirements of
// a canonical (lexicographically ordered) pair.
type CoOccurrenceEntry struct {
	A     string
	B     string
	Count int
}

// SectionCount counts marked occurrences per checklist section.
type SectionCount struct {
	SectionID string
	Count     int
}

// QuestionCount counts marked occurrences per general question.
type QuestionCount struct {
	GeneralQuestion string
	Count           int
}

// AgreementRecord holds the inter-analyst agreement for one story number.
// Ratio is |intersection| / |union|, defined as 1.0 when the union is empty:
// if nobody marked anything, the analysts agreed completely.
type AgreementRecord struct {
	StoryNumber       string
	StoryID           string
	AnalystCount      int
	UnionCount        int
	IntersectionCount int
	Ratio             float64
	What              string
	Who               string
	Why               string
}

// StoryDetail is the per-story, per-general-question breakdown of union and
// intersection membership across analysts.
type StoryDetail struct {
	StoryNumber     string
	GeneralQuestion string
	AnalystCount    int
	Union           []string
	Intersection    []string
}

// AnalystMarkRow is one marked requirement occurrence with full context,
// one row per occurrence (no deduplication; this is the trace table).
type AnalystMarkRow struct {
	AnalystID        string
	StoryNumber      string
	GeneralQuestion  string
	SpecificQuestion string
	ExternalID       string
}

// ConvergenceEntry measures, per general question, how often all analysts of
// a story converged on marking something under that question.
type ConvergenceEntry struct {
	GeneralQuestion   string
	StoriesMarked     int // stories where at least one analyst marked under the question
	StoriesConvergent int // stories where every analyst of the story did
	Markings          int // total marked occurrences under the question
	Ratio             float64
}

// StoryComparison compares the automated annotator's question codes against
// the pooled human codes for one story. Accuracy is the precision of the
// automated set against pooled human judgment, in percent; it is 0.0 when
// the automated set is empty, regardless of the human set.
type StoryComparison struct {
	StoryNumber  int
	IA           []string
	Humans       []string
	Intersection []string
	OnlyIA       []string
	OnlyHumans   []string
	Accuracy     float64
}

// CategoryComparison rolls a comparison up to one general category.
type CategoryComparison struct {
	Category   string
	Matches    int
	OnlyIA     int
	OnlyHumans int
	Accuracy   float64
}
