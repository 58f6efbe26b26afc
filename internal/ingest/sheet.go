package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pbarbosa/storylens/internal/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// One sheet per story, named H<number>.
var sheetNamePattern = regexp.MustCompile(`^H(\d+)$`)

// Fine-grained question code column headers (Q1 .. Q18).
var codeColumnPattern = regexp.MustCompile(`^Q\d{1,2}$`)

// automatedRowLabel is the first cell of the row carrying the automated
// annotator's marks (matched case-insensitively).
const automatedRowLabel = "IA"

// SheetLoader reads the automated annotator's marks from a workbook.
type SheetLoader struct {
	log *zap.Logger
}

// NewSheetLoader creates a sheet loader that reports skipped sheets
// through log.
func NewSheetLoader(log *zap.Logger) *SheetLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &SheetLoader{log: log}
}

// Load reads every H<number> sheet of the workbook at path and returns the
// automated annotator's marked question codes per story number, sorted.
// A sheet is usable when its header row has a "Resultados" column and some
// row's first cell is "IA"; sheets that fail to parse are skipped with a
// warning so one broken sheet never aborts the comparison.
func (l *SheetLoader) Load(path string) (map[int][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	marks := make(map[int][]string)
	for _, sheet := range f.GetSheetList() {
		m := sheetNamePattern.FindStringSubmatch(sheet)
		if m == nil {
			continue
		}
		storyNumber, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		codes, err := l.loadSheet(f, sheet)
		if err != nil {
			l.log.Warn("skipping sheet", zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		if codes != nil {
			marks[storyNumber] = codes
		}
	}
	return marks, nil
}

// loadSheet extracts the marked codes of a single story sheet. It returns
// (nil, nil) for sheets without a Resultados column or an IA row.
func (l *SheetLoader) loadSheet(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if !containsColumn(header, "Resultados") {
		return nil, nil
	}

	iaRow := findAutomatedRow(rows)
	if iaRow == nil {
		return nil, nil
	}

	var codes []string
	for col, name := range header {
		name = strings.TrimSpace(name)
		if !codeColumnPattern.MatchString(name) {
			continue
		}
		if col < len(iaRow) && cellMarked(iaRow[col]) {
			codes = append(codes, name)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func containsColumn(header []string, name string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) == name {
			return true
		}
	}
	return false
}

func findAutomatedRow(rows [][]string) []string {
	for _, row := range rows {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), automatedRowLabel) {
			return row
		}
	}
	return nil
}

// cellMarked interprets a mark cell: 1 means marked, everything else
// (0, blanks, junk) means unmarked.
func cellMarked(cell string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return false
	}
	return v == 1
}

// LoadHumanMarks reads a previously generated per-analyst detail table
// (por_analista_historia.csv) and pools the human question codes per story
// number, for comparison runs that start from flat files instead of raw
// submissions. Rows with non-numeric story numbers are dropped.
func LoadHumanMarks(path string) (map[int]map[string]bool, error) {
	rows, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}

	storyCol, questionCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "story_number":
			storyCol = i
		case "specific_question":
			questionCol = i
		}
	}
	if storyCol < 0 || questionCol < 0 {
		return nil, fmt.Errorf("%s: missing story_number/specific_question columns", path)
	}

	marks := make(map[int]map[string]bool)
	for _, row := range rows[1:] {
		if storyCol >= len(row) || questionCol >= len(row) {
			continue
		}
		story, err := strconv.Atoi(strings.TrimSpace(row[storyCol]))
		if err != nil {
			continue
		}
		for _, code := range model.ExtractQuestionCodes(row[questionCol]) {
			if marks[story] == nil {
				marks[story] = make(map[string]bool)
			}
			marks[story][code] = true
		}
	}
	return marks, nil
}

// readCSVFile reads a whole CSV file into memory. Tables here are small
// (tens to low-hundreds of rows), so streaming is not worth the ceremony.
func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
