// Package ingest turns raw analyst submissions and the automated
// annotator's workbook into the canonical record model.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pbarbosa/storylens/internal/model"
	"go.uber.org/zap"
)

// storyFilePattern matches the canonical submission naming convention:
// g<digits><analystToken>_<storyNumber>.json
var storyFilePattern = regexp.MustCompile(`^g\d+(\w+)_(\d+)\.json$`)

// numericPrefixPattern captures the leading digits of a filename segment.
var numericPrefixPattern = regexp.MustCompile(`^\d+`)

// Loader ingests analyst submissions from a directory tree.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader that reports skipped files through log.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// LoadDir reads every submission under dir and returns the canonical
// records, registering all encountered requirements into catalog. When dir
// contains subdirectories they are treated as per-analyst folders and the
// folder name overrides the filename-derived analyst id; otherwise JSON
// files are read directly from dir. Files are processed in sorted order so
// first-write-wins catalog registration is deterministic. Malformed files
// are skipped with a warning; only listing failures are returned as errors.
func (l *Loader) LoadDir(dir string, catalog *model.Catalog) ([]model.AnnotatedStory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var analystDirs []string
	for _, e := range entries {
		if e.IsDir() {
			analystDirs = append(analystDirs, e.Name())
		}
	}

	var stories []model.AnnotatedStory
	if len(analystDirs) == 0 {
		stories = l.loadFlat(dir, "", catalog, stories)
		return stories, nil
	}

	for _, analyst := range analystDirs {
		sub := filepath.Join(dir, analyst)
		before := len(stories)
		stories = l.loadFlat(sub, analyst, catalog, stories)
		l.log.Info("processed analyst folder",
			zap.String("analyst", analyst),
			zap.Int("files", len(stories)-before))
	}
	return stories, nil
}

// loadFlat reads the JSON files of a single directory. analystDir, when
// non-empty, is the authoritative analyst identity for every file in it.
func (l *Loader) loadFlat(dir, analystDir string, catalog *model.Catalog, stories []model.AnnotatedStory) []model.AnnotatedStory {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.log.Warn("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
		return stories
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		story, err := l.loadFile(path, e.Name(), analystDir, catalog)
		if err != nil {
			l.log.Warn("skipping submission", zap.String("file", path), zap.Error(err))
			continue
		}
		stories = append(stories, story)
	}
	return stories
}

// loadFile reads and normalizes one submission file.
func (l *Loader) loadFile(path, filename, analystDir string, catalog *model.Catalog) (model.AnnotatedStory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AnnotatedStory{}, fmt.Errorf("read: %w", err)
	}

	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return model.AnnotatedStory{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return Normalize(sub, filename, analystDir, catalog), nil
}

// Normalize turns one raw submission into a canonical AnnotatedStory. It
// resolves analyst id and story number from the filename (the per-analyst
// folder name, when given, overrides the analyst id) and registers every
// requirement encountered into catalog, marked or not.
func Normalize(sub model.Submission, filename, analystDir string, catalog *model.Catalog) model.AnnotatedStory {
	analystID, storyNumber := identityFromFilename(filename)
	if analystDir != "" {
		analystID = analystDir
	}

	story := model.AnnotatedStory{
		AnalystID:   analystID,
		StoryNumber: storyNumber,
		StoryID:     string(sub.UserStory.ID),
		What:        sub.UserStory.What,
		Who:         sub.UserStory.Who,
		Why:         sub.UserStory.Why,
	}

	for _, q := range sub.Questions {
		general := q.Question.Descricao
		for _, sq := range q.Specifics {
			specific := sq.Question.Descricao
			for _, req := range sq.Requirements {
				level := string(req.Nivel)
				if level == "" {
					level = model.LevelNotSet
				}
				catalog.Register(model.Requirement{
					ID:          req.ID,
					ExternalID:  string(req.IDExterno),
					Description: req.Descricao,
					Level:       level,
					SectionID:   string(req.SecaoID),
				})
				if req.Marked {
					story.Marked = append(story.Marked, model.MarkedRequirement{
						ExternalID:       string(req.IDExterno),
						InternalID:       req.ID,
						SpecificQuestion: specific,
						GeneralQuestion:  general,
					})
				}
			}
		}
	}
	return story
}

// identityFromFilename parses analyst id and story number from a submission
// filename. Filenames matching the canonical pattern yield both directly;
// otherwise the name is split on "_", the first segment becomes the analyst
// id and the numeric prefix of the second the story number. Anything else
// degrades to the "unknown" sentinels rather than failing.
func identityFromFilename(filename string) (analystID, storyNumber string) {
	if m := storyFilePattern.FindStringSubmatch(filename); m != nil {
		return m[1], m[2]
	}

	analystID = model.UnknownAnalyst
	storyNumber = model.UnknownStory

	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return analystID, storyNumber
	}
	if parts[0] != "" {
		analystID = parts[0]
	}
	if num := numericPrefixPattern.FindString(parts[1]); num != "" {
		storyNumber = num
	}
	return analystID, storyNumber
}
