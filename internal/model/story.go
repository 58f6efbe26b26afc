package model

import (
	"bytes"
	"sort"
	"strconv"
)

// Sentinel values substituted when identity or optional fields are absent.
const (
	UnknownAnalyst = "unknown"
	UnknownStory   = "unknown"
	UnknownSection = "secao_desconhecida"
	LevelNotSet    = "N/A"
)

// LooseString decodes a JSON string, number, or null into a string. The
// annotation tool is inconsistent about emitting ids and levels as numbers
// or strings, so every identity-ish field tolerates both.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*s = LooseString(unquoted)
		return nil
	}
	*s = LooseString(data)
	return nil
}

// Submission mirrors the raw per-analyst JSON document: one analyst's pass
// over one story, with the full checklist embedded as a two-level
// question → specific question → requirements structure.
type Submission struct {
	UserStory SubmissionStory      `json:"userStory"`
	Questions []SubmissionQuestion `json:"questions"`
}

// SubmissionStory carries the story metadata of a submission.
type SubmissionStory struct {
	ID   LooseString `json:"id"`
	What string      `json:"what"`
	Who  string      `json:"who"`
	Why  string      `json:"why"`
}

// SubmissionQuestion is one general question of the checklist.
type SubmissionQuestion struct {
	Question  QuestionText         `json:"question"`
	Specifics []SubmissionSpecific `json:"questoesEspecificas"`
}

// SubmissionSpecific is one specific question nested under a general one.
type SubmissionSpecific struct {
	Question     QuestionText            `json:"question"`
	Requirements []SubmissionRequirement `json:"requirements"`
}

// QuestionText holds the human-readable label of a question.
type QuestionText struct {
	Descricao string `json:"descricao"`
}

// SubmissionRequirement is one checklist requirement as it appears inside a
// submission, including whether the analyst marked it as applicable.
type SubmissionRequirement struct {
	ID        int         `json:"id"`
	IDExterno LooseString `json:"id_externo"`
	Descricao string      `json:"descricao"`
	Nivel     LooseString `json:"nivel"`
	SecaoID   LooseString `json:"fk_Secao_id"`
	Marked    bool        `json:"marked"`
}

// MarkedRequirement is the projection of one marked checklist entry. The
// same external id may appear more than once within a story when the
// checklist presents the requirement under several questions; consumers
// deduplicate at aggregation time.
type MarkedRequirement struct {
	ExternalID       string
	InternalID       int
	SpecificQuestion string
	GeneralQuestion  string
}

// AnnotatedStory is the canonical record of one submission: one analyst's
// independent annotation of one story. Instances are immutable after
// normalization and several may share a story number, one per analyst.
type AnnotatedStory struct {
	AnalystID   string
	StoryNumber string
	StoryID     string
	What        string
	Who         string
	Why         string
	Marked      []MarkedRequirement
}

// MarkedSet returns the deduplicated set of marked external ids. Duplicate
// nested placements of the same requirement are a structural artifact, not
// independent evidence.
func (s *AnnotatedStory) MarkedSet() map[string]bool {
	set := make(map[string]bool, len(s.Marked))
	for _, m := range s.Marked {
		set[m.ExternalID] = true
	}
	return set
}

// SortedMarkedIDs returns the deduplicated marked external ids in
// lexicographic order.
func (s *AnnotatedStory) SortedMarkedIDs() []string {
	set := s.MarkedSet()
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
