package question

import (
	"errors"
	"fmt"
)

// Type classifies how a question is presented.
type Type string

const (
	TypeConversion Type = "conversion" // e.g. "give the plural of: baby"
	TypeSentence   Type = "sentence"   // fill the blank in a sentence
)

// Question is a single multiple-choice item. CorrectIndex points into
// Options; Options keeps server order until a session shuffles it.
type Question struct {
	ID           string   `json:"id"`
	Type         Type     `json:"type"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswer"`
	Explanation  string   `json:"explanation"`
	Tag          string   `json:"tag"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id cannot be empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: needs at least 2 options, got %d", q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %s: correctAnswer %d out of range [0,%d)", q.ID, q.CorrectIndex, len(q.Options))
	}
	return nil
}

// CorrectOption returns the text of the correct answer.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Bundle is the global question bank payload as served by /api/questions.
type Bundle struct {
	Version   string     `json:"version"`
	Total     int        `json:"total"`
	Tags      []string   `json:"tags"`
	Questions []Question `json:"questions"`
}

// Grade is one ordered content unit as served by /api/questions/grade/{id}.
// GradeID order defines the unlock sequence.
type Grade struct {
	GradeID        int        `json:"gradeId"`
	Version        string     `json:"version"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	RequiredScore  int        `json:"requiredScore"`
	TotalQuestions int        `json:"totalQuestions"`
	Questions      []Question `json:"questions"`
}

// GradeInfo is the per-grade metadata entry of the grades listing.
type GradeInfo struct {
	GradeID        int    `json:"gradeId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RequiredScore  int    `json:"requiredScore"`
	TotalQuestions int    `json:"totalQuestions"`
	Icon           string `json:"icon"`
}

// GradesConfig is the full grades listing as served by /api/grades.
type GradesConfig struct {
	Version     string      `json:"version"`
	TotalGrades int         `json:"totalGrades"`
	Grades      []GradeInfo `json:"grades"`
}

// ByType returns the questions of the given type, in input order.
func ByType(questions []Question, t Type) []Question {
	var out []Question
	for _, q := range questions {
		if q.Type == t {
			out = append(out, q)
		}
	}
	return out
}

// ByTag returns the questions carrying the given tag, in input order.
func ByTag(questions []Question, tag string) []Question {
	var out []Question
	for _, q := range questions {
		if q.Tag == tag {
			out = append(out, q)
		}
	}
	return out
}

// Tags returns the distinct tags present in the questions, in first-seen order.
func Tags(questions []Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range questions {
		if q.Tag == "" || seen[q.Tag] {
			continue
		}
		seen[q.Tag] = true
		out = append(out, q.Tag)
	}
	return out
}
