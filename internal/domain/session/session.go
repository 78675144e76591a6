// Package session runs one practice round: it samples questions from a
// pool, randomizes option order, and tracks selections and answer records
// until the final tally.
package session

import (
	"errors"
	"math/rand"

	"github.com/terrywang1985/english-practice/internal/domain/question"
)

var (
	// ErrEmptyPool is returned when there are no questions to practice;
	// the caller must abort the session and return to a safe screen.
	ErrEmptyPool = errors.New("no questions available")
	// ErrNoSelection is returned by SubmitAnswer when no option was
	// chosen; the caller should re-prompt, no state changed.
	ErrNoSelection = errors.New("no option selected")
)

const noSelection = -1

// AnswerRecord captures one submitted answer. Immutable once created.
type AnswerRecord struct {
	QuestionID  string `json:"questionId"`
	Prompt      string `json:"question"`
	Chosen      string `json:"userAnswer"`
	Correct     string `json:"correctAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
	Tag         string `json:"tag"`
}

// Engine holds the state of one running session. It is owned by a single
// caller and not safe for concurrent use.
type Engine struct {
	questions []question.Question
	cursor    int
	selected  int
	revealed  bool
	records   []AnswerRecord
	correct   int
}

// New starts a session over a uniform random sample of min(count, len(pool))
// questions. Each sampled question has its options independently shuffled,
// with the correct index tracked through the permutation.
func New(pool []question.Question, count int) (*Engine, error) {
	sampled := sample(pool, count)
	if len(sampled) == 0 {
		return nil, ErrEmptyPool
	}

	for i := range sampled {
		sampled[i] = ShuffleOptions(sampled[i])
	}

	return &Engine{
		questions: sampled,
		selected:  noSelection,
	}, nil
}

// sample returns min(count, len(pool)) questions drawn uniformly without
// replacement: a Fisher-Yates shuffle of a copy, then a prefix.
func sample(pool []question.Question, count int) []question.Question {
	shuffled := make([]question.Question, len(pool))
	copy(shuffled, pool)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count < 0 {
		count = 0
	}
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}

// ShuffleOptions returns a copy of q with its options uniformly permuted
// and CorrectIndex recomputed. The correct answer is tracked by permuting
// (text, wasCorrect) pairs together, so duplicate option texts cannot make
// a wrong index come out as "correct".
func ShuffleOptions(q question.Question) question.Question {
	type option struct {
		text      string
		isCorrect bool
	}

	opts := make([]option, len(q.Options))
	for i, text := range q.Options {
		opts[i] = option{text: text, isCorrect: i == q.CorrectIndex}
	}

	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})

	shuffled := q
	shuffled.Options = make([]string, len(opts))
	for i, o := range opts {
		shuffled.Options[i] = o.text
		if o.isCorrect {
			shuffled.CorrectIndex = i
		}
	}
	return shuffled
}

// Current returns the question under the cursor.
func (e *Engine) Current() question.Question {
	return e.questions[e.cursor]
}

// Cursor returns the zero-based index of the current question.
func (e *Engine) Cursor() int { return e.cursor }

// Total returns the number of questions in the session.
func (e *Engine) Total() int { return len(e.questions) }

// Selected returns the tentatively chosen option index, -1 if none.
func (e *Engine) Selected() int { return e.selected }

// Revealed reports whether the current question's answer has been shown.
func (e *Engine) Revealed() bool { return e.revealed }

// AtEnd reports whether the cursor is on the last question.
func (e *Engine) AtEnd() bool {
	return e.cursor+1 == len(e.questions)
}

// SelectOption records a tentative choice. Ignored once the answer has
// been revealed, and ignored for an out-of-range index.
func (e *Engine) SelectOption(index int) {
	if e.revealed {
		return
	}
	if index < 0 || index >= len(e.Current().Options) {
		return
	}
	e.selected = index
}

// SubmitAnswer grades the current selection, appends an AnswerRecord, and
// reveals the correct answer. Submitting again before Advance returns the
// existing record unchanged. Returns ErrNoSelection when nothing is chosen.
func (e *Engine) SubmitAnswer() (AnswerRecord, error) {
	if e.revealed {
		return e.records[len(e.records)-1], nil
	}
	if e.selected == noSelection {
		return AnswerRecord{}, ErrNoSelection
	}

	q := e.Current()
	record := AnswerRecord{
		QuestionID:  q.ID,
		Prompt:      q.Prompt,
		Chosen:      q.Options[e.selected],
		Correct:     q.CorrectOption(),
		IsCorrect:   e.selected == q.CorrectIndex,
		Explanation: q.Explanation,
		Tag:         q.Tag,
	}

	e.records = append(e.records, record)
	if record.IsCorrect {
		e.correct++
	}
	e.revealed = true
	return record, nil
}

// Advance moves to the next question and clears the per-question state.
// Returns false (and does nothing) when already at the last question.
func (e *Engine) Advance() bool {
	if e.AtEnd() {
		return false
	}
	e.cursor++
	e.selected = noSelection
	e.revealed = false
	return true
}

// Finish returns the session tally. The engine is not reset; callers
// discard it after this.
func (e *Engine) Finish() Summary {
	records := make([]AnswerRecord, len(e.records))
	copy(records, e.records)

	return Summary{
		Correct: e.correct,
		Total:   len(e.questions),
		Records: records,
	}
}
