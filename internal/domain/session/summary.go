package session

import "math"

// passThreshold is the minimum accuracy, in percent, that clears a grade
// session that was not answered perfectly.
const passThreshold = 80

// Summary is the immutable result of a finished session.
type Summary struct {
	Correct int            `json:"correctCount"`
	Total   int            `json:"totalCount"`
	Records []AnswerRecord `json:"records"`
}

// Accuracy returns the percentage of correct answers, rounded to the
// nearest integer. An empty session has accuracy 0.
func (s Summary) Accuracy() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// Passed reports whether a grade-scoped session cleared the grade: either
// a perfect run or accuracy at or above the pass threshold. Free practice
// has no pass/fail concept and should not call this.
func (s Summary) Passed() bool {
	return s.Correct == s.Total || s.Accuracy() >= passThreshold
}

// Wrong returns the records of missed questions, in answer order.
func (s Summary) Wrong() []AnswerRecord {
	var out []AnswerRecord
	for _, r := range s.Records {
		if !r.IsCorrect {
			out = append(out, r)
		}
	}
	return out
}

// Verdict buckets the accuracy into a feedback tier for the result screen.
func (s Summary) Verdict() string {
	switch acc := s.Accuracy(); {
	case acc == 100:
		return "perfect"
	case acc >= 80:
		return "great"
	case acc >= 60:
		return "good"
	default:
		return "keep going"
	}
}
