// Package progress owns the learner's sequential-unlock state: which grades
// are reachable, which are cleared, and the latest score per grade.
package progress

import "slices"

// Progress is the single persisted progress record for the learner.
// The JSON field names match the document the original client stored,
// so an existing device keeps its history across upgrades.
type Progress struct {
	// Frontier is the highest grade id the learner may play. Every grade
	// with id <= Frontier is unlocked.
	Frontier int `json:"currentGrade"`
	// Completed holds the ids of grades cleared with a perfect score.
	Completed []int `json:"completedGrades"`
	// Scores maps grade id to the latest attempt's score (last attempt
	// wins, not best-of).
	Scores map[int]int `json:"gradeScores"`
	// TotalScore is the sum over Scores.
	TotalScore int `json:"totalScore"`
}

// NewProgress returns the state of a fresh device: only grade 1 unlocked.
func NewProgress() Progress {
	return Progress{
		Frontier:  1,
		Completed: []int{},
		Scores:    map[int]int{},
	}
}

// IsUnlocked reports whether the grade may be played.
func (p Progress) IsUnlocked(gradeID int) bool {
	return gradeID <= p.Frontier
}

// IsCompleted reports whether the grade has ever been cleared perfectly.
func (p Progress) IsCompleted(gradeID int) bool {
	return slices.Contains(p.Completed, gradeID)
}

// Score returns the latest recorded score for the grade, 0 if none.
func (p Progress) Score(gradeID int) int {
	return p.Scores[gradeID]
}

// applyAttempt returns the progress after one finished grade session.
// The score always overwrites the previous one. A perfect score marks the
// grade completed, and advances the frontier by exactly one — but only when
// the attempt was on the frontier itself; replaying an earlier grade or
// clearing a later one out of order never skips ahead.
func applyAttempt(p Progress, gradeID, score, totalQuestions int) Progress {
	next := Progress{
		Frontier:  p.Frontier,
		Completed: slices.Clone(p.Completed),
		Scores:    make(map[int]int, len(p.Scores)+1),
	}
	for id, s := range p.Scores {
		next.Scores[id] = s
	}

	next.Scores[gradeID] = score

	if score == totalQuestions {
		if !next.IsCompleted(gradeID) {
			next.Completed = append(next.Completed, gradeID)
		}
		if gradeID == next.Frontier {
			next.Frontier = gradeID + 1
		}
	}

	for _, s := range next.Scores {
		next.TotalScore += s
	}
	return next
}
