package progress

import (
	"errors"
	"log/slog"

	"github.com/terrywang1985/english-practice/internal/store"
)

const progressKey = "user_progress"

// Store persists the Progress record in the key-value store. Reads that
// fail for any reason fold to a fresh default; the learner is never blocked
// on a corrupt record.
type Store struct {
	kv     store.KV
	logger *slog.Logger
}

// NewStore creates a Store on top of the given key-value store.
func NewStore(kv store.KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Get returns the current progress, initializing and persisting the
// default record on first access.
func (s *Store) Get() Progress {
	var p Progress
	err := s.kv.Get(progressKey, &p)
	if err == nil && p.Frontier >= 1 {
		if p.Scores == nil {
			p.Scores = map[int]int{}
		}
		return p
	}

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("progress record unreadable, starting fresh", "error", err)
	}

	initial := NewProgress()
	if err := s.kv.Set(progressKey, initial); err != nil {
		s.logger.Error("failed to persist initial progress", "error", err)
	}
	return initial
}

// IsUnlocked reports whether the grade may be played.
func (s *Store) IsUnlocked(gradeID int) bool {
	return s.Get().IsUnlocked(gradeID)
}

// IsCompleted reports whether the grade has ever been cleared perfectly.
func (s *Store) IsCompleted(gradeID int) bool {
	return s.Get().IsCompleted(gradeID)
}

// Score returns the latest recorded score for the grade, 0 if none.
func (s *Store) Score(gradeID int) int {
	return s.Get().Score(gradeID)
}

// RecordAttempt applies a finished grade session to the progress record and
// persists the result in a single write. It returns the updated progress.
func (s *Store) RecordAttempt(gradeID, score, totalQuestions int) Progress {
	updated := applyAttempt(s.Get(), gradeID, score, totalQuestions)
	if err := s.kv.Set(progressKey, updated); err != nil {
		s.logger.Error("failed to persist progress", "grade_id", gradeID, "error", err)
	}
	return updated
}
