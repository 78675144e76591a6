// Package results hands a finished session's summary from the practice
// flow to the result presenter. The summary is parked under a short-lived
// id instead of being serialized through a navigation URL, so its size
// never matters.
package results

import (
	"sync"

	"github.com/google/uuid"

	"github.com/terrywang1985/english-practice/internal/domain/session"
)

// Entry is one parked result: the tally plus the grade it applies to.
// GradeID 0 marks free practice, which has no pass/fail.
type Entry struct {
	GradeID int
	Summary session.Summary
}

// Store parks summaries between "finish session" and "show result".
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Put parks an entry and returns its id.
func (s *Store) Put(e Entry) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return id
}

// Take removes and returns the entry for id. A result is displayed once;
// a second Take of the same id reports false.
func (s *Store) Take(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	return e, ok
}
