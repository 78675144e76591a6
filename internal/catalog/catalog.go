// Package catalog loads the content served by contentd from a directory of
// JSON files: questions.json (global bank), grades_config.json (grade
// listing), and grade_{id}.json per grade.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/terrywang1985/english-practice/internal/domain/question"
)

// Catalog holds the parsed content files behind an RWMutex so handlers can
// read while Reload swaps in fresh data.
type Catalog struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	bundle *question.Bundle
	config *question.GradesConfig
	grades map[int]*question.Grade
}

// Load reads all content files under dir. Missing optional files are
// tolerated; the corresponding endpoints then return 404.
func Load(dir string, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		dir:    dir,
		logger: logger,
		grades: make(map[int]*question.Grade),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the data directory and atomically replaces the cached
// content. On error the previous content stays in place.
func (c *Catalog) Reload() error {
	bundle, err := readJSON[question.Bundle](filepath.Join(c.dir, "questions.json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load questions.json: %w", err)
	}

	config, err := readJSON[question.GradesConfig](filepath.Join(c.dir, "grades_config.json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load grades_config.json: %w", err)
	}

	grades := make(map[int]*question.Grade)
	if config != nil {
		for _, info := range config.Grades {
			path := filepath.Join(c.dir, fmt.Sprintf("grade_%d.json", info.GradeID))
			grade, err := readJSON[question.Grade](path)
			if err != nil {
				if os.IsNotExist(err) {
					c.logger.Warn("grade file missing", "grade_id", info.GradeID, "path", path)
					continue
				}
				return fmt.Errorf("load grade %d: %w", info.GradeID, err)
			}
			if err := validateGrade(grade); err != nil {
				return fmt.Errorf("grade %d: %w", info.GradeID, err)
			}
			grades[info.GradeID] = grade
		}
	}

	c.mu.Lock()
	c.bundle = bundle
	c.config = config
	c.grades = grades
	c.mu.Unlock()

	c.logger.Info("catalog loaded", "dir", c.dir, "grades", len(grades),
		"has_global_bank", bundle != nil)
	return nil
}

func validateGrade(g *question.Grade) error {
	for _, q := range g.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Bundle returns the global question bank, nil when questions.json is absent.
func (c *Catalog) Bundle() *question.Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bundle
}

// Config returns the grade listing, nil when grades_config.json is absent.
func (c *Catalog) Config() *question.GradesConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Grade returns one grade's content, nil when unknown.
func (c *Catalog) Grade(id int) *question.Grade {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grades[id]
}

func readJSON[T any](path string) (*T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &v, nil
}
