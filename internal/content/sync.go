// Package content keeps the local question cache in step with the server.
// Every load runs the same layered chain: a cheap version check first, a
// content download only on mismatch, and on any network failure the cache —
// or, for the global bank, an embedded backup — so the learner can always
// practice offline.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/terrywang1985/english-practice/internal/domain/question"
	"github.com/terrywang1985/english-practice/internal/store"
)

// Cache keys. Each key is written only by this package.
const (
	globalCacheKey     = "questions_cache"
	globalVersionKey   = "questions_version"
	gradeCachePrefix   = "grade_"
	gradeVersionPrefix = "grade_version_"
	gradesConfigKey    = "backup_grades_config"
)

// Timeouts per spec: version checks are cheap and fail fast, content
// fetches get longer.
const (
	versionTimeout = 3 * time.Second
	contentTimeout = 5 * time.Second
)

// ErrUnavailable is returned when a grade has no data anywhere: the server
// is unreachable and nothing is cached.
var ErrUnavailable = errors.New("content unavailable: no server response and no cache")

// Source tags where a sync result came from, so the caller can surface
// provenance ("offline copy", "built-in questions") to the learner.
type Source string

const (
	SourceFresh  Source = "fresh"  // downloaded this call
	SourceCache  Source = "cache"  // served from the local cache
	SourceBackup Source = "backup" // embedded fallback dataset
)

// BundleResult is the outcome of a global sync.
type BundleResult struct {
	Bundle question.Bundle
	Source Source
}

// GradeResult is the outcome of a per-grade sync.
type GradeResult struct {
	Grade  question.Grade
	Source Source
}

// Synchronizer reconciles server content against the local cache. It owns
// the content and version cache keys; it never touches learner progress.
type Synchronizer struct {
	kv      store.KV
	client  HTTPClient
	baseURL string
	logger  *slog.Logger
}

// NewSynchronizer creates a Synchronizer against the given server base URL
// (e.g. "http://127.0.0.1:8080").
func NewSynchronizer(kv store.KV, client HTTPClient, baseURL string, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		kv:      kv,
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SyncGlobal produces the global question bank. It never fails: the chain
// ends at an embedded backup dataset when both network and cache are empty.
//
// When the server version matches the cached one, no content download
// happens and the cached bundle is returned as SourceCache.
func (s *Synchronizer) SyncGlobal(ctx context.Context) BundleResult {
	localVersion := s.localVersion(globalVersionKey)

	serverVersion, ok := s.fetchVersion(ctx, "/api/version")
	if !ok {
		s.logger.Info("version check failed, falling back to cache")
		return s.globalFallback()
	}

	if localVersion != "" && localVersion == serverVersion {
		if cached, ok := s.cachedBundle(); ok {
			s.logger.Debug("global content up to date", "version", localVersion)
			return BundleResult{Bundle: cached, Source: SourceCache}
		}
		// Version matched but the bundle is missing (partial write);
		// treat as a miss and refetch.
	}

	var bundle question.Bundle
	if !s.fetchContent(ctx, "/api/questions", &bundle) {
		s.logger.Warn("content fetch failed, falling back to cache")
		return s.globalFallback()
	}

	s.saveCache(globalCacheKey, globalVersionKey, bundle, bundle.Version)
	s.logger.Info("global content updated", "version", bundle.Version, "total", bundle.Total)
	return BundleResult{Bundle: bundle, Source: SourceFresh}
}

// SyncGrade produces one grade's bundle, with the same version-check and
// cache chain as SyncGlobal but no backup tier: a grade that has never
// been downloaded cannot be played offline, and ErrUnavailable is returned.
func (s *Synchronizer) SyncGrade(ctx context.Context, gradeID int) (GradeResult, error) {
	versionKey := fmt.Sprintf("%s%d", gradeVersionPrefix, gradeID)
	cacheKey := fmt.Sprintf("%s%d", gradeCachePrefix, gradeID)
	localVersion := s.localVersion(versionKey)

	serverVersion, ok := s.fetchVersion(ctx, fmt.Sprintf("/api/version/grade/%d", gradeID))
	if !ok {
		return s.gradeFallback(gradeID, cacheKey)
	}

	if localVersion != "" && localVersion == serverVersion {
		if cached, ok := s.cachedGrade(cacheKey); ok {
			s.logger.Debug("grade up to date", "grade_id", gradeID, "version", localVersion)
			return GradeResult{Grade: cached, Source: SourceCache}, nil
		}
	}

	var grade question.Grade
	if !s.fetchContent(ctx, fmt.Sprintf("/api/questions/grade/%d", gradeID), &grade) {
		return s.gradeFallback(gradeID, cacheKey)
	}

	s.saveCache(cacheKey, versionKey, grade, grade.Version)
	s.logger.Info("grade updated", "grade_id", gradeID, "version", grade.Version)
	return GradeResult{Grade: grade, Source: SourceFresh}, nil
}

// GradesConfig fetches the grade listing, caching it for offline use. On
// network failure the cached copy is returned; with neither, ErrUnavailable.
func (s *Synchronizer) GradesConfig(ctx context.Context) (question.GradesConfig, error) {
	var cfg question.GradesConfig
	if s.fetchContent(ctx, "/api/grades", &cfg) {
		if err := s.kv.Set(gradesConfigKey, cfg); err != nil {
			s.logger.Error("failed to cache grades config", "error", err)
		}
		return cfg, nil
	}

	if err := s.kv.Get(gradesConfigKey, &cfg); err != nil {
		return question.GradesConfig{}, ErrUnavailable
	}
	s.logger.Info("serving grades config from cache")
	return cfg, nil
}

// ClearCache drops the global bundle and its version marker.
func (s *Synchronizer) ClearCache() error {
	if err := s.kv.Delete(globalCacheKey); err != nil {
		return err
	}
	return s.kv.Delete(globalVersionKey)
}

// ── fallback chain ──────────────────────────────────────────────────────────

func (s *Synchronizer) globalFallback() BundleResult {
	if cached, ok := s.cachedBundle(); ok {
		return BundleResult{Bundle: cached, Source: SourceCache}
	}
	s.logger.Warn("no cache available, using embedded backup dataset")
	return BundleResult{Bundle: backupBundle(), Source: SourceBackup}
}

func (s *Synchronizer) gradeFallback(gradeID int, cacheKey string) (GradeResult, error) {
	if cached, ok := s.cachedGrade(cacheKey); ok {
		s.logger.Info("serving grade from cache", "grade_id", gradeID)
		return GradeResult{Grade: cached, Source: SourceCache}, nil
	}
	return GradeResult{}, fmt.Errorf("grade %d: %w", gradeID, ErrUnavailable)
}

// ── cache access ────────────────────────────────────────────────────────────

// localVersion reads a cached version string; any failure counts as "no
// version" and self-heals through the normal mismatch path.
func (s *Synchronizer) localVersion(key string) string {
	var v string
	if err := s.kv.Get(key, &v); err != nil {
		return ""
	}
	return v
}

func (s *Synchronizer) cachedBundle() (question.Bundle, bool) {
	var b question.Bundle
	if err := s.kv.Get(globalCacheKey, &b); err != nil || len(b.Questions) == 0 {
		return question.Bundle{}, false
	}
	return b, true
}

func (s *Synchronizer) cachedGrade(cacheKey string) (question.Grade, bool) {
	var g question.Grade
	if err := s.kv.Get(cacheKey, &g); err != nil || len(g.Questions) == 0 {
		return question.Grade{}, false
	}
	return g, true
}

// saveCache writes content first, then the version marker. If the second
// write is lost, the next sync sees a version mismatch and refetches.
func (s *Synchronizer) saveCache(cacheKey, versionKey string, content any, version string) {
	if err := s.kv.Set(cacheKey, content); err != nil {
		s.logger.Error("failed to cache content", "key", cacheKey, "error", err)
		return
	}
	if err := s.kv.Set(versionKey, version); err != nil {
		s.logger.Error("failed to cache version", "key", versionKey, "error", err)
	}
}

// ── network ─────────────────────────────────────────────────────────────────

func (s *Synchronizer) fetchVersion(ctx context.Context, path string) (string, bool) {
	var payload struct {
		Version string `json:"version"`
	}
	if !s.getJSON(ctx, path, versionTimeout, &payload) || payload.Version == "" {
		return "", false
	}
	return payload.Version, true
}

func (s *Synchronizer) fetchContent(ctx context.Context, path string, v any) bool {
	return s.getJSON(ctx, path, contentTimeout, v)
}

// getJSON performs one GET and decodes the body. All failure modes —
// transport error, timeout, non-200, malformed body — collapse into false;
// the caller decides how far down the fallback chain to go.
func (s *Synchronizer) getJSON(ctx context.Context, path string, timeout time.Duration, v any) bool {
	url := s.baseURL + path

	status, body, err := s.client.Get(ctx, url, timeout)
	if err != nil {
		s.logger.Debug("request failed", "url", url, "error", err)
		return false
	}
	if status != http.StatusOK {
		s.logger.Debug("unexpected status", "url", url, "status", status)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.logger.Debug("malformed response body", "url", url, "error", err)
		return false
	}
	return true
}
