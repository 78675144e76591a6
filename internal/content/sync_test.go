package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/terrywang1985/english-practice/internal/content"
	"github.com/terrywang1985/english-practice/internal/domain/question"
	"github.com/terrywang1985/english-practice/internal/store"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testBundle(version string) question.Bundle {
	return question.Bundle{
		Version: version,
		Total:   2,
		Tags:    []string{"irregular"},
		Questions: []question.Question{
			{ID: "q1", Prompt: "Plural of child", Options: []string{"childs", "children"}, CorrectIndex: 1, Tag: "irregular"},
			{ID: "q2", Prompt: "Plural of foot", Options: []string{"foots", "feet"}, CorrectIndex: 1, Tag: "irregular"},
		},
	}
}

func testGrade(id int, version string) question.Grade {
	return question.Grade{
		GradeID:        id,
		Version:        version,
		Name:           fmt.Sprintf("Grade %d", id),
		TotalQuestions: 1,
		Questions: []question.Question{
			{ID: "g1", Prompt: "Plural of mouse", Options: []string{"mouses", "mice"}, CorrectIndex: 1},
		},
	}
}

// contentServer is a fake content API that counts content fetches so tests
// can assert the bandwidth invariant.
type contentServer struct {
	*httptest.Server
	version       string
	bundle        question.Bundle
	grades        map[int]question.Grade
	contentCalls  atomic.Int64
	failVersion   bool
	failQuestions bool
}

func newContentServer(version string) *contentServer {
	cs := &contentServer{
		version: version,
		bundle:  testBundle(version),
		grades:  map[int]question.Grade{1: testGrade(1, version)},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/version", func(w http.ResponseWriter, r *http.Request) {
		if cs.failVersion {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"version": cs.version})
	})
	mux.HandleFunc("GET /api/version/grade/{id}", func(w http.ResponseWriter, r *http.Request) {
		if cs.failVersion {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"version": cs.version})
	})
	mux.HandleFunc("GET /api/questions", func(w http.ResponseWriter, r *http.Request) {
		cs.contentCalls.Add(1)
		if cs.failQuestions {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(cs.bundle)
	})
	mux.HandleFunc("GET /api/questions/grade/{id}", func(w http.ResponseWriter, r *http.Request) {
		cs.contentCalls.Add(1)
		var id int
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		grade, ok := cs.grades[id]
		if !ok || cs.failQuestions {
			http.Error(w, "no such grade", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(grade)
	})
	mux.HandleFunc("GET /api/grades", func(w http.ResponseWriter, r *http.Request) {
		if cs.failVersion {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(question.GradesConfig{
			Version:     cs.version,
			TotalGrades: 1,
			Grades:      []question.GradeInfo{{GradeID: 1, Name: "Grade 1"}},
		})
	})

	cs.Server = httptest.NewServer(mux)
	return cs
}

func newSynchronizer(kv store.KV, baseURL string) *content.Synchronizer {
	return content.NewSynchronizer(kv, content.NewHTTPClient(), baseURL, testLogger)
}

func TestSyncGlobal_FreshDownload(t *testing.T) {
	srv := newContentServer("v1")
	defer srv.Close()

	kv := store.NewMemory()
	res := newSynchronizer(kv, srv.URL).SyncGlobal(context.Background())

	if res.Source != content.SourceFresh {
		t.Errorf("Source = %q, want fresh", res.Source)
	}
	if res.Bundle.Version != "v1" || len(res.Bundle.Questions) != 2 {
		t.Errorf("bundle = %+v", res.Bundle)
	}

	// Bundle and version must both be cached.
	var cached question.Bundle
	if err := kv.Get("questions_cache", &cached); err != nil {
		t.Fatalf("bundle not cached: %v", err)
	}
	var version string
	if err := kv.Get("questions_version", &version); err != nil || version != "v1" {
		t.Fatalf("version not cached: %q, %v", version, err)
	}
}

func TestSyncGlobal_VersionMatchSkipsDownload(t *testing.T) {
	srv := newContentServer("v1")
	defer srv.Close()

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)

	sync.SyncGlobal(context.Background())
	if got := srv.contentCalls.Load(); got != 1 {
		t.Fatalf("content calls after first sync = %d, want 1", got)
	}

	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceCache {
		t.Errorf("Source = %q, want cache", res.Source)
	}
	if got := srv.contentCalls.Load(); got != 1 {
		t.Errorf("content calls after version match = %d, want still 1", got)
	}
	if res.Bundle.Version != "v1" || len(res.Bundle.Questions) != 2 {
		t.Errorf("cached bundle = %+v", res.Bundle)
	}
}

func TestSyncGlobal_VersionBumpRedownloads(t *testing.T) {
	srv := newContentServer("v1")
	defer srv.Close()

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	sync.SyncGlobal(context.Background())

	srv.version = "v2"
	srv.bundle = testBundle("v2")

	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceFresh {
		t.Errorf("Source = %q, want fresh after version bump", res.Source)
	}
	if res.Bundle.Version != "v2" {
		t.Errorf("Version = %q, want v2", res.Bundle.Version)
	}
}

func TestSyncGlobal_ServerDownFallsBackToCache(t *testing.T) {
	srv := newContentServer("v1")

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	sync.SyncGlobal(context.Background())

	srv.Close() // connection refused from here on

	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceCache {
		t.Errorf("Source = %q, want cache when server is down", res.Source)
	}
	if res.Bundle.Version != "v1" {
		t.Errorf("Version = %q, want cached v1", res.Bundle.Version)
	}
}

func TestSyncGlobal_NoServerNoCacheUsesBackup(t *testing.T) {
	srv := newContentServer("v1")
	srv.Close()

	res := newSynchronizer(store.NewMemory(), srv.URL).SyncGlobal(context.Background())

	if res.Source != content.SourceBackup {
		t.Fatalf("Source = %q, want backup", res.Source)
	}
	if len(res.Bundle.Questions) != 3 {
		t.Errorf("backup has %d questions, want 3", len(res.Bundle.Questions))
	}
	if res.Bundle.Version != "backup" {
		t.Errorf("Version = %q, want backup", res.Bundle.Version)
	}
	for _, q := range res.Bundle.Questions {
		if err := q.Validate(); err != nil {
			t.Errorf("backup question invalid: %v", err)
		}
	}
}

func TestSyncGlobal_ContentFetchFailsFallsBackToBackup(t *testing.T) {
	// Version check succeeds but the content endpoint errors, and there is
	// no cache: the chain must still resolve, to the backup dataset.
	srv := newContentServer("v1")
	defer srv.Close()
	srv.failQuestions = true

	res := newSynchronizer(store.NewMemory(), srv.URL).SyncGlobal(context.Background())
	if res.Source != content.SourceBackup {
		t.Errorf("Source = %q, want backup", res.Source)
	}
}

func TestSyncGlobal_CorruptCacheFoldsToBackup(t *testing.T) {
	srv := newContentServer("v1")

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	sync.SyncGlobal(context.Background())

	kv.Corrupt("questions_cache")
	srv.Close()

	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceBackup {
		t.Errorf("Source = %q, want backup when cache is corrupt", res.Source)
	}
}

func TestSyncGlobal_PartialWriteSelfHeals(t *testing.T) {
	// Content cached but the version marker lost: the next sync must see a
	// mismatch and refetch rather than serve a bundle of unknown vintage.
	srv := newContentServer("v1")
	defer srv.Close()

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	sync.SyncGlobal(context.Background())

	if err := kv.Delete("questions_version"); err != nil {
		t.Fatal(err)
	}

	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceFresh {
		t.Errorf("Source = %q, want fresh refetch after partial write", res.Source)
	}
	var version string
	if err := kv.Get("questions_version", &version); err != nil || version != "v1" {
		t.Errorf("version marker not restored: %q, %v", version, err)
	}
}

func TestSyncGrade_FreshThenCached(t *testing.T) {
	srv := newContentServer("v1")
	defer srv.Close()

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)

	res, err := sync.SyncGrade(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncGrade: %v", err)
	}
	if res.Source != content.SourceFresh || res.Grade.GradeID != 1 {
		t.Errorf("first sync = %+v", res)
	}

	res, err = sync.SyncGrade(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncGrade: %v", err)
	}
	if res.Source != content.SourceCache {
		t.Errorf("Source = %q, want cache on version match", res.Source)
	}
	if got := srv.contentCalls.Load(); got != 1 {
		t.Errorf("content calls = %d, want 1", got)
	}
}

func TestSyncGrade_ServerDownFallsBackToCache(t *testing.T) {
	srv := newContentServer("v1")

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	if _, err := sync.SyncGrade(context.Background(), 1); err != nil {
		t.Fatalf("SyncGrade: %v", err)
	}

	srv.Close()

	res, err := sync.SyncGrade(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncGrade after server down: %v", err)
	}
	if res.Source != content.SourceCache {
		t.Errorf("Source = %q, want cache", res.Source)
	}
}

func TestSyncGrade_NoServerNoCacheFails(t *testing.T) {
	srv := newContentServer("v1")
	srv.Close()

	_, err := newSynchronizer(store.NewMemory(), srv.URL).SyncGrade(context.Background(), 1)
	if !errors.Is(err, content.ErrUnavailable) {
		t.Errorf("SyncGrade = %v, want ErrUnavailable", err)
	}
}

func TestSyncGrade_UnknownGradeFails(t *testing.T) {
	srv := newContentServer("v1")
	defer srv.Close()

	_, err := newSynchronizer(store.NewMemory(), srv.URL).SyncGrade(context.Background(), 42)
	if !errors.Is(err, content.ErrUnavailable) {
		t.Errorf("SyncGrade(42) = %v, want ErrUnavailable", err)
	}
}

func TestGradesConfig_CachesForOffline(t *testing.T) {
	srv := newContentServer("v1")

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)

	cfg, err := sync.GradesConfig(context.Background())
	if err != nil {
		t.Fatalf("GradesConfig: %v", err)
	}
	if cfg.TotalGrades != 1 {
		t.Errorf("TotalGrades = %d, want 1", cfg.TotalGrades)
	}

	srv.Close()

	cfg, err = sync.GradesConfig(context.Background())
	if err != nil {
		t.Fatalf("GradesConfig offline: %v", err)
	}
	if len(cfg.Grades) != 1 {
		t.Errorf("offline grades = %v", cfg.Grades)
	}
}

func TestGradesConfig_NoServerNoCacheFails(t *testing.T) {
	srv := newContentServer("v1")
	srv.Close()

	_, err := newSynchronizer(store.NewMemory(), srv.URL).GradesConfig(context.Background())
	if !errors.Is(err, content.ErrUnavailable) {
		t.Errorf("GradesConfig = %v, want ErrUnavailable", err)
	}
}

func TestClearCache(t *testing.T) {
	srv := newContentServer("v1")

	kv := store.NewMemory()
	sync := newSynchronizer(kv, srv.URL)
	sync.SyncGlobal(context.Background())
	srv.Close()

	if err := sync.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}

	// With the cache gone and the server down, only the backup remains.
	res := sync.SyncGlobal(context.Background())
	if res.Source != content.SourceBackup {
		t.Errorf("Source after ClearCache = %q, want backup", res.Source)
	}
}
