package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terrywang1985/english-practice/internal/domain/question"
)

// respondJSON writes a JSON response with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/version
func (s *Server) handleGlobalVersion(w http.ResponseWriter, r *http.Request) {
	bundle := s.catalog.Bundle()
	if bundle == nil {
		s.respondError(w, http.StatusNotFound, "no global question bank configured")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"version": bundle.Version})
}

// GET /api/questions
func (s *Server) handleGlobalQuestions(w http.ResponseWriter, r *http.Request) {
	bundle := s.catalog.Bundle()
	if bundle == nil {
		s.respondError(w, http.StatusNotFound, "no global question bank configured")
		return
	}
	s.respondJSON(w, http.StatusOK, bundle)
}

// GET /api/grades
func (s *Server) handleGrades(w http.ResponseWriter, r *http.Request) {
	cfg := s.catalog.Config()
	if cfg == nil {
		s.respondError(w, http.StatusNotFound, "no grades configured")
		return
	}
	s.respondJSON(w, http.StatusOK, cfg)
}

// GET /api/version/grade/{id}
func (s *Server) handleGradeVersion(w http.ResponseWriter, r *http.Request) {
	grade, ok := s.gradeFromPath(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"gradeId": grade.GradeID,
		"version": grade.Version,
	})
}

// GET /api/questions/grade/{id}
func (s *Server) handleGradeQuestions(w http.ResponseWriter, r *http.Request) {
	grade, ok := s.gradeFromPath(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, grade)
}

// POST /admin/reload
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reload(); err != nil {
		s.logger.Error("catalog reload failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// gradeFromPath resolves the {id} route parameter to a known grade,
// writing the error response itself when it cannot.
func (s *Server) gradeFromPath(w http.ResponseWriter, r *http.Request) (grade *question.Grade, ok bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		s.respondError(w, http.StatusBadRequest, "invalid grade id")
		return nil, false
	}

	grade = s.catalog.Grade(id)
	if grade == nil {
		s.respondError(w, http.StatusNotFound, "grade not found")
		return nil, false
	}
	return grade, true
}
