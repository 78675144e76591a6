package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terrywang1985/english-practice/internal/catalog"
)

// Server is the contentd HTTP server: five read-only JSON endpoints over a
// file-backed catalog.
type Server struct {
	router  *chi.Mux
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewServer wires the routes over the given catalog.
func NewServer(cat *catalog.Catalog, logger *slog.Logger) *Server {
	s := &Server{
		catalog: cat,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// The client may be served from any origin during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleGlobalVersion)
		r.Get("/questions", s.handleGlobalQuestions)
		r.Get("/grades", s.handleGrades)
		r.Get("/version/grade/{id}", s.handleGradeVersion)
		r.Get("/questions/grade/{id}", s.handleGradeQuestions)
	})

	// Data files are edited by hand during authoring; a reload endpoint
	// beats restarting the server.
	r.Post("/admin/reload", s.handleReload)

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
