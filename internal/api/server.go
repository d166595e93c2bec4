// Package api provides the Pulse HTTP server: session lifecycle,
// account progress, task CRUD and scoring previews over REST.
//
// The API trusts the caller-supplied account id (X-Pulse-Account header
// or request field) — authentication happens upstream of this core.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulse-labs/pulse/internal/app/session"
	"github.com/pulse-labs/pulse/internal/domain"
	"github.com/pulse-labs/pulse/internal/health"
	"github.com/pulse-labs/pulse/internal/infra/sqlite"
)

// Version is reported by /api/version; overridden at build time.
var Version = "dev"

// Server is the Pulse HTTP API server.
type Server struct {
	db             *sqlite.DB
	sessions       *session.Service
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(db *sqlite.DB, sessions *session.Service) *Server {
	return &Server{db: db, sessions: sessions}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker sets the periodic health checker whose statuses are
// reported at /api/health/checks.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/accounts/{id}/progress", s.handleAccountProgress)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/complete", s.handleCompleteSession)

		r.Post("/tasks", s.handleCreateTask)
		r.Get("/tasks", s.handleListTasks)
		r.Get("/tasks/{id}", s.handleGetTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)

		r.Get("/scoring/preview", s.handleScoringPreview)
	})

	if s.checker != nil {
		r.Get("/api/health/checks", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.checker.Statuses())
		})
	}

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors to HTTP statuses:
// validation → 400, not-found → 404, already-completed → 409.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidEstimate),
		errors.Is(err, domain.ErrEmptyTitle):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrAccountExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Pulse-Account")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accountID resolves the trusted caller identity: the X-Pulse-Account
// header, falling back to the given request-body value.
func accountID(r *http.Request, bodyValue string) string {
	if h := r.Header.Get("X-Pulse-Account"); h != "" {
		return h
	}
	return bodyValue
}
