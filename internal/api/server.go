// Package api provides the optional HTTP endpoint of a brew session.
// It exposes health, session status and Prometheus metrics; it never reads
// the interpreter's ledger directly.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tutu-network/brew/internal/infra/observability"
)

// Version is reported by /api/version.
const Version = "0.2.0"

// Server is the brew HTTP server.
type Server struct {
	metrics   *observability.Metrics
	sessionID string
	startedAt time.Time
}

// NewServer creates a server for one session.
func NewServer(metrics *observability.Metrics, sessionID string, startedAt time.Time) *Server {
	return &Server{metrics: metrics, sessionID: sessionID, startedAt: startedAt}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"version": Version,
			})
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "brewing",
		"session_id": s.sessionID,
		"started_at": s.startedAt.UTC().Format(time.RFC3339),
		"uptime_s":   int64(time.Since(s.startedAt).Seconds()),
	})
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
