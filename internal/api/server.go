// Package api provides the local HTTP facade consumed by the AgriPath
// web UI. It exposes the gamification engine's operations over REST on
// localhost; the remote profile service stays behind the engine.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agripath-app/agripath/internal/app/auth"
	"github.com/agripath-app/agripath/internal/app/engine"
	"github.com/agripath-app/agripath/internal/infra/sqlite"
)

// Server is the local API server.
type Server struct {
	engine         *engine.Engine
	auth           *auth.Bridge
	db             *sqlite.DB
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(eng *engine.Engine, bridge *auth.Bridge, db *sqlite.DB) *Server {
	return &Server{engine: eng, auth: bridge, db: db}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile/points", s.handleAddPoints)
		r.Post("/profile/badge", s.handleAwardBadge)
		r.Post("/profile/name", s.handleSetName)
		r.Post("/checkin", s.handleCheckIn)
		r.Get("/streak", s.handleStreak)
		r.Get("/badges", s.handleBadges)
		r.Put("/simple-mode", s.handleSimpleMode)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/history", s.handleHistory)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Get("/me", s.handleMe)
			r.Post("/logout", s.handleLogout)
		})
	})

	// Prometheus metrics endpoint
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

// corsMiddleware adds CORS headers for the local web UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
