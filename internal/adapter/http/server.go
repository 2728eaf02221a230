package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/incident-feed-service/internal/aggregate"
	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// IncidentService is the query facade surface the API exposes. The
// rendering layer talks to these endpoints only; it never reaches the
// cache or the fetchers.
type IncidentService interface {
	FetchAll(ctx context.Context, force bool) aggregate.Result
	IncidentsByState(ctx context.Context, code string) []domain.Incident
	SourceStatus() aggregate.StatusReport
	CheckReadiness(ctx context.Context) error
}

// Server exposes the incident API plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	svc        IncidentService
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, svc IncidentService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/incidents", s.handleIncidents)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleIncidents serves the merged snapshot. ?state=NC filters by state,
// ?refresh=1 forces a refetch past the freshness window.
func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "1"

	if state := r.URL.Query().Get("state"); state != "" {
		if !domain.ValidStateCode(state) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown state code"})
			return
		}
		if force {
			s.svc.FetchAll(r.Context(), true)
		}
		incidents := s.svc.IncidentsByState(r.Context(), state)
		writeJSON(w, http.StatusOK, map[string]any{
			"incidents": incidents,
			"count":     len(incidents),
		})
		return
	}

	res := s.svc.FetchAll(r.Context(), force)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res := s.svc.FetchAll(r.Context(), false)
	if res.Stats == nil {
		writeJSON(w, http.StatusOK, map[string]any{"stats": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": res.Stats})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.SourceStatus())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
