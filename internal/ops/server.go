// Package ops serves the operational endpoints (health, metrics, pprof) on a
// port separate from the public API.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"salesforecast/internal"
	"salesforecast/internal/config"
	"salesforecast/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the chi based ops HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      ports.DatasetStore
	logger     *internal.Logger
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Dataset bool   `json:"dataset"`
	Error   string `json:"error,omitempty"`
}

// NewServer builds the ops router; metrics may be nil to leave /metrics unmounted
func NewServer(cfg config.OpsConfig, store ports.DatasetStore, metrics http.Handler, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		store:  store,
		logger: logger.WithComponent("Ops"),
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	if metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics)
	}
	if cfg.PprofEnabled {
		s.router.Mount("/debug", middleware.Profiler())
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops; a graceful shutdown is not an error
func (s *Server) ListenAndServe() error {
	s.logger.Info("ops server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK

	exists, err := s.store.Exists(r.Context(), s.store.DatasetPath())
	if err != nil {
		s.logger.Warn("health check could not stat dataset: %v", err)
		resp.Status = "degraded"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	resp.Dataset = exists

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to write health response: %v", err)
	}
}
