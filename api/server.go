// Package api is the public JSON HTTP surface: dataset upload and forecast queries.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"salesforecast/api/middleware"
	"salesforecast/internal"
	"salesforecast/internal/config"
	"salesforecast/ports"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the handlers call into
type Dependencies struct {
	Forecaster ports.Forecaster
	Store      ports.DatasetStore
	Recorder   ports.ForecastRecorder
	// Instrument, when set, runs on every request after the request ID is assigned
	Instrument gin.HandlerFunc
	Logger     *internal.Logger
}

// Server represents the gin web server for the forecast API
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	forecaster ports.Forecaster
	store      ports.DatasetStore
	recorder   ports.ForecastRecorder
	logger     *internal.Logger
}

// NewServer creates the router with middleware and routes installed.
// gin's mode is process wide and is expected to be set by the caller.
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	if deps.Recorder == nil {
		deps.Recorder = ports.NopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = internal.DefaultLogger
	}

	s := &Server{
		router:     gin.New(),
		forecaster: deps.Forecaster,
		store:      deps.Store,
		recorder:   deps.Recorder,
		logger:     deps.Logger.WithComponent("API"),
	}

	s.setupMiddleware(deps.Instrument)
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(instrument gin.HandlerFunc) {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		return fmt.Sprintf("[GIN] %s | %3d | %13v | %15s | %-7s %q | id=%v\n",
			p.TimeStamp.Format("2006/01/02 - 15:04:05"),
			p.StatusCode, p.Latency, p.ClientIP, p.Method, p.Path,
			p.Keys["request_id"])
	}))
	if instrument != nil {
		s.router.Use(instrument)
	}
}

func (s *Server) setupRoutes() {
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/predict", s.handlePredict)
	s.router.GET("/dataset", s.handleDescribe)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops; a graceful shutdown is not an error
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting forecast API on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
