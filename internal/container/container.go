package container

import (
	"context"
	"fmt"
	"time"

	"salesforecast/api"
	"salesforecast/internal"
	"salesforecast/internal/config"
	"salesforecast/internal/dataset"
	"salesforecast/internal/forecast"
	"salesforecast/internal/metrics"
	"salesforecast/internal/ops"

	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Storage *dataset.LocalStorage
	Loader  *dataset.Loader
	Metrics *metrics.Metrics

	// Services
	Forecast *forecast.Service

	// Servers
	API *api.Server
	Ops *ops.Server
}

// New creates the dependency container and prepares the upload directory
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, ok := internal.ParseLogLevel(cfg.LogLevel)
	logger := internal.NewLogger(level)
	if !ok {
		logger.Warn("unknown LOG_LEVEL %q, using %s", cfg.LogLevel, level)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initStorage(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initServers()

	return c, nil
}

func (c *Container) initStorage() error {
	c.Storage = dataset.NewLocalStorage(c.Config.Storage, c.Logger)
	if err := c.Storage.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Loader = dataset.NewLoader(c.Logger)
	return nil
}

func (c *Container) initServices() {
	c.Metrics = metrics.New()
	c.Forecast = forecast.NewService(c.Storage, c.Loader, c.Metrics, c.Logger)
}

func (c *Container) initServers() {
	c.API = api.NewServer(c.Config.Server, api.Dependencies{
		Forecaster: c.Forecast,
		Store:      c.Storage,
		Recorder:   c.Metrics,
		Instrument: c.Metrics.GinMiddleware(),
		Logger:     c.Logger,
	})
	c.Ops = ops.NewServer(c.Config.Ops, c.Storage, c.Metrics.Handler(), c.Logger)
}

// Run serves the API and ops servers until ctx is cancelled or either server
// fails, then shuts both down within the configured timeout
func (c *Container) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(c.API.ListenAndServe)
	g.Go(c.Ops.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
		defer cancel()
		return c.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown gracefully stops both servers
func (c *Container) Shutdown(ctx context.Context) error {
	start := time.Now()
	c.Logger.Info("shutting down servers")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.API.Shutdown(gctx) })
	g.Go(func() error { return c.Ops.Shutdown(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	c.Logger.Info("servers stopped in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
