package forecast

import (
	"context"
	"time"

	"salesforecast/domain/core"
	"salesforecast/domain/dataset"
	"salesforecast/domain/forecast"
	"salesforecast/internal"
	"salesforecast/internal/errors"
	"salesforecast/ports"
)

// Service runs the load -> aggregate chain against the active dataset.
// The dataset is re-read from storage on every call.
type Service struct {
	store    ports.DatasetStore
	loader   ports.TableLoader
	recorder ports.ForecastRecorder
	logger   *internal.Logger
}

// NewService wires a forecast service; recorder and logger may be nil
func NewService(store ports.DatasetStore, loader ports.TableLoader, recorder ports.ForecastRecorder, logger *internal.Logger) *Service {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		store:    store,
		loader:   loader,
		recorder: recorder,
		logger:   logger.WithComponent("Forecast"),
	}
}

// Forecast answers q from the active dataset
func (s *Service) Forecast(ctx context.Context, q forecast.Query) forecast.Result {
	start := time.Now()
	result := s.forecast(ctx, q)
	s.recorder.ObserveForecast(string(result.Status), time.Since(start))

	if result.IsError() {
		s.logger.Warn("product=%q region=%q: %s", q.Product, q.Region, result.Message())
	} else {
		s.logger.Info("product=%q region=%q: %s (%d rows)", q.Product, q.Region, result.Status, result.MatchedRows)
	}
	return result
}

func (s *Service) forecast(ctx context.Context, q forecast.Query) forecast.Result {
	if err := ctx.Err(); err != nil {
		return forecast.LoadError(q, err.Error())
	}

	table, err := s.loader.Load(s.store.DatasetPath())
	if err != nil {
		return forecast.LoadError(q, LoadDetail(err))
	}
	return Aggregate(table, q)
}

// Describe loads the active dataset and summarizes its shape
func (s *Service) Describe(ctx context.Context) (*dataset.Summary, error) {
	path := s.store.DatasetPath()
	exists, err := s.store.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &errors.AppError{
			Code:    errors.CodeNotFound,
			Message: "no dataset has been uploaded",
			Cause:   core.ErrDatasetNotFound,
		}
	}

	table, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return table.Summarize(), nil
}
