package ports

import (
	"context"
	"io"

	"salesforecast/domain/dataset"
	"salesforecast/domain/forecast"
)

// DatasetStore gives access to uploaded dataset files on durable storage
type DatasetStore interface {
	// DatasetPath is the file forecasts are computed from
	DatasetPath() string
	Exists(ctx context.Context, path string) (bool, error)
	Save(ctx context.Context, filename string, src io.Reader) (*dataset.StoredFile, error)
	MaxUploadBytes() int64
}

// TableLoader reads a dataset file into a normalized in-memory table
type TableLoader interface {
	Load(path string) (*dataset.Table, error)
}

// Forecaster answers forecast queries against the active dataset
type Forecaster interface {
	Forecast(ctx context.Context, q forecast.Query) forecast.Result
	Describe(ctx context.Context) (*dataset.Summary, error)
}
