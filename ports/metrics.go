package ports

import "time"

// ForecastRecorder receives one observation per forecast and upload
type ForecastRecorder interface {
	ObserveForecast(status string, duration time.Duration)
	ObserveUpload(outcome string, bytes int64)
}

// NopRecorder discards all observations
type NopRecorder struct{}

func (NopRecorder) ObserveForecast(string, time.Duration) {}
func (NopRecorder) ObserveUpload(string, int64) {}
