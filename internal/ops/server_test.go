package ops

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesforecast/domain/dataset"
	"salesforecast/internal/config"
	"salesforecast/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	exists bool
	err    error
}

func (s *stubStore) DatasetPath() string { return "uploads/sales_data.csv" }

func (s *stubStore) Exists(context.Context, string) (bool, error) { return s.exists, s.err }

func (s *stubStore) Save(context.Context, string, io.Reader) (*dataset.StoredFile, error) {
	return nil, stderrors.New("not supported")
}

func (s *stubStore) MaxUploadBytes() int64 { return 0 }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		store    *stubStore
		code     int
		expected HealthResponse
	}{
		{"dataset present", &stubStore{exists: true}, http.StatusOK, HealthResponse{Status: "ok", Dataset: true}},
		{"no dataset yet", &stubStore{}, http.StatusOK, HealthResponse{Status: "ok"}},
		{"storage failure", &stubStore{err: stderrors.New("permission denied")}, http.StatusServiceUnavailable,
			HealthResponse{Status: "degraded", Error: "permission denied"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(config.Default().Ops, tt.store, nil, nil)
			w := get(t, srv.Handler(), "/healthz")

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.ObserveUpload("stored", 2048)

	srv := NewServer(config.Default().Ops, &stubStore{}, m.Handler(), nil)
	w := get(t, srv.Handler(), "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `salesforecast_uploads_total{outcome="stored"} 1`)
}

func TestPprofIsOptIn(t *testing.T) {
	cfg := config.Default().Ops

	srv := NewServer(cfg, &stubStore{}, nil, nil)
	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/debug/pprof/").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/metrics").Code)

	cfg.PprofEnabled = true
	srv = NewServer(cfg, &stubStore{}, nil, nil)
	w := get(t, srv.Handler(), "/debug/pprof/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "goroutine"))
}
