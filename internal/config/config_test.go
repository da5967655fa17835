package config

import (
	"path/filepath"
	"testing"
	"time"

	"salesforecast/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "GIN_MODE", "SHUTDOWN_TIMEOUT", "UPLOAD_DIR", "DATASET_FILE", "MAX_UPLOAD_MB", "ALLOWED_EXTENSIONS", "OPS_PORT", "PPROF_ENABLED", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join("uploads", "sales_data.csv"), cfg.Storage.DatasetPath())
	assert.Equal(t, int64(16<<20), cfg.Storage.MaxUploadBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("UPLOAD_DIR", "/tmp/data")
	t.Setenv("DATASET_FILE", "sales.xlsx")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("ALLOWED_EXTENSIONS", "csv, .XLSX")
	t.Setenv("OPS_PORT", "7070")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/tmp/data/sales.xlsx", cfg.Storage.DatasetPath())
	assert.Equal(t, int64(2<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, []string{".csv", ".xlsx"}, cfg.Storage.AllowedExtensions)
	assert.True(t, cfg.Ops.PprofEnabled)
	assert.Equal(t, "7070", cfg.Ops.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"unknown gin mode", map[string]string{"GIN_MODE": "verbose"}},
		{"dataset with directory", map[string]string{"DATASET_FILE": "../sales.csv"}},
		{"dataset extension not allowed", map[string]string{"DATASET_FILE": "sales.json"}},
		{"negative upload size", map[string]string{"MAX_UPLOAD_MB": "-1"}},
		{"upload size above cap", map[string]string{"MAX_UPLOAD_MB": "1025"}},
		{"upload size that would wrap", map[string]string{"MAX_UPLOAD_MB": "17592186044417"}},
		{"ops port clash", map[string]string{"OPS_PORT": "8080"}},
		{"non numeric ops port", map[string]string{"OPS_PORT": "ops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadAcceptsUploadCap(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(MaxUploadMB)<<20, cfg.Storage.MaxUploadBytes)
}
