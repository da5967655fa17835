package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salesforecast/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Ops      OpsConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// MaxUploadMB caps MAX_UPLOAD_MB; larger values are rejected rather than shifted into bytes
const MaxUploadMB = 1024

// StorageConfig holds the upload directory and the active dataset file
type StorageConfig struct {
	UploadDir         string
	DatasetFile       string
	MaxUploadBytes    int64
	AllowedExtensions []string
}

// DatasetPath returns the location of the dataset queried by /predict
func (s StorageConfig) DatasetPath() string {
	return filepath.Join(s.UploadDir, s.DatasetFile)
}

// OpsConfig holds the ops server (health, metrics, pprof) settings
type OpsConfig struct {
	Port         string
	PprofEnabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Storage:  *loadStorageConfig(),
		Ops:      *loadOpsConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			UploadDir:         "uploads",
			DatasetFile:       "sales_data.csv",
			MaxUploadBytes:    16 << 20,
			AllowedExtensions: []string{".csv", ".xlsx"},
		},
		Ops: OpsConfig{
			Port:         "6060",
			PprofEnabled: false,
		},
		LogLevel: "INFO",
	}
}

func loadServerConfig() *ServerConfig {
	defaults := Default().Server
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", defaults.Port),
		GinMode:         getEnvOrDefault("GIN_MODE", defaults.GinMode),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", defaults.ShutdownTimeout),
	}
}

func loadStorageConfig() *StorageConfig {
	defaults := Default().Storage
	return &StorageConfig{
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", defaults.UploadDir),
		DatasetFile:       getEnvOrDefault("DATASET_FILE", defaults.DatasetFile),
		MaxUploadBytes:    uploadLimitBytes(getEnvIntOrDefault("MAX_UPLOAD_MB", int(defaults.MaxUploadBytes>>20))),
		AllowedExtensions: getEnvListOrDefault("ALLOWED_EXTENSIONS", defaults.AllowedExtensions),
	}
}

func loadOpsConfig() *OpsConfig {
	defaults := Default().Ops
	return &OpsConfig{
		Port:         getEnvOrDefault("OPS_PORT", defaults.Port),
		PprofEnabled: getEnvBoolOrDefault("PPROF_ENABLED", defaults.PprofEnabled),
	}
}

// uploadLimitBytes converts megabytes to bytes; out of range values map to -1
// so validation rejects them instead of wrapping
func uploadLimitBytes(mb int) int64 {
	if mb <= 0 || mb > MaxUploadMB {
		return -1
	}
	return int64(mb) << 20
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + config.Server.Port)
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	if config.Storage.UploadDir == "" {
		return errors.ConfigInvalid("upload directory is required")
	}
	if config.Storage.DatasetFile == "" || filepath.Base(config.Storage.DatasetFile) != config.Storage.DatasetFile {
		return errors.ConfigInvalid("DATASET_FILE must be a bare file name")
	}
	if config.Storage.MaxUploadBytes <= 0 || config.Storage.MaxUploadBytes > MaxUploadMB<<20 {
		return errors.ConfigInvalid(fmt.Sprintf("MAX_UPLOAD_MB must be between 1 and %d", MaxUploadMB))
	}
	if len(config.Storage.AllowedExtensions) == 0 {
		return errors.ConfigInvalid("at least one allowed extension is required")
	}
	if !hasExtension(config.Storage.AllowedExtensions, filepath.Ext(config.Storage.DatasetFile)) {
		return errors.ConfigInvalid("DATASET_FILE extension is not in ALLOWED_EXTENSIONS")
	}
	if _, err := strconv.Atoi(config.Ops.Port); err != nil {
		return errors.ConfigInvalid("OPS_PORT must be numeric, got " + config.Ops.Port)
	}
	if config.Ops.Port == config.Server.Port {
		return errors.ConfigInvalid("OPS_PORT must differ from PORT")
	}
	return nil
}

func hasExtension(allowed []string, ext string) bool {
	ext = strings.ToLower(ext)
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault parses a comma separated list of extensions, adding the leading dot
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	return out
}
