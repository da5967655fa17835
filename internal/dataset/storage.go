package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"salesforecast/domain/core"
	"salesforecast/domain/dataset"
	"salesforecast/internal"
	"salesforecast/internal/config"
	"salesforecast/internal/errors"
)

// LocalStorage keeps uploaded datasets in a directory on the local filesystem
type LocalStorage struct {
	config config.StorageConfig
	logger *internal.Logger
}

// NewLocalStorage creates a storage handle; call Init before serving uploads
func NewLocalStorage(cfg config.StorageConfig, logger *internal.Logger) *LocalStorage {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &LocalStorage{config: cfg, logger: logger.WithComponent("Storage")}
}

// Init creates the upload directory if it doesn't exist
func (s *LocalStorage) Init() error {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return errors.StorageError("failed to create upload directory", err)
	}
	return nil
}

// DatasetPath returns the path of the dataset forecasts are computed from
func (s *LocalStorage) DatasetPath() string {
	return s.config.DatasetPath()
}

// MaxUploadBytes returns the configured upload size limit
func (s *LocalStorage) MaxUploadBytes() int64 {
	return s.config.MaxUploadBytes
}

// AllowedExtension reports whether filename carries one of the configured extensions
func (s *LocalStorage) AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range s.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Save sanitizes filename, checks its extension and copies src into the
// upload directory, replacing any file of the same name. The previous file
// is left untouched unless the new upload is accepted.
func (s *LocalStorage) Save(ctx context.Context, filename string, src io.Reader) (*dataset.StoredFile, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if !s.AllowedExtension(name) {
		return nil, errors.InvalidInput(fmt.Sprintf("file type %q is not allowed (allowed: %s)",
			filepath.Ext(name), strings.Join(s.config.AllowedExtensions, ", ")))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.Init(); err != nil {
		return nil, err
	}

	filePath := filepath.Join(s.config.UploadDir, name)

	// Stage in the upload directory so a rejected upload never touches the
	// existing file and the final rename stays on one filesystem
	tmp, err := os.CreateTemp(s.config.UploadDir, "."+name+".*.part")
	if err != nil {
		return nil, errors.StorageError("failed to create staging file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	// One extra byte tells an exact-limit upload apart from an oversized one
	written, err := io.Copy(tmp, io.LimitReader(src, s.config.MaxUploadBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errors.StorageError("failed to copy file contents", err)
	}
	if written > s.config.MaxUploadBytes {
		return nil, errors.PayloadTooLarge(fmt.Sprintf("%v: limit is %d bytes", core.ErrUploadTooLarge, s.config.MaxUploadBytes))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return nil, errors.StorageError("failed to set file permissions", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return nil, errors.StorageError("failed to replace destination file", err)
	}
	committed = true

	stored := &dataset.StoredFile{
		Name:   name,
		Path:   filePath,
		Size:   written,
		Active: filePath == s.DatasetPath(),
	}
	s.logger.Info("stored %s (%d bytes, active=%t)", stored.Path, stored.Size, stored.Active)
	return stored, nil
}

// Exists checks if a file exists in storage
func (s *LocalStorage) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.StorageError("failed to check file existence", err)
	}
	return true, nil
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	filenameSeparators  = regexp.MustCompile(`[\s/\\]+`)
)

// SanitizeFilename reduces a client supplied name to a safe base name:
// path separators and whitespace become underscores, other characters outside
// [A-Za-z0-9_.-] are dropped, and leading/trailing dots and underscores are
// stripped ("../../etc/my sales.csv" -> "etc_my_sales.csv").
func SanitizeFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	name = filenameSeparators.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidFilename, filename)
	}
	return name, nil
}
