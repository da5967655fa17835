package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Dataset errors
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrEmptyDataset      = errors.New("dataset has no header row")
	ErrMissingColumns    = errors.New("missing required columns")
	ErrInvalidQuantity   = errors.New("invalid quantity value")

	// Upload errors
	ErrInvalidFilename = errors.New("invalid filename")
	ErrUploadTooLarge  = errors.New("upload exceeds size limit")
)
