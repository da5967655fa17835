package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := LoadError(fmt.Errorf("open sales.csv: no such file or directory"))
	wrapped := Wrap(base, "forecast failed")

	assert.Equal(t, CodeLoadError, GetCode(wrapped))
	assert.Equal(t, "forecast failed: could not load dataset: open sales.csv: no such file or directory", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, "saving sales.csv")

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", InvalidInput("product is required"))

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestOutcomeErrorsKeepSentinel(t *testing.T) {
	missing := stderrors.New("missing required columns")
	err := SchemaError("Missing columns in dataset.", missing)

	assert.Equal(t, CodeSchemaError, GetCode(err))
	assert.ErrorIs(t, err, missing)

	err = QuantityError(`Invalid quantity value "x" in row 2`, nil)
	assert.Equal(t, CodeQuantityError, GetCode(err))
	assert.Equal(t, `Invalid quantity value "x" in row 2`, err.Error())
}
