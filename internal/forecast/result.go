package forecast

import (
	stderrors "errors"
	"fmt"
	"strings"

	"salesforecast/domain/core"
	"salesforecast/domain/forecast"
	"salesforecast/internal/errors"
)

// LoadDetail strips the generic "could not load dataset" prefix from a loader
// error so the response sentence doesn't repeat it
func LoadDetail(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Code == errors.CodeLoadError && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}

// ResultError converts a failed result into a coded AppError wrapping the
// matching domain sentinel. Found and NoMatch are answers, not errors, and give nil.
func ResultError(r forecast.Result) error {
	switch r.Status {
	case forecast.StatusFound, forecast.StatusNoMatch:
		return nil
	case forecast.StatusSchemaError:
		return errors.SchemaError(r.Message(),
			fmt.Errorf("%w: %s", core.ErrMissingColumns, strings.Join(r.Missing, ", ")))
	case forecast.StatusQuantityError:
		return errors.QuantityError(r.Message(), core.ErrInvalidQuantity)
	case forecast.StatusLoadError:
		return errors.LoadError(stderrors.New(r.Detail))
	default:
		return errors.New(errors.CodeInternalError, r.Message())
	}
}
