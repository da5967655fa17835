package forecast

import (
	"fmt"
	"strings"

	"salesforecast/domain/dataset"
)

// Status classifies the outcome of a forecast query
type Status string

const (
	StatusFound         Status = "found"
	StatusNoMatch       Status = "no_match"
	StatusSchemaError   Status = "schema_error"
	StatusLoadError     Status = "load_error"
	StatusQuantityError Status = "quantity_error"
)

// Query filters dataset rows by exact product and region equality
type Query struct {
	Product string `json:"product"`
	Region  string `json:"region"`
}

// Result is the outcome of aggregating one query over one table.
// Only the fields relevant to Status are populated.
type Result struct {
	Status Status `json:"status"`
	Query  Query  `json:"query"`

	// StatusFound
	Average     float64 `json:"average,omitempty"`
	MatchedRows int     `json:"matched_rows,omitempty"`

	// StatusSchemaError
	Missing []string `json:"missing,omitempty"`

	// StatusLoadError
	Detail string `json:"detail,omitempty"`

	// StatusQuantityError, 1-based data row number and offending cell
	Row   int    `json:"row,omitempty"`
	Value string `json:"value,omitempty"`
}

// Found builds a successful result
func Found(q Query, average float64, matched int) Result {
	return Result{Status: StatusFound, Query: q, Average: average, MatchedRows: matched}
}

// NoMatch builds a result for a query that selected no rows
func NoMatch(q Query) Result {
	return Result{Status: StatusNoMatch, Query: q}
}

// SchemaError builds a result for a table lacking required columns
func SchemaError(q Query, missing []string) Result {
	return Result{Status: StatusSchemaError, Query: q, Missing: missing}
}

// LoadError builds a result for a dataset that could not be read
func LoadError(q Query, detail string) Result {
	return Result{Status: StatusLoadError, Query: q, Detail: detail}
}

// QuantityError builds a result for a non-numeric Quantity cell
func QuantityError(q Query, row int, value string) Result {
	return Result{Status: StatusQuantityError, Query: q, Row: row, Value: value}
}

// IsError reports whether the result is a failure rather than an answer
func (r Result) IsError() bool {
	switch r.Status {
	case StatusFound, StatusNoMatch:
		return false
	default:
		return true
	}
}

// Message renders the user-facing sentence for the result
func (r Result) Message() string {
	switch r.Status {
	case StatusFound:
		return fmt.Sprintf("Estimated average sales for %s in %s is %.2f units.", r.Query.Product, r.Query.Region, r.Average)
	case StatusNoMatch:
		return fmt.Sprintf("No data found for product '%s' in region '%s'.", r.Query.Product, r.Query.Region)
	case StatusSchemaError:
		return fmt.Sprintf("Missing columns in dataset. Required: %s", FormatColumnSet(dataset.RequiredColumns))
	case StatusLoadError:
		return fmt.Sprintf("Could not load dataset: %s", r.Detail)
	case StatusQuantityError:
		return fmt.Sprintf("Invalid quantity value %q in row %d", r.Value, r.Row)
	default:
		return fmt.Sprintf("unknown forecast status %q", r.Status)
	}
}

// FormatColumnSet renders column names as a brace-delimited set
func FormatColumnSet(columns []string) string {
	return "{" + strings.Join(columns, ", ") + "}"
}
