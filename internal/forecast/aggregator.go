// Package forecast answers average-quantity queries over a loaded sales table.
package forecast

import (
	"math"
	"strconv"
	"strings"

	"salesforecast/domain/dataset"
	"salesforecast/domain/forecast"

	"github.com/montanaflynn/stats"
)

// Aggregate checks the schema, selects rows whose Product and Region equal
// the query exactly, and averages their Quantity.
//
// Blank Quantity cells are treated as missing and skipped. Any other value
// that is not a finite number stops the aggregation with a quantity error.
func Aggregate(table *dataset.Table, q forecast.Query) forecast.Result {
	if missing := table.MissingColumns(dataset.RequiredColumns); len(missing) > 0 {
		return forecast.SchemaError(q, missing)
	}

	quantities := make(stats.Float64Data, 0)
	matched := 0
	for i, row := range table.Rows {
		if row[dataset.ColumnProduct] != q.Product || row[dataset.ColumnRegion] != q.Region {
			continue
		}
		matched++

		raw := row[dataset.ColumnQuantity]
		value, ok, err := parseQuantity(raw)
		if err != nil {
			return forecast.QuantityError(q, i+1, raw)
		}
		if ok {
			quantities = append(quantities, value)
		}
	}

	if quantities.Len() == 0 {
		return forecast.NoMatch(q)
	}

	mean, err := quantities.Mean()
	if err != nil {
		return forecast.NoMatch(q)
	}
	return forecast.Found(q, mean, matched)
}

// parseQuantity returns ok=false for a blank cell
func parseQuantity(raw string) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, strconv.ErrSyntax
	}
	return v, true, nil
}

// RoundAverage rounds an average to two decimals for display
func RoundAverage(average float64) float64 {
	rounded, err := stats.Round(average, 2)
	if err != nil {
		return average
	}
	return rounded
}
