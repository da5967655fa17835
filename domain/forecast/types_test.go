package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultMessage(t *testing.T) {
	q := Query{Product: "Rice", Region: "North"}

	tests := []struct {
		name     string
		result   Result
		expected string
		isError  bool
	}{
		{"found", Found(q, 15, 2), "Estimated average sales for Rice in North is 15.00 units.", false},
		{"found rounds for display", Found(q, 10.0/3.0, 3), "Estimated average sales for Rice in North is 3.33 units.", false},
		{"no match", NoMatch(q), "No data found for product 'Rice' in region 'North'.", false},
		{"schema", SchemaError(q, []string{"Quantity"}), "Missing columns in dataset. Required: {Product, Region, Quantity}", true},
		{"load", LoadError(q, "open uploads/sales_data.csv: no such file or directory"), "Could not load dataset: open uploads/sales_data.csv: no such file or directory", true},
		{"quantity", QuantityError(q, 4, "ten"), `Invalid quantity value "ten" in row 4`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Message())
			assert.Equal(t, tt.isError, tt.result.IsError())
		})
	}
}

func TestFoundKeepsUnroundedAverage(t *testing.T) {
	r := Found(Query{Product: "Tea", Region: "East"}, 10.0/3.0, 3)
	assert.InDelta(t, 3.3333333, r.Average, 1e-6)
}
