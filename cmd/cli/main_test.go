package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"salesforecast/domain/core"
	"salesforecast/internal/errors"
	"salesforecast/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuery(t *testing.T) {
	path := testkit.WriteCSV(t, t.TempDir(), "sales.csv", testkit.SalesHeader, testkit.RiceNorth()...)

	out, err := execute(t, "query", "--file", path, "--product", "Rice", "--region", "North")
	require.NoError(t, err)
	assert.Equal(t, "Estimated average sales for Rice in North is 15.00 units.\n", out)

	out, err = execute(t, "query", "--file", path, "--product", "Tea", "--region", "North")
	require.NoError(t, err)
	assert.Equal(t, "No data found for product 'Tea' in region 'North'.\n", out)
}

func TestQuery_JSON(t *testing.T) {
	path := testkit.WriteCSV(t, t.TempDir(), "sales.csv", testkit.SalesHeader,
		[]string{"Rice", "North", "1"},
		[]string{"Rice", "North", "2"},
		[]string{"Rice", "North", "2"},
	)

	out, err := execute(t, "query", "--file", path, "--product", "Rice", "--region", "North", "--json")
	require.NoError(t, err)

	var got queryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "found", string(got.Status))
	require.NotNil(t, got.Average)
	assert.Equal(t, 1.67, *got.Average)
	assert.Equal(t, 3, got.MatchedRows)
}

func TestQuery_Failures(t *testing.T) {
	dir := t.TempDir()
	schemaless := testkit.WriteCSV(t, dir, "bad.csv", []string{"Item", "Qty"}, []string{"Rice", "1"})

	out, err := execute(t, "query", "--file", schemaless, "--product", "Rice", "--region", "North")
	require.ErrorIs(t, err, core.ErrMissingColumns)
	assert.Equal(t, errors.CodeSchemaError, errors.GetCode(err))
	assert.Equal(t, "Missing columns in dataset. Required: {Product, Region, Quantity}\n", out)

	out, err = execute(t, "query", "--file", filepath.Join(dir, "absent.csv"), "--product", "Rice", "--region", "North")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.Contains(t, out, "Could not load dataset: ")
	assert.NotContains(t, out, "could not load dataset")

	_, err = execute(t, "query", "--file", schemaless, "--product", "Rice")
	assert.Error(t, err, "region is required")
}

func TestDescribe(t *testing.T) {
	path := testkit.WriteXLSX(t, t.TempDir(), "sales.xlsx",
		[]string{"product", "region", "quantity"},
		[]string{"Rice", "North", "10"},
	)

	out, err := execute(t, "describe", "--file", path)
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "xlsx", summary["format"])
	assert.Equal(t, float64(1), summary["row_count"])
	assert.Equal(t, []any{"Product", "Region", "Quantity"}, summary["columns"])
}
