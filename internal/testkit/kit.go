// Package testkit writes small sales datasets for tests.
package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"salesforecast/internal/salesgen"

	"github.com/stretchr/testify/require"
)

// SalesHeader is the canonical three-column header
var SalesHeader = []string{"Product", "Region", "Quantity"}

// WriteCSV writes header and rows to dir/name and returns the path
func WriteCSV(t testing.TB, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

// WriteRaw writes content verbatim, for malformed input cases
func WriteRaw(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteXLSX writes header and rows to the first sheet of dir/name
func WriteXLSX(t testing.TB, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, salesgen.WriteXLSX(path, &salesgen.Dataset{Headers: header, Rows: rows}))
	return path
}

// RiceNorth returns rows whose (Rice, North) average is 15
func RiceNorth() [][]string {
	return [][]string{
		{"Rice", "North", "10"},
		{"Rice", "North", "20"},
		{"Rice", "South", "100"},
		{"Wheat", "North", "7"},
	}
}
