package dataset

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Column names the forecast queries depend on, in normalized form
const (
	ColumnProduct  = "Product"
	ColumnRegion   = "Region"
	ColumnQuantity = "Quantity"
)

// RequiredColumns lists the columns every dataset must carry after normalization
var RequiredColumns = []string{ColumnProduct, ColumnRegion, ColumnQuantity}

// Format identifies the on-disk encoding of a dataset file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Row maps a normalized column name to its raw cell value
type Row map[string]string

// Table is an ordered set of rows sharing the same ordered column names
type Table struct {
	Source  string   `json:"source"`
	Format  Format   `json:"format"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"-"`

	// Collisions lists normalized names produced by more than one raw header.
	// The right-most raw column supplies the values for such a name.
	Collisions []string `json:"collisions,omitempty"`
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether a normalized column is present
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the table, sorted
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// NormalizeColumn trims surrounding whitespace and capitalizes the label:
// first character upper case, the rest lower case ("  pRODUCT " -> "Product").
func NormalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}

// NormalizeHeader maps raw header labels to normalized column names.
// It returns the ordered unique names, the position each raw header writes
// to, and the normalized names that collided.
func NormalizeHeader(raw []string) (columns []string, targets []int, collisions []string) {
	index := make(map[string]int, len(raw))
	seen := make(map[string]bool)
	targets = make([]int, len(raw))

	for i, label := range raw {
		name := NormalizeColumn(label)
		if pos, ok := index[name]; ok {
			targets[i] = pos
			if !seen[name] {
				collisions = append(collisions, name)
				seen[name] = true
			}
			continue
		}
		index[name] = len(columns)
		targets[i] = len(columns)
		columns = append(columns, name)
	}
	return columns, targets, collisions
}

// StoredFile describes an uploaded file written to dataset storage
type StoredFile struct {
	Name   string `json:"filename"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Active bool   `json:"active"`
}

// Summary describes the active dataset without its rows
type Summary struct {
	Path            string   `json:"path"`
	Format          Format   `json:"format"`
	Columns         []string `json:"columns"`
	RowCount        int      `json:"row_count"`
	Collisions      []string `json:"collisions,omitempty"`
	MissingRequired []string `json:"missing_required,omitempty"`
}

// Summarize builds a Summary of the table
func (t *Table) Summarize() *Summary {
	return &Summary{
		Path:            t.Source,
		Format:          t.Format,
		Columns:         t.Columns,
		RowCount:        t.Len(),
		Collisions:      t.Collisions,
		MissingRequired: t.MissingColumns(RequiredColumns),
	}
}
