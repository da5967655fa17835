package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesforecast/domain/core"
	"salesforecast/domain/dataset"
	"salesforecast/internal"
	"salesforecast/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// Loader reads CSV and Excel files into normalized tables
type Loader struct {
	logger *internal.Logger
}

// NewLoader creates a loader; a nil logger falls back to the default logger
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger.WithComponent("Loader")}
}

// FormatFor picks the dataset format from the file extension
func FormatFor(path string) (dataset.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataset.FormatCSV, nil
	case ".xlsx":
		return dataset.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the file at path into a Table with normalized column names.
// Every failure is returned as a LOAD_ERROR AppError carrying the cause.
func (l *Loader) Load(path string) (*dataset.Table, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, errors.LoadError(err)
	}

	start := time.Now()
	var records [][]string
	switch format {
	case dataset.FormatCSV:
		records, err = readCSV(path)
	case dataset.FormatXLSX:
		records, err = readXLSX(path)
	}
	if err != nil {
		return nil, errors.LoadError(err)
	}

	table, err := l.buildTable(path, format, records)
	if err != nil {
		return nil, errors.LoadError(err)
	}

	l.logger.Debug("%s loaded in %.2fms (%d columns, %d rows)",
		path, float64(time.Since(start).Nanoseconds())/1e6, len(table.Columns), table.Len())
	return table, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	// Row width is checked against the header in buildTable
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	return records, nil
}

// readXLSX reads every row of the workbook's first sheet
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	// excelize reports fully blank rows as empty slices
	records := rows[:0]
	for _, row := range rows {
		if len(row) > 0 {
			records = append(records, row)
		}
	}
	return records, nil
}

func (l *Loader) buildTable(path string, format dataset.Format, records [][]string) (*dataset.Table, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyDataset
	}

	header := make([]string, len(records[0]))
	for i, label := range records[0] {
		if i == 0 {
			label = strings.TrimPrefix(label, utf8BOM)
		}
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = label
	}

	columns, targets, collisions := dataset.NormalizeHeader(header)
	for _, name := range collisions {
		l.logger.Warn("%s: several columns normalize to %q, keeping the right-most one", path, name)
	}

	rows := make([]dataset.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) > len(header) {
			// +2: one for the header line, one for 1-based numbering
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(record))
		}
		if missing := len(header) - len(record); missing > 0 {
			l.logger.Trace("%s line %d: padding %d missing trailing fields", path, i+2, missing)
			record = append(record, make([]string, missing)...)
		}
		// Cells are written left to right, so a collision keeps the right-most column
		row := make(dataset.Row, len(columns))
		for j, cell := range record {
			row[columns[targets[j]]] = cell
		}
		rows = append(rows, row)
	}

	return &dataset.Table{
		Source:     path,
		Format:     format,
		Columns:    columns,
		Rows:       rows,
		Collisions: collisions,
	}, nil
}
