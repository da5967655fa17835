package salesgen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Dataset is a synthetic sales ledger: one row per (date, product, region).
//
// Columns: Date, Product, Region, Quantity, Unit_price
type Dataset struct {
	Headers []string
	Rows    [][]string // already formatted strings

	// Quantities mirrors the Quantity column for tests
	Quantities []float64
}

type Config struct {
	Days      int
	Seed      int64
	StartDate time.Time
	Products  []string
	Regions   []string

	// Mean units sold per product per day before regional and weekend effects
	BaseQuantity float64
	// Multiplier applied on Saturdays and Sundays
	WeekendUplift float64
}

func DefaultConfig() Config {
	return Config{
		Days:          90,
		Seed:          42,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Products:      []string{"Rice", "Wheat", "Maize", "Sugar", "Tea"},
		Regions:       []string{"North", "South", "East", "West"},
		BaseQuantity:  40,
		WeekendUplift: 1.3,
	}
}

func Generate(cfg Config) (*Dataset, error) {
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("days must be > 0")
	}
	if len(cfg.Products) == 0 || len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("at least one product and one region are required")
	}
	if cfg.BaseQuantity <= 0 {
		return nil, fmt.Errorf("base quantity must be > 0")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Fixed per-product demand and price, per-region scale
	productScale := make([]float64, len(cfg.Products))
	productPrice := make([]float64, len(cfg.Products))
	for i := range cfg.Products {
		productScale[i] = 0.5 + rng.Float64()
		productPrice[i] = 1 + rng.Float64()*9
	}
	regionScale := make([]float64, len(cfg.Regions))
	for i := range cfg.Regions {
		regionScale[i] = 0.7 + rng.Float64()*0.6
	}

	headers := []string{"Date", "Product", "Region", "Quantity", "Unit_price"}
	total := cfg.Days * len(cfg.Products) * len(cfg.Regions)
	rows := make([][]string, 0, total)
	quantities := make([]float64, 0, total)

	for d := 0; d < cfg.Days; d++ {
		date := cfg.StartDate.AddDate(0, 0, d)
		uplift := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			uplift = cfg.WeekendUplift
		}
		for p, product := range cfg.Products {
			for r, region := range cfg.Regions {
				mean := cfg.BaseQuantity * productScale[p] * regionScale[r] * uplift
				qty := math.Max(0, math.Round(mean+rng.NormFloat64()*mean*0.15))
				quantities = append(quantities, qty)
				rows = append(rows, []string{
					date.Format("2006-01-02"),
					product,
					region,
					strconv.FormatFloat(qty, 'f', 0, 64),
					fToStr(productPrice[p], 2),
				})
			}
		}
	}

	return &Dataset{Headers: headers, Rows: rows, Quantities: quantities}, nil
}

// Write saves the dataset as CSV or XLSX depending on the path extension
func Write(path string, ds *Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, ds)
	case ".xlsx":
		return WriteXLSX(path, ds)
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return err
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with Sheet1
	sheet := "Sheet1"

	if err := f.SetSheetRow(sheet, "A1", &ds.Headers); err != nil {
		return err
	}
	for r, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
