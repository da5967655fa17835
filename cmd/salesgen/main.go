package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"salesforecast/internal/salesgen"
)

func main() {
	out := flag.String("out", "sales_data.csv", "output file path (.csv or .xlsx)")
	days := flag.Int("days", 90, "number of days to generate")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2025-01-01", "start date (YYYY-MM-DD)")
	products := flag.String("products", "", "comma separated product names (default built-in list)")
	regions := flag.String("regions", "", "comma separated region names (default built-in list)")
	flag.Parse()

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	cfg := salesgen.DefaultConfig()
	cfg.Days = *days
	cfg.Seed = *seed
	cfg.StartDate = startDate
	if list := splitList(*products); len(list) > 0 {
		cfg.Products = list
	}
	if list := splitList(*regions); len(list) > 0 {
		cfg.Regions = list
	}

	ds, err := salesgen.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(2)
	}

	if err := salesgen.Write(*out, ds); err != nil {
		fmt.Fprintln(os.Stderr, "error writing dataset:", err)
		os.Exit(1)
	}

	fmt.Printf("Sales dataset written: %s\n", *out)
	fmt.Printf("Columns: %d | Rows: %d\n", len(ds.Headers), len(ds.Rows))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
