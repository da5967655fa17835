package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"salesforecast/domain/forecast"
	"salesforecast/internal"
	"salesforecast/internal/config"
	"salesforecast/internal/dataset"
	aggregate "salesforecast/internal/forecast"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string

	rootCmd := &cobra.Command{
		Use:           "forecast-cli",
		Short:         "Query sales datasets offline, without the HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&file, "file", config.Default().Storage.DatasetPath(), "Dataset file (.csv or .xlsx)")

	rootCmd.AddCommand(
		newQueryCmd(&file),
		newDescribeCmd(&file),
	)
	return rootCmd
}

// queryOutput is the --json shape of a query answer
type queryOutput struct {
	Status      forecast.Status `json:"status"`
	Product     string          `json:"product"`
	Region      string          `json:"region"`
	Average     *float64        `json:"average,omitempty"`
	MatchedRows int             `json:"matched_rows"`
	Missing     []string        `json:"missing,omitempty"`
	Message     string          `json:"message"`
}

func newQueryCmd(file *string) *cobra.Command {
	var product, region string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Average the Quantity of rows matching a product and region",
		Long: `Load the dataset, keep rows whose Product and Region equal the given values
exactly, and print the mean Quantity.

Example: forecast-cli query --file uploads/sales_data.csv --product Rice --region North`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := runQuery(*file, forecast.Query{Product: product, Region: region})
			if err := printQuery(cmd.OutOrStdout(), result, asJSON); err != nil {
				return err
			}
			if result.IsError() {
				return fmt.Errorf("query failed: %w", aggregate.ResultError(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product to match (exact, case sensitive)")
	cmd.Flags().StringVar(&region, "region", "", "Region to match (exact, case sensitive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func newDescribeCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the normalized columns and row count of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loader().Load(*file)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(table.Summarize())
		},
	}
}

// loader logs collisions as warnings but keeps load timings out of the output
func loader() *dataset.Loader {
	return dataset.NewLoader(internal.NewLogger(internal.LogLevelWarn))
}

func runQuery(file string, q forecast.Query) forecast.Result {
	table, err := loader().Load(file)
	if err != nil {
		return forecast.LoadError(q, aggregate.LoadDetail(err))
	}
	return aggregate.Aggregate(table, q)
}

func printQuery(w io.Writer, result forecast.Result, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, result.Message())
		return err
	}

	out := queryOutput{
		Status:      result.Status,
		Product:     result.Query.Product,
		Region:      result.Query.Region,
		MatchedRows: result.MatchedRows,
		Missing:     result.Missing,
		Message:     result.Message(),
	}
	if result.Status == forecast.StatusFound {
		avg := aggregate.RoundAverage(result.Average)
		out.Average = &avg
	}
	return json.NewEncoder(w).Encode(out)
}
