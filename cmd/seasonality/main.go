// Command seasonality runs the index engine over a CSV file and writes the
// exports and plots for one run.
//
// Usage:
//
//	go run ./cmd/seasonality \
//	  -input permits.csv \
//	  -metric permit_count \
//	  -out exports/seasonality
//
// The CSV's first record is the header; column names are matched against
// the -metric, -municipality-col, -year-month-col, and -trend-col flags.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"

	"github.com/civimetrics/seasonality-service/internal/adapter/export"
	plotadapter "github.com/civimetrics/seasonality-service/internal/adapter/plot"
	"github.com/civimetrics/seasonality-service/internal/observability"
	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

func main() {
	input := flag.String("input", "", "path to the input CSV file")
	metric := flag.String("metric", "", "metric column name")
	municipalityCol := flag.String("municipality-col", seasonality.DefaultMunicipalityCol, "municipality column name")
	yearMonthCol := flag.String("year-month-col", seasonality.DefaultYearMonthCol, "year-month column name (YYYY-MM values)")
	trendCol := flag.String("trend-col", "", "optional pre-computed trend column name")
	outRoot := flag.String("out", "exports/seasonality", "output root directory")
	noPlots := flag.Bool("no-plots", false, "skip chart rendering")
	flag.Parse()

	if *input == "" || *metric == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*input, *metric, *municipalityCol, *yearMonthCol, *trendCol, *outRoot, *noPlots); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(input, metric, municipalityCol, yearMonthCol, trendCol, outRoot string, noPlots bool) error {
	table, err := readTable(input)
	if err != nil {
		return err
	}

	logger := observability.NewLogger("info", "text")
	opts := seasonality.RunnerOptions{
		Exporter: &export.FileExporter{Workbook: true},
		OutRoot:  outRoot,
	}
	if !noPlots {
		opts.Renderer = plotadapter.NewRenderer()
	}
	runner := seasonality.NewRunner(logger, observability.NewMetrics(), opts)

	result, err := runner.Run(context.Background(), seasonality.RunRequest{
		Table:           table,
		MetricCol:       metric,
		MunicipalityCol: municipalityCol,
		YearMonthCol:    yearMonthCol,
		TrendHatCol:     trendCol,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d groups written to %s\n", result.RunID, len(result.GroupOrder), result.RunDir)
	return nil
}

// readTable loads a headered CSV file into a column-oriented table of
// string cells; the schema adapter handles all value coercion.
func readTable(path string) (seasonality.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read input csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("input csv has no data rows")
	}

	header := records[0]
	table := make(seasonality.Table, len(header))
	for _, col := range header {
		table[col] = make([]any, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for i, col := range header {
			if i < len(record) {
				table[col] = append(table[col], record[i])
			} else {
				table[col] = append(table[col], nil)
			}
		}
	}
	return table, nil
}
