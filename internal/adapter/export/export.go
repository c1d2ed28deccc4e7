// Package export writes a completed run's index tables to disk as CSV and,
// optionally, as an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

const (
	csvFileName  = "seasonality_indices.csv"
	xlsxFileName = "seasonality_indices.xlsx"
	sheetName    = "seasonality_indices"
)

var header = []string{
	"municipality",
	"month",
	"A_simple_averages",
	"B_ratio_to_trend",
	"C_ratio_to_moving_average",
	"D_link_relatives",
	"E_ratio_to_median",
}

// FileExporter writes one row per (group, calendar month) with all five
// index values; null entries become blanks. Workbook additionally writes
// the same table as an xlsx file.
type FileExporter struct {
	Workbook bool
}

// Export writes the run's tables into runDir.
func (e *FileExporter) Export(runDir string, result *seasonality.RunResult) error {
	rows := tabulate(result)

	if err := writeCSV(filepath.Join(runDir, csvFileName), rows); err != nil {
		return err
	}
	if e.Workbook {
		if err := writeWorkbook(filepath.Join(runDir, xlsxFileName), rows); err != nil {
			return err
		}
	}
	return nil
}

// tabulate flattens the composite result into header plus one record per
// (group, month), groups in the run's deterministic order.
func tabulate(result *seasonality.RunResult) [][]string {
	rows := [][]string{header}
	for _, name := range result.GroupOrder {
		group := result.Results[name]
		for month := 1; month <= 12; month++ {
			rows = append(rows, []string{
				name,
				strconv.Itoa(month),
				formatCell(group.SimpleAverages[month-1]),
				formatCell(group.RatioToTrend[month-1]),
				formatCell(group.RatioToMovingAverage[month-1]),
				formatCell(group.LinkRelatives[month-1]),
				formatCell(group.RatioToMedian[month-1]),
			})
		}
	}
	return rows
}

// formatCell renders a sanitized index entry, blank for null.
func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv export: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write csv export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv export: %w", err)
	}
	return nil
}

func writeWorkbook(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename workbook sheet: %w", err)
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("address workbook cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write workbook cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook export: %w", err)
	}
	return nil
}
