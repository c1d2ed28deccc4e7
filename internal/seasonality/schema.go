package seasonality

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SchemaOptions names the raw table columns the adapter reads.
// TrendHatCol is optional; the empty string means no trend is supplied.
type SchemaOptions struct {
	MetricCol       string
	MunicipalityCol string
	YearMonthCol    string
	TrendHatCol     string
}

// DefaultMunicipalityCol and DefaultYearMonthCol are the conventional raw
// column names used when a request does not override them.
const (
	DefaultMunicipalityCol = "municipality"
	DefaultYearMonthCol    = "year_month"
)

// MissingColumnError is a configuration error: a required (or explicitly
// requested) column is absent from the raw table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// Canonicalize validates and normalizes a raw table into canonical rows.
//
// Year-month cells are parsed as "YYYY-MM" (first day of the month); metric
// and trend cells are coerced to numbers. Rows whose date or metric fail to
// parse are dropped rather than reported, matching the data-quality policy:
// only absent columns are configuration errors.
func Canonicalize(table Table, opts SchemaOptions) (Series, error) {
	if opts.MunicipalityCol == "" {
		opts.MunicipalityCol = DefaultMunicipalityCol
	}
	if opts.YearMonthCol == "" {
		opts.YearMonthCol = DefaultYearMonthCol
	}

	for _, col := range []string{opts.MunicipalityCol, opts.YearMonthCol, opts.MetricCol} {
		if _, ok := table[col]; !ok {
			return Series{}, &MissingColumnError{Column: col}
		}
	}
	hasTrend := opts.TrendHatCol != ""
	if hasTrend {
		if _, ok := table[opts.TrendHatCol]; !ok {
			return Series{}, &MissingColumnError{Column: opts.TrendHatCol}
		}
	}

	n := table.Len()
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		date, ok := parseYearMonth(cellString(table[opts.YearMonthCol], i))
		if !ok {
			continue
		}
		y, ok := cellFloat(table[opts.MetricCol], i)
		if !ok {
			continue
		}

		trend := math.NaN()
		if hasTrend {
			if v, ok := cellFloat(table[opts.TrendHatCol], i); ok {
				trend = v
			}
		}

		rows = append(rows, Row{
			Date:         date,
			Municipality: cellString(table[opts.MunicipalityCol], i),
			Y:            y,
			TrendHat:     trend,
			TimeIndex:    -1,
		})
	}

	return Series{Rows: rows, HasTrend: hasTrend}, nil
}

// parseYearMonth parses "YYYY-MM" into the first-of-month UTC timestamp.
func parseYearMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s+"-01")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// cellString renders a raw cell as its string form, "" for nil or
// out-of-range cells.
func cellString(col []any, i int) string {
	if i >= len(col) || col[i] == nil {
		return ""
	}
	switch v := col[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellFloat coerces a raw cell to a number. Unparseable cells report false,
// which callers treat as a null.
func cellFloat(col []any, i int) (float64, bool) {
	if i >= len(col) || col[i] == nil {
		return 0, false
	}
	switch v := col[i].(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
