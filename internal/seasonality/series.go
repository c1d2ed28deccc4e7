package seasonality

import (
	"math"
	"time"
)

// MonthLabels are the fixed x-axis labels for seasonal index output,
// January through December.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Table is a column-oriented raw input: column name to a same-length
// sequence of cell values. Cells may be strings, numbers, or nil.
type Table map[string][]any

// TableFromRecords converts row-oriented records (as decoded from a JSON
// request body) into a column-oriented Table. Columns absent from a record
// get nil cells so every column keeps the same length.
func TableFromRecords(records []map[string]any) Table {
	table := make(Table)
	for i, record := range records {
		for col, value := range record {
			if _, ok := table[col]; !ok {
				table[col] = make([]any, len(records))
			}
			table[col][i] = value
		}
	}
	return table
}

// Len returns the number of rows in the table, taken from its longest column.
func (t Table) Len() int {
	n := 0
	for _, col := range t {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// Row is one canonical monthly observation after schema adaptation.
// Y is always a finite number; TrendHat is NaN when no trend was supplied
// for the row. Year, Month, and TimeIndex are zeroed (TimeIndex -1) until
// PrepareMonthly derives them.
type Row struct {
	Date         time.Time
	Municipality string
	Y            float64
	TrendHat     float64

	Year      int
	Month     int // calendar month 1..12
	TimeIndex int // sequential month count from the earliest year, -1 if unset
}

// Series is an ordered set of canonical rows for one or more groups.
// HasTrend records whether a trend column was supplied at canonicalization,
// which switches RatioToTrend between supplied and estimated trends.
type Series struct {
	Rows     []Row
	HasTrend bool
}

// Group returns the sub-series for one municipality, preserving row order.
// The empty name returns the series unchanged (the OVERALL group).
func (s Series) Group(municipality string) Series {
	if municipality == "" {
		return s
	}
	rows := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		if r.Municipality == municipality {
			rows = append(rows, r)
		}
	}
	return Series{Rows: rows, HasTrend: s.HasTrend}
}

// Municipalities returns the distinct municipality names in first-seen order.
func (s Series) Municipalities() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range s.Rows {
		if !seen[r.Municipality] {
			seen[r.Municipality] = true
			names = append(names, r.Municipality)
		}
	}
	return names
}

// Values returns the observed metric values in row order.
func (s Series) Values() []float64 {
	ys := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		ys[i] = r.Y
	}
	return ys
}

// Index is a 12-entry seasonal index, January through December.
// NaN marks months the method could not compute.
type Index [12]float64

// NewIndex returns an Index with every month set to NaN.
func NewIndex() Index {
	var idx Index
	for i := range idx {
		idx[i] = math.NaN()
	}
	return idx
}
