package seasonality

import (
	"errors"
	"math"
	"sort"
)

// ErrNoSortKey is a configuration error: the series has no usable
// chronological ordering key for the moving-average method.
var ErrNoSortKey = errors.New("ratio-to-moving-average requires a date, time index, or year and month to order the series")

// RatioToMovingAverage derives the seasonal index from per-row ratios of
// observations to a centered 12-month moving average, averaged per calendar
// month, base 100.
//
// The trend is a trailing 12-month rolling mean averaged with its own
// one-step-forward shift; twelve is an even window, so a plain rolling mean
// falls between months and the adjacent-mean average re-centers it. Series
// shorter than twelve months have no moving average anywhere and yield an
// all-null index.
func RatioToMovingAverage(s Series) (Index, error) {
	rows, err := sortChronological(s.Rows)
	if err != nil {
		return NewIndex(), err
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Y
	}

	centered := centeredMovingAverage(values, 12)

	ratios := make([]float64, len(rows))
	for i := range rows {
		ratios[i] = values[i] / centered[i]
	}
	dropInf(ratios)

	meanRatio := monthlyMean(rows, ratios)

	idx := NewIndex()
	for m := 0; m < 12; m++ {
		idx[m] = meanRatio[m] * 100.0
	}
	return ScaleBase100ToSum1200(idx), nil
}

// sortChronological re-sorts rows defensively using the first available
// ordering key: explicit dates, then the sequential time index, then
// (year, month) pairs.
func sortChronological(rows []Row) ([]Row, error) {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	switch {
	case allRows(rows, func(r Row) bool { return !r.Date.IsZero() }):
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	case allRows(rows, func(r Row) bool { return r.TimeIndex >= 0 }):
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeIndex < sorted[j].TimeIndex })
	case allRows(rows, func(r Row) bool { return r.Year > 0 && r.Month >= 1 && r.Month <= 12 }):
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Year != sorted[j].Year {
				return sorted[i].Year < sorted[j].Year
			}
			return sorted[i].Month < sorted[j].Month
		})
	default:
		return nil, ErrNoSortKey
	}
	return sorted, nil
}

func allRows(rows []Row, ok func(Row) bool) bool {
	for _, r := range rows {
		if !ok(r) {
			return false
		}
	}
	return true
}

// centeredMovingAverage computes the trailing rolling mean over window
// periods averaged with its one-step-forward shift. Positions without a
// full window on both terms are NaN.
func centeredMovingAverage(values []float64, window int) []float64 {
	n := len(values)
	trailing := make([]float64, n)
	for i := range trailing {
		trailing[i] = math.NaN()
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			trailing[i] = sum / float64(window)
		}
	}

	centered := make([]float64, n)
	for i := range centered {
		if i+1 < n {
			centered[i] = (trailing[i] + trailing[i+1]) / 2
		} else {
			centered[i] = math.NaN()
		}
	}
	return centered
}
