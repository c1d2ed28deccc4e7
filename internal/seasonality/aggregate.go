package seasonality

import (
	"math"
	"sort"
)

// ScaleBase100ToSum1200 rescales a base-100 index so its twelve months sum
// to 1200 (mean 100). The sum ignores NaN entries. A zero or non-finite sum
// is a degenerate index; it is returned unchanged so callers never receive
// fabricated numbers.
func ScaleBase100ToSum1200(idx Index) Index {
	total := 0.0
	for _, v := range idx {
		if !math.IsNaN(v) {
			total += v
		}
	}
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return idx
	}
	factor := 1200.0 / total
	for i := range idx {
		idx[i] *= factor
	}
	return idx
}

// monthlyMean groups values by the calendar month of the row at the same
// position and averages them, skipping NaN values. Months with no finite
// value stay NaN. This is the shared "group by month, aggregate, reindex to
// 1..12" operation most index methods are built on.
func monthlyMean(rows []Row, values []float64) Index {
	var sums, counts [12]float64
	for i, r := range rows {
		if r.Month < 1 || r.Month > 12 || math.IsNaN(values[i]) {
			continue
		}
		sums[r.Month-1] += values[i]
		counts[r.Month-1]++
	}

	idx := NewIndex()
	for m := 0; m < 12; m++ {
		if counts[m] > 0 {
			idx[m] = sums[m] / counts[m]
		}
	}
	return idx
}

// monthlyMedian is monthlyMean's median counterpart.
func monthlyMedian(rows []Row, values []float64) Index {
	var byMonth [12][]float64
	for i, r := range rows {
		if r.Month < 1 || r.Month > 12 || math.IsNaN(values[i]) {
			continue
		}
		byMonth[r.Month-1] = append(byMonth[r.Month-1], values[i])
	}

	idx := NewIndex()
	for m := 0; m < 12; m++ {
		if len(byMonth[m]) > 0 {
			idx[m] = median(byMonth[m])
		}
	}
	return idx
}

// median returns the middle value of data (mean of the two middle values
// for even lengths). NaN for empty input. The input slice is not modified.
func median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// nanMean averages the finite entries of values, NaN when none exist.
func nanMean(values []float64) float64 {
	sum, count := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// nanMedian is the median of the non-NaN entries of values.
func nanMedian(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	return median(finite)
}

// dropInf converts infinite values (typically divide-by-zero ratios) to NaN
// in place and returns the slice.
func dropInf(values []float64) []float64 {
	for i, v := range values {
		if math.IsInf(v, 0) {
			values[i] = math.NaN()
		}
	}
	return values
}
