package seasonality

import "math"

// RatioToMedian derives the seasonal index from per-month medians relative
// to the median of those medians, base 100. Medians make the index robust
// to single outlier observations that would drag a mean-based index.
//
// When the median-of-medians is zero or non-finite the base-100 rescale is
// skipped and the raw monthly medians are returned (then subject to the
// usual sum-1200 scaling and its own degenerate passthrough).
func RatioToMedian(s Series) Index {
	monthMedians := monthlyMedian(s.Rows, s.Values())

	overall := nanMedian(monthMedians[:])

	idx := NewIndex()
	if overall == 0 || math.IsNaN(overall) || math.IsInf(overall, 0) {
		idx = monthMedians
	} else {
		for m := 0; m < 12; m++ {
			idx[m] = monthMedians[m] / overall * 100.0
		}
	}
	return ScaleBase100ToSum1200(idx)
}
