package seasonality

// SimpleAverages derives the seasonal index as each calendar month's mean
// observation relative to the overall mean, base 100.
//
// A zero or non-finite overall mean yields non-finite entries; the scaling
// step then passes the index through unchanged rather than inventing values.
func SimpleAverages(s Series) Index {
	values := s.Values()
	overall := nanMean(values)
	monthMeans := monthlyMean(s.Rows, values)

	idx := NewIndex()
	for m := 0; m < 12; m++ {
		idx[m] = monthMeans[m] / overall * 100.0
	}
	return ScaleBase100ToSum1200(idx)
}
