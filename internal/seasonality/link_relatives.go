package seasonality

import "math"

// LinkRelatives derives the seasonal index by chaining period-over-period
// relatives. Rows must already be in chronological order (PrepareMonthly's
// contract).
//
// LR_t = (y_t / y_{t-1}) x 100 for each consecutive pair; the first row and
// divisions by a zero predecessor yield nulls. The per-month average LR is
// chained from January = 100. With a single continuous series January's
// average LR is null unless the data spans year boundaries; that null (or a
// zero average) makes the month null, and the null carries through every
// later month of the chain.
func LinkRelatives(s Series) Index {
	n := len(s.Rows)
	lr := make([]float64, n)
	for i := range lr {
		lr[i] = math.NaN()
	}
	for t := 1; t < n; t++ {
		prev := s.Rows[t-1].Y
		if prev == 0 {
			continue
		}
		lr[t] = s.Rows[t].Y / prev * 100.0
	}

	avgLR := monthlyMean(s.Rows, lr)

	var chained Index
	chained[0] = 100.0
	for m := 1; m < 12; m++ {
		if math.IsNaN(avgLR[m]) || avgLR[m] == 0 {
			chained[m] = math.NaN()
			continue
		}
		chained[m] = chained[m-1] * (avgLR[m] / 100.0)
	}

	return ScaleBase100ToSum1200(chained)
}
