package seasonality

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// trendFloor keeps the log-linear fit defined when observations are zero or
// negative.
const trendFloor = 1e-9

// TrendEstimator produces one trend value per row of the series. The
// ratio-to-trend index divides observations by these values, so the method's
// quality tracks the estimator's; callers with a better model inject it here.
type TrendEstimator func(s Series) []float64

// LogLinearTrend is the default TrendEstimator: an ordinary least squares
// fit of log(y) on the time index, exponentiated back to the observation
// scale.
func LogLinearTrend(s Series) []float64 {
	xs := make([]float64, len(s.Rows))
	ys := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		xs[i] = float64(r.TimeIndex)
		ys[i] = math.Log(math.Max(r.Y, trendFloor))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	trend := make([]float64, len(s.Rows))
	for i := range trend {
		trend[i] = math.Exp(intercept + slope*xs[i])
	}
	return trend
}

// RatioToTrend derives the seasonal index from per-row observed-to-trend
// ratios averaged per calendar month, base 100.
//
// When the series carries supplied trend values they are used as-is; rows
// with missing trends produce null ratios. Otherwise the estimator (or
// LogLinearTrend when nil) fits one. Infinite ratios from zero trends become
// nulls.
func RatioToTrend(s Series, estimate TrendEstimator) Index {
	var trend []float64
	if s.HasTrend {
		trend = make([]float64, len(s.Rows))
		for i, r := range s.Rows {
			trend[i] = r.TrendHat
		}
	} else {
		if estimate == nil {
			estimate = LogLinearTrend
		}
		trend = estimate(s)
	}

	ratios := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		ratios[i] = r.Y / trend[i]
	}
	dropInf(ratios)

	meanRatio := monthlyMean(s.Rows, ratios)

	idx := NewIndex()
	for m := 0; m < 12; m++ {
		idx[m] = meanRatio[m] * 100.0
	}
	return ScaleBase100ToSum1200(idx)
}
