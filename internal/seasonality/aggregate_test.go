package seasonality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestScaleBase100ToSum1200(t *testing.T) {
	t.Run("rescales to sum 1200", func(t *testing.T) {
		var idx Index
		for i := range idx {
			idx[i] = 50
		}

		scaled := ScaleBase100ToSum1200(idx)

		sum := 0.0
		for _, v := range scaled {
			sum += v
		}
		assert.InDelta(t, 1200.0, sum, tolerance)
		assert.InDelta(t, 100.0, scaled[0], tolerance)
	})

	t.Run("idempotent on an already scaled index", func(t *testing.T) {
		idx := Index{90, 95, 100, 105, 110, 100, 100, 100, 100, 100, 100, 100}
		once := ScaleBase100ToSum1200(idx)
		twice := ScaleBase100ToSum1200(once)

		for m := range once {
			assert.InDelta(t, once[m], twice[m], tolerance)
		}
	})

	t.Run("preserves NaN positions", func(t *testing.T) {
		idx := Index{100, math.NaN(), 100, 100, 100, 100, 100, 100, 100, 100, 100, 100}
		scaled := ScaleBase100ToSum1200(idx)

		assert.True(t, math.IsNaN(scaled[1]))
		sum := 0.0
		for m, v := range scaled {
			if m != 1 {
				sum += v
			}
		}
		assert.InDelta(t, 1200.0, sum, tolerance)
	})

	t.Run("zero sum passes through unchanged", func(t *testing.T) {
		idx := Index{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
		assert.Equal(t, idx, ScaleBase100ToSum1200(idx))
	})

	t.Run("all-NaN index passes through unchanged", func(t *testing.T) {
		idx := NewIndex()
		scaled := ScaleBase100ToSum1200(idx)
		for _, v := range scaled {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("infinite sum passes through unchanged", func(t *testing.T) {
		idx := Index{math.Inf(1), 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100}
		scaled := ScaleBase100ToSum1200(idx)
		assert.True(t, math.IsInf(scaled[0], 1))
		assert.Equal(t, 100.0, scaled[1])
	})
}

func TestMonthlyMean(t *testing.T) {
	rows := []Row{
		{Month: 1}, {Month: 1}, {Month: 2}, {Month: 3},
	}

	t.Run("averages per month and reindexes to 12", func(t *testing.T) {
		idx := monthlyMean(rows, []float64{10, 20, 5, 7})

		assert.InDelta(t, 15.0, idx[0], tolerance)
		assert.InDelta(t, 5.0, idx[1], tolerance)
		assert.InDelta(t, 7.0, idx[2], tolerance)
		for m := 3; m < 12; m++ {
			assert.True(t, math.IsNaN(idx[m]), "month %d should be NaN", m+1)
		}
	})

	t.Run("skips NaN values", func(t *testing.T) {
		idx := monthlyMean(rows, []float64{10, math.NaN(), math.NaN(), 7})

		assert.InDelta(t, 10.0, idx[0], tolerance)
		assert.True(t, math.IsNaN(idx[1]), "month with only NaN values should be NaN")
	})
}

func TestMonthlyMedian(t *testing.T) {
	rows := []Row{
		{Month: 6}, {Month: 6}, {Month: 6}, {Month: 7},
	}
	idx := monthlyMedian(rows, []float64{10, 1000, 12, 4})

	assert.InDelta(t, 12.0, idx[5], tolerance)
	assert.InDelta(t, 4.0, idx[6], tolerance)
	assert.True(t, math.IsNaN(idx[0]))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"odd length", []float64{3, 1, 2}, 2},
		{"even length", []float64{4, 1, 3, 2}, 2.5},
		{"single value", []float64{42}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, median(tt.data), tolerance)
		})
	}

	t.Run("empty input is NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(median(nil)))
	})

	t.Run("does not modify the input", func(t *testing.T) {
		data := []float64{3, 1, 2}
		median(data)
		assert.Equal(t, []float64{3, 1, 2}, data)
	})
}

func TestNanMedian(t *testing.T) {
	require.InDelta(t, 10.0, nanMedian([]float64{math.NaN(), 10, math.NaN()}), tolerance)
	assert.True(t, math.IsNaN(nanMedian([]float64{math.NaN(), math.NaN()})))
}

func TestDropInf(t *testing.T) {
	values := dropInf([]float64{1, math.Inf(1), math.Inf(-1), math.NaN()})
	assert.Equal(t, 1.0, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.True(t, math.IsNaN(values[2]))
	assert.True(t, math.IsNaN(values[3]))
}
