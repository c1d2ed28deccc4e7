package seasonality

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFromRecords(t *testing.T) {
	records := []map[string]any{
		{"municipality": "Alfa", "year_month": "2020-01", "pop": 100.0},
		{"municipality": "Beta", "year_month": "2020-02"},
	}

	table := TableFromRecords(records)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"Alfa", "Beta"}, table["municipality"])
	assert.Equal(t, []any{100.0, nil}, table["pop"], "absent cells should be nil")
}

func TestCanonicalize(t *testing.T) {
	base := func() Table {
		return Table{
			"municipality": {"Alfa", "Alfa", "Beta"},
			"year_month":   {"2020-01", "2020-02", "2020-01"},
			"pop":          {"100", 110.0, 95},
		}
	}

	t.Run("parses valid rows", func(t *testing.T) {
		s, err := Canonicalize(base(), SchemaOptions{MetricCol: "pop"})
		require.NoError(t, err)
		require.Len(t, s.Rows, 3)
		assert.False(t, s.HasTrend)

		first := s.Rows[0]
		assert.Equal(t, "Alfa", first.Municipality)
		assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), first.Date)
		assert.Equal(t, 100.0, first.Y)
		assert.True(t, math.IsNaN(first.TrendHat), "trend should be NaN when no trend column is supplied")
		assert.Equal(t, -1, first.TimeIndex)

		assert.Equal(t, 110.0, s.Rows[1].Y)
		assert.Equal(t, 95.0, s.Rows[2].Y)
	})

	t.Run("missing metric column is a configuration error", func(t *testing.T) {
		_, err := Canonicalize(base(), SchemaOptions{MetricCol: "households"})

		var missing *MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "households", missing.Column)
		assert.Equal(t, `missing required column "households"`, err.Error())
	})

	t.Run("missing requested trend column is a configuration error", func(t *testing.T) {
		_, err := Canonicalize(base(), SchemaOptions{MetricCol: "pop", TrendHatCol: "trend_hat"})

		var missing *MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "trend_hat", missing.Column)
	})

	t.Run("unparseable metric cells drop the row", func(t *testing.T) {
		table := base()
		table["pop"] = []any{"abc", 110.0, nil}

		s, err := Canonicalize(table, SchemaOptions{MetricCol: "pop"})
		require.NoError(t, err)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, 110.0, s.Rows[0].Y)
	})

	t.Run("unparseable dates drop the row", func(t *testing.T) {
		table := base()
		table["year_month"] = []any{"2020-01", "not-a-date", ""}

		s, err := Canonicalize(table, SchemaOptions{MetricCol: "pop"})
		require.NoError(t, err)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, "Alfa", s.Rows[0].Municipality)
	})

	t.Run("custom column names", func(t *testing.T) {
		table := Table{
			"kommun": {"Alfa"},
			"period": {"2021-06"},
			"pop":    {12.5},
		}

		s, err := Canonicalize(table, SchemaOptions{
			MetricCol:       "pop",
			MunicipalityCol: "kommun",
			YearMonthCol:    "period",
		})
		require.NoError(t, err)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, time.June, s.Rows[0].Date.Month())
	})

	t.Run("supplied trend column", func(t *testing.T) {
		table := base()
		table["trend_hat"] = []any{100.0, nil, 90.0}

		s, err := Canonicalize(table, SchemaOptions{MetricCol: "pop", TrendHatCol: "trend_hat"})
		require.NoError(t, err)
		require.True(t, s.HasTrend)
		assert.Equal(t, 100.0, s.Rows[0].TrendHat)
		assert.True(t, math.IsNaN(s.Rows[1].TrendHat), "null trend cell should stay NaN")
		assert.Equal(t, 90.0, s.Rows[2].TrendHat)
	})
}

func TestCellFloat(t *testing.T) {
	col := []any{1.5, 2, int64(3), "4.5", " 5 ", "NaN", "x", nil}

	expect := []struct {
		value float64
		ok    bool
	}{
		{1.5, true}, {2, true}, {3, true}, {4.5, true}, {5, true},
		{0, false}, {0, false}, {0, false},
	}

	for i, e := range expect {
		v, ok := cellFloat(col, i)
		assert.Equal(t, e.ok, ok, "cell %d", i)
		if e.ok {
			assert.Equal(t, e.value, v, "cell %d", i)
		}
	}

	_, ok := cellFloat(col, len(col))
	assert.False(t, ok, "out-of-range cell")
}

func TestMissingColumnErrorUnwrap(t *testing.T) {
	err := error(&MissingColumnError{Column: "pop"})
	var missing *MissingColumnError
	assert.True(t, errors.As(err, &missing))
}
