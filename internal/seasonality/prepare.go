package seasonality

import "sort"

// PrepareMonthly sorts canonical rows into chronological order and derives
// the calendar month and sequential time index every method depends on.
//
// Rows are stably sorted by (municipality, date) so each group's rows are
// contiguous and chronological. The time index counts months from the
// earliest year across the whole input, not per group, keeping every group
// on one shared timeline.
func PrepareMonthly(s Series) Series {
	rows := make([]Row, len(s.Rows))
	copy(rows, s.Rows)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Municipality != rows[j].Municipality {
			return rows[i].Municipality < rows[j].Municipality
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	minYear := 0
	for i, r := range rows {
		if i == 0 || r.Date.Year() < minYear {
			minYear = r.Date.Year()
		}
	}

	for i := range rows {
		rows[i].Year = rows[i].Date.Year()
		rows[i].Month = int(rows[i].Date.Month())
		rows[i].TimeIndex = (rows[i].Year-minYear)*12 + (rows[i].Month - 1)
	}

	return Series{Rows: rows, HasTrend: s.HasTrend}
}
