package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

func testResult() *seasonality.RunResult {
	fullIndex := func(base float64) []*float64 {
		out := make([]*float64, 12)
		for i := range out {
			v := base + float64(i)
			out[i] = &v
		}
		return out
	}
	withNulls := func() []*float64 {
		out := fullIndex(50)
		out[2] = nil // March incomputable
		return out
	}

	group := func() *seasonality.GroupResult {
		return &seasonality.GroupResult{
			SimpleAverages:       fullIndex(100),
			RatioToTrend:         fullIndex(90),
			RatioToMovingAverage: withNulls(),
			LinkRelatives:        fullIndex(110),
			RatioToMedian:        fullIndex(95),
		}
	}

	return &seasonality.RunResult{
		RunID:     "run-1",
		MetricCol: "pop",
		Results: map[string]*seasonality.GroupResult{
			seasonality.OverallGroup: group(),
			"Alfa":                   group(),
		},
		GroupOrder: []string{seasonality.OverallGroup, "Alfa"},
	}
}

func TestFileExporterCSV(t *testing.T) {
	runDir := t.TempDir()
	exporter := &FileExporter{}

	require.NoError(t, exporter.Export(runDir, testResult()))

	f, err := os.Open(filepath.Join(runDir, "seasonality_indices.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	t.Run("header plus one row per group and month", func(t *testing.T) {
		require.Len(t, rows, 1+2*12)
		assert.Equal(t, []string{
			"municipality", "month",
			"A_simple_averages", "B_ratio_to_trend", "C_ratio_to_moving_average",
			"D_link_relatives", "E_ratio_to_median",
		}, rows[0])
	})

	t.Run("overall group comes first", func(t *testing.T) {
		assert.Equal(t, seasonality.OverallGroup, rows[1][0])
		assert.Equal(t, "1", rows[1][1])
		assert.Equal(t, "Alfa", rows[13][0])
	})

	t.Run("values and blanks", func(t *testing.T) {
		january := rows[1]
		assert.Equal(t, "100", january[2])
		assert.Equal(t, "90", january[3])

		march := rows[3]
		assert.Equal(t, "", march[4], "null index entries export as blanks")
		assert.Equal(t, "112", march[5])
	})

	t.Run("no workbook unless requested", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(runDir, "seasonality_indices.xlsx"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestFileExporterWorkbook(t *testing.T) {
	runDir := t.TempDir()
	exporter := &FileExporter{Workbook: true}

	require.NoError(t, exporter.Export(runDir, testResult()))

	wb, err := excelize.OpenFile(filepath.Join(runDir, "seasonality_indices.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	cells, err := wb.GetRows("seasonality_indices")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cells), 1+2*12)

	assert.Equal(t, "municipality", cells[0][0])
	assert.Equal(t, seasonality.OverallGroup, cells[1][0])
	assert.Equal(t, "100", cells[1][2])
}

func TestFileExporterUnwritableDir(t *testing.T) {
	exporter := &FileExporter{}
	err := exporter.Export(filepath.Join(t.TempDir(), "missing", "nested"), testResult())
	assert.ErrorContains(t, err, "create csv export")
}
