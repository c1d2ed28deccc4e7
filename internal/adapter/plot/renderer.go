// Package plot renders seasonal index charts as PNG files using gonum/plot.
package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

// Renderer draws one line chart per seasonal index with a fixed Jan..Dec
// x-axis. It is an explicit per-process configuration value rather than
// package-global plotting state, so two runners can render with different
// sizes side by side.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a Renderer with the default chart size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 7 * vg.Inch, Height: 5 * vg.Inch}
}

// RenderIndex saves a line chart of the twelve index entries to outPath,
// creating the parent directory if needed. NaN months are left as gaps.
func (r *Renderer) RenderIndex(idx seasonality.Index, title, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Seasonal index (base 100, sum=1200)"

	pts := make(plotter.XYs, 0, len(idx))
	for i, v := range idx {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("build line plot: %w", err)
	}
	p.Add(line, points)
	p.Add(plotter.NewGrid())
	p.NominalX(seasonality.MonthLabels[:]...)

	if err := p.Save(r.Width, r.Height, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}
