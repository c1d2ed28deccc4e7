package seasonality

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/civimetrics/seasonality-service/internal/observability"
)

// OverallGroup is the synthetic group covering every municipality combined.
// It is computed with the same functions as any named group.
const OverallGroup = "OVERALL"

// Renderer draws one seasonal index chart. A nil Renderer on the Runner
// disables plotting.
type Renderer interface {
	RenderIndex(idx Index, title, outPath string) error
}

// Exporter persists a completed run's index tables. A nil Exporter on the
// Runner disables export.
type Exporter interface {
	Export(runDir string, result *RunResult) error
}

// RunPublisher announces completed runs to downstream consumers. A nil
// RunPublisher on the Runner disables publishing.
type RunPublisher interface {
	PublishRun(ctx context.Context, summary RunSummary) error
}

// RunSummary is the published record of one completed seasonality run.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	RunDir      string    `json:"run_dir"`
	MetricCol   string    `json:"metric_col"`
	GroupCount  int       `json:"group_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// RunRequest carries one seasonality computation over a raw table.
// MunicipalityCol and YearMonthCol default to the conventional column
// names; TrendHatCol is optional; OutRoot overrides the runner's default
// output location when set.
type RunRequest struct {
	Table           Table
	MetricCol       string
	MunicipalityCol string
	YearMonthCol    string
	TrendHatCol     string
	OutRoot         string
}

// GroupResult holds the five sanitized seasonal indices for one group, each
// twelve entries January through December with nil for incomputable months,
// plus the plot artifact locations relative to the output root.
type GroupResult struct {
	SimpleAverages       []*float64        `json:"A_simple_averages"`
	RatioToTrend         []*float64        `json:"B_ratio_to_trend"`
	RatioToMovingAverage []*float64        `json:"C_ratio_to_moving_average"`
	LinkRelatives        []*float64        `json:"D_link_relatives"`
	RatioToMedian        []*float64        `json:"E_ratio_to_median"`
	PlotFiles            map[string]string `json:"plot_files"`
}

// RunResult is the composite outcome of one run.
type RunResult struct {
	RunID     string                  `json:"run_id"`
	RunDir    string                  `json:"run_dir"`
	MetricCol string                  `json:"metric_col"`
	Results   map[string]*GroupResult `json:"results"`

	// GroupOrder lists result keys deterministically: OVERALL first, then
	// municipalities sorted by name. JSON readers use the map; exporters
	// iterate this.
	GroupOrder []string `json:"-"`
}

// RunnerOptions configures the optional collaborators of a Runner.
type RunnerOptions struct {
	Renderer  Renderer
	Exporter  Exporter
	Publisher RunPublisher
	Clock     clockwork.Clock
	Trend     TrendEstimator
	OutRoot   string
}

// Runner orchestrates a full seasonality run: canonicalize, prepare, compute
// all five index methods for OVERALL and each municipality, render plots,
// export tables, and publish a run summary.
type Runner struct {
	renderer  Renderer
	exporter  Exporter
	publisher RunPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	trend     TrendEstimator
	outRoot   string
}

// NewRunner creates a Runner. Nil collaborators disable the corresponding
// side effect; a nil clock falls back to real time.
func NewRunner(logger *slog.Logger, metrics *observability.Metrics, opts RunnerOptions) *Runner {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	outRoot := opts.OutRoot
	if outRoot == "" {
		outRoot = "exports/seasonality"
	}
	return &Runner{
		renderer:  opts.Renderer,
		exporter:  opts.Exporter,
		publisher: opts.Publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		trend:     opts.Trend,
		outRoot:   outRoot,
	}
}

// Run executes one seasonality computation. Configuration errors (missing
// columns, no usable sort key) fail the whole run; data-quality problems
// degrade to null index entries and never abort other groups.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()

	series, err := Canonicalize(req.Table, SchemaOptions{
		MetricCol:       req.MetricCol,
		MunicipalityCol: req.MunicipalityCol,
		YearMonthCol:    req.YearMonthCol,
		TrendHatCol:     req.TrendHatCol,
	})
	if err != nil {
		r.metrics.RunFailures.Inc()
		return nil, err
	}
	prepared := PrepareMonthly(series)

	runID := r.newRunID()
	outRoot := req.OutRoot
	if outRoot == "" {
		outRoot = r.outRoot
	}
	runDir := filepath.Join(outRoot, runID)
	plotsDir := filepath.Join(runDir, "plots")
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		r.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	result := &RunResult{
		RunID:      runID,
		RunDir:     runDir,
		MetricCol:  req.MetricCol,
		Results:    make(map[string]*GroupResult),
		GroupOrder: groupOrder(prepared),
	}

	for _, name := range result.GroupOrder {
		group := prepared
		if name != OverallGroup {
			group = prepared.Group(name)
		}

		groupResult, err := r.computeGroup(group, name, runID, plotsDir, req.MetricCol)
		if err != nil {
			r.metrics.RunFailures.Inc()
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		result.Results[name] = groupResult
	}

	if r.exporter != nil {
		if err := r.exporter.Export(runDir, result); err != nil {
			r.metrics.RunFailures.Inc()
			return nil, fmt.Errorf("export run %s: %w", runID, err)
		}
	}

	r.publish(ctx, result)

	r.metrics.RunsTotal.Inc()
	r.metrics.GroupsPerRun.Observe(float64(len(result.GroupOrder)))
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.logger.Info("seasonality run complete",
		"run_id", runID,
		"metric_col", req.MetricCol,
		"groups", len(result.GroupOrder),
		"rows", len(prepared.Rows),
	)

	return result, nil
}

// computeGroup runs all five methods for one group and renders its plots.
func (r *Runner) computeGroup(group Series, name, runID, plotsDir, metricCol string) (*GroupResult, error) {
	simpleAvg := SimpleAverages(group)
	ratioTrend := RatioToTrend(group, r.trend)
	ratioMA, err := RatioToMovingAverage(group)
	if err != nil {
		return nil, err
	}
	linkRel := LinkRelatives(group)
	ratioMedian := RatioToMedian(group)

	safeName := safeFilenameComponent(name)
	groupPlotDir := filepath.Join(plotsDir, safeName)
	if err := os.MkdirAll(groupPlotDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot directory: %w", err)
	}

	outputs := []struct {
		key   string
		title string
		idx   Index
	}{
		{"A_simple_averages", "A_Simple_Averages", simpleAvg},
		{"B_ratio_to_trend", "B_Ratio_To_Trend", ratioTrend},
		{"C_ratio_to_moving_average", "C_Ratio_To_Moving_Average", ratioMA},
		{"D_link_relatives", "D_Link_Relatives", linkRel},
		{"E_ratio_to_median", "E_Ratio_To_Median", ratioMedian},
	}

	plotFiles := make(map[string]string, len(outputs))
	for _, out := range outputs {
		file := out.key + ".png"
		plotFiles[out.key] = filepath.Join(runID, "plots", safeName, file)

		if r.renderer == nil {
			continue
		}
		title := fmt.Sprintf("%s - %s (%s)", name, out.title, metricCol)
		if err := r.renderer.RenderIndex(out.idx, title, filepath.Join(groupPlotDir, file)); err != nil {
			// Rendering is independent of index computation; a failed chart
			// never invalidates the numbers already derived.
			r.metrics.PlotFailures.Inc()
			r.logger.Error("plot render failed", "group", name, "method", out.key, "error", err)
		}
	}

	return &GroupResult{
		SimpleAverages:       Sanitize(simpleAvg),
		RatioToTrend:         Sanitize(ratioTrend),
		RatioToMovingAverage: Sanitize(ratioMA),
		LinkRelatives:        Sanitize(linkRel),
		RatioToMedian:        Sanitize(ratioMedian),
		PlotFiles:            plotFiles,
	}, nil
}

func (r *Runner) publish(ctx context.Context, result *RunResult) {
	if r.publisher == nil {
		return
	}
	summary := RunSummary{
		RunID:       result.RunID,
		RunDir:      result.RunDir,
		MetricCol:   result.MetricCol,
		GroupCount:  len(result.GroupOrder),
		CompletedAt: r.clock.Now().UTC(),
	}
	if err := r.publisher.PublishRun(ctx, summary); err != nil {
		r.metrics.PublishFailures.Inc()
		r.logger.Error("run summary publish failed", "run_id", result.RunID, "error", err)
	}
}

// newRunID combines a second-resolution timestamp with a short random
// suffix so two runs starting within the same second cannot collide on a
// shared output directory.
func (r *Runner) newRunID() string {
	return r.clock.Now().Format("2006-01-02_15-04-05") + "_" + uuid.NewString()[:8]
}

// groupOrder lists OVERALL followed by each municipality sorted by name.
func groupOrder(s Series) []string {
	names := s.Municipalities()
	sort.Strings(names)
	return append([]string{OverallGroup}, names...)
}

// Sanitize converts an index to its JSON-safe form: non-finite entries
// become nil, finite entries keep their value.
func Sanitize(idx Index) []*float64 {
	out := make([]*float64, len(idx))
	for i, v := range idx {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		value := v
		out[i] = &value
	}
	return out
}

// safeFilenameComponent keeps letters and digits and replaces everything
// else with underscores, mirroring the plot folder naming convention.
func safeFilenameComponent(text string) string {
	runes := []rune(text)
	for i, ch := range runes {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			runes[i] = '_'
		}
	}
	return string(runes)
}
