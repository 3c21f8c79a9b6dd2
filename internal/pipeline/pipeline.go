package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
	"github.com/couchcryptid/crash-stats/internal/observability"
	"github.com/couchcryptid/crash-stats/internal/report"
)

// Stage names, used as log attributes and metric labels.
const (
	StageLoad    = "load"
	StageAnalyze = "analyze"
	StageRender  = "render"
	StageReport  = "report"
)

// Source reads the crash table.
type Source interface {
	Load(ctx context.Context) (*domain.Table, error)
}

// Analyzer computes every statistic over a table.
type Analyzer interface {
	Analyze(ctx context.Context, t *domain.Table) (*analysis.Result, error)
}

// Rendered describes the output of a Renderer.
type Rendered struct {
	Figures int      // figures built
	Files   []string // files written, empty when figures stay in memory
}

// Renderer turns a result into figures.
type Renderer interface {
	Render(ctx context.Context, res *analysis.Result) (Rendered, error)
}

// Sink writes the finished report.
type Sink interface {
	Write(ctx context.Context, rep *report.Report) error
}

// Options carries the per-run settings of a Pipeline.
type Options struct {
	RunID  string          // generated when empty
	Source string          // dataset name shown in the report
	TopN   int             // rows kept in head-style tables
	Clock  clockwork.Clock // real clock when nil
}

// Pipeline runs load, analyze, render, and report once, stopping at the
// first failure.
type Pipeline struct {
	source   Source
	analyzer Analyzer
	renderer Renderer
	sink     Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	opts     Options
}

// New creates a Pipeline with the given stages and observability. A nil
// renderer skips the render stage.
func New(src Source, an Analyzer, rn Renderer, sink Sink, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:   src,
		analyzer: an,
		renderer: rn,
		sink:     sink,
		logger:   logger.With("run_id", opts.RunID),
		metrics:  metrics,
		clock:    clock,
		opts:     opts,
	}
}

// RunID identifies this pipeline's run in logs and the report.
func (p *Pipeline) RunID() string { return p.opts.RunID }

// Run executes every stage in order and returns the report that was written.
// Cancellation is honoured between stages.
func (p *Pipeline) Run(ctx context.Context) (rep *report.Report, err error) {
	start := p.clock.Now()
	p.logger.Info("pipeline started", "source", p.opts.Source)
	p.metrics.PipelineRunning.Set(1)
	defer func() {
		p.metrics.PipelineRunning.Set(0)
		p.metrics.LastRunTimestamp.Set(float64(p.clock.Now().Unix()))
		if err != nil {
			p.metrics.LastRunSuccess.Set(0)
			p.logger.Error("pipeline failed", "error", err)
			return
		}
		p.metrics.LastRunSuccess.Set(1)
		p.logger.Info("pipeline finished", "duration", p.clock.Since(start))
	}()

	var table *domain.Table
	if err = p.stage(ctx, StageLoad, func() (err error) {
		table, err = p.source.Load(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	p.recordLoad(table)

	var res *analysis.Result
	if err = p.stage(ctx, StageAnalyze, func() (err error) {
		res, err = p.analyzer.Analyze(ctx, table)
		return err
	}); err != nil {
		return nil, err
	}
	p.recordAnalysis(res)

	var rendered Rendered
	if p.renderer != nil {
		if err = p.stage(ctx, StageRender, func() (err error) {
			rendered, err = p.renderer.Render(ctx, res)
			return err
		}); err != nil {
			return nil, err
		}
		p.metrics.FiguresRendered.Add(float64(rendered.Figures))
	}

	if err = p.stage(ctx, StageReport, func() error {
		rep = report.New(res, report.Options{RunID: p.opts.RunID, Source: p.opts.Source, TopN: p.opts.TopN})
		rep.Figures = rendered.Files
		return p.sink.Write(ctx, rep)
	}); err != nil {
		return nil, err
	}
	return rep, nil
}

// stage runs fn after checking for cancellation, timing it with the
// pipeline clock.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := p.clock.Now()
	err := fn()
	elapsed := p.clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		p.metrics.StageErrors.WithLabelValues(name).Inc()
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage complete", "stage", name, "duration", elapsed.Round(time.Microsecond))
	return nil
}

func (p *Pipeline) recordLoad(t *domain.Table) {
	missing := 0
	t.Each(func(c domain.Crash) {
		if !c.Coord.Valid {
			missing++
		}
	})
	p.metrics.RowsLoaded.Add(float64(t.Len()))
	p.metrics.RowsMissingCoords.Add(float64(missing))
	p.logger.Info("crash data loaded", "rows", t.Len(), "missing_coordinates", missing)
}

func (p *Pipeline) recordAnalysis(res *analysis.Result) {
	for _, a := range []analysis.ANOVAResult{res.Spring, res.Fall} {
		outcome := "not_significant"
		if a.Significant() {
			outcome = "significant"
		}
		p.metrics.ANOVATests.WithLabelValues(a.Label, outcome).Inc()
	}
	p.logger.Info("analysis complete",
		"near_proportion", res.NearProportion,
		"unique_reasons", res.PrimaryFactors.Unique(),
		"spring_f", res.Spring.F,
		"spring_p", res.Spring.P,
		"fall_f", res.Fall.F,
		"fall_p", res.Fall.P,
	)
}
