package pipeline

import (
	"context"
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
	"github.com/couchcryptid/crash-stats/internal/plotting"
	"github.com/couchcryptid/crash-stats/internal/report"
)

// StatsAnalyzer implements Analyzer with analysis.Analyze.
type StatsAnalyzer struct {
	opts analysis.Options
}

// NewAnalyzer creates a StatsAnalyzer with the given options.
func NewAnalyzer(opts analysis.Options) *StatsAnalyzer {
	return &StatsAnalyzer{opts: opts}
}

func (a *StatsAnalyzer) Analyze(_ context.Context, t *domain.Table) (*analysis.Result, error) {
	return analysis.Analyze(t, a.opts)
}

// FigureRenderer implements Renderer with the plotting package. Figures are
// always built; they are written to disk only when Dir is set.
type FigureRenderer struct {
	Dir    string
	Format string
	Width  vg.Length
	Height vg.Length
}

func (r *FigureRenderer) Render(_ context.Context, res *analysis.Result) (Rendered, error) {
	figs, err := plotting.Build(res)
	if err != nil {
		return Rendered{}, err
	}
	out := Rendered{Figures: len(figs)}
	if r.Dir == "" {
		return out, nil
	}
	out.Files, err = figs.Save(r.Dir, r.Format, r.Width, r.Height)
	if err != nil {
		return out, err
	}
	return out, nil
}

// Report formats accepted by ReportSink.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ReportSink implements Sink by writing the report to w.
type ReportSink struct {
	w      io.Writer
	format string
}

// NewReportSink creates a ReportSink for format "text" or "json".
func NewReportSink(w io.Writer, format string) (*ReportSink, error) {
	switch format {
	case FormatText, FormatJSON:
		return &ReportSink{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func (s *ReportSink) Write(_ context.Context, rep *report.Report) error {
	if s.format == FormatJSON {
		return report.WriteJSON(s.w, rep)
	}
	return report.WriteText(s.w, rep)
}
