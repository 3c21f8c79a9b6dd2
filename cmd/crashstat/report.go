package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-stats/internal/adapter/crashcsv"
	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
	"github.com/couchcryptid/crash-stats/internal/pipeline"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis and print the report (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPipeline(cmd)
		},
	}
	addReportFlags(cmd.Flags(), a)
	return cmd
}

func newPlotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Run the analysis and save every figure to --plot-dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.PlotDir == "" {
				return errors.New("plot requires --plot-dir or PLOT_DIR")
			}
			return a.runPipeline(cmd)
		},
	}
	addReportFlags(cmd.Flags(), a)
	return cmd
}

func (a *app) runPipeline(cmd *cobra.Command) error {
	defer a.flushMetrics()

	sink, err := pipeline.NewReportSink(a.out, a.cfg.ReportFormat)
	if err != nil {
		return err
	}

	src := &crashcsv.FileSource{
		Path:    a.cfg.DataPath,
		Options: crashcsv.Options{Encoding: a.cfg.DataEncoding, Delimiter: ','},
	}
	analyzer := pipeline.NewAnalyzer(analysis.Options{
		Reference:     domain.Coordinate{Lat: a.cfg.ReferenceLat, Lon: a.cfg.ReferenceLon, Valid: true},
		NearRadius:    a.cfg.NearRadius,
		HistogramMax:  a.cfg.HistogramMax,
		HistogramBins: a.cfg.HistogramBins,
		FocusMonth:    a.cfg.FocusMonth,
	})
	renderer := &pipeline.FigureRenderer{
		Dir:    a.cfg.PlotDir,
		Format: a.cfg.PlotFormat,
		Width:  a.cfg.PlotWidth,
		Height: a.cfg.PlotHeight,
	}

	p := pipeline.New(src, analyzer, renderer, sink, a.logger, a.metrics, pipeline.Options{
		Source: a.cfg.DataPath,
		TopN:   a.cfg.TopN,
	})
	_, err = p.Run(cmd.Context())
	return err
}
