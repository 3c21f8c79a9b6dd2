// Command crashstat analyses the Bloomington, IN crash dataset: distances from
// Sample Gates, reason frequencies, monthly counts, seasonal ANOVA, and the
// focus-month reason comparison.
//
// Usage:
//
//	crashstat [report] --data crashData.txt [--format text|json] [--plot-dir DIR]
//	crashstat plot --plot-dir figures/
//	crashstat validate --data crashData.txt
//
// Every flag defaults to its environment variable (CRASH_DATA_PATH,
// REPORT_FORMAT, PLOT_DIR, ...).
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/crash-stats/internal/config"
	"github.com/couchcryptid/crash-stats/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(cfg, os.Stdout).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errIssuesFound) {
			slog.Error("crashstat failed", "error", err)
		}
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	cfg        *config.Config
	out        io.Writer
	focusMonth int
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *observability.Metrics
}

func newRootCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	a := &app{cfg: cfg, out: out, focusMonth: int(cfg.FocusMonth)}

	report := newReportCommand(a)
	cmd := &cobra.Command{
		Use:           "crashstat",
		Short:         "Analyse Bloomington, IN traffic crash records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: report.RunE,
	}

	addCommonFlags(cmd.PersistentFlags(), a)
	addReportFlags(cmd.Flags(), a)

	cmd.AddCommand(
		report,
		newPlotCommand(a),
		newValidateCommand(a),
	)
	return cmd
}

// addCommonFlags binds the flags every subcommand accepts. Defaults come from
// the environment-loaded config.
func addCommonFlags(flags *pflag.FlagSet, a *app) {
	flags.StringVar(&a.cfg.DataPath, "data", a.cfg.DataPath, "Path to the crash dataset")
	flags.StringVar(&a.cfg.DataEncoding, "encoding", a.cfg.DataEncoding, "Dataset encoding (latin1 or utf-8)")
	flags.StringVar(&a.cfg.MetricsTextfile, "metrics-file", a.cfg.MetricsTextfile, "Write Prometheus metrics to this file on exit")
}

// addReportFlags binds the flags of the analysis commands.
func addReportFlags(flags *pflag.FlagSet, a *app) {
	flags.StringVar(&a.cfg.ReportFormat, "format", a.cfg.ReportFormat, "Report format (text or json)")
	flags.StringVar(&a.cfg.PlotDir, "plot-dir", a.cfg.PlotDir, "Save figures to this directory")
	flags.StringVar(&a.cfg.PlotFormat, "plot-format", a.cfg.PlotFormat, "Figure format (png, svg or pdf)")
	flags.IntVar(&a.focusMonth, "focus-month", a.focusMonth, "Month (1-12) compared against the whole year")
	flags.IntVar(&a.cfg.TopN, "top", a.cfg.TopN, "Rows printed for head-style tables")
}

// setup validates the merged configuration and builds logging and metrics.
func (a *app) setup() error {
	a.cfg.FocusMonth = time.Month(a.focusMonth)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.logger = observability.NewLogger(a.cfg)
	a.registry = prometheus.NewRegistry()
	a.metrics = observability.NewMetrics(a.registry)
	return nil
}

// flushMetrics writes the registry to the configured textfile, if any.
func (a *app) flushMetrics() {
	if a.cfg.MetricsTextfile == "" {
		return
	}
	if err := observability.WriteTextfile(a.cfg.MetricsTextfile, a.registry); err != nil {
		a.logger.Error("metrics textfile", "error", err)
		return
	}
	a.logger.Debug("metrics written", "path", a.cfg.MetricsTextfile)
}
