package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-stats/internal/adapter/crashcsv"
)

// errIssuesFound makes validate exit non-zero without logging an error.
var errIssuesFound = errors.New("integrity issues found")

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and report integrity issues",
		Long: "Load the dataset and report integrity issues: years outside " +
			"2003-2015, 0,0 coordinates, coordinates outside the plotted window, " +
			"and missing or duplicate record numbers. Exits 1 when any are found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate()
		},
	}
}

func (a *app) runValidate() error {
	defer a.flushMetrics()

	tbl, err := crashcsv.Load(a.cfg.DataPath, crashcsv.Options{Encoding: a.cfg.DataEncoding, Delimiter: ','})
	if err != nil {
		return err
	}
	a.metrics.RowsLoaded.Add(float64(tbl.Len()))

	issues := crashcsv.Validate(tbl)
	for _, is := range issues {
		a.metrics.ValidationIssues.WithLabelValues(is.Check).Inc()
	}
	a.logger.Info("validation complete", "rows", tbl.Len(), "issues", len(issues))

	if len(issues) == 0 {
		_, err := fmt.Fprintf(a.out, "%d rows, no issues\n", tbl.Len())
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tRECORD\tCHECK\tDETAIL")
	for _, is := range issues {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", is.Row, is.RecordID, is.Check, is.Detail)
	}
	fmt.Fprintf(tw, "\n%d rows, %d issues\n", tbl.Len(), len(issues))
	if err := tw.Flush(); err != nil {
		return err
	}
	return errIssuesFound
}
