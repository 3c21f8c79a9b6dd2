package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
)

// printer remembers the first write error so the layout code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// table writes an aligned block and flushes it.
func (p *printer) table(header string, rows func(tw *tabwriter.Writer)) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	p.err = tw.Flush()
}

// WriteText renders r as a plain-text report.
func WriteText(w io.Writer, r *Report) error {
	p := &printer{w: w}

	p.printf("Crash report: %s\n", r.Source)
	p.printf("run %s, generated %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	p.printf("Proportion of crashes within %g of (%.6f, %.6f):\n", r.NearRadius, r.Reference.Lat, r.Reference.Lon)
	p.printf("%.6f\n\n", r.NearProportion)

	p.printf("There were %d unique reasons for the %d crashes that occurred between %d and %d in Bloomington, IN\n\n",
		r.UniqueReasons, r.Rows, r.FirstYear, r.LastYear)

	p.printf("Most common reasons:\n")
	p.table("REASON\tCRASHES\tSHARE", func(tw *tabwriter.Writer) {
		writeFrequency(tw, r.TopReasons, r.Rows)
	})
	p.printf("\n")

	p.printf("Fall:\n%s\n\n", r.Fall)
	p.printf("Spring:\n%s\n\n", r.Spring)

	month := r.FocusMonth.String()
	p.printf("Most common reasons in %s (%d crashes):\n", month, r.FocusTotal)
	p.table("REASON\tCRASHES\tSHARE", func(tw *tabwriter.Writer) {
		writeFrequency(tw, r.FocusReasons, r.FocusTotal)
	})
	p.printf("\n")

	p.printf("Reason probabilities, all months vs %s:\n", month)
	p.table("REASON\tP_ALL\tP_"+strings.ToUpper(domain.MonthAbbrev(r.FocusMonth))+"\tABS_DELTA", func(tw *tabwriter.Writer) {
		for _, c := range r.Comparison {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\n", c.Factor, presentProb(c.All, c.InAll), presentProb(c.Subset, c.InSubset), c.AbsoluteDelta)
		}
	})
	p.printf("\n")

	p.printf("Crashes per year:\n")
	p.table("YEAR\tCRASHES", func(tw *tabwriter.Writer) {
		for _, y := range r.YearCounts {
			fmt.Fprintf(tw, "%d\t%d\n", y.Year, y.Count)
		}
	})
	p.printf("\n")

	p.printf("Crashes per month across years:\n")
	p.table("MONTH\tYEARS\tMEAN\tSD", func(tw *tabwriter.Writer) {
		for _, m := range r.MonthlyStats {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\n", domain.MonthAbbrev(m.Month), m.N, m.Mean, formatFloat(m.StdDev, 1))
		}
	})
	p.printf("\n")

	d := r.Distance
	p.printf("Distance from reference (%d located, %d missing, %d outside histogram):\n", d.Count, d.Missing, r.HistogramExcluded)
	p.table("MIN\tQ1\tMEDIAN\tQ3\tMAX\tMEAN", func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatFloat(d.Min, 4), formatFloat(d.Q1, 4), formatFloat(d.Median, 4),
			formatFloat(d.Q3, 4), formatFloat(d.Max, 4), formatFloat(d.Mean, 4))
	})
	p.printf("\n")

	p.printf("Collision types:\n")
	p.table("TYPE\tCRASHES\tSHARE", func(tw *tabwriter.Writer) {
		writeFrequency(tw, r.CollisionTypes, r.Rows)
	})
	p.printf("\n")

	p.printf("Injury types:\n")
	p.table("TYPE\tCRASHES\tSHARE", func(tw *tabwriter.Writer) {
		writeFrequency(tw, r.InjuryTypes, r.Rows)
	})
	p.printf("\n")

	p.printf("Weekday vs weekend:\n")
	p.table("PART\tCRASHES\tSHARE", func(tw *tabwriter.Writer) {
		writeFrequency(tw, r.WeekParts, r.Rows)
	})
	p.printf("\n")

	p.printf("Busiest hour: %02d:00 (%d crashes, %d without an hour)\n", r.BusiestHour.Hour, r.BusiestHour.Count, r.UnknownHours)

	if len(r.Figures) > 0 {
		p.printf("\nFigures:\n")
		for _, f := range r.Figures {
			p.printf("  %s\n", f)
		}
	}
	return p.err
}

func writeFrequency(tw io.Writer, f analysis.Frequency, total int) {
	for _, c := range f {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\n", c.Value, c.Count, share)
	}
}

func presentProb(p float64, present bool) string {
	if !present {
		return "-"
	}
	return fmt.Sprintf("%.4f", p)
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", prec, v)
}
