// Package report turns an analysis result into the printed summary: the
// share of crashes near the reference point, the reason counts, the seasonal
// ANOVA tests, and the focus-month comparison.
package report

import (
	"time"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Options controls how much of each table is kept.
type Options struct {
	RunID  string
	Source string
	TopN   int
}

// Report is the presentation-ready subset of an analysis.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Source      string

	Rows      int
	FirstYear int
	LastYear  int

	Reference         domain.Coordinate
	NearRadius        float64
	NearProportion    float64
	Distance          analysis.DistanceSummary
	HistogramExcluded int

	UniqueReasons int
	TopReasons    analysis.Frequency

	Spring analysis.ANOVAResult
	Fall   analysis.ANOVAResult

	FocusMonth   time.Month
	FocusTotal   int
	FocusReasons analysis.Frequency
	Comparison   []analysis.ReasonComparison

	YearCounts     []analysis.YearCount
	MonthlyStats   []analysis.MonthStat
	CollisionTypes analysis.Frequency
	InjuryTypes    analysis.Frequency
	WeekParts      analysis.Frequency
	UnknownHours   int
	BusiestHour    analysis.HourCount

	// Figures lists files written by the render stage, if any.
	Figures []string
}

// New builds a Report from res, stamped with the package clock.
func New(res *analysis.Result, opts Options) *Report {
	top := opts.TopN
	if top < 1 {
		top = 5
	}

	r := &Report{
		RunID:       opts.RunID,
		GeneratedAt: domain.Now(),
		Source:      opts.Source,

		Rows: res.Rows,

		Reference:         res.Options.Reference,
		NearRadius:        res.Options.NearRadius,
		NearProportion:    res.NearProportion,
		Distance:          res.DistanceSummary,
		HistogramExcluded: res.DistanceHist.Excluded,

		UniqueReasons: res.PrimaryFactors.Unique(),
		TopReasons:    res.PrimaryFactors.Head(top),

		Spring: res.Spring,
		Fall:   res.Fall,

		FocusMonth:   res.Options.FocusMonth,
		FocusTotal:   res.FocusFactors.Total(),
		FocusReasons: res.FocusFactors.Head(top),
		Comparison:   headComparison(res.Comparison, top),

		YearCounts:     res.YearCounts,
		MonthlyStats:   res.MonthlyStats,
		CollisionTypes: res.CollisionTypes.Head(top),
		InjuryTypes:    res.InjuryTypes.Head(top),
		WeekParts:      res.WeekParts,
		UnknownHours:   res.UnknownHours,
	}
	if n := len(res.YearCounts); n > 0 {
		r.FirstYear = res.YearCounts[0].Year
		r.LastYear = res.YearCounts[n-1].Year
	}
	for _, h := range res.Hours {
		if h.Count > r.BusiestHour.Count {
			r.BusiestHour = h
		}
	}
	return r
}

func headComparison(rows []analysis.ReasonComparison, n int) []analysis.ReasonComparison {
	if n >= len(rows) {
		return rows
	}
	return rows[:n]
}
