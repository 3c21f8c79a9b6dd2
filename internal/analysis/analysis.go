// Package analysis computes the descriptive statistics and hypothesis tests
// over a loaded crash table: distances from a reference point, reason
// frequencies, per-year and per-month counts, seasonal ANOVA, and the
// comparison of one month's reason distribution against the whole dataset.
package analysis

import (
	"fmt"
	"time"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Options parameterises Analyze.
type Options struct {
	Reference     domain.Coordinate
	NearRadius    float64
	HistogramMax  float64
	HistogramBins int
	FocusMonth    time.Month
}

// DefaultOptions reproduces the classic Bloomington analysis: distances from
// Sample Gates, a radius of 1 for "near campus", 100 bins up to 25, October
// as the focus month.
func DefaultOptions() Options {
	return Options{
		Reference:     domain.SampleGates,
		NearRadius:    1,
		HistogramMax:  25,
		HistogramBins: 100,
		FocusMonth:    time.October,
	}
}

// Result collects every computed table and statistic. Float fields may hold
// NaN (a month observed in a single year has no standard deviation), so
// serialisers must not marshal it directly.
type Result struct {
	Options Options
	Rows    int

	Distances       []float64
	Coordinates     []domain.Coordinate // located crashes only
	NearProportion  float64
	DistanceHist    Histogram
	DistanceSummary DistanceSummary

	PrimaryFactors Frequency
	CollisionTypes Frequency
	InjuryTypes    Frequency
	WeekParts      Frequency
	Hours          []HourCount
	UnknownHours   int

	YearCounts      []YearCount
	YearMonthCounts []YearMonthCount
	MonthlyStats    []MonthStat

	Spring ANOVAResult
	Fall   ANOVAResult

	FocusFactors Frequency
	Comparison   []ReasonComparison
}

// Analyze runs the full sequence over t. It fails on the first step that
// cannot be computed; there is no partial result.
func Analyze(t *domain.Table, opts Options) (*Result, error) {
	if t.Len() == 0 {
		return nil, domain.ErrEmptyDataset
	}
	if opts.FocusMonth < time.January || opts.FocusMonth > time.December {
		return nil, fmt.Errorf("focus month %d out of range", opts.FocusMonth)
	}

	res := &Result{Options: opts, Rows: t.Len()}

	res.Distances = Distances(t, opts.Reference)
	res.Coordinates = make([]domain.Coordinate, 0, t.Len())
	t.Each(func(c domain.Crash) {
		if c.Coord.Valid {
			res.Coordinates = append(res.Coordinates, c.Coord)
		}
	})
	res.NearProportion = ProportionWithin(res.Distances, opts.NearRadius)
	res.DistanceHist = DistanceHistogram(res.Distances, opts.HistogramMax, opts.HistogramBins)
	res.DistanceSummary = SummarizeDistances(res.Distances)

	res.PrimaryFactors = PrimaryFactors(t)
	res.CollisionTypes = CollisionTypes(t)
	res.InjuryTypes = InjuryTypes(t)
	res.WeekParts = WeekParts(t)
	res.Hours, res.UnknownHours = HourCounts(t)

	res.YearCounts = YearCounts(t)
	res.YearMonthCounts = YearMonthCounts(t)

	var err error
	res.MonthlyStats, err = MonthlyStats(res.YearMonthCounts)
	if err != nil {
		return nil, err
	}

	res.Spring, err = SeasonalANOVA("Spring", res.YearMonthCounts, SpringMonths)
	if err != nil {
		return nil, err
	}
	res.Fall, err = SeasonalANOVA("Fall", res.YearMonthCounts, FallMonths)
	if err != nil {
		return nil, err
	}

	focus := t.Filter(func(c domain.Crash) bool { return c.Month == opts.FocusMonth })
	res.FocusFactors = PrimaryFactors(focus)
	res.Comparison, err = CompareReasons(res.PrimaryFactors, res.FocusFactors)
	if err != nil {
		return nil, err
	}

	return res, nil
}
