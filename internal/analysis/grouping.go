package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// YearCount is the number of crashes in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearCounts tallies crashes per year, sorted by year.
func YearCounts(t *domain.Table) []YearCount {
	byYear := make(map[int]int)
	t.Each(func(c domain.Crash) {
		byYear[c.Year]++
	})
	out := make([]YearCount, 0, len(byYear))
	for y, n := range byYear {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// YearMonthCount is the number of crashes in one month of one year.
type YearMonthCount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// YearMonthCounts groups crashes by (year, month) in a single pass. Only
// combinations that occur in the data are returned, sorted by year then month.
func YearMonthCounts(t *domain.Table) []YearMonthCount {
	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int)
	t.Each(func(c domain.Crash) {
		counts[key{c.Year, c.Month}]++
	})
	out := make([]YearMonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearMonthCount{Year: k.year, Month: k.month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// CountsByYear regroups year-month counts into per-year monthly series,
// keyed by year. Each series is in month order.
func CountsByYear(ym []YearMonthCount) map[int][]YearMonthCount {
	out := make(map[int][]YearMonthCount)
	for _, c := range ym {
		out[c.Year] = append(out[c.Year], c)
	}
	return out
}

// CountsForMonth returns the per-year counts observed for month m.
func CountsForMonth(ym []YearMonthCount, m time.Month) []float64 {
	var xs []float64
	for _, c := range ym {
		if c.Month == m {
			xs = append(xs, float64(c.Count))
		}
	}
	return xs
}

// MonthStat is the mean and sample standard deviation of one calendar
// month's crash count across years.
type MonthStat struct {
	Month  time.Month `json:"month"`
	N      int        `json:"n"`
	Mean   float64    `json:"mean"`
	StdDev float64    `json:"std_dev"` // NaN when N < 2
}

// MonthlyStats aggregates year-month counts per calendar month. Months with
// no observations are omitted.
func MonthlyStats(ym []YearMonthCount) ([]MonthStat, error) {
	var out []MonthStat
	for m := time.January; m <= time.December; m++ {
		xs := CountsForMonth(ym, m)
		if len(xs) == 0 {
			continue
		}
		mean, err := stats.Mean(xs)
		if err != nil {
			return nil, fmt.Errorf("mean for %s: %w", domain.MonthAbbrev(m), err)
		}
		sd := math.NaN()
		if len(xs) > 1 {
			sd, err = stats.StandardDeviationSample(xs)
			if err != nil {
				return nil, fmt.Errorf("std dev for %s: %w", domain.MonthAbbrev(m), err)
			}
		}
		out = append(out, MonthStat{Month: m, N: len(xs), Mean: mean, StdDev: sd})
	}
	return out, nil
}
