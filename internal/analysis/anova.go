package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Significance level used for the critical F value reported with each test.
const Alpha = 0.05

// ErrANOVAInput is returned when the groups cannot support a one-way ANOVA.
var ErrANOVAInput = errors.New("invalid anova input")

// ANOVAResult holds a one-way analysis of variance.
type ANOVAResult struct {
	Label      string    `json:"label,omitempty"`
	Groups     []string  `json:"groups,omitempty"`
	GroupMeans []float64 `json:"group_means"`
	SSBetween  float64   `json:"ss_between"`
	SSWithin   float64   `json:"ss_within"`
	DFBetween  int       `json:"df_between"`
	DFWithin   int       `json:"df_within"`
	F          float64   `json:"f"`
	P          float64   `json:"p"`
	CriticalF  float64   `json:"critical_f"` // F quantile at 1-Alpha
}

// Significant reports whether P is below Alpha.
func (r ANOVAResult) Significant() bool {
	return r.P < Alpha
}

func (r ANOVAResult) String() string {
	return fmt.Sprintf("F_onewayResult(statistic=%g, pvalue=%g)", r.F, r.P)
}

// OneWayANOVA tests whether the group means are equal. It needs at least two
// non-empty groups and more observations than groups.
//
// When every group has zero variance the F statistic is +Inf with p = 0, or
// NaN for both when all observations are identical.
func OneWayANOVA(groups ...[]float64) (ANOVAResult, error) {
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, fmt.Errorf("%w: need at least 2 groups, got %d", ErrANOVAInput, k)
	}

	n := 0
	var all []float64
	for i, g := range groups {
		if len(g) == 0 {
			return ANOVAResult{}, fmt.Errorf("%w: group %d is empty", ErrANOVAInput, i)
		}
		n += len(g)
		all = append(all, g...)
	}
	if n <= k {
		return ANOVAResult{}, fmt.Errorf("%w: %d observations for %d groups", ErrANOVAInput, n, k)
	}

	grand := stat.Mean(all, nil)
	res := ANOVAResult{
		GroupMeans: make([]float64, k),
		DFBetween:  k - 1,
		DFWithin:   n - k,
	}
	for i, g := range groups {
		m := stat.Mean(g, nil)
		res.GroupMeans[i] = m
		d := m - grand
		res.SSBetween += float64(len(g)) * d * d
		for _, x := range g {
			res.SSWithin += (x - m) * (x - m)
		}
	}

	dfb, dfw := float64(res.DFBetween), float64(res.DFWithin)
	res.CriticalF = distuv.F{D1: dfb, D2: dfw}.Quantile(1 - Alpha)

	switch {
	case res.SSWithin == 0 && res.SSBetween == 0:
		res.F, res.P = math.NaN(), math.NaN()
	case res.SSWithin == 0:
		res.F, res.P = math.Inf(1), 0
	default:
		res.F = (res.SSBetween / dfb) / (res.SSWithin / dfw)
		// Upper tail of F(dfb, dfw), evaluated directly rather than as 1-CDF
		// to keep precision for small p.
		res.P = mathext.RegIncBeta(dfw/2, dfb/2, dfw/(dfw+dfb*res.F))
	}
	return res, nil
}

// Semester month sets used for the seasonal tests.
var (
	SpringMonths = []time.Month{time.January, time.February, time.March, time.April, time.May}
	FallMonths   = []time.Month{time.August, time.September, time.October, time.November, time.December}
)

// SeasonalANOVA compares the per-year crash counts of the given months. Each
// month is one group whose observations are that month's count in every
// year it appears.
func SeasonalANOVA(label string, ym []YearMonthCount, months []time.Month) (ANOVAResult, error) {
	groups := make([][]float64, len(months))
	names := make([]string, len(months))
	for i, m := range months {
		groups[i] = CountsForMonth(ym, m)
		names[i] = domain.MonthAbbrev(m)
	}
	res, err := OneWayANOVA(groups...)
	if err != nil {
		return ANOVAResult{}, fmt.Errorf("%s anova (%s): %w", label, strings.Join(names, ","), err)
	}
	res.Label = label
	res.Groups = names
	return res, nil
}
