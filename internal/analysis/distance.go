package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Distances returns the distance from ref for every record in file order.
// Records without coordinates yield NaN.
func Distances(t *domain.Table, ref domain.Coordinate) []float64 {
	out := make([]float64, 0, t.Len())
	t.Each(func(c domain.Crash) {
		out = append(out, domain.Distance(c.Coord, ref))
	})
	return out
}

// ProportionWithin returns the fraction of distances that are <= radius.
// NaN distances never match but still count toward the denominator, so the
// result is the share of all crashes, not of located crashes.
func ProportionWithin(d []float64, radius float64) float64 {
	if len(d) == 0 {
		return 0
	}
	n := 0
	for _, x := range d {
		if x <= radius {
			n++
		}
	}
	return float64(n) / float64(len(d))
}

// Histogram is a fixed-width binning of distances.
type Histogram struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Width    float64 `json:"width"`
	Counts   []uint  `json:"counts"`
	Included int     `json:"included"`
	Excluded int     `json:"excluded"` // NaN or above the cutoff
}

// Edge returns the lower edge of bin i (or the upper edge of the last bin
// when i == len(Counts)).
func (h Histogram) Edge(i int) float64 {
	return h.Min + float64(i)*h.Width
}

// DistanceHistogram bins the distances that are <= cutoff into nbins equal
// bins spanning the observed range of those distances, closed on the right
// for the last bin. A degenerate range (all values equal) is widened by 0.5
// on each side.
func DistanceHistogram(d []float64, cutoff float64, nbins int) Histogram {
	if nbins < 1 {
		nbins = 1
	}
	vals := WithinCutoff(d, cutoff)
	h := Histogram{Included: len(vals), Excluded: len(d) - len(vals)}
	if len(vals) == 0 {
		h.Counts = make([]uint, nbins)
		return h
	}

	lo, hi := stats.Bounds(vals)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	lh := stats.NewLinearHist(lo, hi, nbins)
	for _, x := range vals {
		lh.Add(x)
	}
	low, bins, high := lh.Counts()
	counts := make([]uint, len(bins))
	copy(counts, bins)
	counts[0] += low
	counts[len(counts)-1] += high

	h.Min, h.Max = lo, hi
	h.Width = (hi - lo) / float64(nbins)
	h.Counts = counts
	return h
}

// WithinCutoff returns the distances that are <= cutoff, dropping NaN.
func WithinCutoff(d []float64, cutoff float64) []float64 {
	out := make([]float64, 0, len(d))
	for _, x := range d {
		if x <= cutoff {
			out = append(out, x)
		}
	}
	return out
}

// DistanceSummary is a five-number summary of located crashes.
type DistanceSummary struct {
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// SummarizeDistances computes quartiles over the non-NaN distances.
func SummarizeDistances(d []float64) DistanceSummary {
	xs := make([]float64, 0, len(d))
	for _, x := range d {
		if !math.IsNaN(x) {
			xs = append(xs, x)
		}
	}
	sum := DistanceSummary{Count: len(xs), Missing: len(d) - len(xs)}
	if len(xs) == 0 {
		nan := math.NaN()
		sum.Min, sum.Q1, sum.Median, sum.Q3, sum.Max, sum.Mean = nan, nan, nan, nan, nan, nan
		return sum
	}

	samp := stats.Sample{Xs: xs}
	samp.Sort()
	sum.Min, sum.Max = samp.Bounds()
	sum.Q1 = samp.Quantile(0.25)
	sum.Median = samp.Quantile(0.5)
	sum.Q3 = samp.Quantile(0.75)
	sum.Mean = samp.Mean()
	return sum
}
