// Package plotting renders analysis results as gonum/plot figures. Figures are
// built in memory; nothing touches the filesystem until Save is called.
package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Figure names, used as file stems by Save.
const (
	DistanceHistogram = "distance_histogram"
	CrashScatter      = "crash_scatter"
	ReasonProportions = "reason_proportions"
	CrashesPerYear    = "crashes_per_year"
	MonthlyByYear     = "monthly_by_year"
	MonthlyMean       = "monthly_mean_sd"
)

// Scatter window around Bloomington, in degrees.
const (
	scatterLatMin, scatterLatMax = 35, 45
	scatterLonMin, scatterLonMax = -90, -80
)

// Upper bound of the y axis on the monthly figures.
const monthlyYMax = 500

var (
	ErrNoFigures = errors.New("no figures to save")
	ErrBadFormat = errors.New("unsupported figure format")
)

var (
	crashBlue    = color.RGBA{B: 200, A: 255}
	referenceRed = color.RGBA{R: 220, A: 255}
	barFill      = color.RGBA{R: 70, G: 110, B: 170, A: 255}

	formats = map[string]bool{"png": true, "svg": true, "pdf": true, "eps": true, "jpg": true, "tif": true}
)

// Figure is one named plot.
type Figure struct {
	Name string
	Plot *plot.Plot
}

// Figures is an ordered set of plots.
type Figures []Figure

// Lookup returns the plot with the given name.
func (fs Figures) Lookup(name string) (*plot.Plot, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Plot, true
		}
	}
	return nil, false
}

// Names returns the figure names in order.
func (fs Figures) Names() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

// Build creates every figure for res.
func Build(res *analysis.Result) (Figures, error) {
	if res == nil {
		return nil, errors.New("build figures: nil result")
	}

	builders := []struct {
		name string
		fn   func(*analysis.Result) (*plot.Plot, error)
	}{
		{DistanceHistogram, distanceHistogram},
		{CrashScatter, crashScatter},
		{ReasonProportions, reasonProportions},
		{CrashesPerYear, crashesPerYear},
		{MonthlyByYear, monthlyByYear},
		{MonthlyMean, monthlyMean},
	}

	figs := make(Figures, 0, len(builders))
	for _, b := range builders {
		p, err := b.fn(res)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", b.name, err)
		}
		figs = append(figs, Figure{Name: b.name, Plot: p})
	}
	return figs, nil
}

// Save writes every figure to dir as <name>.<format> and returns the paths
// written. dir is created if needed.
func (fs Figures) Save(dir, format string, w, h vg.Length) ([]string, error) {
	if len(fs) == 0 {
		return nil, ErrNoFigures
	}
	if !formats[format] {
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create figure dir: %w", err)
	}

	paths := make([]string, 0, len(fs))
	for _, f := range fs {
		path := filepath.Join(dir, f.Name+"."+format)
		if err := f.Plot.Save(w, h, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func distanceHistogram(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Distances of Crashes from Sample Gates, Bloomington, IN"
	p.X.Label.Text = "Distance"
	p.Y.Label.Text = "Crashes"

	h := res.DistanceHist
	if h.Included == 0 {
		return p, nil
	}
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edge(i), Max: h.Edge(i + 1), Weight: float64(c)}
	}
	p.Add(&plotter.Histogram{
		Bins:      bins,
		Width:     h.Width,
		FillColor: barFill,
		LineStyle: plotter.DefaultLineStyle,
	})
	return p, nil
}

func crashScatter(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Spread of Crashes relative to Sample Gates"
	p.X.Label.Text = "Latitude"
	p.Y.Label.Text = "Longitude"

	if len(res.Coordinates) > 0 {
		pts := make(plotter.XYs, len(res.Coordinates))
		for i, c := range res.Coordinates {
			pts[i].X, pts[i].Y = c.Lat, c.Lon
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = crashBlue
		s.GlyphStyle.Shape = draw.PyramidGlyph{}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add("Crash", s)
	}

	ref := res.Options.Reference
	r, err := plotter.NewScatter(plotter.XYs{{X: ref.Lat, Y: ref.Lon}})
	if err != nil {
		return nil, err
	}
	r.GlyphStyle.Color = referenceRed
	r.GlyphStyle.Shape = draw.CrossGlyph{}
	r.GlyphStyle.Radius = vg.Points(5)
	p.Add(r)
	p.Legend.Add("Reference", r)

	p.X.Min, p.X.Max = scatterLatMin, scatterLatMax
	p.Y.Min, p.Y.Max = scatterLonMin, scatterLonMax
	return p, nil
}

func reasonProportions(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Proportion of each Reason for Crashes"
	p.X.Label.Text = "Proportion"

	props := res.PrimaryFactors.Proportions()
	if len(props) == 0 {
		return p, nil
	}

	// Bars are drawn bottom-up, so reverse to put the most frequent on top.
	n := len(props)
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i, pr := range props {
		vals[n-1-i] = pr.P
		names[n-1-i] = pr.Value
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(6))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = barFill
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

func crashesPerYear(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Recorded Crashes Per Year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Crashes"
	p.X.Tick.Marker = integerTicks{}

	if len(res.YearCounts) == 0 {
		return p, nil
	}
	pts := make(plotter.XYs, len(res.YearCounts))
	for i, yc := range res.YearCounts {
		pts[i].X, pts[i].Y = float64(yc.Year), float64(yc.Count)
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = crashBlue
	points.Color = crashBlue
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return p, nil
}

func monthlyByYear(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Crashes Per Month for Each Year"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Crashes"
	p.NominalX(monthNames()...)

	byYear := analysis.CountsByYear(res.YearMonthCounts)
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	args := make([]any, 0, 2*len(years))
	for _, y := range years {
		series := byYear[y]
		pts := make(plotter.XYs, len(series))
		for i, c := range series {
			pts[i].X, pts[i].Y = float64(c.Month-1), float64(c.Count)
		}
		args = append(args, strconv.Itoa(y), pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, err
	}

	p.Y.Min, p.Y.Max = 0, monthlyYMax
	return p, nil
}

// meanBars pairs monthly means with their standard deviation for error bars.
type meanBars struct {
	plotter.XYs
	plotter.YErrors
}

func monthlyMean(res *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Mean (SD) of Crashes per Month, Across Years"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Mean Crashes"
	p.NominalX(monthNames()...)

	if len(res.MonthlyStats) > 0 {
		mb := meanBars{
			XYs:     make(plotter.XYs, len(res.MonthlyStats)),
			YErrors: make(plotter.YErrors, len(res.MonthlyStats)),
		}
		for i, ms := range res.MonthlyStats {
			mb.XYs[i].X, mb.XYs[i].Y = float64(ms.Month-1), ms.Mean
			sd := ms.StdDev
			if math.IsNaN(sd) {
				sd = 0
			}
			mb.YErrors[i].Low, mb.YErrors[i].High = sd, sd
		}

		pts, err := plotter.NewScatter(mb.XYs)
		if err != nil {
			return nil, err
		}
		pts.GlyphStyle.Color = crashBlue
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		bars, err := plotter.NewYErrorBars(mb)
		if err != nil {
			return nil, err
		}
		bars.Color = crashBlue
		p.Add(pts, bars)
	}

	p.Y.Min, p.Y.Max = 0, monthlyYMax
	return p, nil
}

func monthNames() []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = domain.MonthAbbrev(time.Month(i + 1))
	}
	return names
}

// integerTicks keeps the default tick spacing but drops fractional labels.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var out []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if t.Label != "" && t.Value != math.Trunc(t.Value) {
			continue
		}
		if t.Label != "" {
			t.Label = strconv.Itoa(int(t.Value))
		}
		out = append(out, t)
	}
	return out
}
