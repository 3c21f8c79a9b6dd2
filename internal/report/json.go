package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/crash-stats/internal/analysis"
	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Float marshals NaN and infinities as null, which encoding/json rejects.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type jsonCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type jsonANOVA struct {
	Label       string   `json:"label"`
	Groups      []string `json:"groups"`
	GroupMeans  []Float  `json:"group_means"`
	DFBetween   int      `json:"df_between"`
	DFWithin    int      `json:"df_within"`
	F           Float    `json:"f"`
	P           Float    `json:"p"`
	CriticalF   Float    `json:"critical_f"`
	Significant bool     `json:"significant"`
}

type jsonComparison struct {
	Factor        string `json:"factor"`
	PAll          Float  `json:"p_all"`
	PSubset       Float  `json:"p_subset"`
	InAll         bool   `json:"in_all"`
	InSubset      bool   `json:"in_subset"`
	AbsoluteDelta Float  `json:"abs_delta"`
}

type jsonYear struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type jsonMonth struct {
	Month  string `json:"month"`
	N      int    `json:"n"`
	Mean   Float  `json:"mean"`
	StdDev Float  `json:"std_dev"`
}

type jsonDistance struct {
	Count    int   `json:"count"`
	Missing  int   `json:"missing"`
	Excluded int   `json:"histogram_excluded"`
	Min      Float `json:"min"`
	Q1       Float `json:"q1"`
	Median   Float `json:"median"`
	Q3       Float `json:"q3"`
	Max      Float `json:"max"`
	Mean     Float `json:"mean"`
}

type jsonReport struct {
	RunID          string            `json:"run_id"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Source         string            `json:"source"`
	Rows           int               `json:"rows"`
	FirstYear      int               `json:"first_year"`
	LastYear       int               `json:"last_year"`
	Reference      domain.Coordinate `json:"reference"`
	NearRadius     Float             `json:"near_radius"`
	NearProportion Float             `json:"near_proportion"`
	Distance       jsonDistance      `json:"distance"`
	UniqueReasons  int               `json:"unique_reasons"`
	TopReasons     []jsonCount       `json:"top_reasons"`
	Spring         jsonANOVA         `json:"spring_anova"`
	Fall           jsonANOVA         `json:"fall_anova"`
	FocusMonth     string            `json:"focus_month"`
	FocusTotal     int               `json:"focus_total"`
	FocusReasons   []jsonCount       `json:"focus_reasons"`
	Comparison     []jsonComparison  `json:"comparison"`
	YearCounts     []jsonYear        `json:"year_counts"`
	MonthlyStats   []jsonMonth       `json:"monthly_stats"`
	CollisionTypes []jsonCount       `json:"collision_types"`
	InjuryTypes    []jsonCount       `json:"injury_types"`
	WeekParts      []jsonCount       `json:"week_parts"`
	BusiestHour    int               `json:"busiest_hour"`
	UnknownHours   int               `json:"unknown_hours"`
	Figures        []string          `json:"figures,omitempty"`
}

// WriteJSON renders r as indented JSON. NaN statistics are written as null.
func WriteJSON(w io.Writer, r *Report) error {
	d := r.Distance
	out := jsonReport{
		RunID:          r.RunID,
		GeneratedAt:    r.GeneratedAt,
		Source:         r.Source,
		Rows:           r.Rows,
		FirstYear:      r.FirstYear,
		LastYear:       r.LastYear,
		Reference:      r.Reference,
		NearRadius:     Float(r.NearRadius),
		NearProportion: Float(r.NearProportion),
		Distance: jsonDistance{
			Count: d.Count, Missing: d.Missing, Excluded: r.HistogramExcluded,
			Min: Float(d.Min), Q1: Float(d.Q1), Median: Float(d.Median),
			Q3: Float(d.Q3), Max: Float(d.Max), Mean: Float(d.Mean),
		},
		UniqueReasons:  r.UniqueReasons,
		TopReasons:     counts(r.TopReasons),
		Spring:         anova(r.Spring),
		Fall:           anova(r.Fall),
		FocusMonth:     r.FocusMonth.String(),
		FocusTotal:     r.FocusTotal,
		FocusReasons:   counts(r.FocusReasons),
		CollisionTypes: counts(r.CollisionTypes),
		InjuryTypes:    counts(r.InjuryTypes),
		WeekParts:      counts(r.WeekParts),
		BusiestHour:    r.BusiestHour.Hour,
		UnknownHours:   r.UnknownHours,
		Figures:        r.Figures,
	}
	out.Comparison = make([]jsonComparison, len(r.Comparison))
	for i, c := range r.Comparison {
		out.Comparison[i] = jsonComparison{
			Factor:        c.Factor,
			PAll:          Float(c.All),
			PSubset:       Float(c.Subset),
			InAll:         c.InAll,
			InSubset:      c.InSubset,
			AbsoluteDelta: Float(c.AbsoluteDelta),
		}
	}
	out.YearCounts = make([]jsonYear, len(r.YearCounts))
	for i, y := range r.YearCounts {
		out.YearCounts[i] = jsonYear{Year: y.Year, Count: y.Count}
	}
	out.MonthlyStats = make([]jsonMonth, len(r.MonthlyStats))
	for i, m := range r.MonthlyStats {
		out.MonthlyStats[i] = jsonMonth{
			Month:  domain.MonthAbbrev(m.Month),
			N:      m.N,
			Mean:   Float(m.Mean),
			StdDev: Float(m.StdDev),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func counts(f analysis.Frequency) []jsonCount {
	out := make([]jsonCount, len(f))
	for i, c := range f {
		out[i] = jsonCount{Value: c.Value, Count: c.Count}
	}
	return out
}

func anova(a analysis.ANOVAResult) jsonANOVA {
	means := make([]Float, len(a.GroupMeans))
	for i, m := range a.GroupMeans {
		means[i] = Float(m)
	}
	return jsonANOVA{
		Label:       a.Label,
		Groups:      a.Groups,
		GroupMeans:  means,
		DFBetween:   a.DFBetween,
		DFWithin:    a.DFWithin,
		F:           Float(a.F),
		P:           Float(a.P),
		CriticalF:   Float(a.CriticalF),
		Significant: a.Significant(),
	}
}
