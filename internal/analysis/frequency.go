package analysis

import (
	"sort"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Count is one category and how many records fell into it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Frequency is a value-count table ordered by count descending, then by value
// ascending so ties are stable across runs.
type Frequency []Count

// ValueCounts tallies values into a Frequency.
func ValueCounts(values []string) Frequency {
	idx := make(map[string]int)
	var f Frequency
	for _, v := range values {
		if i, ok := idx[v]; ok {
			f[i].Count++
			continue
		}
		idx[v] = len(f)
		f = append(f, Count{Value: v, Count: 1})
	}
	sort.SliceStable(f, func(i, j int) bool {
		if f[i].Count != f[j].Count {
			return f[i].Count > f[j].Count
		}
		return f[i].Value < f[j].Value
	})
	return f
}

// Total returns the sum of all counts.
func (f Frequency) Total() int {
	n := 0
	for _, c := range f {
		n += c.Count
	}
	return n
}

// Unique returns the number of distinct values.
func (f Frequency) Unique() int { return len(f) }

// Head returns at most n leading entries.
func (f Frequency) Head(n int) Frequency {
	if n < 0 || n >= len(f) {
		return f
	}
	return f[:n]
}

// Proportion is a category and its share of the total.
type Proportion struct {
	Value string  `json:"value"`
	P     float64 `json:"p"`
}

// Proportions normalises the counts by their total, keeping the order.
func (f Frequency) Proportions() []Proportion {
	total := f.Total()
	out := make([]Proportion, len(f))
	for i, c := range f {
		out[i] = Proportion{Value: c.Value}
		if total > 0 {
			out[i].P = float64(c.Count) / float64(total)
		}
	}
	return out
}

// Lookup returns the count for value, or 0.
func (f Frequency) Lookup(value string) int {
	for _, c := range f {
		if c.Value == value {
			return c.Count
		}
	}
	return 0
}

// PrimaryFactors counts crashes per recorded reason.
func PrimaryFactors(t *domain.Table) Frequency {
	return ValueCounts(t.Strings(func(c domain.Crash) string { return c.PrimaryFactor }))
}

// CollisionTypes counts crashes per collision type.
func CollisionTypes(t *domain.Table) Frequency {
	return ValueCounts(t.Strings(func(c domain.Crash) string { return c.CollisionType }))
}

// InjuryTypes counts crashes per injury type.
func InjuryTypes(t *domain.Table) Frequency {
	return ValueCounts(t.Strings(func(c domain.Crash) string { return c.InjuryType }))
}

// WeekParts counts weekday vs weekend crashes.
func WeekParts(t *domain.Table) Frequency {
	return ValueCounts(t.Strings(func(c domain.Crash) string { return c.Weekend.String() }))
}

// HourCount is the number of crashes recorded in one hour of the day.
type HourCount struct {
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// HourCounts buckets crashes by hour of day (military time / 100). Unknown or
// out-of-range hours are returned separately.
func HourCounts(t *domain.Table) (counts []HourCount, unknown int) {
	var byHour [24]int
	t.Each(func(c domain.Crash) {
		h := c.Hour / 100
		if c.Hour < 0 || h > 23 {
			unknown++
			return
		}
		byHour[h]++
	})
	counts = make([]HourCount, 24)
	for h := range byHour {
		counts[h] = HourCount{Hour: h, Count: byHour[h]}
	}
	return counts, unknown
}
