package crashcsv

import (
	"fmt"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Coverage bounds for the published dataset and the window used by the crash
// scatter plot.
const (
	FirstYear = 2003
	LastYear  = 2015

	MinPlotLat = 35.0
	MaxPlotLat = 45.0
	MinPlotLon = -90.0
	MaxPlotLon = -80.0
)

// Issue is a data-quality finding that does not stop analysis but is worth
// reviewing before trusting the numbers.
type Issue struct {
	Row      int    `json:"row"` // 1-based data row (file line minus the header)
	RecordID string `json:"record_id"`
	Check    string `json:"check"`
	Detail   string `json:"detail"`
}

// Validate runs integrity checks over a loaded table: year coverage,
// coordinates outside the plotted window, 0,0 coordinates, and duplicate
// record numbers.
func Validate(t *domain.Table) []Issue {
	var issues []Issue
	seen := make(map[string]int, t.Len())

	for i := 0; i < t.Len(); i++ {
		c := t.At(i)
		row := i + 1
		add := func(check, format string, args ...any) {
			issues = append(issues, Issue{Row: row, RecordID: c.RecordID, Check: check, Detail: fmt.Sprintf(format, args...)})
		}

		if c.Year < FirstYear || c.Year > LastYear {
			add("year_range", "year %d outside %d-%d", c.Year, FirstYear, LastYear)
		}

		if c.Coord.Valid {
			switch {
			case c.Coord.Lat == 0 && c.Coord.Lon == 0:
				add("zero_coordinates", "latitude and longitude are both 0")
			case c.Coord.Lat < MinPlotLat || c.Coord.Lat > MaxPlotLat || c.Coord.Lon < MinPlotLon || c.Coord.Lon > MaxPlotLon:
				add("coordinates_out_of_window", "%.6f,%.6f outside the plotted window", c.Coord.Lat, c.Coord.Lon)
			}
		}

		if c.RecordID == "" {
			add("record_id", "missing record number")
			continue
		}
		if first, ok := seen[c.RecordID]; ok {
			add("duplicate_record_id", "also on row %d", first)
			continue
		}
		seen[c.RecordID] = row
	}
	return issues
}
