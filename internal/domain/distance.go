package domain

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Distance returns the planar Euclidean distance between a and b in degrees,
// treating latitude and longitude as Cartesian axes. Over an area the size of
// a city this tracks great-circle distance closely enough for ranking and
// binning. It returns NaN when either coordinate is invalid.
func Distance(a, b Coordinate) float64 {
	if !a.Valid || !b.Valid {
		return math.NaN()
	}
	return xy.Distance(geom.Coord{a.Lat, a.Lon}, geom.Coord{b.Lat, b.Lon})
}
