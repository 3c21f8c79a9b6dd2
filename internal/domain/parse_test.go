package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFactor = "FAILURE TO YIELD RIGHT OF WAY"

func row(overrides map[int]string) []string {
	fields := []string{
		"902363382", "2015", "1", "5", "Weekday", "0",
		"2-Car", "No injury/unknown", testFactor, "1ST & FESS",
		"39.15920668", "-86.52587356",
	}
	for i, v := range overrides {
		fields[i] = v
	}
	return fields
}

func TestParseRow(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		c, err := ParseRow(2, row(nil))
		require.NoError(t, err)

		assert.Equal(t, "902363382", c.RecordID)
		assert.Equal(t, 2015, c.Year)
		assert.Equal(t, time.January, c.Month)
		assert.Equal(t, 5, c.Day)
		assert.Equal(t, Weekday, c.Weekend)
		assert.Equal(t, 0, c.Hour)
		assert.Equal(t, "2-Car", c.CollisionType)
		assert.Equal(t, "No injury/unknown", c.InjuryType)
		assert.Equal(t, testFactor, c.PrimaryFactor)
		assert.Equal(t, "1ST & FESS", c.Location)
		assert.True(t, c.Coord.Valid)
		assert.InDelta(t, 39.15920668, c.Coord.Lat, 1e-12)
		assert.InDelta(t, -86.52587356, c.Coord.Lon, 1e-12)
	})

	t.Run("blank optional fields", func(t *testing.T) {
		c, err := ParseRow(3, row(map[int]string{
			ColDay:           "",
			ColWeekend:       " ",
			ColHour:          "",
			ColCollisionType: "",
			ColPrimaryFactor: "",
			ColLatitude:      "",
		}))
		require.NoError(t, err)

		assert.Equal(t, Unknown, c.Day)
		assert.Equal(t, Unknown, c.Hour)
		assert.Equal(t, WeekPartUnknown, c.Weekend)
		assert.Equal(t, UndefinedFactor, c.CollisionType)
		assert.Equal(t, UndefinedFactor, c.PrimaryFactor)
		assert.False(t, c.Coord.Valid)
	})

	t.Run("integral float encodings", func(t *testing.T) {
		c, err := ParseRow(4, row(map[int]string{ColYear: "2010.0", ColHour: "1800.0"}))
		require.NoError(t, err)
		assert.Equal(t, 2010, c.Year)
		assert.Equal(t, 1800, c.Hour)
	})

	t.Run("weekend is case-insensitive", func(t *testing.T) {
		c, err := ParseRow(5, row(map[int]string{ColWeekend: "WEEKEND"}))
		require.NoError(t, err)
		assert.Equal(t, Weekend, c.Weekend)
	})

	t.Run("undefined literal is kept", func(t *testing.T) {
		c, err := ParseRow(6, row(map[int]string{ColPrimaryFactor: "<undefined>"}))
		require.NoError(t, err)
		assert.Equal(t, UndefinedFactor, c.PrimaryFactor)
	})
}

func TestParseRow_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		target error
		want   string
	}{
		{name: "too few columns", fields: row(nil)[:11], target: ErrSchema, want: "line 7"},
		{name: "blank year", fields: row(map[int]string{ColYear: ""}), target: ErrMalformedRow, want: "Year"},
		{name: "text month", fields: row(map[int]string{ColMonth: "Oct"}), target: ErrMalformedRow, want: "Month"},
		{name: "month out of range", fields: row(map[int]string{ColMonth: "13"}), target: ErrMalformedRow, want: "out of range"},
		{name: "fractional hour", fields: row(map[int]string{ColHour: "12.5"}), target: ErrMalformedRow, want: "Hour"},
		{name: "bad weekend", fields: row(map[int]string{ColWeekend: "Holiday"}), target: ErrMalformedRow, want: "Weekend"},
		{name: "bad latitude", fields: row(map[int]string{ColLatitude: "north"}), target: ErrMalformedRow, want: "latitude"},
		{name: "bad longitude", fields: row(map[int]string{ColLongitude: "NaN"}), target: ErrMalformedRow, want: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRow(7, tt.fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Distance(SampleGates, SampleGates))
	})

	t.Run("euclidean norm of the offset", func(t *testing.T) {
		c := Coordinate{Lat: SampleGates.Lat + 0.3, Lon: SampleGates.Lon - 0.4, Valid: true}
		assert.InDelta(t, 0.5, Distance(c, SampleGates), 1e-9)
		assert.InDelta(t, Distance(c, SampleGates), Distance(SampleGates, c), 1e-15)
	})

	t.Run("zero coordinates land near one hundred", func(t *testing.T) {
		zero := Coordinate{Valid: true}
		want := math.Hypot(SampleGates.Lat, SampleGates.Lon)
		assert.InDelta(t, want, Distance(zero, SampleGates), 1e-9)
		assert.Greater(t, Distance(zero, SampleGates), 90.0)
	})

	t.Run("invalid coordinate is NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(Distance(Coordinate{}, SampleGates)))
	})
}

func TestMonthAbbrev(t *testing.T) {
	assert.Equal(t, "Jan", MonthAbbrev(time.January))
	assert.Equal(t, "Oct", MonthAbbrev(time.October))
	assert.Equal(t, "Dec", MonthAbbrev(time.December))
	assert.Empty(t, MonthAbbrev(0))
	assert.Empty(t, MonthAbbrev(13))
}

func TestWeekPartString(t *testing.T) {
	assert.Equal(t, "Weekday", Weekday.String())
	assert.Equal(t, "Weekend", Weekend.String())
	assert.Equal(t, UndefinedFactor, WeekPartUnknown.String())
}
