package domain

import (
	"errors"
	"time"
)

// Unknown marks an optional integer field (Day, Hour) that was blank in the source.
const Unknown = -1

// UndefinedFactor is the category used when a categorical field was not recorded.
// The source data already uses this literal for crashes with no recorded reason
// (including hit-and-run), so blank cells are folded into it.
const UndefinedFactor = "<undefined>"

// Columns lists the fixed 12-column schema in file order.
var Columns = []string{
	"MasterRecordNumber",
	"Year",
	"Month",
	"Day",
	"Weekend",
	"Hour",
	"CollisionType",
	"InjuryType",
	"PrimaryFactor",
	"ReportedLocation",
	"Latitude",
	"Longitude",
}

// Column indexes into Columns.
const (
	ColRecordID = iota
	ColYear
	ColMonth
	ColDay
	ColWeekend
	ColHour
	ColCollisionType
	ColInjuryType
	ColPrimaryFactor
	ColLocation
	ColLatitude
	ColLongitude
)

var (
	// ErrSchema is returned when the input does not have the 12-column layout.
	ErrSchema = errors.New("schema mismatch")

	// ErrMalformedRow is returned when a required field cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyDataset is returned when the input has a header but no rows.
	ErrEmptyDataset = errors.New("empty dataset")
)

// WeekPart reports whether a crash happened on a weekday or the weekend.
type WeekPart int

const (
	WeekPartUnknown WeekPart = iota
	Weekday
	Weekend
)

func (w WeekPart) String() string {
	switch w {
	case Weekday:
		return "Weekday"
	case Weekend:
		return "Weekend"
	default:
		return UndefinedFactor
	}
}

// Coordinate is a WGS-84 latitude/longitude pair. Valid is false when either
// component was blank in the source row.
type Coordinate struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Valid bool    `json:"valid"`
}

// SampleGates is the main entrance to Indiana University Bloomington, at the
// end of Kirkwood Avenue. It is the default reference point for distances.
var SampleGates = Coordinate{Lat: 39.166550, Lon: -86.526380, Valid: true}

// Crash is a single crash record.
type Crash struct {
	RecordID      string     `json:"record_id"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Day           int        `json:"day"`
	Weekend       WeekPart   `json:"weekend"`
	Hour          int        `json:"hour"`
	CollisionType string     `json:"collision_type"`
	InjuryType    string     `json:"injury_type"`
	PrimaryFactor string     `json:"primary_factor"`
	Location      string     `json:"location"`
	Coord         Coordinate `json:"coord"`
}

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthAbbrev returns the three-letter English abbreviation for m, or "" when
// m is out of range.
func MonthAbbrev(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrev[m-1]
}
