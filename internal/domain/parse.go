package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseRow converts one data row (already split into the 12 schema columns)
// into a Crash. line is the 1-based line number in the source file and is
// only used for error messages.
//
// Year and Month are required. Day, Hour, Weekend and the coordinates may be
// blank; a blank categorical field becomes UndefinedFactor. A value that is
// present but unparseable is always an error.
func ParseRow(line int, fields []string) (Crash, error) {
	if len(fields) != len(Columns) {
		return Crash{}, fmt.Errorf("line %d: %w: got %d columns, want %d", line, ErrSchema, len(fields), len(Columns))
	}

	year, err := parseRequiredInt(fields[ColYear])
	if err != nil {
		return Crash{}, rowError(line, ColYear, fields[ColYear], err)
	}
	month, err := parseRequiredInt(fields[ColMonth])
	if err != nil {
		return Crash{}, rowError(line, ColMonth, fields[ColMonth], err)
	}
	if month < 1 || month > 12 {
		return Crash{}, rowError(line, ColMonth, fields[ColMonth], fmt.Errorf("month out of range"))
	}
	day, err := parseOptionalInt(fields[ColDay])
	if err != nil {
		return Crash{}, rowError(line, ColDay, fields[ColDay], err)
	}
	hour, err := parseOptionalInt(fields[ColHour])
	if err != nil {
		return Crash{}, rowError(line, ColHour, fields[ColHour], err)
	}
	weekend, err := parseWeekPart(fields[ColWeekend])
	if err != nil {
		return Crash{}, rowError(line, ColWeekend, fields[ColWeekend], err)
	}
	coord, err := parseCoordinate(fields[ColLatitude], fields[ColLongitude])
	if err != nil {
		return Crash{}, rowError(line, ColLatitude, fields[ColLatitude]+","+fields[ColLongitude], err)
	}

	return Crash{
		RecordID:      strings.TrimSpace(fields[ColRecordID]),
		Year:          year,
		Month:         time.Month(month),
		Day:           day,
		Weekend:       weekend,
		Hour:          hour,
		CollisionType: categoryOrUndefined(fields[ColCollisionType]),
		InjuryType:    categoryOrUndefined(fields[ColInjuryType]),
		PrimaryFactor: categoryOrUndefined(fields[ColPrimaryFactor]),
		Location:      strings.TrimSpace(fields[ColLocation]),
		Coord:         coord,
	}, nil
}

func rowError(line, col int, value string, err error) error {
	return fmt.Errorf("line %d: %w: column %s=%q: %v", line, ErrMalformedRow, Columns[col], value, err)
}

func parseRequiredInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("required value is blank")
	}
	return parseInt(s)
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown, nil
	}
	return parseInt(s)
}

// parseInt accepts plain integers and integral floats ("1800.0"), which is
// how spreadsheet exports of the dataset encode some numeric columns.
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

func parseWeekPart(s string) (WeekPart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return WeekPartUnknown, nil
	case "weekday":
		return Weekday, nil
	case "weekend":
		return Weekend, nil
	default:
		return WeekPartUnknown, fmt.Errorf("want Weekday or Weekend")
	}
}

// parseCoordinate returns an invalid Coordinate when either side is blank.
func parseCoordinate(latStr, lonStr string) (Coordinate, error) {
	latStr = strings.TrimSpace(latStr)
	lonStr = strings.TrimSpace(lonStr)
	if latStr == "" || lonStr == "" {
		return Coordinate{}, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinate{}, fmt.Errorf("invalid latitude")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, fmt.Errorf("invalid longitude")
	}
	return Coordinate{Lat: lat, Lon: lon, Valid: true}, nil
}

func categoryOrUndefined(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UndefinedFactor
	}
	return s
}
