package crashcsv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

const header = "Master Record Number,Year,Month,Day,Weekend?,Hour,Collision Type,Injury Type,Primary Factor,Reported_Location,Latitude,Longitude\n"

const sample = header +
	"902363382,2015,1,5,Weekday,0,2-Car,No injury/unknown,OTHER (DRIVER) - EXPLAIN IN NARRATIVE,1ST & FESS,39.15920668,-86.52587356\n" +
	"902364268,2015,1,5,Weekday,1500,2-Car,No injury/unknown,FOLLOWING TOO CLOSELY,2ND & COLLEGE,39.16144,-86.534848\n" +
	"902364412,2015,1,5,Weekend,2300,2-Car,Non-incapacitating,DISREGARD SIGNAL/REG SIGN,BASSWOOD & BLOOMFIELD,39.14978027,-86.56889006\n" +
	"902364551,2015,10,5,,,1-Car,No injury/unknown,,GATES & JACOBS,,\n" +
	"902364615,2015,10,6,Weekday,900,2-Car,No injury/unknown,FAILURE TO YIELD RIGHT OF WAY,W 3RD,0,0\n"

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 5, tbl.Len())

	first := tbl.At(0)
	assert.Equal(t, "902363382", first.RecordID)
	assert.Equal(t, 2015, first.Year)
	assert.Equal(t, time.January, first.Month)
	assert.Equal(t, "1ST & FESS", first.Location)
	assert.True(t, first.Coord.Valid)

	blank := tbl.At(3)
	assert.Equal(t, domain.UndefinedFactor, blank.PrimaryFactor)
	assert.Equal(t, domain.Unknown, blank.Hour)
	assert.Equal(t, domain.WeekPartUnknown, blank.Weekend)
	assert.False(t, blank.Coord.Valid)

	zero := tbl.At(4)
	assert.True(t, zero.Coord.Valid)
	assert.Equal(t, 0.0, zero.Coord.Lat)
}

func TestRead_Latin1(t *testing.T) {
	// 0xE9 is "é" in Latin-1 and an invalid byte sequence in UTF-8.
	data := []byte(header + "1,2014,3,2,Weekday,800,2-Car,No injury/unknown,SPEED TOO FAST,CAF\xe9 & 4TH,39.1,-86.5\n")

	tbl, err := Read(strings.NewReader(string(data)), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "CAFé & 4TH", tbl.At(0).Location)
}

func TestRead_UTF8Passthrough(t *testing.T) {
	data := header + "1,2014,3,2,Weekday,800,2-Car,No injury/unknown,SPEED TOO FAST,CAFé & 4TH,39.1,-86.5\n"

	tbl, err := Read(strings.NewReader(data), Options{Encoding: EncodingUTF8})
	require.NoError(t, err)
	assert.Equal(t, "CAFé & 4TH", tbl.At(0).Location)
}

func TestRead_QuotedFields(t *testing.T) {
	data := header + `1,2014,3,2,Weekday,800,2-Car,No injury/unknown,"OTHER, EXPLAIN","KIRKWOOD, INDIANA",39.1,-86.5` + "\n"

	tbl, err := Read(strings.NewReader(data), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "OTHER, EXPLAIN", tbl.At(0).PrimaryFactor)
	assert.Equal(t, "KIRKWOOD, INDIANA", tbl.At(0).Location)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		target error
		want   string
	}{
		{name: "empty input", data: "", target: domain.ErrSchema, want: "missing header"},
		{name: "header only", data: header, target: domain.ErrEmptyDataset},
		{name: "missing column", data: "a,b,c\n1,2,3\n", target: domain.ErrSchema, want: "line 1"},
		{name: "short row", data: header + "1,2014,3\n", target: domain.ErrSchema, want: "line 2"},
		{name: "malformed year", data: header + "1,20x4,3,2,Weekday,800,2-Car,x,y,z,39.1,-86.5\n", target: domain.ErrMalformedRow, want: "line 2"},
		{
			name:   "malformed later row",
			data:   header + "1,2014,3,2,Weekday,800,2-Car,x,y,z,39.1,-86.5\n2,2014,0,2,Weekday,800,2-Car,x,y,z,39.1,-86.5\n",
			target: domain.ErrMalformedRow,
			want:   "line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.data), DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.ErrorIs(t, err, tt.target)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestRead_UnsupportedEncoding(t *testing.T) {
	_, err := Read(strings.NewReader(sample), Options{Encoding: "ebcdic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebcdic")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashData.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashData.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	src := NewFileSource(path)
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidate(t *testing.T) {
	data := sample +
		"902364615,2015,10,6,Weekday,900,2-Car,No injury/unknown,SPEED TOO FAST,E 10TH,39.17,-86.51\n" +
		"902399999,2002,10,6,Weekday,900,2-Car,No injury/unknown,SPEED TOO FAST,E 10TH,41.0,-95.0\n"

	tbl, err := Read(strings.NewReader(data), DefaultOptions())
	require.NoError(t, err)

	issues := Validate(tbl)

	checks := make(map[string][]int)
	for _, is := range issues {
		checks[is.Check] = append(checks[is.Check], is.Row)
	}
	assert.Equal(t, []int{5}, checks["zero_coordinates"])
	assert.Equal(t, []int{6}, checks["duplicate_record_id"])
	assert.Equal(t, []int{7}, checks["year_range"])
	assert.Equal(t, []int{7}, checks["coordinates_out_of_window"])
	assert.Len(t, issues, 4)
}
