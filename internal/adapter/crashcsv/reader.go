// Package crashcsv loads the crash dataset from its delimited text form.
package crashcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// Encoding names accepted by Options.Encoding.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"
)

// Header is the header line of the published dataset. Load ignores the names
// and maps columns by position onto domain.Columns.
var Header = []string{
	"Master Record Number", "Year", "Month", "Day", "Weekend?", "Hour",
	"Collision Type", "Injury Type", "Primary Factor", "Reported_Location",
	"Latitude", "Longitude",
}

// Options controls how the file is decoded and split.
type Options struct {
	Encoding  string // "latin1" (default) or "utf-8"
	Delimiter rune   // default ','
}

// DefaultOptions matches the published dataset: comma-separated, Latin-1.
func DefaultOptions() Options {
	return Options{Encoding: EncodingLatin1, Delimiter: ','}
}

// Load opens path and reads the whole dataset into memory.
func Load(path string, opts Options) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crash data: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read decodes r and parses every row. The first malformed row aborts the
// read; no partial table is returned.
func Read(r io.Reader, opts Options) (*domain.Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	records, err := readRecords(decoded, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.Names(domain.Columns...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load crash data: %w: %v", domain.ErrSchema, df.Err)
	}

	return tableFromFrame(df)
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingLatin1, "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case EncodingUTF8, "utf8":
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// readRecords splits the input and enforces the 12-column layout on every
// line, so schema errors carry the offending line number.
func readRecords(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read crash data: %w", err)
		}
		if len(rec) != len(domain.Columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("read crash data: line %d: %w: got %d columns, want %d",
				line, domain.ErrSchema, len(rec), len(domain.Columns))
		}
		records = append(records, rec)
	}

	switch len(records) {
	case 0:
		return nil, fmt.Errorf("read crash data: %w: missing header", domain.ErrSchema)
	case 1:
		return nil, fmt.Errorf("read crash data: %w", domain.ErrEmptyDataset)
	}
	return records, nil
}

// tableFromFrame walks the frame column-wise and parses each row. Row i of
// the frame sits on line i+2 of the file (after the header).
func tableFromFrame(df dataframe.DataFrame) (*domain.Table, error) {
	cols := make([][]string, len(domain.Columns))
	for i, name := range domain.Columns {
		s := df.Col(name)
		if s.Err != nil {
			return nil, fmt.Errorf("load crash data: %w: column %s: %v", domain.ErrSchema, name, s.Err)
		}
		cols[i] = s.Records()
	}

	n := df.Nrow()
	rows := make([]domain.Crash, 0, n)
	fields := make([]string, len(domain.Columns))
	for r := 0; r < n; r++ {
		for c := range cols {
			fields[c] = cols[c][r]
		}
		crash, err := domain.ParseRow(r+2, fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, crash)
	}
	return domain.NewTable(rows), nil
}
