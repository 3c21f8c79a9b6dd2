// Command genmock writes a deterministic synthetic crash dataset in the
// published 12-column, Latin-1 layout. It reloads the file through the
// crashcsv package so the fixture is known to parse the way real data does.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out crashData.txt \
//	  -seed 2015 -first-year 2003 -last-year 2005
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/couchcryptid/crash-stats/internal/adapter/crashcsv"
	"github.com/couchcryptid/crash-stats/internal/analysis"
)

var (
	factors = []string{
		"FAILURE TO YIELD RIGHT OF WAY",
		"FOLLOWING TOO CLOSELY",
		"UNSAFE BACKING",
		"RAN OFF ROAD RIGHT",
		"SPEED TOO FAST FOR WEATHER CONDITIONS",
		"",
	}
	collisions = []string{"2-Car", "1-Car", "3+ Cars", "Moped/Motorcycle", "Pedestrian", "Bus", "Cyclist"}
	injuries   = []string{"No injury/unknown", "Non-incapacitating", "Incapacitating", "Fatal"}
	locations  = []string{"E 10TH ST", "S WALNUT ST", "N COLLEGE AVE", "W 3RD ST", "CAFÉ ROW", "E KIRKWOOD AVE"}

	// monthWeight shapes the per-month volume so fall months run busier
	// than spring ones.
	monthWeight = [12]float64{0.7, 0.6, 0.8, 0.9, 1.0, 0.9, 0.8, 1.1, 1.3, 1.4, 1.3, 1.0}
)

type options struct {
	out       string
	seed      uint64
	firstYear int
	lastYear  int
	base      int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var o options
	flag.StringVar(&o.out, "out", "", "output path for the synthetic dataset")
	flag.Uint64Var(&o.seed, "seed", 2015, "random seed")
	flag.IntVar(&o.firstYear, "first-year", 2003, "first year generated")
	flag.IntVar(&o.lastYear, "last-year", 2005, "last year generated")
	flag.IntVar(&o.base, "base", 20, "average crashes per month before seasonal weighting")
	flag.Parse()

	if o.out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if o.lastYear < o.firstYear || o.base < 1 {
		return fmt.Errorf("invalid range: years %d-%d, base %d", o.firstYear, o.lastYear, o.base)
	}

	rows := generate(o)
	if err := write(o.out, rows); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d rows to %s", len(rows), o.out)

	return printStats(o.out)
}

func generate(o options) [][]string {
	r := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))

	var rows [][]string
	id := 902300000
	for y := o.firstYear; y <= o.lastYear; y++ {
		for m := time.January; m <= time.December; m++ {
			n := int(float64(o.base)*monthWeight[m-1]) + r.IntN(5) + 2*(y-o.firstYear)
			days := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for range n {
				id++
				rows = append(rows, crashRow(r, id, y, m, 1+r.IntN(days)))
			}
		}
	}
	return rows
}

func crashRow(r *rand.Rand, id, year int, month time.Month, day int) []string {
	weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
	weekend := "Weekday"
	if weekday == time.Saturday || weekday == time.Sunday {
		weekend = "Weekend"
	}

	hour := strconv.Itoa(r.IntN(24) * 100)
	if r.IntN(20) == 0 {
		hour = ""
	}

	lat := strconv.FormatFloat(39.16655+r.NormFloat64()*0.03, 'f', 6, 64)
	lon := strconv.FormatFloat(-86.52638+r.NormFloat64()*0.03, 'f', 6, 64)
	switch r.IntN(25) {
	case 0:
		lat, lon = "", ""
	case 1:
		lat, lon = "0", "0"
	}

	return []string{
		strconv.Itoa(id),
		strconv.Itoa(year),
		strconv.Itoa(int(month)),
		strconv.Itoa(day),
		weekend,
		hour,
		collisions[r.IntN(len(collisions))],
		injuries[r.IntN(len(injuries))],
		factors[r.IntN(len(factors))],
		locations[r.IntN(len(locations))],
		lat,
		lon,
	}
}

func write(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// The encoder buffers until closed.
	enc := transform.NewWriter(f, charmap.ISO8859_1.NewEncoder())
	w := csv.NewWriter(enc)
	w.UseCRLF = true
	if err := w.Write(crashcsv.Header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

func printStats(path string) error {
	tbl, err := crashcsv.Load(path, crashcsv.DefaultOptions())
	if err != nil {
		return fmt.Errorf("reloading %s: %w", path, err)
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Rows:            %d\n", tbl.Len())
	fmt.Printf("Issues:          %d\n", len(crashcsv.Validate(tbl)))
	for _, yc := range analysis.YearCounts(tbl) {
		fmt.Printf("  %d: %d\n", yc.Year, yc.Count)
	}

	fmt.Printf("\n=== Primary factors ===\n")
	for _, c := range analysis.PrimaryFactors(tbl) {
		fmt.Printf("  %-40s %d\n", c.Value, c.Count)
	}
	return nil
}
