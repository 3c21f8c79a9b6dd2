package analysis

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	colFactor = "PrimaryFactor"
	colAll    = "PrimaryFactor_Year"
	colSubset = "PrimaryFactor_Subset"
)

// ReasonComparison is one row of the merged reason-probability table.
// A side that never observed the factor has probability 0 and Present false.
type ReasonComparison struct {
	Factor        string  `json:"factor"`
	All           float64 `json:"p_all"`
	Subset        float64 `json:"p_subset"`
	InAll         bool    `json:"in_all"`
	InSubset      bool    `json:"in_subset"`
	AbsoluteDelta float64 `json:"abs_delta"`
}

// CompareReasons outer-joins the normalised distributions of two frequency
// tables on the factor name and orders the result by the whole-dataset
// probability, highest first. Factors seen only in subset sort last.
func CompareReasons(all, subset Frequency) ([]ReasonComparison, error) {
	if len(all) == 0 && len(subset) == 0 {
		return nil, nil
	}

	joined := probabilityFrame(all, colAll).
		OuterJoin(probabilityFrame(subset, colSubset), colFactor).
		Arrange(dataframe.RevSort(colAll))
	if joined.Err != nil {
		return nil, fmt.Errorf("compare reasons: %w", joined.Err)
	}

	factors := joined.Col(colFactor).Records()
	pAll := joined.Col(colAll).Float()
	pSub := joined.Col(colSubset).Float()

	out := make([]ReasonComparison, len(factors))
	for i, f := range factors {
		rc := ReasonComparison{Factor: f}
		if !math.IsNaN(pAll[i]) {
			rc.All, rc.InAll = pAll[i], true
		}
		if !math.IsNaN(pSub[i]) {
			rc.Subset, rc.InSubset = pSub[i], true
		}
		rc.AbsoluteDelta = math.Abs(rc.All - rc.Subset)
		out[i] = rc
	}
	return out, nil
}

func probabilityFrame(f Frequency, probCol string) dataframe.DataFrame {
	props := f.Proportions()
	names := make([]string, len(props))
	ps := make([]float64, len(props))
	for i, p := range props {
		names[i] = p.Value
		ps[i] = p.P
	}
	return dataframe.New(
		series.New(names, series.String, colFactor),
		series.New(ps, series.Float, probCol),
	)
}

// ColumnSums returns the sum of each probability column of a comparison.
func ColumnSums(rows []ReasonComparison) (all, subset float64) {
	for _, r := range rows {
		all += r.All
		subset += r.Subset
	}
	return all, subset
}
