package engine

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/spektr-org/turnover/table"
)

// Describe computes count, mean, std, min, quartiles and max for numeric
// columns. With no columns named, every numeric column is described.
// Each column drops its own missing cells only.
func Describe(t *table.Table, columns ...string) (*NumericSummary, error) {
	if len(columns) == 0 {
		columns = t.NumericNames()
	}
	if len(columns) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "describe: table has no numeric columns")
	}

	out := &NumericSummary{Columns: make([]ColumnStats, 0, len(columns))}
	for _, col := range columns {
		vals, err := presentFloats(t, col)
		if err != nil {
			return nil, errors.Wrap(err, "describe")
		}
		out.Columns = append(out.Columns, describeValues(col, vals))
	}
	return out, nil
}

func describeValues(column string, vals []float64) ColumnStats {
	nan := math.NaN()
	cs := ColumnStats{Column: column, Count: len(vals)}
	if len(vals) == 0 {
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(sorted, nil)
	cs.Std = sampleStd(sorted)
	cs.Min = floats.Min(sorted)
	cs.Max = floats.Max(sorted)
	cs.Q25 = Quantile(sorted, 0.25)
	cs.Q50 = Quantile(sorted, 0.50)
	cs.Q75 = Quantile(sorted, 0.75)
	return cs
}

// sampleStd is the n-1 standard deviation; undefined below two values.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

// Quantile returns the p-quantile of sorted values, interpolating linearly
// between the two closest ranks. NaN for empty input.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// presentFloats returns the non-missing values of a numeric column.
func presentFloats(t *table.Table, column string) ([]float64, error) {
	all, err := t.Floats(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(all))
	for _, v := range all {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// RoundTo rounds to digits decimal places. NaN and infinities pass through.
func RoundTo(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
