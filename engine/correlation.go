package engine

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/spektr-org/turnover/table"
)

// Correlation computes the Pearson matrix of numeric columns. Each pair uses
// the rows where both values are present, so pairs may differ in size.
// With no columns named, every numeric column is used.
func Correlation(t *table.Table, columns ...string) (*CorrelationMatrix, error) {
	if len(columns) == 0 {
		columns = t.NumericNames()
	}
	if len(columns) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "correlation: no numeric columns")
	}

	data := make([][]float64, len(columns))
	for i, col := range columns {
		vals, err := t.Floats(col)
		if err != nil {
			return nil, errors.Wrap(err, "correlation")
		}
		data[i] = vals
	}

	n := len(columns)
	m := &CorrelationMatrix{
		Columns:      append([]string(nil), columns...),
		Values:       make([][]float64, n),
		Observations: make([][]int, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Observations[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairwiseComplete(data[i], data[j])
			r := pearson(x, y)
			if i == j {
				r = 1
			}
			m.Values[i][j], m.Values[j][i] = r, r
			m.Observations[i][j], m.Observations[j][i] = len(x), len(x)
		}
	}
	return m, nil
}

// Round returns a copy with coefficients rounded. The diagonal stays 1.
func (m *CorrelationMatrix) Round(digits int) *CorrelationMatrix {
	out := &CorrelationMatrix{
		Columns:      m.Columns,
		Values:       make([][]float64, len(m.Values)),
		Observations: m.Observations,
	}
	for i, row := range m.Values {
		out.Values[i] = make([]float64, len(row))
		for j, v := range row {
			out.Values[i][j] = RoundTo(v, digits)
		}
	}
	return out
}

func pairwiseComplete(a, b []float64) ([]float64, []float64) {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	return x, y
}

// pearson is NaN below two observations or when either side is constant.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// clamp float drift
	return math.Max(-1, math.Min(1, r))
}
