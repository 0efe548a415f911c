package engine

import (
	"errors"
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

// ============================================================================
// DESCRIBE
// ============================================================================

func TestDescribeAge(t *testing.T) {
	s, err := Describe(employees(t), "Age")
	assert.NilError(t, err)

	age, ok := s.Stats("Age")
	assert.Assert(t, ok)
	assert.Equal(t, age.Count, 8)
	approx(t, age.Mean, 36.125)
	approx(t, age.Min, 28)
	approx(t, age.Max, 50)
	approx(t, age.Q25, 29.75)
	approx(t, age.Q50, 33.5)
	approx(t, age.Q75, 41.25)
	assert.Assert(t, math.Abs(age.Std-8.0966) < 1e-3, "std %v", age.Std)
}

func TestDescribeDefaultsToNumericColumns(t *testing.T) {
	s, err := Describe(employees(t))
	assert.NilError(t, err)

	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Column)
	}
	assert.DeepEqual(t, names, []string{"Education", "Wages", "Age", "JobSatisfaction", "PerfoRating"})

	wages, _ := s.Stats("Wages")
	assert.Equal(t, wages.Count, 7)
}

func TestDescribeRejectsCategorical(t *testing.T) {
	_, err := Describe(employees(t), "Department")
	assert.Assert(t, errors.Is(err, ErrNotNumeric))

	_, err = Describe(employees(t), "Salary")
	assert.Assert(t, errors.Is(err, ErrColumnNotFound))
}

func TestSummaryRound(t *testing.T) {
	s, err := Describe(employees(t), "Age")
	assert.NilError(t, err)
	age, _ := s.Round(1).Stats("Age")
	approx(t, age.Mean, 36.1)
	approx(t, age.Std, 8.1)
}

func TestQuantile(t *testing.T) {
	assert.Assert(t, math.IsNaN(Quantile(nil, 0.5)))
	approx(t, Quantile([]float64{7}, 0.25), 7)
	approx(t, Quantile([]float64{1, 2, 3, 4}, 0.5), 2.5)
	approx(t, Quantile([]float64{1, 2, 3, 4}, 1), 4)
}

// ============================================================================
// COUNTS
// ============================================================================

func TestValueCountsOrderAndTotal(t *testing.T) {
	f, err := ValueCounts(employees(t), "Department")
	assert.NilError(t, err)

	values := make([]string, 0, len(f.Entries))
	sum := 0
	for _, e := range f.Entries {
		values = append(values, e.Value)
		sum += e.Count
	}
	// Sales and IT tie at 3; Sales appears first
	assert.DeepEqual(t, values, []string{"Sales", "IT", "HR"})
	assert.Equal(t, f.Total, 7)
	assert.Equal(t, sum, f.Total)

	missing, _ := employees(t).Missing("Department")
	nonMissing := 0
	for _, m := range missing {
		if !m {
			nonMissing++
		}
	}
	assert.Equal(t, sum, nonMissing)
}

func TestCrossTab(t *testing.T) {
	c, err := CrossTab(employees(t), "Department", "Education")
	assert.NilError(t, err)

	assert.DeepEqual(t, c.RowKeys, []string{"HR", "IT", "Sales"})
	assert.DeepEqual(t, c.ColKeys, []string{"1", "2", "3"})
	assert.Equal(t, c.Count("Sales", "2"), 2)
	assert.Equal(t, c.Count("HR", "1"), 0)
	assert.Equal(t, c.Total, 7)
	assert.DeepEqual(t, c.RowTotals, []int{1, 3, 3})
	assert.DeepEqual(t, c.ColTotals, []int{2, 3, 2})
}

// ============================================================================
// PIVOT
// ============================================================================

func TestPivotSingleGroupMean(t *testing.T) {
	p, err := Pivot(employees(t), PivotSpec{Columns: "Education", Values: "Wages", Agg: "mean"})
	assert.NilError(t, err)

	assert.DeepEqual(t, p.RowKeys, []string{"Wages"})
	assert.DeepEqual(t, p.ColKeys, []string{"1", "2", "3"})

	want := map[string]float64{"1": 2000, "2": (2000 + 1500 + 1700) / 3.0, "3": 1850}
	for k, w := range want {
		v, ok := p.Value("Wages", k)
		assert.Assert(t, ok, k)
		approx(t, v, w)
	}
}

func TestPivotAbsentCombinationsAreNil(t *testing.T) {
	p, err := Pivot(employees(t), PivotSpec{Index: "Education", Columns: "Department", Values: "Wages"})
	assert.NilError(t, err)

	assert.DeepEqual(t, p.RowKeys, []string{"1", "2", "3"})
	assert.DeepEqual(t, p.ColKeys, []string{"HR", "IT", "Sales"})

	_, ok := p.Value("1", "HR")
	assert.Assert(t, !ok)
	assert.Assert(t, p.Cells[2][1] == nil)

	v, ok := p.Value("2", "Sales")
	assert.Assert(t, ok)
	approx(t, v, 1600)
	v, _ = p.Value("3", "HR")
	approx(t, v, 2500)
}

func TestPivotIndexOnly(t *testing.T) {
	p, err := Pivot(employees(t), PivotSpec{Index: "Education", Values: "Wages"})
	assert.NilError(t, err)

	assert.DeepEqual(t, p.RowKeys, []string{"1", "2", "3"})
	assert.DeepEqual(t, p.ColKeys, []string{"Wages"})
	v, ok := p.Value("2", "Wages")
	assert.Assert(t, ok)
	approx(t, v, 5200/3.0)

	chart := BarChartFromPivot(ChartStyle{}, p)
	assert.Equal(t, chart.XLabel, "Education")
	labels := make([]string, 0, len(chart.Bars))
	for _, b := range chart.Bars {
		labels = append(labels, b.Label)
	}
	assert.DeepEqual(t, labels, []string{"1", "2", "3"})
}

func TestPivotAggregations(t *testing.T) {
	tbl := employees(t)
	tests := []struct {
		agg  string
		want float64
	}{
		{"sum", 5200},
		{"count", 3},
		{"min", 1500},
		{"max", 2000},
		{"median", 1700},
		{"avg", 5200 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.agg, func(t *testing.T) {
			p, err := Pivot(tbl, PivotSpec{Columns: "Education", Values: "Wages", Agg: tt.agg})
			assert.NilError(t, err)
			v, ok := p.Value("Wages", "2")
			assert.Assert(t, ok)
			approx(t, v, tt.want)
		})
	}
}

func TestPivotErrors(t *testing.T) {
	tbl := employees(t)

	_, err := Pivot(tbl, PivotSpec{Columns: "Education", Values: "Wages", Agg: "mode"})
	assert.Assert(t, errors.Is(err, ErrUnknownAggregation))

	_, err = Pivot(tbl, PivotSpec{Columns: "Education", Values: "Department"})
	assert.Assert(t, errors.Is(err, ErrNotNumeric))

	_, err = Pivot(tbl, PivotSpec{Columns: "Level", Values: "Wages"})
	assert.Assert(t, errors.Is(err, ErrColumnNotFound))

	_, err = Pivot(tbl, PivotSpec{Values: "Wages"})
	assert.Assert(t, errors.Is(err, ErrEmptyInput))
}

func TestPivotRound(t *testing.T) {
	p, err := Pivot(employees(t), PivotSpec{Index: "Education", Columns: "Department", Values: "Wages"})
	assert.NilError(t, err)
	r := p.Round(0)
	assert.Assert(t, r.Cells[0][0] == nil)
	v, _ := r.Value("2", "Sales")
	approx(t, v, 1600)
}

// ============================================================================
// CORRELATION
// ============================================================================

func TestCorrelationSymmetricUnitDiagonal(t *testing.T) {
	m, err := Correlation(employees(t), "Age", "JobSatisfaction", "Wages", "PerfoRating")
	assert.NilError(t, err)

	for i := range m.Columns {
		assert.Equal(t, m.Values[i][i], 1.0)
		for j := range m.Columns {
			a, b := m.Values[i][j], m.Values[j][i]
			assert.Assert(t, a == b || (math.IsNaN(a) && math.IsNaN(b)))
		}
	}
	// Wages has one missing cell; pairs with it see 7 rows
	assert.Equal(t, m.Observations[0][2], 7)
	assert.Equal(t, m.Observations[0][1], 8)
}

func TestCorrelationKnownValues(t *testing.T) {
	tbl := numericTable(t, map[string][]string{
		"x": {"1", "2", "3", "4"},
		"y": {"2", "4", "6", "8"},
		"z": {"4", "3", "2", "1"},
		"c": {"5", "5", "5", "5"},
		"w": {"1", "", "3", "4"},
	}, "x", "y", "z", "c", "w")

	m, err := Correlation(tbl)
	assert.NilError(t, err)

	approx(t, m.At("x", "y"), 1)
	approx(t, m.At("x", "z"), -1)
	assert.Assert(t, math.IsNaN(m.At("x", "c")))
	assert.Equal(t, m.At("c", "c"), 1.0)
	approx(t, m.At("x", "w"), 1)
	assert.Equal(t, m.Observations[0][4], 3)
}

func TestCorrelationRejectsCategorical(t *testing.T) {
	_, err := Correlation(employees(t), "Age", "Department")
	assert.Assert(t, errors.Is(err, ErrNotNumeric))
}

// ============================================================================
// HISTOGRAM
// ============================================================================

func TestHistogramEqualWidth(t *testing.T) {
	tbl := numericTable(t, map[string][]string{
		"v": {"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
	}, "v")

	h, err := Histogram(tbl, "v", 5)
	assert.NilError(t, err)
	assert.Equal(t, len(h.Bins), 5)
	assert.Equal(t, h.Total, 11)

	counts := make([]int, 0, 5)
	for _, b := range h.Bins {
		counts = append(counts, b.Count)
	}
	assert.DeepEqual(t, counts, []int{2, 2, 2, 2, 3})
	approx(t, h.Bins[4].Hi, 10)
}

func TestHistogramConstantColumn(t *testing.T) {
	tbl := numericTable(t, map[string][]string{"v": {"7", "7", ""}}, "v")

	h, err := Histogram(tbl, "v", 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, h.Bins, []Bin{{Lo: 6.5, Hi: 7.5, Count: 2}})
}

func TestHistogramEmpty(t *testing.T) {
	tbl := numericTable(t, map[string][]string{"v": {"", ""}}, "v")
	_, err := Histogram(tbl, "v", 10)
	assert.Assert(t, errors.Is(err, ErrEmptyInput))
}

func TestHistogramSkipsInfinities(t *testing.T) {
	tbl := numericTable(t, map[string][]string{"w": {"1", "2", "inf", "-Inf"}}, "w")

	h, err := Histogram(tbl, "w", 10)
	assert.NilError(t, err)
	assert.Equal(t, h.Total, 2)
	approx(t, h.Bins[0].Lo, 1)
	approx(t, h.Bins[9].Hi, 2)
	assert.Equal(t, h.Bins[0].Count, 1)
	assert.Equal(t, h.Bins[9].Count, 1)

	only := numericTable(t, map[string][]string{"w": {"Inf", ""}}, "w")
	_, err = Histogram(only, "w", 10)
	assert.Assert(t, errors.Is(err, ErrEmptyInput))
}

func TestHistogramExtremeRange(t *testing.T) {
	tbl := numericTable(t, map[string][]string{"w": {"-1e308", "0", "1e308"}}, "w")

	h, err := Histogram(tbl, "w", 10)
	assert.NilError(t, err)
	assert.Equal(t, len(h.Bins), 10)

	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	assert.Equal(t, total, 3)
	assert.Equal(t, h.Bins[0].Count, 1)
	assert.Equal(t, h.Bins[9].Count, 1)
}

func TestHistStepWithInfiniteCell(t *testing.T) {
	tbl := numericTable(t, map[string][]string{"Wages": {"100", "200", "Inf"}}, "Wages")

	_, chart, err := RunStep(Step{Op: OpHist, Column: "Wages"}, tbl)
	assert.NilError(t, err)
	assert.Equal(t, len(chart.Bars), DefaultBins)
}

// ============================================================================
// FILTERS
// ============================================================================

func TestApplyFilters(t *testing.T) {
	tbl := employees(t)

	sales, err := ApplyFilters(tbl, Filters{Columns: map[string][]string{"Department": {"sales"}}})
	assert.NilError(t, err)
	assert.Equal(t, sales.Rows(), 3)

	both, err := ApplyFilters(tbl, Filters{Columns: map[string][]string{
		"Department": {"Sales", "HR"},
		"Education":  {"2"},
	}})
	assert.NilError(t, err)
	assert.Equal(t, both.Rows(), 2)

	// source table untouched
	assert.Equal(t, tbl.Rows(), 8)

	same, err := ApplyFilters(tbl, Filters{})
	assert.NilError(t, err)
	assert.Equal(t, same, tbl)

	_, err = ApplyFilters(tbl, Filters{Columns: map[string][]string{"Team": {"x"}}})
	assert.Assert(t, errors.Is(err, ErrColumnNotFound))
}
