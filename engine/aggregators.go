package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// AGGREGATORS — Grouping and pivot aggregation
// ============================================================================
// Pipeline: complete rows → group → aggregate → place into pivot cells.
// Groups hold row indices into the table; values are read once per group.
// ============================================================================

// Aggregations lists the names Pivot understands.
var Aggregations = []string{"mean", "sum", "count", "min", "max", "median", "std"}

// Group is a set of rows sharing a key, optionally split again by a second key.
type Group struct {
	Key       string
	Rows      []int
	SubGroups []Group
}

// Pivot aggregates spec.Values per combination of spec.Index and
// spec.Columns. Either grouping column may be left out: without Index the
// result is one row named after Values, without Columns one column named
// after Values. Combinations without rows are nil cells, never zero.
func Pivot(t *table.Table, spec PivotSpec) (*PivotTable, error) {
	if spec.Agg == "" {
		spec.Agg = "mean"
	}
	spec.Agg = normalizeAggregation(spec.Agg)
	if !isAggregation(spec.Agg) {
		return nil, errors.Wrapf(ErrUnknownAggregation, "pivot: %q", spec.Agg)
	}
	if spec.Values == "" || (spec.Columns == "" && spec.Index == "") {
		return nil, errors.Wrap(ErrEmptyInput, "pivot: values and a grouping column are required")
	}

	values, err := t.Floats(spec.Values)
	if err != nil {
		return nil, errors.Wrap(err, "pivot")
	}

	referenced := []string{spec.Values}
	for _, c := range []string{spec.Index, spec.Columns} {
		if c != "" {
			referenced = append(referenced, c)
		}
	}
	rows, err := t.CompleteRows(referenced...)
	if err != nil {
		return nil, errors.Wrap(err, "pivot")
	}

	var groups []Group
	switch {
	case spec.Index == "":
		colKeys, err := t.Strings(spec.Columns)
		if err != nil {
			return nil, errors.Wrap(err, "pivot")
		}
		groups = []Group{{
			Key:       spec.Values,
			Rows:      rows,
			SubGroups: groupBySingle(rows, colKeys),
		}}
	case spec.Columns == "":
		idxKeys, err := t.Strings(spec.Index)
		if err != nil {
			return nil, errors.Wrap(err, "pivot")
		}
		groups = groupBySingle(rows, idxKeys)
		for i := range groups {
			groups[i].SubGroups = []Group{{Key: spec.Values, Rows: groups[i].Rows}}
		}
	default:
		idxKeys, err := t.Strings(spec.Index)
		if err != nil {
			return nil, errors.Wrap(err, "pivot")
		}
		colKeys, err := t.Strings(spec.Columns)
		if err != nil {
			return nil, errors.Wrap(err, "pivot")
		}
		groups = groupByMulti(rows, idxKeys, colKeys)
	}

	p := &PivotTable{Spec: spec}
	colSet := make(map[string]bool)
	for _, g := range groups {
		p.RowKeys = append(p.RowKeys, g.Key)
		for _, sg := range g.SubGroups {
			colSet[sg.Key] = true
		}
	}
	p.ColKeys = keysOf(colSet)
	t.SortKeys(spec.Columns, p.ColKeys)
	if spec.Index != "" {
		t.SortKeys(spec.Index, p.RowKeys)
	}

	p.Cells = make([][]*float64, len(p.RowKeys))
	for i := range p.Cells {
		p.Cells[i] = make([]*float64, len(p.ColKeys))
	}
	for _, g := range groups {
		i := indexOf(p.RowKeys, g.Key)
		for _, sg := range g.SubGroups {
			j := indexOf(p.ColKeys, sg.Key)
			v := aggregate(gather(values, sg.Rows), spec.Agg)
			p.Cells[i][j] = &v
		}
	}
	return p, nil
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle splits rows by key, keeping first-appearance order.
func groupBySingle(rows []int, keys []string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for _, r := range rows {
		key := keys[r]
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{Key: key, Rows: grouped[key]})
	}
	return groups
}

func groupByMulti(rows []int, primary, secondary []string) []Group {
	groups := groupBySingle(rows, primary)
	for i := range groups {
		groups[i].SubGroups = groupBySingle(groups[i].Rows, secondary)
	}
	return groups
}

func gather(values []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregate(vals []float64, aggregation string) float64 {
	if len(vals) == 0 {
		if aggregation == "count" || aggregation == "sum" {
			return 0
		}
		return math.NaN()
	}

	switch aggregation {
	case "sum":
		return floats.Sum(vals)
	case "count":
		return float64(len(vals))
	case "mean":
		return stat.Mean(vals, nil)
	case "max":
		return floats.Max(vals)
	case "min":
		return floats.Min(vals)
	case "median":
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		return Quantile(sorted, 0.5)
	case "std":
		return sampleStd(vals)
	default:
		return stat.Mean(vals, nil)
	}
}

func normalizeAggregation(agg string) string {
	agg = strings.ToLower(strings.TrimSpace(agg))
	switch agg {
	case "avg", "average":
		return "mean"
	case "total":
		return "sum"
	}
	return agg
}

func isAggregation(agg string) bool {
	for _, a := range Aggregations {
		if a == agg {
			return true
		}
	}
	return false
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch normalizeAggregation(aggregation) {
	case "sum":
		return "Sum"
	case "count":
		return "Count"
	case "mean":
		return "Mean"
	case "max":
		return "Maximum"
	case "min":
		return "Minimum"
	case "median":
		return "Median"
	case "std":
		return "Std. deviation"
	default:
		return "Value"
	}
}
