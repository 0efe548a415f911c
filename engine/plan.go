package engine

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// PLAN — Ordered exploration steps
// ============================================================================
// A Plan is a fixed sequence of steps run one after another against a single
// table. Each step names an op and the columns it reads; a step may carry its
// own filters, precision and chart options.
// ============================================================================

// Op names a plan step.
type Op string

const (
	OpShape     Op = "shape"
	OpHead      Op = "head"
	OpInfo      Op = "info"
	OpDescribe  Op = "describe"
	OpCounts    Op = "counts"
	OpCrossTab  Op = "crosstab"
	OpPivot     Op = "pivot"
	OpCorr      Op = "corr"
	OpHistTable Op = "bins"
	OpBar       Op = "bar"
	OpHist      Op = "hist"
	OpScatter   Op = "scatter"
)

// Ops lists every op a Step may name.
var Ops = []Op{OpShape, OpHead, OpInfo, OpDescribe, OpCounts, OpCrossTab, OpPivot, OpCorr, OpHistTable, OpBar, OpHist, OpScatter}

// IsChart reports whether the op produces a chart rather than a table.
func (o Op) IsChart() bool {
	return o == OpBar || o == OpHist || o == OpScatter
}

// Step is one plan entry. Which fields matter depends on Op:
//
//	head      Rows
//	describe  Columns (optional)
//	counts    Column
//	crosstab  Index (rows), Column (columns)
//	pivot     Index (optional), Column, Values, Agg
//	corr      Columns (optional)
//	bins      Column, Bins
//	bar       Column, Values, Agg (pivot bar) or Column alone (count bar)
//	hist      Column, Bins
//	scatter   X, Y
type Step struct {
	Op        Op         `json:"op" yaml:"op"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Column    string     `json:"column,omitempty" yaml:"column,omitempty"`
	Columns   []string   `json:"columns,omitempty" yaml:"columns,omitempty"`
	Index     string     `json:"index,omitempty" yaml:"index,omitempty"`
	Values    string     `json:"values,omitempty" yaml:"values,omitempty"`
	Agg       string     `json:"agg,omitempty" yaml:"agg,omitempty"`
	X         string     `json:"x,omitempty" yaml:"x,omitempty"`
	Y         string     `json:"y,omitempty" yaml:"y,omitempty"`
	Rows      int        `json:"rows,omitempty" yaml:"rows,omitempty"`
	Bins      int        `json:"bins,omitempty" yaml:"bins,omitempty"`
	Precision *int       `json:"precision,omitempty" yaml:"precision,omitempty"`
	Filters   Filters    `json:"filters,omitempty" yaml:"filters,omitempty"`
	Style     ChartStyle `json:"style,omitempty" yaml:"style,omitempty"`
	Note      string     `json:"note,omitempty" yaml:"note,omitempty"`
}

// Plan is an ordered list of steps.
type Plan struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

func digits(n int) *int { return &n }

// DefaultPlan reproduces the employee turnover walkthrough: shape, first
// rows, column info, numeric summary, department counts, department by
// travel crosstab, wage pivots by education, a correlation matrix, then the
// bar, histogram and scatter figures.
func DefaultPlan() Plan {
	return Plan{
		Name: "turnover",
		Steps: []Step{
			{Op: OpShape, Title: "Shape", Note: "{rows} rows, {columns} columns"},
			{Op: OpHead, Title: "First rows", Rows: 10},
			{Op: OpInfo, Title: "Columns"},
			{Op: OpDescribe, Title: "Numeric summary", Precision: digits(1)},
			{Op: OpCounts, Title: "Department", Column: "Department",
				Note: "Most frequent: {top} ({top_count} of {total})"},
			{Op: OpCrossTab, Title: "Department by business travel", Index: "Department", Column: "BusinessTravel"},
			{Op: OpPivot, Title: "Mean wages by education", Column: "Education", Values: "Wages", Agg: "mean", Precision: digits(1)},
			{Op: OpBar, Column: "Education", Values: "Wages", Agg: "mean",
				Style: ChartStyle{Title: "Figure 1. Barplot", Color: "0.7"}},
			{Op: OpPivot, Title: "Mean wages by education and department", Index: "Education", Column: "Department", Values: "Wages", Agg: "mean", Precision: digits(1)},
			{Op: OpCorr, Title: "Correlation", Columns: []string{"Age", "JobSatisfaction", "Wages", "PerfoRating"}, Precision: digits(2)},
			{Op: OpHist, Column: "Wages",
				Style: ChartStyle{Title: "Figure 2. Histogram", XLabel: "Wages", Color: "0.7"}},
			{Op: OpScatter, X: "Age", Y: "Wages",
				Style: ChartStyle{Title: "Figure 3. Scatterplot", Color: "0.7", PointSize: 1}},
		},
	}
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, errors.Wrap(err, "read plan")
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(data []byte) (Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, errors.Wrap(err, "parse plan")
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks that every step names a known op and the fields it needs.
// Column existence is checked at execution time against the actual table.
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errors.Wrap(ErrEmptyInput, "plan has no steps")
	}
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i+1, s.Op)
		}
	}
	return nil
}

func (s Step) validate() error {
	need := func(field, value string) error {
		if value == "" {
			return errors.Errorf("%s is required", field)
		}
		return nil
	}

	switch s.Op {
	case OpShape, OpInfo, OpDescribe, OpCorr:
		return nil
	case OpHead:
		if s.Rows < 0 {
			return errors.New("rows must not be negative")
		}
		return nil
	case OpCounts, OpHist, OpHistTable:
		return need("column", s.Column)
	case OpCrossTab:
		if err := need("index", s.Index); err != nil {
			return err
		}
		return need("column", s.Column)
	case OpPivot:
		if s.Column == "" && s.Index == "" {
			return errors.New("column or index is required")
		}
		if err := need("values", s.Values); err != nil {
			return err
		}
		return validAgg(s.Agg)
	case OpBar:
		if err := need("column", s.Column); err != nil {
			return err
		}
		if s.Values != "" {
			return validAgg(s.Agg)
		}
		return nil
	case OpScatter:
		if err := need("x", s.X); err != nil {
			return err
		}
		return need("y", s.Y)
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", s.Op)
	}
}

func validAgg(agg string) error {
	if agg == "" {
		return nil
	}
	if !isAggregation(normalizeAggregation(agg)) {
		return errors.Wrapf(ErrUnknownAggregation, "%q", agg)
	}
	return nil
}
