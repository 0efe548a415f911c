package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// EXECUTOR — Runs a Plan against a Table
// ============================================================================
// Entry point: Execute(ctx, plan, t, sink, opts...)
//
// Per step:
//   1. Apply step filters → derived Table
//   2. Compute the summary view
//   3. Dispatch to builder (table / chart)
//   4. Resolve the step note
//   5. Hand the result to the Sink
//
// Steps run strictly in order; the first error stops the run. The input
// table is never modified.
// ============================================================================

// Sink receives step results as they are produced.
type Sink interface {
	Table(td *TableData) error
	Chart(cfg *ChartConfig) error
}

// Result summarises a finished run.
type Result struct {
	RunID  string `json:"runId" yaml:"runId"`
	Steps  int    `json:"steps" yaml:"steps"`
	Tables int    `json:"tables" yaml:"tables"`
	Charts int    `json:"charts" yaml:"charts"`
}

// Execute runs every step of plan against t and delivers results to sink.
//
// Options:
//   - WithPrecision(n) — decimals for steps without their own precision
//   - WithBins(n) — histogram bins for steps without their own
//   - WithChartDefaults(style) — base style under every chart step
//   - WithLogger(l), WithRunID(id)
func Execute(ctx context.Context, plan Plan, t *table.Table, sink Sink, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger.WithFields(logrus.Fields{"run_id": cfg.RunID, "plan": plan.Name})
	rows, cols := t.Shape()
	logger.WithFields(logrus.Fields{"rows": rows, "columns": cols, "steps": len(plan.Steps)}).Info("🔧 Executing plan")

	res := &Result{RunID: cfg.RunID}
	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		stepLog := logger.WithFields(logrus.Fields{"step": i + 1, "op": step.Op})
		td, chart, err := runStep(step, t, cfg)
		if err != nil {
			return res, errors.Wrapf(err, "step %d (%s)", i+1, step.Op)
		}

		if td != nil {
			if err := sink.Table(td); err != nil {
				return res, errors.Wrapf(err, "step %d (%s): sink", i+1, step.Op)
			}
			res.Tables++
			stepLog.WithField("rows", len(td.Rows)).Debug("📋 Table produced")
		}
		if chart != nil {
			if err := sink.Chart(chart); err != nil {
				return res, errors.Wrapf(err, "step %d (%s): sink", i+1, step.Op)
			}
			res.Charts++
			stepLog.WithField("title", chart.Title).Debug("📊 Chart produced")
		}
		res.Steps++
	}

	logger.WithFields(logrus.Fields{"tables": res.Tables, "charts": res.Charts}).Info("✅ Plan complete")
	return res, nil
}

// RunStep executes a single step with default options.
func RunStep(step Step, t *table.Table, opts ...Option) (*TableData, *ChartConfig, error) {
	if err := step.validate(); err != nil {
		return nil, nil, err
	}
	return runStep(step, t, applyOptions(opts))
}

func runStep(step Step, t *table.Table, cfg *config) (*TableData, *ChartConfig, error) {
	// 1. Filters → derived table
	view, err := ApplyFilters(t, step.Filters)
	if err != nil {
		return nil, nil, err
	}
	if !step.Filters.IsEmpty() {
		cfg.Logger.WithFields(logrus.Fields{"op": step.Op, "rows": view.Rows(), "from": t.Rows()}).Debug("🔎 Filtered")
	}

	prec := cfg.Precision
	if step.Precision != nil {
		prec = *step.Precision
	}
	title := step.Title
	if title == "" {
		title = string(step.Op)
	}

	// 2–3. Compute and build
	var td *TableData
	var vars Placeholders

	switch step.Op {
	case OpShape:
		td = ShapeTable(title, view)
		r, c := view.Shape()
		vars = shapePlaceholders(r, c)

	case OpHead:
		n := step.Rows
		if n == 0 {
			n = 5
		}
		td, err = HeadTable(title, view, n)

	case OpInfo:
		td = InfoTable(title, view)
		r, c := view.Shape()
		vars = shapePlaceholders(r, c)

	case OpDescribe:
		var s *NumericSummary
		if s, err = Describe(view, step.Columns...); err == nil {
			td = DescribeTable(title, s, prec)
		}

	case OpCounts:
		var f *Frequency
		if f, err = ValueCounts(view, step.Column); err == nil {
			td = FrequencyTable(title, f, prec)
			vars = frequencyPlaceholders(f, prec)
		}

	case OpCrossTab:
		var c *Contingency
		if c, err = CrossTab(view, step.Index, step.Column); err == nil {
			td = ContingencyTable(title, c)
		}

	case OpPivot:
		var p *PivotTable
		if p, err = Pivot(view, step.pivotSpec()); err == nil {
			td = PivotTableData(title, p, prec)
			vars = pivotPlaceholders(p, prec)
		}

	case OpCorr:
		var m *CorrelationMatrix
		if m, err = Correlation(view, step.Columns...); err == nil {
			td = CorrelationTable(title, m, prec)
			vars = correlationPlaceholders(m, prec)
		}

	case OpHistTable:
		var h *HistogramView
		if h, err = Histogram(view, step.Column, step.binsOr(cfg.Bins)); err == nil {
			td = HistogramTable(title, h, prec)
		}

	case OpBar, OpHist, OpScatter:
		chart, err := buildChart(step, view, cfg)
		if err != nil {
			return nil, nil, err
		}
		if note := ResolvePlaceholders(step.Note, chartPlaceholders(chart)); note != "" {
			cfg.Logger.WithField("op", step.Op).Info("📝 " + note)
		}
		return nil, chart, nil

	default:
		return nil, nil, errors.Wrapf(ErrUnknownOp, "%q", step.Op)
	}
	if err != nil {
		return nil, nil, err
	}

	// 4. Note
	td.Note = ResolvePlaceholders(step.Note, vars)
	return td, nil, nil
}

func buildChart(step Step, view *table.Table, cfg *config) (*ChartConfig, error) {
	style := MergeStyle(cfg.Style, step.Style)

	switch step.Op {
	case OpBar:
		if step.Values == "" {
			f, err := ValueCounts(view, step.Column)
			if err != nil {
				return nil, err
			}
			return BarChartFromFrequency(style, f), nil
		}
		p, err := Pivot(view, step.pivotSpec())
		if err != nil {
			return nil, err
		}
		return BarChartFromPivot(style, p), nil

	case OpHist:
		h, err := Histogram(view, step.Column, step.binsOr(cfg.Bins))
		if errors.Is(err, ErrEmptyInput) {
			// nothing to bin; the renderer reports the empty view
			return HistogramChart(style, &HistogramView{Column: step.Column}), nil
		}
		if err != nil {
			return nil, err
		}
		return HistogramChart(style, h), nil

	default:
		return ScatterChart(style, view, step.X, step.Y)
	}
}

func (s Step) pivotSpec() PivotSpec {
	return PivotSpec{Index: s.Index, Columns: s.Column, Values: s.Values, Agg: s.Agg}
}

func (s Step) binsOr(def int) int {
	if s.Bins > 0 {
		return s.Bins
	}
	return def
}
