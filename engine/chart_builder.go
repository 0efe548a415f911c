package engine

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from summary views or raw columns
// ============================================================================
// Builders only shape data; they do not judge whether it is plottable.
// Empty or non-finite input is rejected by the render package.
// ============================================================================

// BarChartFromPivot draws one bar per present pivot cell. A single-row pivot
// is labelled by column key alone; otherwise labels read "row/col".
func BarChartFromPivot(style ChartStyle, p *PivotTable) *ChartConfig {
	cfg := &ChartConfig{Kind: ChartBar, ChartStyle: style}
	if cfg.XLabel == "" {
		cfg.XLabel = p.Spec.Columns
		if cfg.XLabel == "" {
			cfg.XLabel = p.Spec.Index
		}
	}
	if cfg.YLabel == "" {
		cfg.YLabel = LabelForAggregation(p.Spec.Agg) + " " + p.Spec.Values
	}

	singleRow, singleCol := len(p.RowKeys) == 1, len(p.ColKeys) == 1
	for i, rk := range p.RowKeys {
		for j, ck := range p.ColKeys {
			c := p.Cells[i][j]
			if c == nil {
				continue
			}
			var label string
			switch {
			case singleRow:
				label = ck
			case singleCol:
				label = rk
			default:
				label = rk + "/" + ck
			}
			cfg.Bars = append(cfg.Bars, ChartPoint{Label: label, Value: *c})
		}
	}
	return cfg
}

// BarChartFromFrequency draws one bar per distinct value, in count order.
func BarChartFromFrequency(style ChartStyle, f *Frequency) *ChartConfig {
	cfg := &ChartConfig{Kind: ChartBar, ChartStyle: style}
	if cfg.XLabel == "" {
		cfg.XLabel = f.Column
	}
	if cfg.YLabel == "" {
		cfg.YLabel = "Count"
	}
	for _, e := range f.Entries {
		cfg.Bars = append(cfg.Bars, ChartPoint{Label: e.Value, Value: float64(e.Count)})
	}
	return cfg
}

// HistogramChart draws adjacent bars labelled by their lower edge.
func HistogramChart(style ChartStyle, h *HistogramView) *ChartConfig {
	cfg := &ChartConfig{Kind: ChartHistogram, ChartStyle: style}
	if cfg.XLabel == "" {
		cfg.XLabel = h.Column
	}
	if cfg.YLabel == "" {
		cfg.YLabel = "Frequency"
	}
	for _, b := range h.Bins {
		cfg.Bars = append(cfg.Bars, ChartPoint{Label: compactNumber(b.Lo), Value: float64(b.Count)})
	}
	return cfg
}

// ScatterChart pairs two numeric columns over rows where both are present.
// The caption records how many rows were dropped.
func ScatterChart(style ChartStyle, t *table.Table, x, y string) (*ChartConfig, error) {
	xs, err := t.Floats(x)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	ys, err := t.Floats(y)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}

	cfg := &ChartConfig{Kind: ChartScatter, ChartStyle: style}
	if cfg.XLabel == "" {
		cfg.XLabel = x
	}
	if cfg.YLabel == "" {
		cfg.YLabel = y
	}

	px, py := pairwiseComplete(xs, ys)
	cfg.Points = make([]XY, len(px))
	for i := range px {
		cfg.Points[i] = XY{X: px[i], Y: py[i]}
	}
	cfg.Caption = fmt.Sprintf("n=%d", len(px))
	if dropped := t.Rows() - len(px); dropped > 0 {
		cfg.Caption += fmt.Sprintf(" (%d rows with missing values excluded)", dropped)
	}
	return cfg, nil
}

// MergeStyle overlays the non-zero fields of over onto base.
func MergeStyle(base, over ChartStyle) ChartStyle {
	if over.Title != "" {
		base.Title = over.Title
	}
	if over.XLabel != "" {
		base.XLabel = over.XLabel
	}
	if over.YLabel != "" {
		base.YLabel = over.YLabel
	}
	if over.Width > 0 {
		base.Width = over.Width
	}
	if over.Height > 0 {
		base.Height = over.Height
	}
	if over.Color != "" {
		base.Color = over.Color
	}
	if over.PointSize > 0 {
		base.PointSize = over.PointSize
	}
	return base
}

// compactNumber trims bin edges for axis labels.
func compactNumber(v float64) string {
	if math.Abs(v) >= 100 {
		return FormatFloat(v, 0)
	}
	return FormatFloat(v, 2)
}
