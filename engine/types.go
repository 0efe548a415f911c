package engine

import "math"

// ============================================================================
// ENGINE TYPES — Summary views over a table.Table
// ============================================================================
// Every view is computed on demand from a Table and never written back.
// Builders turn views into TableData (text/json/yaml output) or ChartConfig
// (input to the render package).
// ============================================================================

// ============================================================================
// NUMERIC SUMMARY
// ============================================================================

// ColumnStats is the describe() line for one numeric column.
// Quartiles use linear interpolation between closest ranks.
type ColumnStats struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Q50    float64 `json:"q50" yaml:"q50"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// NumericSummary holds ColumnStats in table column order.
type NumericSummary struct {
	Columns []ColumnStats `json:"columns" yaml:"columns"`
}

// Stats returns the line for a column.
func (s *NumericSummary) Stats(column string) (ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Round returns a copy with every statistic rounded to digits decimals.
func (s *NumericSummary) Round(digits int) *NumericSummary {
	out := &NumericSummary{Columns: make([]ColumnStats, len(s.Columns))}
	for i, c := range s.Columns {
		out.Columns[i] = ColumnStats{
			Column: c.Column,
			Count:  c.Count,
			Mean:   RoundTo(c.Mean, digits),
			Std:    RoundTo(c.Std, digits),
			Min:    RoundTo(c.Min, digits),
			Q25:    RoundTo(c.Q25, digits),
			Q50:    RoundTo(c.Q50, digits),
			Q75:    RoundTo(c.Q75, digits),
			Max:    RoundTo(c.Max, digits),
		}
	}
	return out
}

// ============================================================================
// FREQUENCIES
// ============================================================================

// FrequencyEntry is one distinct value and how often it occurs.
type FrequencyEntry struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Frequency is a value count over one column, highest count first.
type Frequency struct {
	Column  string           `json:"column" yaml:"column"`
	Entries []FrequencyEntry `json:"entries" yaml:"entries"`
	Total   int              `json:"total" yaml:"total"` // non-missing rows
}

// Contingency holds co-occurrence counts of two columns.
type Contingency struct {
	RowColumn string   `json:"rowColumn" yaml:"rowColumn"`
	ColColumn string   `json:"colColumn" yaml:"colColumn"`
	RowKeys   []string `json:"rowKeys" yaml:"rowKeys"`
	ColKeys   []string `json:"colKeys" yaml:"colKeys"`
	Counts    [][]int  `json:"counts" yaml:"counts"` // [row][col]
	RowTotals []int    `json:"rowTotals" yaml:"rowTotals"`
	ColTotals []int    `json:"colTotals" yaml:"colTotals"`
	Total     int      `json:"total" yaml:"total"`
}

// Count returns the co-occurrence count for a pair of keys.
func (c *Contingency) Count(row, col string) int {
	i, j := indexOf(c.RowKeys, row), indexOf(c.ColKeys, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Counts[i][j]
}

// ============================================================================
// PIVOT
// ============================================================================

// PivotSpec describes a pivot aggregation. Index is optional; without it the
// result has a single row named after Values.
type PivotSpec struct {
	Index   string `json:"index,omitempty" yaml:"index,omitempty"`
	Columns string `json:"columns" yaml:"columns"`
	Values  string `json:"values" yaml:"values"`
	Agg     string `json:"agg" yaml:"agg"`
}

// PivotTable holds aggregated values per (row key, column key).
// A nil cell is a group combination with no rows.
type PivotTable struct {
	Spec    PivotSpec    `json:"spec" yaml:"spec"`
	RowKeys []string     `json:"rowKeys" yaml:"rowKeys"`
	ColKeys []string     `json:"colKeys" yaml:"colKeys"`
	Cells   [][]*float64 `json:"cells" yaml:"cells"`
}

// Value returns a cell and whether the combination exists.
func (p *PivotTable) Value(row, col string) (float64, bool) {
	i, j := indexOf(p.RowKeys, row), indexOf(p.ColKeys, col)
	if i < 0 || j < 0 || p.Cells[i][j] == nil {
		return 0, false
	}
	return *p.Cells[i][j], true
}

// Round returns a copy with present cells rounded.
func (p *PivotTable) Round(digits int) *PivotTable {
	out := &PivotTable{Spec: p.Spec, RowKeys: p.RowKeys, ColKeys: p.ColKeys}
	out.Cells = make([][]*float64, len(p.Cells))
	for i, row := range p.Cells {
		out.Cells[i] = make([]*float64, len(row))
		for j, c := range row {
			if c != nil {
				v := RoundTo(*c, digits)
				out.Cells[i][j] = &v
			}
		}
	}
	return out
}

// ============================================================================
// CORRELATION
// ============================================================================

// CorrelationMatrix is a symmetric Pearson matrix with a unit diagonal.
// Observations counts the pairwise-complete rows behind each coefficient.
type CorrelationMatrix struct {
	Columns      []string    `json:"columns" yaml:"columns"`
	Values       [][]float64 `json:"values" yaml:"values"`
	Observations [][]int     `json:"observations" yaml:"observations"`
}

// At returns the coefficient for two columns, NaN when either is unknown.
func (m *CorrelationMatrix) At(a, b string) float64 {
	i, j := indexOf(m.Columns, a), indexOf(m.Columns, b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// ============================================================================
// HISTOGRAM
// ============================================================================

// Bin is a half-open interval [Lo, Hi); the last bin also holds Hi.
type Bin struct {
	Lo    float64 `json:"lo" yaml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi"`
	Count int     `json:"count" yaml:"count"`
}

// HistogramView is an equal-width binning of one numeric column.
type HistogramView struct {
	Column string `json:"column" yaml:"column"`
	Bins   []Bin  `json:"bins" yaml:"bins"`
	Total  int    `json:"total" yaml:"total"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a summary as rows of text.
type TableData struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []Column   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Note    string     `json:"note,omitempty" yaml:"note,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`   // "text", "number"
	Align string `json:"align" yaml:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label" yaml:"label"`
	Values map[string]string `json:"values" yaml:"values"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartKind names a chart family.
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartHistogram ChartKind = "histogram"
	ChartScatter   ChartKind = "scatter"
)

// ChartStyle carries display options. Zero values fall back to defaults.
type ChartStyle struct {
	Title     string  `json:"title,omitempty" yaml:"title,omitempty"`
	XLabel    string  `json:"xLabel,omitempty" yaml:"xLabel,omitempty"`
	YLabel    string  `json:"yLabel,omitempty" yaml:"yLabel,omitempty"`
	Width     int     `json:"width,omitempty" yaml:"width,omitempty"`   // pixels
	Height    int     `json:"height,omitempty" yaml:"height,omitempty"` // pixels
	Color     string  `json:"color,omitempty" yaml:"color,omitempty"`   // "0.7" gray level or "#RRGGBB"
	PointSize float64 `json:"pointSize,omitempty" yaml:"pointSize,omitempty"`
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	Kind ChartKind `json:"kind" yaml:"kind"`
	ChartStyle `yaml:",inline"`

	Bars    []ChartPoint `json:"bars,omitempty" yaml:"bars,omitempty"`     // bar, histogram
	Points  []XY         `json:"points,omitempty" yaml:"points,omitempty"` // scatter
	Caption string       `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// ChartPoint is a labelled bar.
type ChartPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// XY is a scatter point.
type XY struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
