package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from summary views
// ============================================================================
// The first column of every table is a left-aligned text label; the rest are
// right-aligned numbers. Numbers are formatted at the requested precision and
// undefined values print as NaN.
// ============================================================================

// ShapeTable reports row and column counts.
func ShapeTable(title string, t *table.Table) *TableData {
	rows, cols := t.Shape()
	return &TableData{
		Title: title,
		Columns: []Column{
			numberColumn("rows", "Rows"),
			numberColumn("columns", "Columns"),
		},
		Rows: [][]string{{strconv.Itoa(rows), strconv.Itoa(cols)}},
	}
}

// HeadTable lists the first n rows as they were loaded.
func HeadTable(title string, t *table.Table, n int) (*TableData, error) {
	head, err := t.Head(n)
	if err != nil {
		return nil, err
	}

	names := head.Names()
	columns := make([]Column, 0, len(names)+1)
	columns = append(columns, textColumn("row", ""))
	cells := make([][]string, len(names))
	for i, name := range names {
		kind, _ := head.Kind(name)
		if kind == table.Numeric {
			columns = append(columns, numberColumn(name, name))
		} else {
			columns = append(columns, textColumn(name, name))
		}
		vals, err := head.Strings(name)
		if err != nil {
			return nil, err
		}
		cells[i] = vals
	}

	rows := make([][]string, head.Rows())
	for r := range rows {
		row := make([]string, 0, len(columns))
		row = append(row, strconv.Itoa(r))
		for c := range names {
			v := cells[c][r]
			if v == "" {
				v = "NaN"
			}
			row = append(row, v)
		}
		rows[r] = row
	}

	return &TableData{Title: title, Columns: columns, Rows: rows}, nil
}

// InfoTable lists every column with its kind and non-missing count.
func InfoTable(title string, t *table.Table) *TableData {
	info := t.Info()
	rows := make([][]string, 0, len(info))
	for i, c := range info {
		rows = append(rows, []string{strconv.Itoa(i), c.Name, strconv.Itoa(c.NonMissing), c.Kind.String()})
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			numberColumn("index", "#"),
			textColumn("column", "Column"),
			numberColumn("nonMissing", "Non-Missing Count"),
			textColumn("kind", "Kind"),
		},
		Rows: rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("%d entries", t.Rows()),
			Values: map[string]string{"column": fmt.Sprintf("%d columns", len(info))},
		},
	}
}

// DescribeTable lays a NumericSummary out with statistics as rows and
// columns across.
func DescribeTable(title string, s *NumericSummary, digits int) *TableData {
	columns := make([]Column, 0, len(s.Columns)+1)
	columns = append(columns, textColumn("stat", ""))
	for _, c := range s.Columns {
		columns = append(columns, numberColumn(c.Column, c.Column))
	}

	stats := []struct {
		label string
		get   func(ColumnStats) float64
	}{
		{"count", func(c ColumnStats) float64 { return float64(c.Count) }},
		{"mean", func(c ColumnStats) float64 { return c.Mean }},
		{"std", func(c ColumnStats) float64 { return c.Std }},
		{"min", func(c ColumnStats) float64 { return c.Min }},
		{"25%", func(c ColumnStats) float64 { return c.Q25 }},
		{"50%", func(c ColumnStats) float64 { return c.Q50 }},
		{"75%", func(c ColumnStats) float64 { return c.Q75 }},
		{"max", func(c ColumnStats) float64 { return c.Max }},
	}

	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		row := []string{st.label}
		for _, c := range s.Columns {
			row = append(row, FormatFloat(st.get(c), digits))
		}
		rows = append(rows, row)
	}
	return &TableData{Title: title, Columns: columns, Rows: rows}
}

// FrequencyTable lists value counts with their share of the total.
func FrequencyTable(title string, f *Frequency, digits int) *TableData {
	rows := make([][]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		rows = append(rows, []string{e.Value, strconv.Itoa(e.Count), FormatFloat(e.Percent, digits)})
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			textColumn("value", f.Column),
			numberColumn("count", "Count"),
			numberColumn("percent", "%"),
		},
		Rows: rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": strconv.Itoa(f.Total)},
		},
	}
}

// ContingencyTable lays co-occurrence counts out as a grid with totals.
func ContingencyTable(title string, c *Contingency) *TableData {
	columns := make([]Column, 0, len(c.ColKeys)+1)
	columns = append(columns, textColumn("row", c.RowColumn+" \\ "+c.ColColumn))
	for _, k := range c.ColKeys {
		columns = append(columns, numberColumn(k, k))
	}

	rows := make([][]string, 0, len(c.RowKeys))
	for i, rk := range c.RowKeys {
		row := []string{rk}
		for j := range c.ColKeys {
			row = append(row, strconv.Itoa(c.Counts[i][j]))
		}
		rows = append(rows, row)
	}

	totals := make(map[string]string, len(c.ColKeys))
	for j, k := range c.ColKeys {
		totals[k] = strconv.Itoa(c.ColTotals[j])
	}
	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{Label: fmt.Sprintf("Total (%d)", c.Total), Values: totals},
	}
}

// PivotTableData lays a pivot out with row keys down and column keys across.
// Absent combinations print as NaN.
func PivotTableData(title string, p *PivotTable, digits int) *TableData {
	corner := p.Spec.Index
	if corner == "" {
		corner = p.Spec.Columns
	}
	columns := make([]Column, 0, len(p.ColKeys)+1)
	columns = append(columns, textColumn("row", corner))
	for _, k := range p.ColKeys {
		columns = append(columns, numberColumn(k, k))
	}

	rows := make([][]string, 0, len(p.RowKeys))
	for i, rk := range p.RowKeys {
		row := []string{rk}
		for j := range p.ColKeys {
			if c := p.Cells[i][j]; c != nil {
				row = append(row, FormatFloat(*c, digits))
			} else {
				row = append(row, "NaN")
			}
		}
		rows = append(rows, row)
	}
	return &TableData{Title: title, Columns: columns, Rows: rows}
}

// CorrelationTable lays the matrix out with column names on both axes.
func CorrelationTable(title string, m *CorrelationMatrix, digits int) *TableData {
	columns := make([]Column, 0, len(m.Columns)+1)
	columns = append(columns, textColumn("column", ""))
	for _, c := range m.Columns {
		columns = append(columns, numberColumn(c, c))
	}

	rows := make([][]string, 0, len(m.Columns))
	for i, name := range m.Columns {
		row := []string{name}
		for j := range m.Columns {
			row = append(row, FormatFloat(m.Values[i][j], digits))
		}
		rows = append(rows, row)
	}
	return &TableData{Title: title, Columns: columns, Rows: rows}
}

// HistogramTable lists bin edges and counts.
func HistogramTable(title string, h *HistogramView, digits int) *TableData {
	rows := make([][]string, 0, len(h.Bins))
	for _, b := range h.Bins {
		rows = append(rows, []string{FormatFloat(b.Lo, digits), FormatFloat(b.Hi, digits), strconv.Itoa(b.Count)})
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			numberColumn("lo", "From"),
			numberColumn("hi", "To"),
			numberColumn("count", "Count"),
		},
		Rows:    rows,
		Summary: &Summary{Label: "Total", Values: map[string]string{"count": strconv.Itoa(h.Total)}},
	}
}

// FormatFloat formats v with a fixed number of decimals; NaN prints as "NaN".
func FormatFloat(v float64, digits int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if digits < 0 {
		return table.FormatNumber(v)
	}
	return strconv.FormatFloat(RoundTo(v, digits), 'f', digits, 64)
}

func textColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "text", Align: "left"}
}

func numberColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "number", Align: "right"}
}
