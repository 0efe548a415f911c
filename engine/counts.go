package engine

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// COUNTS — value counts and cross-tabulation
// ============================================================================
// Both work on any column kind; numeric values are counted by their text form.
// Rows missing a referenced value are left out of that count only.
// ============================================================================

// ValueCounts counts each distinct value of a column, highest count first.
// Equal counts keep the order in which values first appear.
func ValueCounts(t *table.Table, column string) (*Frequency, error) {
	vals, err := t.Strings(column)
	if err != nil {
		return nil, errors.Wrap(err, "value counts")
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	entries := make([]FrequencyEntry, 0, len(order))
	for _, v := range order {
		entries = append(entries, FrequencyEntry{
			Value:   v,
			Count:   counts[v],
			Percent: 100 * float64(counts[v]) / float64(total),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })

	return &Frequency{Column: column, Entries: entries, Total: total}, nil
}

// CrossTab builds the contingency table of two columns. Keys are sorted;
// combinations that never occur count zero.
func CrossTab(t *table.Table, rowColumn, colColumn string) (*Contingency, error) {
	rows, err := t.Strings(rowColumn)
	if err != nil {
		return nil, errors.Wrap(err, "crosstab")
	}
	cols, err := t.Strings(colColumn)
	if err != nil {
		return nil, errors.Wrap(err, "crosstab")
	}

	pairs := make(map[[2]string]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for i := range rows {
		if rows[i] == "" || cols[i] == "" {
			continue
		}
		pairs[[2]string{rows[i], cols[i]}]++
		rowSet[rows[i]] = true
		colSet[cols[i]] = true
	}

	c := &Contingency{
		RowColumn: rowColumn,
		ColColumn: colColumn,
		RowKeys:   keysOf(rowSet),
		ColKeys:   keysOf(colSet),
	}
	t.SortKeys(rowColumn, c.RowKeys)
	t.SortKeys(colColumn, c.ColKeys)

	c.Counts = make([][]int, len(c.RowKeys))
	c.RowTotals = make([]int, len(c.RowKeys))
	c.ColTotals = make([]int, len(c.ColKeys))
	for i, rk := range c.RowKeys {
		c.Counts[i] = make([]int, len(c.ColKeys))
		for j, ck := range c.ColKeys {
			n := pairs[[2]string{rk, ck}]
			c.Counts[i][j] = n
			c.RowTotals[i] += n
			c.ColTotals[j] += n
			c.Total += n
		}
	}
	return c, nil
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
