package engine

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// FILTERS — Value-based row selection
// ============================================================================
// Single-pass filter: checks ALL column constraints per row in one loop.
// Returns a derived Table; the input is left untouched.
// ============================================================================

// Filters restricts rows by column value. Columns are AND-combined; values
// within a column are OR-combined. Comparison is case-insensitive.
type Filters struct {
	Columns map[string][]string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Columns {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a table of rows matching every column filter.
// Empty filter = no restriction (returns t itself). Numeric columns are
// matched on their text form.
func ApplyFilters(t *table.Table, filters Filters) (*table.Table, error) {
	if filters.IsEmpty() {
		return t, nil
	}

	// Pre-build lowercase lookup sets and fetch column values once
	sets := make(map[string]map[string]bool)
	cells := make(map[string][]string)
	for col, allowed := range filters.Columns {
		if len(allowed) == 0 {
			continue
		}
		vals, err := t.Strings(col)
		if err != nil {
			return nil, errors.Wrap(err, "filter")
		}
		sets[col] = toLowerSet(allowed)
		cells[col] = vals
	}

	// Single pass: a row passes if it matches every column filter
	n := t.Rows()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for col, set := range sets {
			if !set[strings.ToLower(cells[col][i])] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return t.Subset(indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}
