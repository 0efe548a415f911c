package engine

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/spektr-org/turnover/table"
)

// employees is a small slice of the turnover data. Row 6 has no department,
// row 7 has no wages.
func employees(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("employees",
		table.Column{Name: "Department", Kind: table.Categorical,
			Cells: []string{"Sales", "IT", "Sales", "HR", "IT", "Sales", "", "IT"}},
		table.Column{Name: "BusinessTravel", Kind: table.Categorical,
			Cells: []string{"Rarely", "Frequently", "Rarely", "Non-Travel", "Rarely", "Frequently", "Rarely", "Non-Travel"}},
		table.Column{Name: "Education", Kind: table.Numeric,
			Cells: []string{"1", "2", "2", "3", "1", "2", "3", "3"}},
		table.Column{Name: "Wages", Kind: table.Numeric,
			Cells: []string{"1000", "2000", "1500", "2500", "3000", "1700", "1200", ""}},
		table.Column{Name: "Age", Kind: table.Numeric,
			Cells: []string{"30", "40", "35", "50", "45", "32", "28", "29"}},
		table.Column{Name: "JobSatisfaction", Kind: table.Numeric,
			Cells: []string{"3", "4", "2", "4", "1", "3", "2", "4"}},
		table.Column{Name: "PerfoRating", Kind: table.Numeric,
			Cells: []string{"3", "3", "4", "3", "4", "3", "3", "4"}},
	)
	assert.NilError(t, err)
	return tbl
}

func numericTable(t *testing.T, cols map[string][]string, order ...string) *table.Table {
	t.Helper()
	columns := make([]table.Column, 0, len(order))
	for _, name := range order {
		columns = append(columns, table.Column{Name: name, Kind: table.Numeric, Cells: cols[name]})
	}
	tbl, err := table.New("numbers", columns...)
	assert.NilError(t, err)
	return tbl
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	assert.Assert(t, got-want < 1e-6 && want-got < 1e-6, "got %v, want %v", got, want)
}
