package table

import (
	"errors"
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New("sample",
		Column{Name: "Department", Kind: Categorical, Cells: []string{"Sales", "IT", "", "Sales"}},
		Column{Name: "Wages", Kind: Numeric, Cells: []string{"1200", "", "900.5", "1100"}},
		Column{Name: "Education", Kind: Numeric, Cells: []string{"10", "2", "3", "2"}},
	)
	assert.NilError(t, err)
	return tbl
}

func TestEveryColumnMatchesRowCount(t *testing.T) {
	tbl := sampleTable(t)
	for _, n := range tbl.Names() {
		l, err := tbl.Len(n)
		assert.NilError(t, err)
		assert.Equal(t, l, tbl.Rows(), "column %s", n)
	}
	r, c := tbl.Shape()
	assert.Equal(t, r, 4)
	assert.Equal(t, c, 3)
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New("bad",
		Column{Name: "a", Kind: Numeric, Cells: []string{"1", "2"}},
		Column{Name: "b", Kind: Numeric, Cells: []string{"1"}},
	)
	assert.Assert(t, errors.Is(err, ErrRaggedColumns))
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New("bad",
		Column{Name: "a", Kind: Numeric, Cells: []string{"1"}},
		Column{Name: "a", Kind: Numeric, Cells: []string{"2"}},
	)
	assert.ErrorContains(t, err, "duplicate column")
}

func TestMissingCells(t *testing.T) {
	tbl := sampleTable(t)

	wages, err := tbl.Floats("Wages")
	assert.NilError(t, err)
	assert.Equal(t, wages[0], 1200.0)
	assert.Assert(t, math.IsNaN(wages[1]))

	depts, err := tbl.Strings("Department")
	assert.NilError(t, err)
	assert.DeepEqual(t, depts, []string{"Sales", "IT", "", "Sales"})

	rows, err := tbl.CompleteRows("Department", "Wages")
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []int{0, 3})
}

func TestFloatsRejectsCategorical(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.Floats("Department")
	assert.Assert(t, errors.Is(err, ErrNotNumeric))

	_, err = tbl.Floats("Nope")
	assert.Assert(t, errors.Is(err, ErrColumnNotFound))
}

func TestSubsetLeavesParentUntouched(t *testing.T) {
	tbl := sampleTable(t)

	sub, err := tbl.Subset([]int{3, 0})
	assert.NilError(t, err)
	assert.Equal(t, sub.Rows(), 2)

	wages, err := sub.Floats("Wages")
	assert.NilError(t, err)
	assert.DeepEqual(t, wages, []float64{1100, 1200})

	assert.Equal(t, tbl.Rows(), 4)

	empty, err := tbl.Subset(nil)
	assert.NilError(t, err)
	assert.Equal(t, empty.Rows(), 0)
	assert.DeepEqual(t, empty.Names(), tbl.Names())
}

func TestHeadAndInfo(t *testing.T) {
	tbl := sampleTable(t)

	head, err := tbl.Head(10)
	assert.NilError(t, err)
	assert.Equal(t, head.Rows(), 4)

	info := tbl.Info()
	assert.Equal(t, len(info), 3)
	assert.Equal(t, info[0].NonMissing, 3)
	assert.Equal(t, info[1].Kind, Numeric)
	assert.Equal(t, info[1].NonMissing, 3)
}

func TestSortKeys(t *testing.T) {
	tbl := sampleTable(t)

	keys := []string{"10", "2", "3"}
	tbl.SortKeys("Education", keys)
	assert.DeepEqual(t, keys, []string{"2", "3", "10"})

	keys = []string{"Sales", "IT"}
	tbl.SortKeys("Department", keys)
	assert.DeepEqual(t, keys, []string{"IT", "Sales"})
}
