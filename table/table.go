package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// ============================================================================
// TABLE — Immutable in-memory dataset
// ============================================================================
// A Table is a set of equal-length named columns, each either numeric or
// categorical. Storage is a gota dataframe; missing cells are NaN elements.
//
// Nothing in this package mutates a Table after New returns. Subset and Head
// build new Tables; accessors hand out copies.
// ============================================================================

// Kind is the semantic type of a column.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrRaggedColumns  = errors.New("columns have different lengths")
)

// Column is the construction input for one column. An empty cell is missing.
type Column struct {
	Name  string
	Kind  Kind
	Cells []string
}

// Table is an ordered collection of named, typed columns.
type Table struct {
	name  string
	df    dataframe.DataFrame
	kinds map[string]Kind
}

// New builds a Table from columns. All columns must have the same length and
// distinct names.
func New(name string, cols ...Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, errors.New("table needs at least one column")
	}

	rows := len(cols[0].Cells)
	kinds := make(map[string]Kind, len(cols))
	ss := make([]series.Series, 0, len(cols))

	for _, c := range cols {
		if len(c.Cells) != rows {
			return nil, errors.Wrapf(ErrRaggedColumns, "column %q has %d rows, want %d", c.Name, len(c.Cells), rows)
		}
		if _, dup := kinds[c.Name]; dup {
			return nil, errors.Errorf("duplicate column %q", c.Name)
		}
		kinds[c.Name] = c.Kind

		cells := make([]string, rows)
		for i, v := range c.Cells {
			if v == "" {
				cells[i] = "NaN"
			} else {
				cells[i] = v
			}
		}

		t := series.String
		if c.Kind == Numeric {
			t = series.Float
		}
		s := series.New(cells, t, c.Name)
		if s.Err != nil {
			return nil, errors.Wrapf(s.Err, "column %q", c.Name)
		}
		ss = append(ss, s)
	}

	df := dataframe.New(ss...)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "build dataframe")
	}
	return &Table{name: name, df: df, kinds: kinds}, nil
}

// Name is the dataset name, usually its source location.
func (t *Table) Name() string { return t.name }

// Rows returns the row count shared by every column.
func (t *Table) Rows() int { return t.df.Nrow() }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.df.Nrow(), t.df.Ncol() }

// Names returns column names in table order.
func (t *Table) Names() []string { return t.df.Names() }

// Kind reports the kind of a column.
func (t *Table) Kind(name string) (Kind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// NumericNames returns the numeric column names in table order.
func (t *Table) NumericNames() []string {
	var out []string
	for _, n := range t.df.Names() {
		if t.kinds[n] == Numeric {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of entries in a column. It always equals Rows for a
// column that exists.
func (t *Table) Len(name string) (int, error) {
	s, err := t.series(name)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// Floats returns a copy of a numeric column. Missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.series(name)
	if err != nil {
		return nil, err
	}
	if t.kinds[name] != Numeric {
		return nil, errors.Wrapf(ErrNotNumeric, "%q", name)
	}
	return s.Float(), nil
}

// Strings returns a column as strings. Missing cells are "". Numeric values
// use the shortest representation that round-trips.
func (t *Table) Strings(name string) ([]string, error) {
	s, err := t.series(name)
	if err != nil {
		return nil, err
	}
	nan := s.IsNaN()
	out := make([]string, s.Len())

	if t.kinds[name] == Numeric {
		for i, v := range s.Float() {
			if !nan[i] {
				out[i] = FormatNumber(v)
			}
		}
		return out, nil
	}

	for i, v := range s.Records() {
		if !nan[i] {
			out[i] = v
		}
	}
	return out, nil
}

// Missing returns the missing-cell mask of a column.
func (t *Table) Missing(name string) ([]bool, error) {
	s, err := t.series(name)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// CompleteRows returns the indices of rows that have a value in every named
// column.
func (t *Table) CompleteRows(names ...string) ([]int, error) {
	masks := make([][]bool, 0, len(names))
	for _, n := range names {
		m, err := t.Missing(n)
		if err != nil {
			return nil, err
		}
		masks = append(masks, m)
	}

	rows := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		complete := true
		for _, m := range masks {
			if m[i] {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Subset returns a new Table holding the given rows in the given order.
func (t *Table) Subset(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.Rows() {
			return nil, errors.Errorf("row %d out of range [0,%d)", r, t.Rows())
		}
	}
	if len(rows) == 0 {
		return t.empty()
	}
	df := t.df.Subset(rows)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "subset")
	}
	return &Table{name: t.name, df: df, kinds: t.kinds}, nil
}

// Head returns the first n rows.
func (t *Table) Head(n int) (*Table, error) {
	if n > t.Rows() {
		n = t.Rows()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Subset(rows)
}

// ColumnInfo is one line of the Info view.
type ColumnInfo struct {
	Name       string `json:"name" yaml:"name"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	NonMissing int    `json:"nonMissing" yaml:"nonMissing"`
}

// Info lists every column with its kind and non-missing count.
func (t *Table) Info() []ColumnInfo {
	names := t.df.Names()
	out := make([]ColumnInfo, 0, len(names))
	for _, n := range names {
		count := 0
		for _, m := range t.df.Col(n).IsNaN() {
			if !m {
				count++
			}
		}
		out = append(out, ColumnInfo{Name: n, Kind: t.kinds[n], NonMissing: count})
	}
	return out
}

// SortKeys orders distinct group keys of a column: numerically for numeric
// columns, lexically otherwise.
func (t *Table) SortKeys(name string, keys []string) {
	if t.kinds[name] == Numeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		})
		return
	}
	sort.Strings(keys)
}

func (t *Table) series(name string) (series.Series, error) {
	if _, ok := t.kinds[name]; !ok {
		return series.Series{}, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}
	return t.df.Col(name), nil
}

// empty keeps the column layout with zero rows; gota cannot subset to nothing.
func (t *Table) empty() (*Table, error) {
	names := t.df.Names()
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, Column{Name: n, Kind: t.kinds[n], Cells: []string{}})
	}
	e, err := New(t.name, cols...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FormatNumber renders a float in its shortest round-trip form ("3", "2.5").
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = Numeric
	case "categorical":
		*k = Categorical
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}
