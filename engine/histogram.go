package engine

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/spektr-org/turnover/table"
)

// DefaultBins matches the usual plotting default.
const DefaultBins = 10

// Histogram bins the present values of a numeric column into equal-width
// intervals over [min, max]. A constant column gets a single bin of width 1
// centred on its value. Infinite values cannot be placed in a bin and are
// left out like missing cells.
func Histogram(t *table.Table, column string, bins int) (*HistogramView, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	present, err := presentFloats(t, column)
	if err != nil {
		return nil, errors.Wrap(err, "histogram")
	}
	vals := present[:0:0]
	for _, v := range present {
		if !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, errors.Wrapf(ErrEmptyInput, "histogram: %q has no values", column)
	}

	lo, hi := floats.Min(vals), floats.Max(vals)
	h := &HistogramView{Column: column, Total: len(vals)}
	if lo == hi {
		h.Bins = []Bin{{Lo: lo - 0.5, Hi: hi + 0.5, Count: len(vals)}}
		return h, nil
	}

	// hi-lo can overflow for values near the float64 limits
	width := hi/float64(bins) - lo/float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Hi = hi

	for _, v := range vals {
		pos := math.Floor(v/width - lo/width)
		i := bins - 1
		if pos < float64(bins) {
			i = max(int(pos), 0)
		}
		h.Bins[i].Count++
	}
	return h, nil
}
