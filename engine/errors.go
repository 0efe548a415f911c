package engine

import (
	"github.com/pkg/errors"

	"github.com/spektr-org/turnover/table"
)

// Summaries fail loudly on programmer errors instead of coercing input.
var (
	ErrColumnNotFound     = table.ErrColumnNotFound
	ErrNotNumeric         = table.ErrNotNumeric
	ErrEmptyInput         = errors.New("empty input")
	ErrUnknownAggregation = errors.New("unknown aggregation")
	ErrUnknownOp          = errors.New("unknown plan step")
)
