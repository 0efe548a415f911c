package engine

import "github.com/sirupsen/logrus"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Precision int                // default display precision for summaries
	Bins      int                // default histogram bin count
	Style     ChartStyle         // defaults applied under every chart step
	Logger    logrus.FieldLogger // step logging
	RunID     string             // tags every log line of one Execute call
}

// WithPrecision sets the decimals used when a step has no precision of its own.
func WithPrecision(digits int) Option {
	return func(c *config) {
		c.Precision = digits
	}
}

// WithBins sets the histogram bin count used when a step has none.
func WithBins(n int) Option {
	return func(c *config) {
		c.Bins = n
	}
}

// WithChartDefaults sets display options that chart steps inherit.
func WithChartDefaults(style ChartStyle) Option {
	return func(c *config) {
		c.Style = style
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(c *config) {
		c.RunID = id
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Precision: 2,
		Bins:      DefaultBins,
		Style: ChartStyle{
			Width:     600,
			Height:    600,
			Color:     "0.7",
			PointSize: 3,
		},
		Logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
