package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gotest.tools/v3/assert"

	"github.com/spektr-org/turnover/engine"
)

func barConfig() *engine.ChartConfig {
	return &engine.ChartConfig{
		Kind:       engine.ChartBar,
		ChartStyle: engine.ChartStyle{Title: "Figure 1. Barplot", XLabel: "Education", Width: 600, Height: 600, Color: "0.7"},
		Bars: []engine.ChartPoint{
			{Label: "1", Value: 2000},
			{Label: "2", Value: 1733.3},
			{Label: "3", Value: 1850},
		},
	}
}

func TestRenderBarPNG(t *testing.T) {
	data, err := Render(barConfig(), PNG)
	assert.NilError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Width, 600)
	assert.Equal(t, cfg.Height, 600)
}

func TestRenderSingleBar(t *testing.T) {
	cfg := barConfig()
	cfg.Bars = cfg.Bars[:1]
	_, err := Render(cfg, PNG)
	assert.NilError(t, err)
}

func TestRenderHistogramSVG(t *testing.T) {
	cfg := &engine.ChartConfig{
		Kind:       engine.ChartHistogram,
		ChartStyle: engine.ChartStyle{Title: "Figure 2. Histogram"},
		Bars:       []engine.ChartPoint{{Label: "0", Value: 2}, {Label: "2", Value: 5}, {Label: "4", Value: 1}},
	}
	data, err := Render(cfg, SVG)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(data), "<svg"))
}

func TestRenderScatterWithCaption(t *testing.T) {
	cfg := &engine.ChartConfig{
		Kind:       engine.ChartScatter,
		ChartStyle: engine.ChartStyle{Title: "Figure 3. Scatterplot", XLabel: "Age", YLabel: "Wages", Width: 400, Height: 300, PointSize: 1},
		Points:     []engine.XY{{X: 30, Y: 1000}, {X: 40, Y: 2000}, {X: 35, Y: math.NaN()}},
		Caption:    "n=2",
	}
	data, err := Render(cfg, PNG)
	assert.NilError(t, err)

	img, err := png.DecodeConfig(bytes.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, img.Width, 400)
	assert.Equal(t, img.Height, 300)
}

func TestRenderSinglePoint(t *testing.T) {
	cfg := &engine.ChartConfig{Kind: engine.ChartScatter, Points: []engine.XY{{X: 1, Y: 1}}}
	_, err := Render(cfg, PNG)
	assert.NilError(t, err)
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *engine.ChartConfig
		reason string
	}{
		{"empty bars", &engine.ChartConfig{Kind: engine.ChartBar}, "empty view"},
		{"empty scatter", &engine.ChartConfig{Kind: engine.ChartScatter}, "empty view"},
		{"nan bars", &engine.ChartConfig{Kind: engine.ChartBar,
			Bars: []engine.ChartPoint{{Label: "a", Value: math.NaN()}}}, "no numeric data"},
		{"nan points", &engine.ChartConfig{Kind: engine.ChartScatter,
			Points: []engine.XY{{X: math.NaN(), Y: 1}}}, "no numeric data"},
		{"bad color", &engine.ChartConfig{Kind: engine.ChartBar, ChartStyle: engine.ChartStyle{Color: "1.5"},
			Bars: []engine.ChartPoint{{Label: "a", Value: 1}}}, "invalid color"},
		{"unknown kind", &engine.ChartConfig{Kind: "pie"}, "unknown chart kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.cfg, PNG)
			var re *RenderError
			assert.Assert(t, errors.As(err, &re), "got %v", err)
			assert.Assert(t, strings.Contains(re.Reason, tt.reason), re.Reason)
		})
	}

	_, err := Render(barConfig(), "gif")
	var re *RenderError
	assert.Assert(t, errors.As(err, &re))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want drawing.Color
		ok   bool
	}{
		{"0.7", drawing.Color{R: 179, G: 179, B: 179, A: 255}, true},
		{"0", drawing.Color{A: 255}, true},
		{"#4F46E5", drawing.Color{R: 0x4F, G: 0x46, B: 0xE5, A: 255}, true},
		{"fff", drawing.Color{R: 255, G: 255, B: 255, A: 255}, true},
		{"Blue", drawing.ColorBlue, true},
		{"", drawing.ColorBlack, true},
		{"1.2", drawing.Color{}, false},
		{"#12345", drawing.Color{}, false},
		{"#zzzzzz", drawing.Color{}, false},
		{"nan", drawing.Color{}, false},
		{"NaN", drawing.Color{}, false},
		{"inf", drawing.Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, ok, tt.ok, tt.in)
		if tt.ok {
			assert.Equal(t, got, tt.want, tt.in)
		}
	}
}

// ============================================================================
// DISPLAYS
// ============================================================================

func TestDirDisplay(t *testing.T) {
	l := logrus.New()
	l.Out = io.Discard
	dir := filepath.Join(t.TempDir(), "figures")

	d, err := NewDirDisplay(dir, l)
	assert.NilError(t, err)

	assert.NilError(t, Show(context.Background(), d, barConfig(), PNG))
	assert.NilError(t, Show(context.Background(), d, barConfig(), SVG))

	paths := d.Paths()
	assert.DeepEqual(t, paths, []string{
		filepath.Join(dir, "01-figure-1-barplot.png"),
		filepath.Join(dir, "02-figure-1-barplot.svg"),
	})
	info, err := os.Stat(paths[0])
	assert.NilError(t, err)
	assert.Assert(t, info.Size() > 0)
}

func TestShowPropagatesRenderError(t *testing.T) {
	var buf bytes.Buffer
	err := Show(context.Background(), WriterDisplay{W: &buf}, &engine.ChartConfig{Kind: engine.ChartBar, ChartStyle: engine.ChartStyle{Title: "empty"}}, PNG)
	var re *RenderError
	assert.Assert(t, errors.As(err, &re))
	assert.Equal(t, re.Title, "empty")
	assert.Equal(t, buf.Len(), 0)
}

func TestWriterDisplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := WriterDisplay{W: &buf}.Show(ctx, "x", PNG, []byte("data"))
	assert.Assert(t, errors.Is(err, context.Canceled))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, Slug("Figure 2. Histogram"), "figure-2-histogram")
	assert.Equal(t, Slug("  ...  "), "figure")
}
