package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spektr-org/turnover/engine"
)

// ============================================================================
// RENDER — ChartConfig → image bytes
// ============================================================================
// Bar and histogram views use go-chart's BarChart; scatter views use a
// Chart with a dots-only ContinuousSeries. Axis ranges are always set
// explicitly so a single bar or a single point still has a drawable range.
// ============================================================================

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Ext returns the file extension for the format.
func (f Format) Ext() string { return "." + string(f) }

const (
	defaultSize = 600
	dpi         = 100.0
)

// Render draws cfg and returns the encoded image. Captions and bar/histogram
// axis names are stamped onto PNG output only.
func Render(cfg *engine.ChartConfig, format Format) ([]byte, error) {
	if cfg == nil {
		return nil, &RenderError{Reason: "no chart"}
	}
	if format == "" {
		format = PNG
	}
	rp, err := provider(format)
	if err != nil {
		return nil, &RenderError{Title: cfg.Title, Reason: "unsupported format", Err: err}
	}
	col, ok := ParseColor(cfg.Color)
	if !ok {
		return nil, &RenderError{Title: cfg.Title, Reason: "invalid color " + cfg.Color}
	}

	var buf bytes.Buffer
	var stamps []stamp

	switch cfg.Kind {
	case engine.ChartBar, engine.ChartHistogram:
		bc, err := barChart(cfg, col)
		if err != nil {
			return nil, err
		}
		if err := bc.Render(rp, &buf); err != nil {
			return nil, &RenderError{Title: cfg.Title, Reason: "draw", Err: err}
		}
		if cfg.XLabel != "" {
			stamps = append(stamps, stamp{text: cfg.XLabel, center: true})
		}

	case engine.ChartScatter:
		ch, err := scatterChart(cfg, col)
		if err != nil {
			return nil, err
		}
		if err := ch.Render(rp, &buf); err != nil {
			return nil, &RenderError{Title: cfg.Title, Reason: "draw", Err: err}
		}

	default:
		return nil, &RenderError{Title: cfg.Title, Reason: "unknown chart kind " + string(cfg.Kind)}
	}

	if cfg.Caption != "" {
		stamps = append(stamps, stamp{text: cfg.Caption})
	}
	if format != PNG || len(stamps) == 0 {
		return buf.Bytes(), nil
	}
	return stampPNG(buf.Bytes(), stamps)
}

func provider(format Format) (chart.RendererProvider, error) {
	switch format {
	case PNG:
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func size(cfg *engine.ChartConfig) (int, int) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = defaultSize
	}
	if h <= 0 {
		h = defaultSize
	}
	return w, h
}

// ============================================================================
// BAR / HISTOGRAM
// ============================================================================

func barChart(cfg *engine.ChartConfig, col drawing.Color) (*chart.BarChart, error) {
	if len(cfg.Bars) == 0 {
		return nil, &RenderError{Title: cfg.Title, Reason: "empty view"}
	}

	bars := make([]chart.Value, 0, len(cfg.Bars))
	lo, hi := 0.0, 0.0
	for _, b := range cfg.Bars {
		if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			continue
		}
		lo, hi = math.Min(lo, b.Value), math.Max(hi, b.Value)
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
	}
	if len(bars) == 0 {
		return nil, &RenderError{Title: cfg.Title, Reason: "no numeric data"}
	}
	if lo == hi {
		hi = lo + 1
	}

	w, h := size(cfg)
	spacing := 2 * (w / (len(bars) * 4))
	if cfg.Kind == engine.ChartHistogram || spacing < 1 {
		spacing = 1
	}

	return &chart.BarChart{
		Title:      cfg.Title,
		Width:      w,
		Height:     h,
		DPI:        dpi,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48}},
		BarSpacing: spacing,
		BarWidth:   w / len(bars),
		YAxis: chart.YAxis{
			Name:  cfg.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.05},
		},
		Bars: bars,
	}, nil
}

// ============================================================================
// SCATTER
// ============================================================================

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color, size float64) chart.Style {
	if size <= 0 {
		size = 3
	}
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    size,
		DotColor:    col,
	}
}

func scatterChart(cfg *engine.ChartConfig, col drawing.Color) (*chart.Chart, error) {
	if len(cfg.Points) == 0 {
		return nil, &RenderError{Title: cfg.Title, Reason: "empty view"}
	}

	xs := make([]float64, 0, len(cfg.Points))
	ys := make([]float64, 0, len(cfg.Points))
	for _, p := range cfg.Points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	if len(xs) == 0 {
		return nil, &RenderError{Title: cfg.Title, Reason: "no numeric data"}
	}

	w, h := size(cfg)
	return &chart.Chart{
		Title:      cfg.Title,
		Width:      w,
		Height:     h,
		DPI:        dpi,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 36}},
		XAxis:      chart.XAxis{Name: cfg.XLabel, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: cfg.YLabel, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    cfg.Title,
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(col, cfg.PointSize),
			},
		},
	}, nil
}

// paddedRange widens [min, max] by 5% each side, or by 1 for a single value.
func paddedRange(vals []float64) *chart.ContinuousRange {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ============================================================================
// CAPTIONS
// ============================================================================

type stamp struct {
	text   string
	center bool // bottom-centre instead of bottom-left
}

func stampPNG(data []byte, stamps []stamp) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Reason: "decode png", Err: err}
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	for _, s := range stamps {
		drawText(rgba, s)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, rgba); err != nil {
		return nil, &RenderError{Reason: "encode png", Err: err}
	}
	return out.Bytes(), nil
}

// drawText draws a short string near the bottom edge of the image.
func drawText(rgba *image.RGBA, s stamp) {
	text := strings.TrimSpace(s.text)
	if text == "" {
		return
	}
	b := rgba.Bounds()
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()

	x := b.Min.X + 8
	y := b.Max.Y - 6
	if s.center {
		x = b.Min.X + (b.Dx()-tw)/2
		y = b.Max.Y - 22
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
