package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var namedColors = map[string]drawing.Color{
	"black": drawing.ColorBlack,
	"white": drawing.ColorWhite,
	"red":   drawing.ColorRed,
	"green": drawing.ColorGreen,
	"blue":  drawing.ColorBlue,
}

// ParseColor accepts a gray level in [0,1] ("0.7"), a hex triplet
// ("#4F46E5" or "4F46E5") or one of a few names. Empty means black.
func ParseColor(s string) (drawing.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return drawing.ColorBlack, true
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if level, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(level) || level < 0 || level > 1 {
			return drawing.Color{}, false
		}
		g := uint8(level*255 + 0.5)
		return drawing.Color{R: g, G: g, B: g, A: 255}, true
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return drawing.Color{}, false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(hex), true
}
