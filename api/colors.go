package api

import (
	"strconv"

	"github.com/flanksource/commons/logger"
)

// Color is an RGB color with channels in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{1, 1, 1}
	Red       = Color{1, 0, 0}
	Gray      = Color{0.5, 0.5, 0.5}
	LightGray = Color{0.8, 0.8, 0.8}
)

// RGB returns a color from 8-bit channel values.
func RGB(r, g, b int) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// Level returns a grayscale color.
func Level(v float64) Color {
	return Color{v, v, v}
}

// RGB255 converts the color to 8-bit channel values.
func (c Color) RGB255() (r, g, b int) {
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}

// ParseHexColor parses a "#RRGGBB" string. Malformed input is not an
// error: it logs a warning and returns black so rendering can continue.
func ParseHexColor(hex string) Color {
	if len(hex) != 7 || hex[0] != '#' {
		logger.Warnf("invalid hex color %q, using black", hex)
		return Black
	}

	r, errR := strconv.ParseUint(hex[1:3], 16, 8)
	g, errG := strconv.ParseUint(hex[3:5], 16, 8)
	b, errB := strconv.ParseUint(hex[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		logger.Warnf("invalid hex color %q, using black", hex)
		return Black
	}

	return RGB(int(r), int(g), int(b))
}
