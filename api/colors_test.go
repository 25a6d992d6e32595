package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want Color
	}{
		{"black", "#000000", Color{0, 0, 0}},
		{"white", "#ffffff", Color{1, 1, 1}},
		{"red", "#ff0000", Color{1, 0, 0}},
		{"mixed", "#3366cc", Color{0x33 / 255.0, 0x66 / 255.0, 0xcc / 255.0}},
		{"named color is invalid", "red", Black},
		{"non-hex digits", "#ZZZZZZ", Black},
		{"empty", "", Black},
		{"missing hash", "336699", Black},
		{"short form unsupported", "#fff", Black},
		{"too long", "#ffffff00", Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHexColor(tt.hex)
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
		})
	}
}

func TestColorRGB255(t *testing.T) {
	r, g, b := White.RGB255()
	assert.Equal(t, 255, r)
	assert.Equal(t, 255, g)
	assert.Equal(t, 255, b)

	r, g, b = Level(0.5).RGB255()
	assert.Equal(t, 128, r)
	assert.Equal(t, 128, g)
	assert.Equal(t, 128, b)
}
