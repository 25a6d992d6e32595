package pdf

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageServiceValidate(t *testing.T) {
	s := NewImageService()

	assert.Error(t, s.Validate(""))
	assert.Error(t, s.Validate("not-a-data-url"))
	assert.Error(t, s.Validate(oversizedDataURL()))
	assert.NoError(t, s.Validate("data:image/png;base64,AAAA"))
}

func TestImageServiceDetectFormat(t *testing.T) {
	s := NewImageService()

	assert.Equal(t, FormatPNG, s.DetectFormat([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}))
	assert.Equal(t, FormatJPEG, s.DetectFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, FormatSVG, s.DetectFormat([]byte(`<?xml version="1.0"?><svg>`)))
	assert.Equal(t, FormatUnknown, s.DetectFormat([]byte("plain text")))
}

func TestImageServiceEmbedPNG(t *testing.T) {
	s := NewImageService()
	page := NewPage()

	img := s.Embed(page, pngDataURL(t, 40, 30))
	require.NotNil(t, img)
	assert.Equal(t, FormatPNG, img.Format)
	assert.Equal(t, 40.0, img.Width)
	assert.Equal(t, 30.0, img.Height)

	page.DrawImage(img, 100, 600, img.Width, img.Height, 1)
	data, err := page.Output()
	require.NoError(t, err)
	assertValidPDF(t, data)
}

func TestImageServiceEmbedJPEG(t *testing.T) {
	s := NewImageService()
	page := NewPage()

	img := s.Embed(page, jpegDataURL(t, 20, 20))
	require.NotNil(t, img)
	assert.Equal(t, FormatJPEG, img.Format)
}

func TestImageServiceEmbedRejections(t *testing.T) {
	s := NewImageService()
	page := NewPage()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not a data URL", "hello"},
		{"oversized", oversizedDataURL()},
		{"svg is declined", svgDataURL()},
		{"invalid base64", "data:image/png;base64,!!!not-base64!!!"},
		{"garbage bytes", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("junk"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, s.Embed(page, tt.data))
		})
	}

	// Rejections must not poison the page: it still serializes cleanly.
	data, err := page.Output()
	require.NoError(t, err)
	assertValidPDF(t, data)
}

func TestImageServiceProcess(t *testing.T) {
	s := NewImageService()

	ok := s.Process(pngDataURL(t, 4, 4), "logo")
	assert.True(t, ok.Success)
	assert.Equal(t, FormatPNG, ok.Format)

	svg := s.Process(svgDataURL(), "logo")
	assert.False(t, svg.Success)

	missing := s.Process("", "logo")
	assert.False(t, missing.Success)
}
