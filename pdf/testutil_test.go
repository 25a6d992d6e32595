package pdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	ledong "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// assertValidPDF checks the output has a PDF header and parses with pdfcpu.
func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	require.True(t, len(data) > 100, "PDF too small to contain content")
	require.Equal(t, "%PDF", string(data[:4]), "missing PDF header")

	_, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	require.NoError(t, err, "pdfcpu cannot parse the document")
}

// extractText returns the plain text content of the document.
func extractText(t *testing.T, data []byte) string {
	t.Helper()

	reader, err := ledong.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	textReader, err := reader.GetPlainText()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(textReader)
	require.NoError(t, err)
	return buf.String()
}

// assertContainsText extracts the document text and checks every expected
// string appears.
func assertContainsText(t *testing.T, data []byte, expected ...string) {
	t.Helper()
	text := extractText(t, data)
	for _, want := range expected {
		require.Contains(t, text, want)
	}
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 200, A: 255})
		}
	}
	return img
}

// pngDataURL builds a real PNG image wrapped as a browser data URL.
func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h)))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// jpegDataURL builds a real JPEG image wrapped as a browser data URL.
func jpegDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h), nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// svgDataURL wraps a minimal SVG document as a data URL.
func svgDataURL() string {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// oversizedDataURL exceeds the embedding size limit without allocating a
// valid image.
func oversizedDataURL() string {
	return "data:image/png;base64," + strings.Repeat("A", MaxImageBytes+1)
}
