package pdf

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/jung-kurt/gofpdf"
)

// Image formats recognized by header inspection.
const (
	FormatPNG     = "PNG"
	FormatJPEG    = "JPEG"
	FormatSVG     = "SVG"
	FormatUnknown = ""
)

// MaxImageBytes is the upper bound on a single image payload (data URL
// included), matching the request body limit of the upload surface.
const MaxImageBytes = 50 * 1024 * 1024

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	svgMarker = []byte("<svg")
)

// Embedded is a page-drawable image handle with its intrinsic size in
// points.
type Embedded struct {
	Name   string
	Format string
	Width  float64
	Height float64
}

// ImageService validates, classifies and embeds raster images. It holds no
// state and is safe for concurrent use across renders.
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

// Validate checks that data looks like an embeddable data-URL image.
func (s *ImageService) Validate(data string) error {
	if data == "" {
		return fmt.Errorf("no image data provided")
	}
	if !strings.HasPrefix(data, "data:") {
		return fmt.Errorf("invalid data URL format")
	}
	if len(data) > MaxImageBytes {
		return fmt.Errorf("image file too large")
	}
	return nil
}

// DetectFormat classifies decoded image bytes by their header: PNG and
// JPEG by magic number, SVG by the presence of an <svg tag.
func (s *ImageService) DetectFormat(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(raw, jpegMagic):
		return FormatJPEG
	case bytes.Contains(raw, svgMarker):
		return FormatSVG
	default:
		return FormatUnknown
	}
}

// Embed registers an image with the page and returns a drawable handle, or
// nil when the data is absent, oversized, unrecognizable or fails to
// decode. Failures never propagate; rendering continues without the image.
func (s *ImageService) Embed(page *Page, data string) *Embedded {
	if err := s.Validate(data); err != nil {
		logger.Warnf("image rejected: %v", err)
		return nil
	}

	raw, err := decodeDataURL(data)
	if err != nil {
		logger.Warnf("image rejected: %v", err)
		return nil
	}

	format := s.DetectFormat(raw)
	switch format {
	case FormatSVG:
		logger.Infof("SVG images are not supported for embedding, skipping")
		return nil
	case FormatPNG, FormatJPEG:
		return s.register(page, raw, format)
	default:
		// Ambiguous header: attempt PNG first, then JPEG.
		if img := s.register(page, raw, FormatPNG); img != nil {
			return img
		}
		return s.register(page, raw, FormatJPEG)
	}
}

// register decodes the image dimensions and hands the bytes to the page
// document. A decode failure of either stage yields nil, never an error.
func (s *ImageService) register(page *Page, raw []byte, format string) *Embedded {
	decode := png.DecodeConfig
	if format == FormatJPEG {
		decode = jpeg.DecodeConfig
	}
	cfg, err := decode(bytes.NewReader(raw))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		logger.Warnf("cannot decode %s image: %v", format, err)
		return nil
	}

	name := fmt.Sprintf("img-%x", sha1.Sum(raw))
	opts := gofpdf.ImageOptions{ImageType: strings.ToLower(format)}
	page.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if page.doc.Err() {
		// A malformed stream must not poison the rest of the document.
		logger.Warnf("embedding %s image failed: %v", format, page.doc.Error())
		page.doc.ClearError()
		return nil
	}

	return &Embedded{
		Name:   name,
		Format: format,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}
}

// ProcessResult reports the outcome of a standalone image upload check.
type ProcessResult struct {
	Success bool   `json:"success"`
	Format  string `json:"format,omitempty"`
	Message string `json:"message"`
}

// Process validates and classifies an uploaded image without embedding it,
// backing the upload endpoint's pre-flight check.
func (s *ImageService) Process(data, slot string) ProcessResult {
	if err := s.Validate(data); err != nil {
		return ProcessResult{Success: false, Message: err.Error()}
	}
	raw, err := decodeDataURL(data)
	if err != nil {
		return ProcessResult{Success: false, Message: err.Error()}
	}
	format := s.DetectFormat(raw)
	if format == FormatSVG {
		return ProcessResult{Success: false, Format: format, Message: "SVG images are not supported"}
	}
	return ProcessResult{
		Success: true,
		Format:  format,
		Message: fmt.Sprintf("%s image processed successfully", slot),
	}
}

// decodeDataURL strips the data-URL envelope and base64-decodes the body.
func decodeDataURL(data string) ([]byte, error) {
	encoded := data
	if i := strings.IndexByte(data, ','); i >= 0 {
		encoded = data[i+1:]
	} else {
		encoded = data[len("data:"):]
	}
	if encoded == "" {
		return nil, fmt.Errorf("empty data URL body")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some browsers emit URL-safe base64 for canvas exports.
		raw, err = base64.URLEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding image data: %w", err)
	}
	return raw, nil
}
