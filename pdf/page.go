// Package pdf turns an invoice into a single-page PDF document. It wraps
// gofpdf behind a small drawing capability (text, lines, rectangles,
// images on a fixed-size page), embeds raster images, and runs the
// fault-isolated rendering pipeline.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/Mohamed-kissame/Facture-v2/api"
)

// A4 page size in points.
const (
	PageWidth  = 595.0
	PageHeight = 842.0
)

// Page is one fixed-size PDF page with a bottom-left origin: Y grows
// upward, matching the coordinate system of the layout code. The gofpdf
// axis flip happens here and nowhere else.
type Page struct {
	doc    *gofpdf.Fpdf
	width  float64
	height float64
	family string

	// translate maps UTF-8 to the CP1252 encoding of the core fonts, so
	// accented text and the euro sign survive.
	translate func(string) string
}

// NewPage creates a blank A4 page using the default font family.
func NewPage() *Page {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	return &Page{
		doc:       doc,
		width:     PageWidth,
		height:    PageHeight,
		family:    "Helvetica",
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *Page) Width() float64  { return p.width }
func (p *Page) Height() float64 { return p.height }

// SetFontFamily selects the font used by subsequent text calls. Only the
// core families are available; anything unrecognized falls back to
// Helvetica rather than failing the document.
func (p *Page) SetFontFamily(name string) {
	switch name {
	case "Times New Roman", "Times":
		p.family = "Times"
	case "Courier New", "Courier":
		p.family = "Courier"
	default:
		p.family = "Helvetica"
	}
}

// DrawText draws a single line of text with its baseline at (x, y).
func (p *Page) DrawText(x, y, size float64, color api.Color, text string) {
	r, g, b := color.RGB255()
	p.doc.SetFont(p.family, "", size)
	p.doc.SetTextColor(r, g, b)
	p.doc.Text(x, p.height-y, p.translate(text))
}

// DrawTextWrapped draws text word-wrapped to maxWidth, with successive
// lines stacked downward at lineHeight intervals.
func (p *Page) DrawTextWrapped(x, y, size, maxWidth, lineHeight float64, color api.Color, text string) {
	p.doc.SetFont(p.family, "", size)
	lines := p.doc.SplitText(text, maxWidth)
	for i, line := range lines {
		p.DrawText(x, y-float64(i)*lineHeight, size, color, line)
	}
}

// TextWidth returns the rendered width of text at the given size.
func (p *Page) TextWidth(text string, size float64) float64 {
	p.doc.SetFont(p.family, "", size)
	return p.doc.GetStringWidth(p.translate(text))
}

// DrawLine draws a straight line between two points.
func (p *Page) DrawLine(x1, y1, x2, y2, thickness float64, color api.Color) {
	r, g, b := color.RGB255()
	p.doc.SetDrawColor(r, g, b)
	p.doc.SetLineWidth(thickness)
	p.doc.Line(x1, p.height-y1, x2, p.height-y2)
}

// StrokeRect outlines a rectangle whose bottom-left corner is at (x, y).
func (p *Page) StrokeRect(x, y, w, h, border float64, color api.Color) {
	r, g, b := color.RGB255()
	p.doc.SetDrawColor(r, g, b)
	p.doc.SetLineWidth(border)
	p.doc.Rect(x, p.height-y-h, w, h, "D")
}

// FillRect fills a rectangle whose bottom-left corner is at (x, y).
func (p *Page) FillRect(x, y, w, h float64, color api.Color) {
	r, g, b := color.RGB255()
	p.doc.SetFillColor(r, g, b)
	p.doc.Rect(x, p.height-y-h, w, h, "F")
}

// DrawImage paints a previously embedded image with its bottom-left corner
// at (x, y), scaled to w x h. Opacity 1 is fully opaque.
func (p *Page) DrawImage(img *Embedded, x, y, w, h, opacity float64) {
	if img == nil {
		return
	}
	if opacity < 1 {
		p.doc.SetAlpha(opacity, "Normal")
		defer p.doc.SetAlpha(1, "Normal")
	}
	opts := gofpdf.ImageOptions{ImageType: strings.ToLower(img.Format)}
	p.doc.ImageOptions(img.Name, x, p.height-y-h, w, h, false, opts, 0, "")
}

// Output serializes the page to PDF bytes.
func (p *Page) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing PDF: %w", err)
	}
	return buf.Bytes(), nil
}
