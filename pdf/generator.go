package pdf

import (
	"fmt"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/Mohamed-kissame/Facture-v2/api"
	"github.com/Mohamed-kissame/Facture-v2/invoice"
)

// Generator produces finished PDF documents from invoices. It is stateless
// apart from its configuration and safe for concurrent use; every Generate
// call builds its own page and renderer.
type Generator struct {
	images   *ImageService
	currency CurrencyStyle
}

// Option configures a Generator.
type Option func(*Generator)

// WithCurrency overrides the default currency style for all documents this
// generator produces. The per-invoice currency field still wins when set.
func WithCurrency(style CurrencyStyle) Option {
	return func(g *Generator) {
		g.currency = style
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		images:   NewImageService(),
		currency: USD,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the invoice to PDF bytes. A render problem degrades to
// the minimal fallback document rather than an error; an error is returned
// only when even the fallback cannot be produced.
func (g *Generator) Generate(inv *invoice.Invoice) ([]byte, error) {
	data, err := g.generate(inv)
	if err == nil {
		logger.Debugf("PDF generated, %d bytes", len(data))
		return data, nil
	}

	logger.Errorf("PDF generation failed, producing fallback document: %v", err)
	data, fallbackErr := g.GenerateFallback()
	if fallbackErr != nil {
		return nil, fmt.Errorf("generating PDF: %w (fallback also failed: %v)", err, fallbackErr)
	}
	return data, nil
}

func (g *Generator) generate(inv *invoice.Invoice) ([]byte, error) {
	page := NewPage()
	page.SetFontFamily(inv.Font)

	currency := g.currency
	if inv.Currency != "" {
		currency = CurrencyFor(inv.Currency)
	}

	NewRenderer(page, g.images, currency).Render(inv)
	return page.Output()
}

// GenerateFallback builds the static confirmation document used when the
// primary path cannot be attempted at all or fails outright.
func (g *Generator) GenerateFallback() ([]byte, error) {
	page := NewPage()

	page.DrawText(50, 750, 24, api.Black, "Configuration de Facture")
	page.DrawText(50, 700, 16, api.Color{G: 0.5}, "PDF généré avec succès!")
	page.DrawText(50, 650, 12, api.Gray,
		"Date de génération: "+time.Now().Format("02/01/2006"))
	page.DrawText(50, 600, 12, api.Black,
		"Votre système de configuration de facture fonctionne correctement.")
	page.StrokeRect(30, 30, 535, 782, 2, api.Black)

	return page.Output()
}
