package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/Mohamed-kissame/Facture-v2/api"
	"github.com/Mohamed-kissame/Facture-v2/invoice"
)

// Renderer walks an invoice through a fixed, ordered list of render steps
// and draws each one onto a single page. Every step runs inside its own
// fault boundary: a failing or panicking step is logged and skipped, the
// rest of the page still renders. A new Renderer is built per request, so
// concurrent renders share nothing.
type Renderer struct {
	page     *Page
	images   *ImageService
	currency CurrencyStyle

	inv     *invoice.Invoice
	primary api.Color
}

func NewRenderer(page *Page, images *ImageService, currency CurrencyStyle) *Renderer {
	return &Renderer{page: page, images: images, currency: currency}
}

type renderStep struct {
	name string
	fn   func() error
}

// Render draws the whole invoice. It never returns an error: anything that
// escapes the step boundaries is converted into a visible error line so a
// page is always produced.
func (r *Renderer) Render(inv *invoice.Invoice) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("render pipeline failed: %v", rec)
			r.page.DrawText(50, r.page.Height()-100, 12, api.Red,
				fmt.Sprintf("Erreur lors du rendu: %v", rec))
		}
	}()

	r.inv = inv
	r.primary = api.ParseHexColor(inv.PrimaryColor)

	for _, warning := range inv.Validate() {
		logger.Warnf("invoice validation: %s", warning)
	}

	steps := []renderStep{
		{"page-border", r.pageBorder},
		{"watermark", r.watermark},
		{"header-image", r.headerImage},
		{"model", r.modelDecoration},
		{"logo", r.logo},
		{"company-details", r.companyDetails},
		{"client-details", r.clientDetails},
		{"invoice-title", r.invoiceTitle},
		{"dates", r.dates},
		{"items-table", r.itemsTable},
		{"summary", r.summary},
		{"footer", r.footer},
		{"signature", r.signature},
		{"components", r.components},
		{"empty-state", r.emptyState},
	}
	for _, step := range steps {
		r.runStep(step)
	}
}

func (r *Renderer) runStep(step renderStep) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warnf("render step %s panicked, section skipped: %v", step.name, rec)
		}
	}()
	if err := step.fn(); err != nil {
		logger.Warnf("render step %s failed, section skipped: %v", step.name, err)
	}
}

func (r *Renderer) pos(element string, axis Axis, def float64) float64 {
	return ResolvePosition(r.inv.PositionData, element, axis, def)
}

// pageBorder draws the faint cosmetic border every page gets.
func (r *Renderer) pageBorder() error {
	r.page.StrokeRect(10, 10, r.page.Width()-20, r.page.Height()-20, 1, api.Level(0.9))
	return nil
}

func (r *Renderer) watermark() error {
	if !r.inv.Images.HasWatermark() {
		return nil
	}
	img := r.images.Embed(r.page, r.inv.Images.Watermark)
	if img == nil {
		return nil
	}

	x := r.pos("watermark", AxisX, r.page.Width()/2)
	y := r.pos("watermark", AxisY, r.page.Height()/2)
	scale := r.pos("watermark", AxisSize, 1)
	opacity := r.inv.Images.WatermarkOpacity.Float() / 100

	w := min(r.page.Width()*0.8, img.Width) * scale
	h := w / img.Width * img.Height
	r.page.DrawImage(img, x-w/2, y-h/2, w, h, opacity)
	return nil
}

func (r *Renderer) headerImage() error {
	if r.inv.Images.Header == "" {
		return nil
	}
	img := r.images.Embed(r.page, r.inv.Images.Header)
	if img == nil {
		return nil
	}

	x := r.pos("header-image", AxisX, r.page.Width()/2)
	y := r.pos("header-image", AxisY, r.page.Height()-50)
	scale := r.pos("header-image", AxisSize, 1)

	w := min(r.page.Width()-40, img.Width) * scale
	h := w / img.Width * img.Height
	r.page.DrawImage(img, x-w/2, y-h, w, h, 1)
	return nil
}

// modelDecoration applies the layout variant's page decoration. Light and
// striped add nothing here; striping happens per item row.
func (r *Renderer) modelDecoration() error {
	switch r.inv.Model {
	case invoice.ModelBoxed:
		r.page.StrokeRect(20, 20, 555, 802, 2, r.primary)
	case invoice.ModelBold:
		r.page.FillRect(0, 792, r.page.Width(), 50, r.primary)
	}
	return nil
}

func (r *Renderer) logo() error {
	if !r.inv.Images.HasLogo() {
		return nil
	}
	img := r.images.Embed(r.page, r.inv.Images.Logo)
	if img == nil {
		return nil
	}

	x := r.pos("logo", AxisX, 50)
	y := r.pos("logo", AxisY, r.page.Height()-50)
	scale := r.pos("logo", AxisSize, 1)

	w := min(100, img.Width) * scale
	h := w / img.Width * img.Height
	r.page.DrawImage(img, x, y-h, w, h, 1)
	return nil
}

func (r *Renderer) companyDetails() error {
	if r.inv.CompanyDetails == "" {
		return nil
	}
	x := r.pos("company-details", AxisX, 50)
	y := r.pos("company-details", AxisY, r.page.Height()-100)
	r.page.DrawTextWrapped(x, y, 10, 200, 15, api.Black, flatten(r.inv.CompanyDetails))
	return nil
}

func (r *Renderer) clientDetails() error {
	if r.inv.ClientDetails == "" {
		return nil
	}
	x := r.pos("client-details", AxisX, 350)
	y := r.pos("client-details", AxisY, r.page.Height()-100)
	r.page.DrawTextWrapped(x, y, 10, 200, 15, api.Black, flatten(r.inv.ClientDetails))
	return nil
}

func (r *Renderer) invoiceTitle() error {
	if r.inv.InvoiceNumber == "" {
		return nil
	}
	x := r.pos("invoice-number", AxisX, 50)
	y := r.pos("invoice-number", AxisY, r.page.Height()-200)
	r.page.DrawText(x, y, 16, r.primary, r.inv.InvoiceNumber)
	return nil
}

func (r *Renderer) dates() error {
	x := r.pos("dates", AxisX, 50)
	y := r.pos("dates", AxisY, r.page.Height()-230)

	if r.inv.InvoiceDate != "" {
		r.page.DrawText(x, y, 10, api.Black, "Date de la facture: "+formatDate(r.inv.InvoiceDate))
		y -= 15
	}
	if r.inv.DueDate != "" {
		r.page.DrawText(x, y, 10, api.Black, "Date d'échéance: "+formatDate(r.inv.DueDate))
	}
	return nil
}

// Fixed column offsets of the items table.
var tableColumns = [5]float64{50, 300, 370, 440, 510}

var tableHeaders = [5]string{"Description", "Quantité", "Prix unitaire", "Taxes", "Montant"}

func (r *Renderer) itemsTable() error {
	if len(r.inv.Items) == 0 {
		return nil
	}

	y := r.pos("items-table", AxisY, r.page.Height()-280)
	for i, header := range tableHeaders {
		r.page.DrawText(tableColumns[i], y, 10, api.Black, header)
	}
	r.page.DrawLine(50, y-10, 545, y-10, 1, api.LightGray)

	y -= 30
	for i, item := range r.inv.Items {
		if r.inv.Model == invoice.ModelStriped && i%2 == 1 {
			r.page.FillRect(50, y-20, 495, 30, api.Level(0.95))
		}

		r.page.DrawText(tableColumns[0], y, 10, api.Black, item.Description)
		if item.Details != "" {
			r.page.DrawText(tableColumns[0], y-15, 9, api.Gray, item.Details)
		}
		r.page.DrawText(tableColumns[1], y, 10, api.Black, fmt.Sprintf("%.3f", item.Quantity.Float()))
		r.page.DrawText(tableColumns[2], y, 10, api.Black, fmt.Sprintf("%.2f", item.Price.Float()))
		r.page.DrawText(tableColumns[3], y, 10, api.Black, formatPercent(r.inv.TaxRate.Float()))
		r.page.DrawText(tableColumns[4], y, 10, api.Black, r.currency.Format(item.Total()))

		y -= 40
	}
	return nil
}

func (r *Renderer) summary() error {
	if len(r.inv.Items) == 0 {
		return nil
	}

	y := min(450, r.page.Height()-350)

	r.page.DrawText(450, y, 10, api.Black, "Sous-total")
	r.page.DrawText(520, y, 10, api.Black, r.currency.Format(r.inv.Subtotal()))

	y -= 20
	r.page.DrawText(450, y, 10, api.Black, "Taxes "+formatPercent(r.inv.TaxRate.Float()))
	r.page.DrawText(520, y, 10, api.Black, r.currency.Format(r.inv.Tax()))

	y -= 20
	r.page.DrawLine(450, y+10, 545, y+10, 1, api.LightGray)
	r.page.DrawText(450, y, 10, api.Black, "Total")
	r.page.DrawText(520, y, 10, api.Black, r.currency.Format(r.inv.Total()))
	return nil
}

func (r *Renderer) footer() error {
	if r.inv.Images.Footer != "" {
		if img := r.images.Embed(r.page, r.inv.Images.Footer); img != nil {
			x := r.pos("footer-image", AxisX, r.page.Width()/2)
			y := r.pos("footer-image", AxisY, 100)
			scale := r.pos("footer-image", AxisSize, 1)

			w := min(r.page.Width()-40, img.Width) * scale
			h := w / img.Width * img.Height
			r.page.DrawImage(img, x-w/2, y, w, h, 1)
		}
	}

	if r.inv.PaymentInfo != "" {
		x := r.pos("payment-info", AxisX, 50)
		y := r.pos("payment-info", AxisY, 150)
		r.page.DrawText(x, y, 10, api.Black, flatten(r.inv.PaymentInfo))
	}

	if r.inv.FooterNumber != "" {
		x := r.pos("footer-number", AxisX, r.page.Width()/2)
		y := r.pos("footer-number", AxisY, 50)
		offset := r.page.TextWidth(r.inv.FooterNumber, 10) / 2
		r.page.DrawText(x-offset, y, 10, api.Black, r.inv.FooterNumber)
	}

	if r.inv.Slogan != "" {
		x := r.pos("slogan", AxisX, r.page.Width()/2)
		y := r.pos("slogan", AxisY, 30)
		offset := r.page.TextWidth(r.inv.Slogan, 8) / 2
		r.page.DrawText(x-offset, y, 8, api.Gray, r.inv.Slogan)
	}
	return nil
}

func (r *Renderer) signature() error {
	if !r.inv.Images.HasSignature() {
		return nil
	}
	img := r.images.Embed(r.page, r.inv.Images.Signature)
	if img == nil {
		return nil
	}

	x := r.pos("signature", AxisX, 400)
	y := r.pos("signature", AxisY, 120)
	scale := r.pos("signature", AxisSize, 1)

	w := min(150, img.Width) * scale
	h := w / img.Width * img.Height
	r.page.DrawImage(img, x, y, w, h, 1)
	return nil
}

// emptyState replaces a blank page with a centered hint instead of
// shipping an empty-looking document.
func (r *Renderer) emptyState() error {
	if !r.inv.IsEmpty() {
		return nil
	}
	cx, cy := r.page.Width()/2, r.page.Height()/2
	r.page.DrawText(cx-200, cy, 14, api.Gray,
		"Facture vide - Ajoutez des composants pour voir le contenu")
	r.page.DrawText(cx-80, cy-30, 10, api.Level(0.7),
		"Généré le: "+time.Now().Format("02/01/2006"))
	return nil
}

// flatten collapses multi-line designer text to one line.
func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// formatDate renders an ISO date as dd/mm/yyyy; anything unparsable
// passes through untouched.
func formatDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02/01/2006")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("02/01/2006")
	}
	return s
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
