package pdf

import (
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/Mohamed-kissame/Facture-v2/api"
	"github.com/Mohamed-kissame/Facture-v2/invoice"
)

// components draws the free-form component list. Each component renders
// inside its own fault boundary; one bad component never takes down the
// ones after it.
func (r *Renderer) components() error {
	for _, c := range r.inv.Components {
		r.renderComponent(c)
	}
	return nil
}

func (r *Renderer) renderComponent(c invoice.Component) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warnf("component %s (%s) failed, skipped: %v", c.ID, c.Type, rec)
		}
	}()

	// Component positions are measured from the top edge of the page.
	x := c.Position.X
	y := r.page.Height() - c.Position.Y

	switch spec := c.Spec.(type) {
	case invoice.TextSpec:
		if spec.Content != "" {
			r.page.DrawTextWrapped(x, y, 10, componentWidth(c.Size, 200), 15, api.Black, spec.Content)
		}

	case invoice.SeparatorSpec:
		thickness := spec.Thickness
		if thickness == 0 {
			thickness = 2
		}
		color := api.Black
		if spec.Color != "" {
			color = api.ParseHexColor(spec.Color)
		}
		r.page.DrawLine(x, y, x+componentWidth(c.Size, 200), y, thickness, color)

	case invoice.PagerSpec:
		format := spec.Format
		if format == "" {
			format = "Page {page} sur {total}"
		}
		text := strings.NewReplacer("{page}", "1", "{total}", "1").Replace(format)
		r.page.DrawText(x, y, 10, api.Gray, text)

	case invoice.DataSpec:
		if spec.Content != "" {
			r.page.DrawTextWrapped(x, y, 10, componentWidth(c.Size, 200), 15, api.Black, spec.Content)
		}

	case invoice.DatesSpec:
		r.page.DrawText(x, y, 10, api.Black, "Date de la facture: "+spec.InvoiceDate)
		r.page.DrawText(x, y-20, 10, api.Black, "Date d'échéance: "+spec.DueDate)

	case invoice.TableSpec:
		if len(spec.Rows) > 0 {
			r.renderComponentTable(spec.Rows, x, y)
		}

	case invoice.SummarySpec:
		r.renderComponentSummary(spec, x, y)

	case invoice.ImageSpec:
		if spec.Data != "" {
			r.renderComponentImage(spec.Data, x, y, c.Size)
		}

	default:
		// Unrecognized type: skip silently, keep the rest of the list.
		logger.Debugf("skipping component %s with unknown type %q", c.ID, c.Type)
	}
}

// Column widths of component-embedded tables, narrower than the fixed
// items table since they start at an arbitrary x.
var componentTableColumns = [5]float64{200, 50, 70, 50, 70}

var componentTableHeaders = [5]string{"Description", "Quantité", "Prix unitaire", "TVA", "Total"}

func (r *Renderer) renderComponentTable(rows []invoice.TableRow, x, y float64) {
	offset := 0.0
	for i, header := range componentTableHeaders {
		r.page.DrawText(x+offset, y, 10, api.Black, header)
		offset += componentTableColumns[i]
	}

	y -= 15
	tableWidth := 0.0
	for _, w := range componentTableColumns {
		tableWidth += w
	}
	r.page.DrawLine(x, y+5, x+tableWidth, y+5, 1, api.LightGray)

	y -= 10
	for _, row := range rows {
		col := x
		r.page.DrawTextWrapped(col, y, 10, componentTableColumns[0]-5, 15, api.Black, row.Description)
		col += componentTableColumns[0]
		r.page.DrawText(col, y, 10, api.Black, strconv.FormatFloat(row.Quantity.Float(), 'f', -1, 64))
		col += componentTableColumns[1]
		r.page.DrawText(col, y, 10, api.Black, r.currency.Format(row.UnitPrice.Float()))
		col += componentTableColumns[2]
		r.page.DrawText(col, y, 10, api.Black, formatPercent(row.Tax.Float()))
		col += componentTableColumns[3]
		r.page.DrawText(col, y, 10, api.Black, r.currency.Format(row.Total.Float()))

		y -= 25
	}
}

func (r *Renderer) renderComponentSummary(s invoice.SummarySpec, x, y float64) {
	r.page.DrawText(x, y, 10, api.Black, "Sous-total:")
	r.page.DrawText(x+150, y, 10, api.Black, r.currency.Format(s.Subtotal.Float()))

	y -= 20
	r.page.DrawText(x, y, 10, api.Black, "TVA ("+formatPercent(s.TaxRate.Float())+"):")
	r.page.DrawText(x+150, y, 10, api.Black, r.currency.Format(s.TaxAmount.Float()))

	y -= 20
	r.page.DrawLine(x, y+10, x+180, y+10, 1, api.LightGray)
	r.page.DrawText(x, y, 12, api.Black, "Total:")
	r.page.DrawText(x+150, y, 12, api.Black, r.currency.Format(s.Total.Float()))
}

func (r *Renderer) renderComponentImage(data string, x, y float64, size *api.Size) {
	img := r.images.Embed(r.page, data)
	if img == nil {
		return
	}

	w := 100.0
	if size != nil && size.Width > 0 {
		w = size.Width
	}
	h := w / img.Width * img.Height
	if size != nil && size.Height > 0 {
		h = size.Height
	}
	r.page.DrawImage(img, x, y-h, w, h, 1)
}

func componentWidth(size *api.Size, def float64) float64 {
	if size != nil && size.Width > 0 {
		return size.Width
	}
	return def
}
