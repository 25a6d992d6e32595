// Package invoice holds the invoice data model consumed by the PDF
// rendering pipeline: the invoice itself, its line items, image slots,
// percentage-based position overrides and free-form positioned components.
package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Layout model variants.
const (
	ModelLight   = "light"
	ModelBoxed   = "boxed"
	ModelBold    = "bold"
	ModelStriped = "striped"
)

// DefaultInvoiceNumber is substituted when the payload carries no number.
const DefaultInvoiceNumber = "INV-001"

// Invoice is the top-level entity built once per render request. It is
// immutable during rendering and discarded once the PDF bytes are produced.
type Invoice struct {
	Model          string       `json:"model"`
	Font           string       `json:"font"`
	PrimaryColor   string       `json:"primaryColor"`
	SecondaryColor string       `json:"secondaryColor"`
	Background     string       `json:"background"`
	Currency       string       `json:"currency,omitempty"`
	Slogan         string       `json:"slogan"`
	CompanyDetails string       `json:"companyDetails"`
	ClientDetails  string       `json:"clientDetails"`
	InvoiceNumber  string       `json:"invoiceNumber"`
	InvoiceDate    string       `json:"invoiceDate"`
	DueDate        string       `json:"dueDate"`
	TaxRate        Number       `json:"taxRate"`
	FooterNumber   string       `json:"footerNumber"`
	PaymentInfo    string       `json:"paymentInfo"`
	Items          []LineItem   `json:"items"`
	Images         ImageSet     `json:"images"`
	PositionData   PositionData `json:"positionData,omitempty"`
	Components     []Component  `json:"components,omitempty"`
}

// LineItem is one row of the items table.
type LineItem struct {
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
	Quantity    Number `json:"quantity"`
	Price       Number `json:"price"`
}

// Total returns quantity x unit price.
func (i LineItem) Total() float64 {
	return i.Quantity.Float() * i.Price.Float()
}

// ImageSet holds the optional image slots of an invoice, each a data-URL
// string. The watermark additionally carries an opacity percentage.
type ImageSet struct {
	Logo             string `json:"logoImage,omitempty"`
	Signature        string `json:"signatureImage,omitempty"`
	Header           string `json:"headerImage,omitempty"`
	Footer           string `json:"footerImage,omitempty"`
	Watermark        string `json:"watermarkImage,omitempty"`
	WatermarkOpacity Number `json:"watermarkOpacity,omitempty"`
}

func (s ImageSet) HasLogo() bool      { return s.Logo != "" }
func (s ImageSet) HasSignature() bool { return s.Signature != "" }
func (s ImageSet) HasWatermark() bool { return s.Watermark != "" }

// ElementPosition overrides the built-in coordinates of a fixed-layout
// element. Each value is a percentage (0-100) of the page dimension, or for
// Size a percentage of the base scale (50 = 1.0).
type ElementPosition struct {
	X    *Number `json:"x,omitempty"`
	Y    *Number `json:"y,omitempty"`
	Size *Number `json:"size,omitempty"`
}

// PositionData maps fixed-layout element names to their overrides.
type PositionData map[string]ElementPosition

// New builds an invoice from a decoded payload, filling every absent field
// with its documented default.
func New(data []byte) (*Invoice, error) {
	inv := &Invoice{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, inv); err != nil {
			return nil, fmt.Errorf("decoding invoice payload: %w", err)
		}
	}
	inv.applyDefaults()
	return inv, nil
}

func (inv *Invoice) applyDefaults() {
	now := time.Now()
	if inv.Model == "" {
		inv.Model = ModelLight
	}
	if inv.Font == "" {
		inv.Font = "Helvetica"
	}
	if inv.PrimaryColor == "" {
		inv.PrimaryColor = "#000000"
	}
	if inv.SecondaryColor == "" {
		inv.SecondaryColor = "#000000"
	}
	if inv.Background == "" {
		inv.Background = "none"
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = DefaultInvoiceNumber
	}
	if inv.InvoiceDate == "" {
		inv.InvoiceDate = now.Format("2006-01-02")
	}
	if inv.DueDate == "" {
		inv.DueDate = now.AddDate(0, 0, 30).Format("2006-01-02")
	}
	if inv.Images.WatermarkOpacity == 0 {
		inv.Images.WatermarkOpacity = 10
	}
}

// Subtotal is the sum of all item totals.
func (inv *Invoice) Subtotal() float64 {
	return lo.SumBy(inv.Items, LineItem.Total)
}

// Tax is the tax amount derived from the subtotal and the tax rate.
func (inv *Invoice) Tax() float64 {
	return inv.Subtotal() * inv.TaxRate.Float() / 100
}

// Total is subtotal plus tax.
func (inv *Invoice) Total() float64 {
	return inv.Subtotal() + inv.Tax()
}

// Validate reports non-fatal problems with the invoice. Rendering proceeds
// regardless; callers only log the warnings.
func (inv *Invoice) Validate() []string {
	var warnings []string
	if inv.TaxRate < 0 {
		warnings = append(warnings, "tax rate cannot be negative")
	}
	for i, item := range inv.Items {
		if item.Quantity < 0 {
			warnings = append(warnings, fmt.Sprintf("item %d: quantity cannot be negative", i))
		}
		if item.Price < 0 {
			warnings = append(warnings, fmt.Sprintf("item %d: price cannot be negative", i))
		}
	}
	return warnings
}

// IsEmpty is the single authoritative check for an invoice with no
// rendering-worthy content. The HTTP controller and the renderer both rely
// on it instead of keeping their own variants.
// An invoice number still equal to the untouched default does not count as
// content, so a payload with nothing filled in lands on the empty-state page.
func (inv *Invoice) IsEmpty() bool {
	return inv.CompanyDetails == "" &&
		inv.ClientDetails == "" &&
		(inv.InvoiceNumber == "" || inv.InvoiceNumber == DefaultInvoiceNumber) &&
		len(inv.Items) == 0 &&
		!inv.Images.HasLogo() &&
		!inv.Images.HasSignature() &&
		inv.Slogan == "" &&
		inv.PaymentInfo == "" &&
		len(inv.Components) == 0
}
