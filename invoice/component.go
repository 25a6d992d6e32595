package invoice

import (
	"encoding/json"
	"fmt"

	"github.com/Mohamed-kissame/Facture-v2/api"
)

// ComponentType identifies one component variant.
type ComponentType string

const (
	TypeText           ComponentType = "text"
	TypeSeparator      ComponentType = "separator"
	TypePager          ComponentType = "pager"
	TypeInvoiceData    ComponentType = "invoice-data"
	TypeInvoiceDates   ComponentType = "invoice-dates"
	TypeInvoiceTable   ComponentType = "invoice-table"
	TypeInvoiceSummary ComponentType = "invoice-summary"
	TypeImage          ComponentType = "image"
)

// Component is a positioned, typed drawable placed by the user onto the
// canvas. Position is in page points with Y measured from the top edge.
// Spec holds the variant payload; it is nil for unrecognized types, which
// the renderer skips without failing.
type Component struct {
	ID       string
	Type     ComponentType
	Position api.Position
	Size     *api.Size
	Spec     ComponentSpec
}

// ComponentSpec is the variant-specific payload of a component. Exactly one
// concrete type exists per component kind; the renderer dispatches with a
// type switch.
type ComponentSpec interface {
	kind() ComponentType
}

// TextSpec is a free text block.
type TextSpec struct {
	Content string `json:"content"`
}

// SeparatorSpec is a horizontal rule.
type SeparatorSpec struct {
	Thickness float64 `json:"thickness,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// PagerSpec is a page counter line with {page}/{total} placeholders.
type PagerSpec struct {
	Format string `json:"format,omitempty"`
}

// DataSpec is a text block bound to a named invoice field, with the bound
// value snapshotted into Content by the designer.
type DataSpec struct {
	Field   string `json:"field,omitempty"`
	Content string `json:"content"`
}

// DatesSpec carries pre-formatted issue and due date strings.
type DatesSpec struct {
	InvoiceDate string `json:"invoiceDate"`
	DueDate     string `json:"dueDate"`
}

// TableRow is one row of an embedded component table.
type TableRow struct {
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unitPrice"`
	Tax         Number `json:"tax"`
	Total       Number `json:"total"`
}

// TableSpec is a self-contained items table.
type TableSpec struct {
	Rows []TableRow `json:"rows"`
}

// SummarySpec carries pre-computed totals.
type SummarySpec struct {
	Subtotal  Number `json:"subtotal"`
	TaxRate   Number `json:"taxRate"`
	TaxAmount Number `json:"taxAmount"`
	Total     Number `json:"total"`
}

// ImageSpec is a placed raster image, as a data URL.
type ImageSpec struct {
	Data string `json:"imageData"`
}

func (TextSpec) kind() ComponentType      { return TypeText }
func (SeparatorSpec) kind() ComponentType { return TypeSeparator }
func (PagerSpec) kind() ComponentType     { return TypePager }
func (DataSpec) kind() ComponentType      { return TypeInvoiceData }
func (DatesSpec) kind() ComponentType     { return TypeInvoiceDates }
func (TableSpec) kind() ComponentType     { return TypeInvoiceTable }
func (SummarySpec) kind() ComponentType   { return TypeInvoiceSummary }
func (ImageSpec) kind() ComponentType     { return TypeImage }

// componentEnvelope is the flat wire shape of a component: common fields
// plus the union of all variant fields.
type componentEnvelope struct {
	ID       string        `json:"id"`
	Type     ComponentType `json:"type"`
	Position *api.Position `json:"position,omitempty"`
	Size     *api.Size     `json:"size,omitempty"`

	Content   string       `json:"content,omitempty"`
	Field     string       `json:"field,omitempty"`
	Thickness float64      `json:"thickness,omitempty"`
	Color     string       `json:"color,omitempty"`
	Format    string       `json:"format,omitempty"`
	Dates     *DatesSpec   `json:"dates,omitempty"`
	Rows      []TableRow   `json:"rows,omitempty"`
	Summary   *SummarySpec `json:"summary,omitempty"`
	ImageData string       `json:"imageData,omitempty"`
}

func (c *Component) UnmarshalJSON(data []byte) error {
	var env componentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding component: %w", err)
	}

	c.ID = env.ID
	c.Type = env.Type
	c.Size = env.Size
	if env.Position != nil {
		c.Position = *env.Position
	} else {
		c.Position = api.Position{X: 50, Y: 50}
	}

	switch env.Type {
	case TypeText:
		c.Spec = TextSpec{Content: env.Content}
	case TypeSeparator:
		c.Spec = SeparatorSpec{Thickness: env.Thickness, Color: env.Color}
	case TypePager:
		c.Spec = PagerSpec{Format: env.Format}
	case TypeInvoiceData:
		c.Spec = DataSpec{Field: env.Field, Content: env.Content}
	case TypeInvoiceDates:
		if env.Dates != nil {
			c.Spec = *env.Dates
		} else {
			c.Spec = DatesSpec{}
		}
	case TypeInvoiceTable:
		c.Spec = TableSpec{Rows: env.Rows}
	case TypeInvoiceSummary:
		if env.Summary != nil {
			c.Spec = *env.Summary
		} else {
			c.Spec = SummarySpec{}
		}
	case TypeImage:
		c.Spec = ImageSpec{Data: env.ImageData}
	default:
		// Unknown component types survive decoding so the renderer can
		// skip them without dropping the rest of the list.
		c.Spec = nil
	}
	return nil
}

func (c Component) MarshalJSON() ([]byte, error) {
	env := componentEnvelope{
		ID:       c.ID,
		Type:     c.Type,
		Position: &api.Position{X: c.Position.X, Y: c.Position.Y},
		Size:     c.Size,
	}

	switch spec := c.Spec.(type) {
	case TextSpec:
		env.Content = spec.Content
	case SeparatorSpec:
		env.Thickness = spec.Thickness
		env.Color = spec.Color
	case PagerSpec:
		env.Format = spec.Format
	case DataSpec:
		env.Field = spec.Field
		env.Content = spec.Content
	case DatesSpec:
		d := spec
		env.Dates = &d
	case TableSpec:
		env.Rows = spec.Rows
	case SummarySpec:
		s := spec
		env.Summary = &s
	case ImageSpec:
		env.ImageData = spec.Data
	}
	return json.Marshal(env)
}
