package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamed-kissame/Facture-v2/api"
)

func decodeComponent(t *testing.T, raw string) Component {
	t.Helper()
	var c Component
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func TestComponentDecodeVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ComponentSpec
	}{
		{
			"text",
			`{"id": "c1", "type": "text", "position": {"x": 10, "y": 20}, "content": "Hello"}`,
			TextSpec{Content: "Hello"},
		},
		{
			"separator",
			`{"id": "c2", "type": "separator", "thickness": 3, "color": "#ff0000"}`,
			SeparatorSpec{Thickness: 3, Color: "#ff0000"},
		},
		{
			"pager",
			`{"id": "c3", "type": "pager", "format": "Page {page}/{total}"}`,
			PagerSpec{Format: "Page {page}/{total}"},
		},
		{
			"invoice-data",
			`{"id": "c4", "type": "invoice-data", "field": "invoiceNumber", "content": "INV-9"}`,
			DataSpec{Field: "invoiceNumber", Content: "INV-9"},
		},
		{
			"invoice-dates",
			`{"id": "c5", "type": "invoice-dates", "dates": {"invoiceDate": "01/02/2024", "dueDate": "01/03/2024"}}`,
			DatesSpec{InvoiceDate: "01/02/2024", DueDate: "01/03/2024"},
		},
		{
			"invoice-table",
			`{"id": "c6", "type": "invoice-table", "rows": [{"description": "d", "quantity": 1, "unitPrice": 2, "tax": 20, "total": 2.4}]}`,
			TableSpec{Rows: []TableRow{{Description: "d", Quantity: 1, UnitPrice: 2, Tax: 20, Total: 2.4}}},
		},
		{
			"invoice-summary",
			`{"id": "c7", "type": "invoice-summary", "summary": {"subtotal": 20, "taxRate": 20, "taxAmount": 4, "total": 24}}`,
			SummarySpec{Subtotal: 20, TaxRate: 20, TaxAmount: 4, Total: 24},
		},
		{
			"image",
			`{"id": "c8", "type": "image", "imageData": "data:image/png;base64,AAAA"}`,
			ImageSpec{Data: "data:image/png;base64,AAAA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := decodeComponent(t, tt.raw)
			assert.Equal(t, tt.want, c.Spec)
		})
	}
}

func TestComponentDefaultPosition(t *testing.T) {
	c := decodeComponent(t, `{"id": "c1", "type": "text", "content": "x"}`)
	assert.Equal(t, api.Position{X: 50, Y: 50}, c.Position)

	placed := decodeComponent(t, `{"id": "c2", "type": "text", "position": {"x": 120, "y": 300}, "content": "x"}`)
	assert.Equal(t, api.Position{X: 120, Y: 300}, placed.Position)
}

func TestComponentUnknownTypeSurvivesDecode(t *testing.T) {
	c := decodeComponent(t, `{"id": "c9", "type": "hologram", "content": "??"}`)
	assert.Equal(t, ComponentType("hologram"), c.Type)
	assert.Nil(t, c.Spec)
}

func TestComponentMarshalRoundTrip(t *testing.T) {
	c := decodeComponent(t, `{"id": "c6", "type": "invoice-table", "position": {"x": 40, "y": 60},
		"rows": [{"description": "d", "quantity": 2, "unitPrice": 5, "tax": 10, "total": 11}]}`)

	wire, err := json.Marshal(c)
	require.NoError(t, err)

	var back Component
	require.NoError(t, json.Unmarshal(wire, &back))
	assert.Equal(t, c, back)
}
