package pdf

import (
	"fmt"

	"github.com/Mohamed-kissame/Facture-v2/invoice"
)

// Axis selects which coordinate of an element a position override applies
// to. Size is a scale multiplier rather than a coordinate.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisSize
)

// ResolvePosition converts a percentage-based override from positionData
// into page coordinates: X as a fraction of the page width, Y flipped from
// the top of the page (the designer measures downward, the page upward),
// and Size as a multiplier where 50% is scale 1.0. An absent override
// returns the caller's default untouched.
func ResolvePosition(pd invoice.PositionData, element string, axis Axis, def float64) float64 {
	ep, ok := pd[element]
	if !ok {
		return def
	}

	var v *invoice.Number
	switch axis {
	case AxisX:
		v = ep.X
	case AxisY:
		v = ep.Y
	case AxisSize:
		v = ep.Size
	}
	if v == nil {
		return def
	}

	pct := v.Float() / 100
	switch axis {
	case AxisX:
		return pct * PageWidth
	case AxisY:
		return PageHeight - pct*PageHeight
	default:
		return pct * 2
	}
}

// CurrencyStyle controls how money values are written. The symbol goes
// either before the amount ("$ 24.00") or after it ("24.00 €").
type CurrencyStyle struct {
	Symbol string
	Prefix bool
}

var (
	USD = CurrencyStyle{Symbol: "$", Prefix: true}
	EUR = CurrencyStyle{Symbol: "€", Prefix: false}
)

// CurrencyFor maps a payload currency code to its style, defaulting to USD.
func CurrencyFor(code string) CurrencyStyle {
	switch code {
	case "EUR", "eur":
		return EUR
	default:
		return USD
	}
}

// Format renders an amount with two decimals and the currency symbol.
func (c CurrencyStyle) Format(v float64) string {
	if c.Prefix {
		return fmt.Sprintf("%s %.2f", c.Symbol, v)
	}
	return fmt.Sprintf("%.2f %s", v, c.Symbol)
}
