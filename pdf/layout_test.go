package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mohamed-kissame/Facture-v2/invoice"
)

func num(v float64) *invoice.Number {
	n := invoice.Number(v)
	return &n
}

func TestResolvePosition(t *testing.T) {
	pd := invoice.PositionData{
		"logo":      {X: num(50), Y: num(50)},
		"watermark": {Size: num(25)},
		"slogan":    {X: num(100)},
	}

	// 50% of a 595x842 page: x = 297.5, y flipped from the top = 421.
	assert.InDelta(t, 297.5, ResolvePosition(pd, "logo", AxisX, 999), 1e-9)
	assert.InDelta(t, 421, ResolvePosition(pd, "logo", AxisY, 999), 1e-9)

	// Size is a multiplier: 25% -> 0.5, 50% -> 1.0.
	assert.InDelta(t, 0.5, ResolvePosition(pd, "watermark", AxisSize, 1), 1e-9)

	// Absent element or axis returns the default untouched.
	assert.Equal(t, 123.0, ResolvePosition(pd, "missing", AxisX, 123))
	assert.Equal(t, 77.0, ResolvePosition(pd, "slogan", AxisY, 77))
	assert.Equal(t, 1.0, ResolvePosition(nil, "logo", AxisSize, 1))

	assert.InDelta(t, 595, ResolvePosition(pd, "slogan", AxisX, 0), 1e-9)
}

func TestCurrencyStyle(t *testing.T) {
	assert.Equal(t, "$ 24.00", USD.Format(24))
	assert.Equal(t, "24.00 €", EUR.Format(24))
	assert.Equal(t, "$ 0.50", USD.Format(0.499999999))
}

func TestCurrencyFor(t *testing.T) {
	assert.Equal(t, EUR, CurrencyFor("EUR"))
	assert.Equal(t, EUR, CurrencyFor("eur"))
	assert.Equal(t, USD, CurrencyFor("USD"))
	assert.Equal(t, USD, CurrencyFor(""))
	assert.Equal(t, USD, CurrencyFor("GBP"))
}
