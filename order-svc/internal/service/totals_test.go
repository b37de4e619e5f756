package service_test

import (
	"math/rand"
	"testing"

	"tablehouse/money"
	"tablehouse/order-svc/internal/domain"
	"tablehouse/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_Scenario(t *testing.T) {
	lines := []domain.CartLine{
		{MenuItemID: 1, UnitPrice: money.MustParse("18.99"), Quantity: 1},
		{MenuItemID: 2, UnitPrice: money.MustParse("12.99"), Quantity: 2},
	}

	totals := service.ComputeTotals(lines, service.DefaultTaxRateBps)
	assert.Equal(t, "44.97", totals.Subtotal.String())
	assert.Equal(t, "3.60", totals.Tax.String())
	assert.Equal(t, "48.57", totals.Total.String())
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := service.ComputeTotals(nil, service.DefaultTaxRateBps)
	assert.Equal(t, domain.Totals{}, totals)
}

func TestTaxOn_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		subtotal money.Cents
		bps      int64
		tax      money.Cents
	}{
		{subtotal: 4497, bps: 800, tax: 360},
		{subtotal: 1, bps: 800, tax: 0},
		{subtotal: 625, bps: 800, tax: 50},
		{subtotal: 1000, bps: 825, tax: 83},
		{subtotal: 0, bps: 800, tax: 0},
	}
	for _, testCase := range tests {
		assert.Equal(t, testCase.tax, service.TaxOn(testCase.subtotal, testCase.bps), "subtotal %s", testCase.subtotal)
	}
}

func TestComputeTotals_LargestOrder(t *testing.T) {
	largest := money.MustParse("999999999.99")
	lines := make([]domain.CartLine, service.MaxOrderLines)
	for i := range lines {
		lines[i] = domain.CartLine{MenuItemID: i + 1, UnitPrice: largest, Quantity: service.MaxLineQuantity}
	}

	totals := service.ComputeTotals(lines, service.MaxTaxRateBps)
	assert.Equal(t, "4949999999950.50", totals.Subtotal.String())
	assert.Equal(t, totals.Subtotal, totals.Tax)
	assert.Equal(t, "9899999999901.00", totals.Total.String())
}

func TestComputeTotals_SumsExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		lines := make([]domain.CartLine, 1+rng.Intn(service.MaxOrderLines))
		var expected money.Cents
		for i := range lines {
			lines[i] = domain.CartLine{
				MenuItemID: i + 1,
				UnitPrice:  money.Cents(rng.Int63n(100000)),
				Quantity:   1 + rng.Intn(service.MaxLineQuantity),
			}
			expected += lines[i].UnitPrice.Mul(lines[i].Quantity)
		}

		totals := service.ComputeTotals(lines, service.DefaultTaxRateBps)
		assert.Equal(t, expected, totals.Subtotal)
		assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
	}
}
