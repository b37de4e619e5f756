package service

import (
	"tablehouse/money"
	"tablehouse/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	DefaultTaxRateBps = 800
	MaxTaxRateBps     = 10000
)

// ComputeTotals sums unit price times quantity in cents and applies the tax rate
// (basis points) rounded half up to the cent.
func ComputeTotals(lines []domain.CartLine, taxRateBps int64) domain.Totals {
	var subtotal money.Cents
	for _, line := range lines {
		subtotal += line.UnitPrice.Mul(line.Quantity)
	}
	tax := TaxOn(subtotal, taxRateBps)
	return domain.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// TaxOn expects a non-negative subtotal, so rounding away from zero is half up.
func TaxOn(subtotal money.Cents, taxRateBps int64) money.Cents {
	tax := subtotal.Decimal().Mul(decimal.New(taxRateBps, -4)).Round(2)
	return money.Cents(tax.Shift(2).IntPart())
}
