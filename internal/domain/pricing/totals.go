// Package pricing computes invoice amounts. It has no storage or transport dependencies.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the VAT rate applied when none is configured.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// ErrNegativeRate is returned by ParseRate for rates below zero.
var ErrNegativeRate = errors.New("tax rate must not be negative")

// Totals are the derived amounts of one invoice line.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute derives subtotal, tax and total for quantity units at unitPrice.
// Tax is rounded half away from zero to cents; total is subtotal plus the rounded tax.
func Compute(quantity int, unitPrice, taxRate decimal.Decimal) Totals {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// ParseRate parses a decimal tax rate such as "0.15".
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}
	return rate, nil
}
