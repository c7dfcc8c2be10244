package domain

import (
	"errors"
	"fmt"
	"math"
)

// Financials holds the money inputs of an order, in cents.
// TaxRate is a fraction (0.13 for 13%).
type Financials struct {
	SubtotalCents    int64
	DiscountCents    int64
	DeliveryFeeCents int64
	TaxRate          float64
	PaidCents        int64
}

// Totals is derived from Financials by Recompute and never stored.
type Totals struct {
	TaxableCents int64 `json:"taxable_cents"`
	TaxCents     int64 `json:"tax_cents"`
	TotalCents   int64 `json:"total_cents"`
	PaidCents    int64 `json:"paid_cents"`
	BalanceCents int64 `json:"balance_cents"`
	Settled      bool  `json:"settled"`
}

// Recompute derives tax, total and balance. A discount larger than the
// subtotal zeroes the food portion but never the delivery fee.
func (f Financials) Recompute() Totals {
	food := f.SubtotalCents - f.DiscountCents
	if food < 0 {
		food = 0
	}
	taxable := food + f.DeliveryFeeCents
	tax := int64(math.Round(float64(taxable) * f.TaxRate))
	total := taxable + tax
	balance := total - f.PaidCents

	return Totals{
		TaxableCents: taxable,
		TaxCents:     tax,
		TotalCents:   total,
		PaidCents:    f.PaidCents,
		BalanceCents: balance,
		Settled:      balance <= 0,
	}
}

// MaxPaymentCents bounds a single payment ($100M).
const MaxPaymentCents int64 = 10_000_000_000

var ErrInvalidPayment = errors.New("invalid payment amount")

// ApplyPayment adds amount to the paid total and returns the new totals.
// The paid total is left unchanged when the payment is rejected.
func (f *Financials) ApplyPayment(amountCents int64) (Totals, error) {
	switch {
	case amountCents <= 0:
		return Totals{}, fmt.Errorf("%w: must be positive", ErrInvalidPayment)
	case amountCents > MaxPaymentCents:
		return Totals{}, fmt.Errorf("%w: exceeds %d cents", ErrInvalidPayment, MaxPaymentCents)
	case f.PaidCents > math.MaxInt64-amountCents:
		return Totals{}, fmt.Errorf("%w: paid total would overflow", ErrInvalidPayment)
	}
	f.PaidCents += amountCents
	return f.Recompute(), nil
}

// CateringOrder is a one-off event order with its own delivery date.
type CateringOrder struct {
	OrderID      string
	StoreID      string
	CustomerName string
	Address      string
	EventDate    string
	Fulfillment  Fulfillment
	Status       DeliveryStatus
	Financials   Financials
}
