// Package pricing computes checkout totals for a cart.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is a priced cart line
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns UnitPrice × Quantity
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShippingPolicy decides the shipping fee for a subtotal
type ShippingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

// Fee returns zero when subtotal reaches the threshold, otherwise the flat fee
func (p ShippingPolicy) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Discounter computes a discount for a subtotal. *coupon.Coupon satisfies it.
type Discounter interface {
	Discount(subtotal decimal.Decimal) decimal.Decimal
}

// Breakdown is the result of a quote
type Breakdown struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Quote folds the lines into a breakdown:
//
//	subtotal = Σ unit price × quantity
//	shipping = policy.Fee(subtotal)
//	discount = discounter.Discount(subtotal), zero when discounter is nil
//	total    = max(0, subtotal + shipping - discount)
func Quote(lines []Line, policy ShippingPolicy, discounter Discounter) Breakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}

	shipping := policy.Fee(subtotal)

	discount := decimal.Zero
	if discounter != nil {
		discount = discounter.Discount(subtotal)
		if discount.IsNegative() {
			discount = decimal.Zero
		}
	}

	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    total,
	}
}

// DiscountFunc adapts a plain function to Discounter
type DiscountFunc func(subtotal decimal.Decimal) decimal.Decimal

// Discount calls f(subtotal)
func (f DiscountFunc) Discount(subtotal decimal.Decimal) decimal.Decimal {
	return f(subtotal)
}
