package shared

import "github.com/shopspring/decimal"

// LineSubtotal is quantity x unitPrice.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// RecomputeTotals sums the line subtotals and applies discount and shipping fee.
// The total never goes below zero.
func RecomputeTotals(subtotals []decimal.Decimal, discount, shippingFee decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, s := range subtotals {
		subtotal = subtotal.Add(s)
	}
	total = subtotal.Sub(discount).Add(shippingFee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return subtotal, total
}

// ShippingFee is distanceKm x ratePerKm rounded to cents.
func ShippingFee(distanceKm, ratePerKm decimal.Decimal) decimal.Decimal {
	if distanceKm.IsNegative() || ratePerKm.IsNegative() {
		return decimal.Zero
	}
	return distanceKm.Mul(ratePerKm).Round(2)
}
