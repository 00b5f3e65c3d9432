package cart

import (
	"github.com/shopspring/decimal"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Subtotal sums the line aggregates for a cart.
func Subtotal(lines []models.CartLine) int64 {
	var sum int64
	for _, line := range lines {
		sum += line.TotalPrice
	}
	return sum
}

// ComputeTotal returns the payable total for the cart. A redeemed coupon's
// discount is subtracted exactly once, and the result never goes below zero
// regardless of how large the discount is.
func ComputeTotal(lines []models.CartLine, coupon *models.Coupon) int64 {
	sum := decimal.NewFromInt(Subtotal(lines))
	if coupon != nil {
		sum = sum.Sub(decimal.NewFromFloat(coupon.DiscountAmount))
	}
	if sum.IsNegative() {
		return 0
	}
	return sum.Round(0).IntPart()
}

// TotalsFor builds the checkout summary from an already fetched set of lines
// and a resolved coupon, so callers holding a snapshot do not refetch.
func TotalsFor(lines []models.CartLine, coupon *models.Coupon) TotalsDTO {
	totals := TotalsDTO{
		Subtotal: Subtotal(lines),
		Total:    ComputeTotal(lines, coupon),
	}
	if coupon != nil {
		totals.Discount = coupon.DiscountAmount
		totals.CouponCode = coupon.Code
	}
	return totals
}

// unitShare derives the per-unit price embedded in a line aggregate. Lines at
// quantity one carry the unit price directly; larger quantities divide the
// aggregate, so remainders truncate and a small drift can accumulate across
// repeated quantity steps. Totals stay within one unit price of exact.
func unitShare(line models.CartLine) int64 {
	if line.Quantity > 1 {
		return line.TotalPrice / int64(line.Quantity)
	}
	return line.TotalPrice
}
