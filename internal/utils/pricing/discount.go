package pricing

import (
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Apply computes the discount and final amount for one sale line.
// This is used by both the visit service and the cart mirror to ensure
// identical pricing math on both sides of the commit boundary.
//
// With no rule the discount is zero. Percent rules round to the nearest
// currency unit (no fractional currency leaves this function). Flat rules are
// clamped to the line subtotal so a discount can never push a line negative.
func Apply(unitPrice decimal.Decimal, quantity int64, rule *domain.DiscountEvent) (discount decimal.Decimal, final decimal.Decimal) {
	subtotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	if rule == nil {
		return decimal.Zero, subtotal
	}

	switch {
	case rule.Percent != nil:
		discount = subtotal.Mul(*rule.Percent).Div(decimal.NewFromInt(100)).Round(0)
	case rule.Amount != nil:
		discount = *rule.Amount
	default:
		return decimal.Zero, subtotal
	}

	// Clamp: a discount never exceeds the line subtotal.
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount, subtotal.Sub(discount)
}

// ApplyScoped is Apply with the rule's item scope enforced: a rule that does
// not cover itemID is treated as no rule at all.
func ApplyScoped(unitPrice decimal.Decimal, quantity int64, itemID string, rule *domain.DiscountEvent) (decimal.Decimal, decimal.Decimal) {
	if rule != nil && !rule.AppliesTo(itemID) {
		rule = nil
	}
	return Apply(unitPrice, quantity, rule)
}

// VisitTotals sums a line-item set into the visit's derived amounts.
// Subtotal is the pre-discount sum, total the post-discount sum.
func VisitTotals(lineItems []domain.SaleLineItem) (subtotal decimal.Decimal, total decimal.Decimal) {
	subtotal = decimal.Zero
	total = decimal.Zero
	for _, li := range lineItems {
		subtotal = subtotal.Add(li.Subtotal())
		total = total.Add(li.FinalAmount)
	}
	return subtotal, total
}
