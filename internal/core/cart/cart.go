package cart

import (
	"errors"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/utils/pricing"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotInCart    = errors.New("item is not in the cart")
	ErrItemNotEligible  = errors.New("item is not eligible for this payment method")
	ErrBalanceExhausted = errors.New("cart allocation would exceed the available balance")
	ErrDiscountScope    = errors.New("discount event does not cover this item")
)

// Line is one cart entry: a catalog item with quantity, an optional discount
// assignment, and an optional payment-method assignment.
type Line struct {
	Item           domain.CatalogItem
	Quantity       int64
	Rule           *domain.DiscountEvent
	Method         domain.PaymentMethod
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// Cart is the operator-side mirror of a draft visit. It is advisory only: it
// runs the same discount math as the settlement engine and tracks how much of
// the customer's real ledger balances the current cart would consume, so the
// UI can disable a stored-value or points control before the authoritative
// commit rejects it. Nothing here is persisted and nothing here is trusted at
// commit time.
type Cart struct {
	lines []*Line

	// Remaining headroom per ledger, seeded from the customer's actual
	// balances and decremented by every line currently assigned to that
	// ledger's payment method.
	available map[domain.LedgerType]decimal.Decimal
}

// New creates a cart seeded with the customer's current ledger balances.
func New(storedValueBalance, pointsBalance decimal.Decimal) *Cart {
	return &Cart{
		available: map[domain.LedgerType]decimal.Decimal{
			domain.LedgerStoredValue: storedValueBalance,
			domain.LedgerPoints:      pointsBalance,
		},
	}
}

// AddItem puts a catalog item in the cart. Adding an item already in the cart
// increments that line's quantity instead of creating a second line. Only the
// affected line is recomputed.
func (c *Cart) AddItem(item domain.CatalogItem, quantity int64) *Line {
	if quantity <= 0 {
		quantity = 1
	}
	if line := c.find(item.ItemID); line != nil {
		c.updateLine(line, func() {
			line.Quantity += quantity
		})
		return line
	}

	line := &Line{
		Item:     item,
		Quantity: quantity,
	}
	line.DiscountAmount, line.FinalAmount = pricing.Apply(item.Price, quantity, nil)
	c.lines = append(c.lines, line)
	return line
}

// RemoveItem drops a line from the cart, releasing any balance it held.
func (c *Cart) RemoveItem(itemID string) error {
	for i, line := range c.lines {
		if line.Item.ItemID == itemID {
			c.releaseAllocation(line)
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrItemNotInCart
}

// SetQuantity changes a line's quantity and recomputes that line only.
func (c *Cart) SetQuantity(itemID string, quantity int64) error {
	line := c.find(itemID)
	if line == nil {
		return ErrItemNotInCart
	}
	if quantity <= 0 {
		return c.RemoveItem(itemID)
	}
	return c.tryUpdateLine(line, func() {
		line.Quantity = quantity
	})
}

// AssignDiscount attaches a discount event to a line. A nil rule clears the
// assignment. The rule's item scope is enforced the same way the settlement
// engine enforces it.
func (c *Cart) AssignDiscount(itemID string, rule *domain.DiscountEvent) error {
	line := c.find(itemID)
	if line == nil {
		return ErrItemNotInCart
	}
	if rule != nil && !rule.AppliesTo(itemID) {
		return ErrDiscountScope
	}
	return c.tryUpdateLine(line, func() {
		line.Rule = rule
	})
}

// AssignPaymentMethod marks a line as settled by the given method. For
// ledger-backed methods the line's final amount is reserved against the
// running available balance; the assignment is rejected when the item is not
// eligible or the reservation would overdraw the balance.
func (c *Cart) AssignPaymentMethod(itemID string, method domain.PaymentMethod) error {
	line := c.find(itemID)
	if line == nil {
		return ErrItemNotInCart
	}
	if ledgerType, ok := method.LedgerType(); ok {
		if !c.eligible(line.Item, ledgerType) {
			return ErrItemNotEligible
		}
	}

	previous := line.Method
	c.releaseAllocation(line)
	line.Method = method
	if err := c.reserveAllocation(line); err != nil {
		line.Method = previous
		if rerr := c.reserveAllocation(line); rerr != nil {
			// The prior reservation fit before release, so re-reserving it
			// cannot fail; nothing sensible to do if it somehow does.
			line.Method = ""
		}
		return err
	}
	return nil
}

// ClearPaymentMethod removes a line's payment-method assignment.
func (c *Cart) ClearPaymentMethod(itemID string) error {
	line := c.find(itemID)
	if line == nil {
		return ErrItemNotInCart
	}
	c.releaseAllocation(line)
	line.Method = ""
	return nil
}

// Available returns the remaining headroom for a ledger after the cart's
// current allocations.
func (c *Cart) Available(ledgerType domain.LedgerType) decimal.Decimal {
	return c.available[ledgerType]
}

// CanPayWith reports whether a ledger-backed method still has headroom. The
// UI uses this to enable or grey out the stored-value and points controls.
// Non-ledger methods are always available.
func (c *Cart) CanPayWith(method domain.PaymentMethod) bool {
	ledgerType, ok := method.LedgerType()
	if !ok {
		return true
	}
	return c.available[ledgerType].IsPositive()
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []*Line {
	return c.lines
}

// Subtotal returns the pre-discount sum of all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Item.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return subtotal
}

// Total returns the post-discount sum of all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.FinalAmount)
	}
	return total
}

func (c *Cart) find(itemID string) *Line {
	for _, line := range c.lines {
		if line.Item.ItemID == itemID {
			return line
		}
	}
	return nil
}

func (c *Cart) eligible(item domain.CatalogItem, ledgerType domain.LedgerType) bool {
	switch ledgerType {
	case domain.LedgerStoredValue:
		return item.PrepaidEligible
	case domain.LedgerPoints:
		return item.PointsEligible
	}
	return false
}

// updateLine applies a mutation and recomputes the line, keeping the balance
// trackers in step. Used for mutations that cannot be rejected.
func (c *Cart) updateLine(line *Line, mutate func()) {
	c.releaseAllocation(line)
	mutate()
	line.DiscountAmount, line.FinalAmount = pricing.Apply(line.Item.Price, line.Quantity, line.Rule)
	if err := c.reserveAllocation(line); err != nil {
		// The new amount no longer fits the ledger; drop the assignment so
		// the tracker stays truthful and the UI re-prompts for a method.
		line.Method = ""
	}
}

// tryUpdateLine is updateLine for mutations that should be rejected when the
// resulting allocation would overdraw the ledger.
func (c *Cart) tryUpdateLine(line *Line, mutate func()) error {
	prevQuantity, prevRule := line.Quantity, line.Rule
	prevDiscount, prevFinal := line.DiscountAmount, line.FinalAmount

	c.releaseAllocation(line)
	mutate()
	line.DiscountAmount, line.FinalAmount = pricing.Apply(line.Item.Price, line.Quantity, line.Rule)
	if err := c.reserveAllocation(line); err != nil {
		line.Quantity, line.Rule = prevQuantity, prevRule
		line.DiscountAmount, line.FinalAmount = prevDiscount, prevFinal
		_ = c.reserveAllocation(line)
		return err
	}
	return nil
}

// reserveAllocation deducts the line's final amount from its method's ledger
// headroom. Fails without deducting when the headroom is insufficient.
func (c *Cart) reserveAllocation(line *Line) error {
	ledgerType, ok := line.Method.LedgerType()
	if !ok {
		return nil
	}
	remaining := c.available[ledgerType].Sub(line.FinalAmount)
	if remaining.IsNegative() {
		return ErrBalanceExhausted
	}
	c.available[ledgerType] = remaining
	return nil
}

// releaseAllocation returns the line's reserved amount to its ledger headroom.
func (c *Cart) releaseAllocation(line *Line) {
	if ledgerType, ok := line.Method.LedgerType(); ok {
		c.available[ledgerType] = c.available[ledgerType].Add(line.FinalAmount)
	}
}
