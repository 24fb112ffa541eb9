package cart

import (
	"testing"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogItem(id string, price int64) domain.CatalogItem {
	return domain.CatalogItem{
		ItemID:          id,
		Name:            id,
		ItemType:        domain.LineItemService,
		Price:           decimal.NewFromInt(price),
		PrepaidEligible: true,
		PointsEligible:  true,
		IsActive:        true,
	}
}

func TestAddItem_DuplicateIncrementsQuantity(t *testing.T) {
	c := New(decimal.Zero, decimal.Zero)

	c.AddItem(catalogItem("svc-cut", 25000), 1)
	c.AddItem(catalogItem("svc-cut", 25000), 1)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, int64(2), c.Lines()[0].Quantity)
	assert.True(t, c.Total().Equal(decimal.NewFromInt(50000)), "total was %s", c.Total())
}

func TestAssignDiscount_RecomputesOnlyThatLine(t *testing.T) {
	c := New(decimal.Zero, decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 25000), 1)
	c.AddItem(catalogItem("svc-color", 80000), 1)

	ten := decimal.NewFromInt(10)
	err := c.AssignDiscount("svc-cut", &domain.DiscountEvent{EventID: "evt", Percent: &ten})
	require.NoError(t, err)

	assert.True(t, c.Lines()[0].FinalAmount.Equal(decimal.NewFromInt(22500)))
	assert.True(t, c.Lines()[1].FinalAmount.Equal(decimal.NewFromInt(80000)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(102500)))
}

func TestAssignDiscount_OutOfScopeRejected(t *testing.T) {
	c := New(decimal.Zero, decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 25000), 1)

	ten := decimal.NewFromInt(10)
	rule := &domain.DiscountEvent{EventID: "evt", Percent: &ten, ItemScope: []string{"svc-color"}}

	err := c.AssignDiscount("svc-cut", rule)
	assert.ErrorIs(t, err, ErrDiscountScope)
	assert.True(t, c.Lines()[0].FinalAmount.Equal(decimal.NewFromInt(25000)))
}

func TestAssignPaymentMethod_TracksAvailableBalance(t *testing.T) {
	c := New(decimal.NewFromInt(100000), decimal.Zero)
	c.AddItem(catalogItem("svc-color", 80000), 1)

	err := c.AssignPaymentMethod("svc-color", domain.PaymentStoredValue)
	require.NoError(t, err)

	assert.True(t, c.Available(domain.LedgerStoredValue).Equal(decimal.NewFromInt(20000)))
	assert.True(t, c.CanPayWith(domain.PaymentStoredValue))
}

func TestAssignPaymentMethod_RejectsOverdraw(t *testing.T) {
	c := New(decimal.NewFromInt(50000), decimal.Zero)
	c.AddItem(catalogItem("svc-color", 80000), 1)

	err := c.AssignPaymentMethod("svc-color", domain.PaymentStoredValue)
	assert.ErrorIs(t, err, ErrBalanceExhausted)
	assert.True(t, c.Available(domain.LedgerStoredValue).Equal(decimal.NewFromInt(50000)), "failed assignment must not consume balance")
}

func TestAssignPaymentMethod_IneligibleItem(t *testing.T) {
	item := catalogItem("prd-mask", 22000)
	item.PrepaidEligible = false

	c := New(decimal.NewFromInt(100000), decimal.Zero)
	c.AddItem(item, 1)

	err := c.AssignPaymentMethod("prd-mask", domain.PaymentStoredValue)
	assert.ErrorIs(t, err, ErrItemNotEligible)
}

func TestAssignPaymentMethod_SaturationDisablesControl(t *testing.T) {
	c := New(decimal.NewFromInt(30000), decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 30000), 1)

	require.NoError(t, c.AssignPaymentMethod("svc-cut", domain.PaymentStoredValue))

	assert.True(t, c.Available(domain.LedgerStoredValue).IsZero())
	assert.False(t, c.CanPayWith(domain.PaymentStoredValue))
	assert.True(t, c.CanPayWith(domain.PaymentCard), "non-ledger methods are always available")
}

func TestRemoveItem_ReleasesAllocation(t *testing.T) {
	c := New(decimal.NewFromInt(100000), decimal.Zero)
	c.AddItem(catalogItem("svc-color", 80000), 1)
	require.NoError(t, c.AssignPaymentMethod("svc-color", domain.PaymentStoredValue))

	require.NoError(t, c.RemoveItem("svc-color"))

	assert.Empty(t, c.Lines())
	assert.True(t, c.Available(domain.LedgerStoredValue).Equal(decimal.NewFromInt(100000)))
}

func TestSetQuantity_RejectedWhenLedgerCannotCover(t *testing.T) {
	c := New(decimal.NewFromInt(60000), decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 25000), 1)
	require.NoError(t, c.AssignPaymentMethod("svc-cut", domain.PaymentStoredValue))

	err := c.SetQuantity("svc-cut", 3)
	assert.ErrorIs(t, err, ErrBalanceExhausted)

	// Line and trackers are unchanged after the rejection.
	assert.Equal(t, int64(1), c.Lines()[0].Quantity)
	assert.True(t, c.Available(domain.LedgerStoredValue).Equal(decimal.NewFromInt(35000)))
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	c := New(decimal.Zero, decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 25000), 2)

	require.NoError(t, c.SetQuantity("svc-cut", 0))
	assert.Empty(t, c.Lines())
}

func TestSubtotalAndTotal(t *testing.T) {
	c := New(decimal.Zero, decimal.Zero)
	c.AddItem(catalogItem("svc-cut", 25000), 2)
	c.AddItem(catalogItem("prd-shmp", 18000), 1)

	five := decimal.NewFromInt(5000)
	require.NoError(t, c.AssignDiscount("prd-shmp", &domain.DiscountEvent{EventID: "evt", Amount: &five}))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(68000)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(63000)))
}
