package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/core/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// settlementStore is an in-memory stand-in for the pgsql repositories. It
// reproduces the same multi-entity semantics the real transactions provide:
// line-item mutations clear payments and reverse their ledger entries, payment
// creation and its debit entry land together, and finalize is guarded by the
// current status.
type settlementStore struct {
	visits    map[string]*domain.Visit
	lineItems map[string][]domain.SaleLineItem
	payments  map[string][]domain.Payment
	ledger    []domain.LedgerEntry
}

func newSettlementStore() *settlementStore {
	return &settlementStore{
		visits:    map[string]*domain.Visit{},
		lineItems: map[string][]domain.SaleLineItem{},
		payments:  map[string][]domain.Payment{},
	}
}

func (s *settlementStore) balance(customerID string, ledgerType domain.LedgerType) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range s.ledger {
		if e.CustomerID == customerID && e.LedgerType == ledgerType {
			sum = sum.Add(e.Delta)
		}
	}
	return sum
}

func (s *settlementStore) removeEntry(entryID string) bool {
	for i, e := range s.ledger {
		if e.EntryID == entryID {
			s.ledger = append(s.ledger[:i], s.ledger[i+1:]...)
			return true
		}
	}
	return false
}

// --- VisitRepositoryWithTx ---

func (s *settlementStore) SaveVisit(_ context.Context, visit domain.Visit) error {
	s.visits[visit.VisitID] = &visit
	return nil
}

func (s *settlementStore) FindVisitByID(_ context.Context, visitID string) (*domain.Visit, error) {
	v, ok := s.visits[visitID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *settlementStore) FindLineItemsByVisitID(_ context.Context, visitID string) ([]domain.SaleLineItem, error) {
	return append([]domain.SaleLineItem{}, s.lineItems[visitID]...), nil
}

func (s *settlementStore) FindPaymentsByVisitID(_ context.Context, visitID string) ([]domain.Payment, error) {
	return append([]domain.Payment{}, s.payments[visitID]...), nil
}

func (s *settlementStore) ListVisitsByCustomer(_ context.Context, customerID string, _ int, _ *string) ([]domain.Visit, *string, error) {
	var out []domain.Visit
	for _, v := range s.visits {
		if v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil, nil
}

func (s *settlementStore) clearPayments(visitID string) {
	for _, p := range s.payments[visitID] {
		if p.LedgerEntryID != nil {
			s.removeEntry(*p.LedgerEntryID)
		}
	}
	s.payments[visitID] = nil
}

func (s *settlementStore) AddLineItemAndReprice(_ context.Context, item domain.SaleLineItem, subtotal, total decimal.Decimal) error {
	v, ok := s.visits[item.VisitID]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.lineItems[item.VisitID] = append(s.lineItems[item.VisitID], item)
	s.clearPayments(item.VisitID)
	v.SubtotalAmount, v.TotalAmount = subtotal, total
	return nil
}

func (s *settlementStore) RemoveLineItemAndReprice(_ context.Context, visitID, lineItemID string, subtotal, total decimal.Decimal) error {
	v, ok := s.visits[visitID]
	if !ok {
		return apperrors.ErrNotFound
	}
	items := s.lineItems[visitID]
	for i, li := range items {
		if li.LineItemID == lineItemID {
			s.lineItems[visitID] = append(items[:i], items[i+1:]...)
			s.clearPayments(visitID)
			v.SubtotalAmount, v.TotalAmount = subtotal, total
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *settlementStore) FinalizeVisit(_ context.Context, visitID string, earn *domain.LedgerEntry, updatedByUserID string, updatedAt time.Time) error {
	v, ok := s.visits[visitID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v.Status != domain.VisitDraft {
		return apperrors.ErrConflict
	}
	v.Status = domain.VisitFinalized
	v.LastUpdatedBy = updatedByUserID
	v.LastUpdatedAt = updatedAt
	if earn != nil {
		s.ledger = append(s.ledger, *earn)
	}
	return nil
}

func (s *settlementStore) Begin(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (s *settlementStore) Commit(_ context.Context, _ pgx.Tx) error {
	return nil
}
func (s *settlementStore) Rollback(_ context.Context, _ pgx.Tx) error {
	return nil
}

// --- PaymentRepositoryFacade ---

func (s *settlementStore) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	for _, ps := range s.payments {
		for _, p := range ps {
			if p.PaymentID == paymentID {
				cp := p
				return &cp, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *settlementStore) AddPaymentWithDebit(_ context.Context, payment domain.Payment, debit *domain.LedgerEntry) (*domain.Payment, error) {
	if debit != nil {
		if s.balance(debit.CustomerID, debit.LedgerType).Add(debit.Delta).IsNegative() {
			return nil, apperrors.ErrInsufficientBalance
		}
		s.ledger = append(s.ledger, *debit)
	}
	s.payments[payment.VisitID] = append(s.payments[payment.VisitID], payment)
	return &payment, nil
}

func (s *settlementStore) RemovePaymentWithReversal(_ context.Context, payment domain.Payment) error {
	ps := s.payments[payment.VisitID]
	for i, p := range ps {
		if p.PaymentID == payment.PaymentID {
			s.payments[payment.VisitID] = append(ps[:i], ps[i+1:]...)
			if payment.Method.IsLedgerBacked() {
				if payment.LedgerEntryID == nil || !s.removeEntry(*payment.LedgerEntryID) {
					return apperrors.ErrReversalNotFound
				}
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// fakeCatalog serves a fixed item set.
type fakeCatalog struct {
	items  map[string]domain.CatalogItem
	events map[string]domain.DiscountEvent
}

func (f *fakeCatalog) GetItemByID(_ context.Context, itemID string) (*domain.CatalogItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (f *fakeCatalog) GetDiscountEventByID(_ context.Context, eventID string) (*domain.DiscountEvent, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &event, nil
}

// --- Scenario Suite ---

type SettlementScenarioTestSuite struct {
	suite.Suite
	store      *settlementStore
	visitSvc   portssvc.VisitSvcFacade
	paymentSvc portssvc.PaymentSvcFacade
	customerID string
}

func (suite *SettlementScenarioTestSuite) SetupTest() {
	suite.store = newSettlementStore()
	suite.customerID = uuid.NewString()

	catalog := &fakeCatalog{
		items: map[string]domain.CatalogItem{
			"svc-a": {ItemID: "svc-a", ItemType: domain.LineItemService, Price: decimal.NewFromInt(30000), PrepaidEligible: true, PointsEligible: true, IsActive: true},
			"svc-b": {ItemID: "svc-b", ItemType: domain.LineItemService, Price: decimal.NewFromInt(10000), PrepaidEligible: true, PointsEligible: true, IsActive: true},
		},
		events: map[string]domain.DiscountEvent{},
	}

	suite.visitSvc = services.NewVisitService(suite.store, catalog, decimal.NewFromInt(5))
	suite.paymentSvc = services.NewPaymentService(suite.store, suite.store)

	// Seed the stored-value balance: 100,000.
	suite.store.ledger = append(suite.store.ledger, domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		CustomerID: suite.customerID,
		LedgerType: domain.LedgerStoredValue,
		EntryType:  domain.LedgerEntryEarn,
		Delta:      decimal.NewFromInt(100000),
		VisitID:    "topup",
	})
}

func (suite *SettlementScenarioTestSuite) storedValue() decimal.Decimal {
	return suite.store.balance(suite.customerID, domain.LedgerStoredValue)
}

// The full settlement walkthrough: pay with stored value, watch a re-price
// invalidate the settlement, settle again, finalize once.
func (suite *SettlementScenarioTestSuite) TestStoredValueSettlementLifecycle() {
	ctx := context.Background()
	t := suite.T()

	visit, err := suite.visitSvc.CreateVisit(ctx, dto.CreateVisitRequest{
		CustomerID: suite.customerID,
		StoreID:    "store-1",
	}, "op-1")
	require.NoError(t, err)

	// Add a 30,000 item and settle it fully from stored value.
	visit, err = suite.visitSvc.AddLineItem(ctx, visit.VisitID, dto.AddLineItemRequest{ItemID: "svc-a", Quantity: 1}, "op-1")
	require.NoError(t, err)
	require.True(t, visit.TotalAmount.Equal(decimal.NewFromInt(30000)))

	_, err = suite.paymentSvc.AddPayment(ctx, visit.VisitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(30000),
	}, "op-1")
	require.NoError(t, err)

	suite.True(suite.storedValue().Equal(decimal.NewFromInt(70000)), "balance after debit: %s", suite.storedValue())

	visit, err = suite.visitSvc.GetVisitByID(ctx, visit.VisitID)
	require.NoError(t, err)
	suite.True(visit.Remaining().IsZero(), "remaining should be zero, got %s", visit.Remaining())

	// Adding a second item clears the payment and reverses the debit.
	visit, err = suite.visitSvc.AddLineItem(ctx, visit.VisitID, dto.AddLineItemRequest{ItemID: "svc-b", Quantity: 1}, "op-1")
	require.NoError(t, err)

	suite.True(suite.storedValue().Equal(decimal.NewFromInt(100000)), "balance must revert after re-pricing, got %s", suite.storedValue())
	suite.Empty(visit.Payments, "payments must be cleared by the re-price")
	suite.True(visit.Remaining().Equal(decimal.NewFromInt(40000)), "remaining after re-price: %s", visit.Remaining())

	// Finalize without settlement fails.
	_, err = suite.visitSvc.FinalizeVisit(ctx, visit.VisitID, "op-1")
	suite.ErrorIs(err, services.ErrNotFullyPaid)

	// Settle the new total and finalize.
	_, err = suite.paymentSvc.AddPayment(ctx, visit.VisitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(40000),
	}, "op-1")
	require.NoError(t, err)

	visit, err = suite.visitSvc.FinalizeVisit(ctx, visit.VisitID, "op-1")
	require.NoError(t, err)
	suite.Equal(domain.VisitFinalized, visit.Status)

	// floor(40000 * 5%) = 2000 points accrued exactly once.
	suite.True(suite.store.balance(suite.customerID, domain.LedgerPoints).Equal(decimal.NewFromInt(2000)))

	// A second finalize fails and does not double-credit.
	_, err = suite.visitSvc.FinalizeVisit(ctx, visit.VisitID, "op-1")
	suite.ErrorIs(err, services.ErrAlreadyFinalized)
	suite.True(suite.store.balance(suite.customerID, domain.LedgerPoints).Equal(decimal.NewFromInt(2000)))
}

func (suite *SettlementScenarioTestSuite) TestRemovePaymentRestoresBalance() {
	ctx := context.Background()
	t := suite.T()

	visit, err := suite.visitSvc.CreateVisit(ctx, dto.CreateVisitRequest{CustomerID: suite.customerID, StoreID: "store-1"}, "op-1")
	require.NoError(t, err)
	_, err = suite.visitSvc.AddLineItem(ctx, visit.VisitID, dto.AddLineItemRequest{ItemID: "svc-a", Quantity: 1}, "op-1")
	require.NoError(t, err)

	payment, err := suite.paymentSvc.AddPayment(ctx, visit.VisitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(30000),
	}, "op-1")
	require.NoError(t, err)
	suite.True(suite.storedValue().Equal(decimal.NewFromInt(70000)))

	require.NoError(t, suite.paymentSvc.RemovePayment(ctx, visit.VisitID, payment.PaymentID, "op-1"))
	suite.True(suite.storedValue().Equal(decimal.NewFromInt(100000)), "removal must restore the pre-payment balance")
}

func (suite *SettlementScenarioTestSuite) TestDebitBeyondBalanceRejectedAtomically() {
	ctx := context.Background()
	t := suite.T()

	visit, err := suite.visitSvc.CreateVisit(ctx, dto.CreateVisitRequest{CustomerID: suite.customerID, StoreID: "store-1"}, "op-1")
	require.NoError(t, err)
	_, err = suite.visitSvc.AddLineItem(ctx, visit.VisitID, dto.AddLineItemRequest{ItemID: "svc-a", Quantity: 5}, "op-1")
	require.NoError(t, err)

	_, err = suite.paymentSvc.AddPayment(ctx, visit.VisitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(150000),
	}, "op-1")
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	// Nothing was created: no payment row, no ledger entry.
	loaded, err := suite.visitSvc.GetVisitByID(ctx, visit.VisitID)
	require.NoError(t, err)
	suite.Empty(loaded.Payments)
	suite.True(suite.storedValue().Equal(decimal.NewFromInt(100000)))
}

func TestSettlementScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementScenarioTestSuite))
}
