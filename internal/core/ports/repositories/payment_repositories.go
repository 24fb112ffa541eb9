package repositories

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a single payment.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// PaymentWriter defines write operations for payment data. Both operations are
// single database transactions that keep the payment and its ledger entry in
// lockstep.
type PaymentWriter interface {
	// AddPaymentWithDebit inserts a payment. When debit is non-nil the customer
	// row is locked, the ledger balance is checked, and the debit entry is
	// inserted before the payment, all in one transaction. An insufficient
	// balance aborts the whole unit with apperrors.ErrInsufficientBalance and
	// no payment is created.
	AddPaymentWithDebit(ctx context.Context, payment domain.Payment, debit *domain.LedgerEntry) (*domain.Payment, error)

	// RemovePaymentWithReversal deletes a payment and its ledger debit entry in
	// one transaction. If the entry cannot be located (missing reference and no
	// heuristic match) the payment is still deleted and the committed removal is
	// reported with apperrors.ErrReversalNotFound so the caller can flag the
	// data-integrity gap without blocking the operator.
	RemovePaymentWithReversal(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
