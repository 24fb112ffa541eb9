package repositories

import (
	"context"
	"time"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VisitReader defines read operations for visit data.
type VisitReader interface {
	// FindVisitByID retrieves a visit header (no line items or payments).
	FindVisitByID(ctx context.Context, visitID string) (*domain.Visit, error)

	// FindLineItemsByVisitID retrieves all line items attached to a visit.
	FindLineItemsByVisitID(ctx context.Context, visitID string) ([]domain.SaleLineItem, error)

	// FindPaymentsByVisitID retrieves all payments recorded against a visit.
	FindPaymentsByVisitID(ctx context.Context, visitID string) ([]domain.Payment, error)

	// ListVisitsByCustomer retrieves a paginated list of a customer's visits
	// using token-based pagination. It returns the visits, a token for the next
	// page, and an error.
	ListVisitsByCustomer(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.Visit, *string, error)
}

// VisitWriter defines write operations for visit data. The multi-entity
// operations each execute as a single database transaction: a changed total
// invalidates prior settlement math, so every line-item mutation clears the
// visit's payments and reverses their ledger entries in the same unit.
type VisitWriter interface {
	// SaveVisit persists a new draft visit.
	SaveVisit(ctx context.Context, visit domain.Visit) error

	// AddLineItemAndReprice inserts a line item, deletes all payments for the
	// visit (reversing their ledger entries), and updates the stored totals.
	AddLineItemAndReprice(ctx context.Context, item domain.SaleLineItem, subtotal, total decimal.Decimal) error

	// RemoveLineItemAndReprice deletes a line item, deletes all payments for the
	// visit (reversing their ledger entries), and updates the stored totals.
	RemoveLineItemAndReprice(ctx context.Context, visitID, lineItemID string, subtotal, total decimal.Decimal) error

	// FinalizeVisit flips the visit from DRAFT to FINALIZED and, when earn is
	// non-nil, appends the points accrual entry in the same transaction. The
	// status flip is conditional on the current status so the credit can never
	// be applied twice; a lost race returns apperrors.ErrConflict.
	FinalizeVisit(ctx context.Context, visitID string, earn *domain.LedgerEntry, updatedByUserID string, updatedAt time.Time) error
}

// VisitRepositoryFacade combines all visit-related repository interfaces.
type VisitRepositoryFacade interface {
	VisitReader
	VisitWriter
}

// VisitRepositoryWithTx extends VisitRepositoryFacade with transaction capabilities.
type VisitRepositoryWithTx interface {
	VisitRepositoryFacade
	TransactionManager
}
