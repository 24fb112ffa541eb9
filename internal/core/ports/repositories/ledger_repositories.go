package repositories

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for customer balance ledgers.
type LedgerReader interface {
	// GetBalance returns the running sum of entries for one customer ledger.
	GetBalance(ctx context.Context, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error)

	// ListEntriesByCustomer retrieves a paginated entry history for one
	// customer ledger, newest first, using token-based pagination.
	ListEntriesByCustomer(ctx context.Context, customerID string, ledgerType domain.LedgerType, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerTxOps are ledger operations executed inside a caller-owned database
// transaction. The visit and payment repositories compose these into their
// atomic units, the same way account balance updates ride inside a journal
// save.
type LedgerTxOps interface {
	// LockCustomerForUpdate takes a row lock on the customer, serializing all
	// concurrent ledger mutations for that customer across visits.
	LockCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID string) error

	// GetBalanceInTx returns the current balance as seen by the transaction.
	// Call after LockCustomerForUpdate for a race-free balance check.
	GetBalanceInTx(ctx context.Context, tx pgx.Tx, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error)

	// InsertEntryInTx appends one immutable ledger entry.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// DeleteEntryByIDInTx removes one entry, returning the number of rows removed.
	DeleteEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (int64, error)

	// FindUseEntryForVisitInTx locates a USE entry for the visit matching the
	// given delta. Legacy fallback for payments without an entry reference; an
	// ambiguous or missing match returns apperrors.ErrNotFound.
	FindUseEntryForVisitInTx(ctx context.Context, tx pgx.Tx, visitID string, ledgerType domain.LedgerType, delta decimal.Decimal) (*domain.LedgerEntry, error)

	// DeleteEntriesByIDsInTx removes the given entries. Used when a line-item
	// mutation clears all payments: the caller collects the referenced entry
	// IDs, deletes the payments, then deletes the entries.
	DeleteEntriesByIDsInTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerTxOps
}
