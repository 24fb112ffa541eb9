package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	"github.com/SalonKit/salon_pos_app/internal/models"
	"github.com/SalonKit/salon_pos_app/internal/utils/mapping"
	"github.com/SalonKit/salon_pos_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository persists the immutable customer balance ledgers.
// The *InTx methods are composed by the visit and payment repositories into
// their atomic units; they never open transactions of their own.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerEntryColumns = `entry_id, customer_id, ledger_type, entry_type, delta, visit_id, created_at, created_by`

// GetBalance returns the running sum of entries for one customer ledger.
func (r *PgxLedgerRepository) GetBalance(ctx context.Context, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM ledger_entries
		WHERE customer_id = $1 AND ledger_type = $2;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, customerID, string(ledgerType)).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger entries for customer "+customerID, err)
	}
	return balance, nil
}

// GetBalanceInTx returns the balance as seen by the caller's transaction.
// Callers lock the customer row first so the read cannot race a concurrent debit.
func (r *PgxLedgerRepository) GetBalanceInTx(ctx context.Context, tx pgx.Tx, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM ledger_entries
		WHERE customer_id = $1 AND ledger_type = $2;
	`
	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, query, customerID, string(ledgerType)).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger entries for customer "+customerID, err)
	}
	return balance, nil
}

// LockCustomerForUpdate takes a row lock on the customer, serializing all
// concurrent ledger mutations for that customer across visits.
func (r *PgxLedgerRepository) LockCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID string) error {
	query := `
		SELECT customer_id
		FROM customers
		WHERE customer_id = $1
		FOR UPDATE;
	`
	var id string
	err := tx.QueryRow(ctx, query, customerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("customer " + customerID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock customer "+customerID, err)
	}
	return nil
}

// InsertEntryInTx appends one immutable ledger entry.
func (r *PgxLedgerRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	modelEntry := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, customer_id, ledger_type, entry_type, delta, visit_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.CustomerID,
		modelEntry.LedgerType,
		modelEntry.EntryType,
		modelEntry.Delta,
		modelEntry.VisitID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+modelEntry.EntryID, err)
	}
	return nil
}

// DeleteEntryByIDInTx removes one entry, returning the number of rows removed.
func (r *PgxLedgerRepository) DeleteEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (int64, error) {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete ledger entry "+entryID, err)
	}
	return cmdTag.RowsAffected(), nil
}

// DeleteEntriesByIDsInTx removes the given entries.
func (r *PgxLedgerRepository) DeleteEntriesByIDsInTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = ANY($1);`, entryIDs); err != nil {
		return apperrors.NewAppError(500, "failed to delete ledger entries", err)
	}
	return nil
}

// FindUseEntryForVisitInTx locates a USE entry for the visit matching the
// given delta. This is the legacy fallback for payments that carry no entry
// reference; when several same-amount debits exist it picks the oldest one.
func (r *PgxLedgerRepository) FindUseEntryForVisitInTx(ctx context.Context, tx pgx.Tx, visitID string, ledgerType domain.LedgerType, delta decimal.Decimal) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE visit_id = $1 AND ledger_type = $2 AND entry_type = $3 AND delta = $4
		ORDER BY created_at
		LIMIT 1;
	`
	var m models.LedgerEntry
	err := tx.QueryRow(ctx, query, visitID, string(ledgerType), string(domain.LedgerEntryUse), delta).Scan(
		&m.EntryID,
		&m.CustomerID,
		&m.LedgerType,
		&m.EntryType,
		&m.Delta,
		&m.VisitID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find use entry for visit "+visitID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntriesByCustomer retrieves a paginated entry history for one customer
// ledger, newest first, using token-based pagination.
func (r *PgxLedgerRepository) ListEntriesByCustomer(ctx context.Context, customerID string, ledgerType domain.LedgerType, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE customer_id = $1 AND ledger_type = $2
	`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	args := []interface{}{customerID, string(ledgerType)}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($3, $4)`
		args = append(args, lastCreatedAt, lastID)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for customer "+customerID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.CustomerID,
			&m.LedgerType,
			&m.EntryType,
			&m.Delta,
			&m.VisitID,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}
