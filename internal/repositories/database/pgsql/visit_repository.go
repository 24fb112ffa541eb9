package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

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

// PgxVisitRepository persists visits, their line items, and the derived
// totals. The multi-entity writes (reprice, finalize) each run inside one
// database transaction, composing the ledger repository's in-tx operations.
type PgxVisitRepository struct {
	BaseRepository
	ledgerRepo portsrepo.LedgerTxOps
}

// newPgxVisitRepository creates a new repository for visit data.
func newPgxVisitRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerTxOps) portsrepo.VisitRepositoryWithTx {
	return &PgxVisitRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.VisitRepositoryWithTx = (*PgxVisitRepository)(nil)

const visitColumns = `visit_id, customer_id, store_id, visited_at, status, visit_type, subtotal_amount, total_amount, created_at, created_by, last_updated_at, last_updated_by`

const lineItemColumns = `line_item_id, visit_id, item_id, item_type, staff_id, quantity, unit_price, discount_event_id, discount_amount, final_amount, prepaid_eligible, points_eligible, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, visit_id, method, amount, ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveVisit persists a new draft visit.
func (r *PgxVisitRepository) SaveVisit(ctx context.Context, visit domain.Visit) error {
	m := mapping.ToModelVisit(visit)
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.VisitID,
		m.CustomerID,
		m.StoreID,
		m.VisitedAt,
		m.Status,
		m.VisitType,
		m.SubtotalAmount,
		m.TotalAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert visit "+m.VisitID, err)
	}
	return nil
}

// FindVisitByID retrieves a visit header (no line items or payments).
func (r *PgxVisitRepository) FindVisitByID(ctx context.Context, visitID string) (*domain.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE visit_id = $1;
	`
	var m models.Visit
	err := r.Pool.QueryRow(ctx, query, visitID).Scan(
		&m.VisitID,
		&m.CustomerID,
		&m.StoreID,
		&m.VisitedAt,
		&m.Status,
		&m.VisitType,
		&m.SubtotalAmount,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find visit by ID "+visitID, err)
	}

	visit := mapping.ToDomainVisit(m)
	return &visit, nil
}

// FindLineItemsByVisitID retrieves all line items attached to a visit.
func (r *PgxVisitRepository) FindLineItemsByVisitID(ctx context.Context, visitID string) ([]domain.SaleLineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM sale_line_items
		WHERE visit_id = $1
		ORDER BY created_at, line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for visit "+visitID, err)
	}
	defer rows.Close()

	items := []models.SaleLineItem{}
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for visit "+visitID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for visit "+visitID, err)
	}

	return mapping.ToDomainLineItemSlice(items), nil
}

// FindPaymentsByVisitID retrieves all payments recorded against a visit.
func (r *PgxVisitRepository) FindPaymentsByVisitID(ctx context.Context, visitID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE visit_id = $1
		ORDER BY created_at, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for visit "+visitID, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for visit "+visitID, err)
		}
		payments = append(payments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for visit "+visitID, err)
	}

	return mapping.ToDomainPaymentSlice(payments), nil
}

// ListVisitsByCustomer retrieves a paginated list of a customer's visits,
// newest first, using token-based pagination on (created_at, visit_id).
func (r *PgxVisitRepository) ListVisitsByCustomer(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.Visit, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE customer_id = $1
	`
	orderByClause := `ORDER BY created_at DESC, visit_id DESC`

	args := []interface{}{customerID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, visit_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query visits for customer "+customerID, err)
	}
	defer rows.Close()

	modelVisits := make([]models.Visit, 0, fetchLimit)
	for rows.Next() {
		var m models.Visit
		if err := rows.Scan(
			&m.VisitID,
			&m.CustomerID,
			&m.StoreID,
			&m.VisitedAt,
			&m.Status,
			&m.VisitType,
			&m.SubtotalAmount,
			&m.TotalAmount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan visit row for customer "+customerID, err)
		}
		modelVisits = append(modelVisits, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating visit rows for customer "+customerID, err)
	}

	var nextTokenVal *string
	results := modelVisits
	if len(modelVisits) > limit {
		last := modelVisits[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.VisitID)
		nextTokenVal = &token
		results = modelVisits[:limit]
	}

	domainVisits := make([]domain.Visit, len(results))
	for i, m := range results {
		domainVisits[i] = mapping.ToDomainVisit(m)
	}
	return domainVisits, nextTokenVal, nil
}

// AddLineItemAndReprice inserts a line item, clears all payments on the visit
// (reversing their ledger entries), and updates the stored totals, all in one
// transaction. Clearing is deliberate: a changed total invalidates prior
// settlement math, so stale payments must never survive a reprice.
func (r *PgxVisitRepository) AddLineItemAndReprice(ctx context.Context, item domain.SaleLineItem, subtotal, total decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	customerID, err := r.lockVisitForUpdate(ctx, tx, item.VisitID)
	if err != nil {
		return err
	}

	m := mapping.ToModelLineItem(item)
	insertQuery := `
		INSERT INTO sale_line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.LineItemID,
		m.VisitID,
		m.ItemID,
		m.ItemType,
		m.StaffID,
		m.Quantity,
		m.UnitPrice,
		m.DiscountEventID,
		m.DiscountAmount,
		m.FinalAmount,
		m.PrepaidEligible,
		m.PointsEligible,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert line item "+m.LineItemID, err)
	}

	if err := r.clearPaymentsInTx(ctx, tx, item.VisitID, customerID); err != nil {
		return err
	}
	if err := r.updateTotalsInTx(ctx, tx, item.VisitID, subtotal, total, item.LastUpdatedBy, item.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RemoveLineItemAndReprice deletes a line item, clears all payments on the
// visit (reversing their ledger entries), and updates the stored totals, all
// in one transaction.
func (r *PgxVisitRepository) RemoveLineItemAndReprice(ctx context.Context, visitID, lineItemID string, subtotal, total decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	customerID, err := r.lockVisitForUpdate(ctx, tx, visitID)
	if err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM sale_line_items WHERE line_item_id = $1 AND visit_id = $2;`, lineItemID, visitID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete line item "+lineItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("line item " + lineItemID + " not found on visit " + visitID)
	}

	if err := r.clearPaymentsInTx(ctx, tx, visitID, customerID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := r.updateTotalsInTx(ctx, tx, visitID, subtotal, total, "", now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FinalizeVisit flips the visit from DRAFT to FINALIZED and, when earn is
// non-nil, appends the points accrual entry in the same transaction. The
// conditional UPDATE is the exactly-once guard: a second finalize matches
// zero rows and the accrual never applies twice.
func (r *PgxVisitRepository) FinalizeVisit(ctx context.Context, visitID string, earn *domain.LedgerEntry, updatedByUserID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE visits
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE visit_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query,
		visitID,
		string(domain.VisitFinalized),
		updatedAt,
		updatedByUserID,
		string(domain.VisitDraft),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to finalize visit "+visitID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindVisitByID(ctx, visitID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}

	if earn != nil {
		if err := r.ledgerRepo.LockCustomerForUpdate(ctx, tx, earn.CustomerID); err != nil {
			return err
		}
		if err := r.ledgerRepo.InsertEntryInTx(ctx, tx, *earn); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// lockVisitForUpdate takes the visit row lock, verifies the visit is still
// DRAFT, and returns its customer ID. Serializes line-item mutations against
// payments and finalization for the same visit.
func (r *PgxVisitRepository) lockVisitForUpdate(ctx context.Context, tx pgx.Tx, visitID string) (string, error) {
	query := `
		SELECT customer_id, status
		FROM visits
		WHERE visit_id = $1
		FOR UPDATE;
	`
	var customerID, status string
	err := tx.QueryRow(ctx, query, visitID).Scan(&customerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("visit " + visitID + " not found")
		}
		return "", apperrors.NewAppError(500, "failed to lock visit "+visitID, err)
	}
	if status != string(domain.VisitDraft) {
		return "", apperrors.ErrConflict
	}
	return customerID, nil
}

// clearPaymentsInTx deletes every payment on the visit and the ledger entries
// they reference. Entry IDs are collected before the payment rows go so the
// payments -> ledger_entries foreign key is never violated mid-transaction.
func (r *PgxVisitRepository) clearPaymentsInTx(ctx context.Context, tx pgx.Tx, visitID, customerID string) error {
	rows, err := tx.Query(ctx, `SELECT ledger_entry_id FROM payments WHERE visit_id = $1 AND ledger_entry_id IS NOT NULL;`, visitID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to collect ledger entry refs for visit "+visitID, err)
	}
	entryIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan ledger entry ref", err)
		}
		entryIDs = append(entryIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating ledger entry refs", err)
	}

	if len(entryIDs) > 0 {
		if err := r.ledgerRepo.LockCustomerForUpdate(ctx, tx, customerID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE visit_id = $1;`, visitID); err != nil {
		return apperrors.NewAppError(500, "failed to clear payments for visit "+visitID, err)
	}

	return r.ledgerRepo.DeleteEntriesByIDsInTx(ctx, tx, entryIDs)
}

// updateTotalsInTx writes the recomputed derived totals onto the visit row.
func (r *PgxVisitRepository) updateTotalsInTx(ctx context.Context, tx pgx.Tx, visitID string, subtotal, total decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE visits
		SET subtotal_amount = $2,
		    total_amount = $3,
		    last_updated_at = $4,
		    last_updated_by = COALESCE(NULLIF($5, ''), last_updated_by)
		WHERE visit_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, visitID, subtotal, total, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update totals for visit "+visitID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("visit " + visitID + " not found for totals update")
	}
	return nil
}

// scanLineItem reads one sale_line_items row.
func scanLineItem(rows pgx.Rows) (models.SaleLineItem, error) {
	var m models.SaleLineItem
	err := rows.Scan(
		&m.LineItemID,
		&m.VisitID,
		&m.ItemID,
		&m.ItemType,
		&m.StaffID,
		&m.Quantity,
		&m.UnitPrice,
		&m.DiscountEventID,
		&m.DiscountAmount,
		&m.FinalAmount,
		&m.PrepaidEligible,
		&m.PointsEligible,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// scanPayment reads one payments row.
func scanPayment(rows pgx.Rows) (models.Payment, error) {
	var m models.Payment
	err := rows.Scan(
		&m.PaymentID,
		&m.VisitID,
		&m.Method,
		&m.Amount,
		&m.LedgerEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
