package pgsql

import (
	"context"
	"errors"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	"github.com/SalonKit/salon_pos_app/internal/models"
	"github.com/SalonKit/salon_pos_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPaymentRepository persists payments. A payment and the ledger entry that
// funds it always move in the same transaction, so the ledger can never show a
// debit whose payment vanished or vice versa.
type PgxPaymentRepository struct {
	BaseRepository
	ledgerRepo portsrepo.LedgerTxOps
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerTxOps) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// FindPaymentByID retrieves a single payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payment_id = $1;
	`
	var m models.Payment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
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
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment by ID "+paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// AddPaymentWithDebit inserts a payment. When debit is non-nil the customer
// row is locked, the balance is checked, and the debit entry lands before the
// payment that references it, all in one transaction. An insufficient balance
// aborts the whole unit and no payment is created.
func (r *PgxPaymentRepository) AddPaymentWithDebit(ctx context.Context, payment domain.Payment, debit *domain.LedgerEntry) (*domain.Payment, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.lockDraftVisit(ctx, tx, payment.VisitID); err != nil {
		return nil, err
	}

	if debit != nil {
		if err := r.ledgerRepo.LockCustomerForUpdate(ctx, tx, debit.CustomerID); err != nil {
			return nil, err
		}
		balance, err := r.ledgerRepo.GetBalanceInTx(ctx, tx, debit.CustomerID, debit.LedgerType)
		if err != nil {
			return nil, err
		}
		// debit.Delta is negative; the entry fits iff balance + delta >= 0.
		if balance.Add(debit.Delta).IsNegative() {
			return nil, apperrors.ErrInsufficientBalance
		}
		if err := r.ledgerRepo.InsertEntryInTx(ctx, tx, *debit); err != nil {
			return nil, err
		}
	}

	m := mapping.ToModelPayment(payment)
	insertQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.PaymentID,
		m.VisitID,
		m.Method,
		m.Amount,
		m.LedgerEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert payment "+m.PaymentID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RemovePaymentWithReversal deletes a payment and the ledger entry funding it
// in one transaction. Entries are located by the payment's stored reference;
// payments created before the reference column existed fall back to a
// (visit, ledger type, amount) match. When neither path finds an entry the
// payment is still deleted and the committed removal is reported with
// apperrors.ErrReversalNotFound.
func (r *PgxPaymentRepository) RemovePaymentWithReversal(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	customerID, err := r.lockDraftVisit(ctx, tx, payment.VisitID)
	if err != nil {
		return err
	}

	ledgerBacked := payment.Method.IsLedgerBacked()
	if ledgerBacked {
		if err := r.ledgerRepo.LockCustomerForUpdate(ctx, tx, customerID); err != nil {
			return err
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1 AND visit_id = $2;`, payment.PaymentID, payment.VisitID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment "+payment.PaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment " + payment.PaymentID + " not found on visit " + payment.VisitID)
	}

	reversalMissing := false
	if ledgerBacked {
		ledgerType, _ := payment.Method.LedgerType()
		entryID := ""
		if payment.LedgerEntryID != nil {
			entryID = *payment.LedgerEntryID
		} else {
			entry, findErr := r.ledgerRepo.FindUseEntryForVisitInTx(ctx, tx, payment.VisitID, ledgerType, payment.Amount.Neg())
			if findErr != nil {
				if errors.Is(findErr, apperrors.ErrNotFound) {
					reversalMissing = true
				} else {
					return findErr
				}
			} else {
				entryID = entry.EntryID
			}
		}
		if entryID != "" {
			removed, delErr := r.ledgerRepo.DeleteEntryByIDInTx(ctx, tx, entryID)
			if delErr != nil {
				return delErr
			}
			if removed == 0 {
				reversalMissing = true
			}
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	if reversalMissing {
		return apperrors.ErrReversalNotFound
	}
	return nil
}

// lockDraftVisit takes the visit row lock, verifies the visit is still DRAFT,
// and returns its customer ID. Serializes payment mutations against line-item
// repricing and finalization for the same visit.
func (r *PgxPaymentRepository) lockDraftVisit(ctx context.Context, tx pgx.Tx, visitID string) (string, error) {
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
