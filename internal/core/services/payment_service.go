package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/SalonKit/salon_pos_app/internal/middleware"
)

var (
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrPaymentNotPositive   = errors.New("payment amount must be positive")
)

// paymentService records settlements against draft visits. For ledger-backed
// methods the debit entry and the payment are created and destroyed together,
// inside one repository transaction, so the ledger and the payment can never
// drift apart.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	visitRepo   portsrepo.VisitRepositoryFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, visitRepo portsrepo.VisitRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		visitRepo:   visitRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// AddPayment records a payment against a draft visit. Payments never change
// the visit total, only its remaining balance.
func (s *paymentService) AddPayment(ctx context.Context, visitID string, req dto.AddPaymentRequest, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method := domain.PaymentMethod(req.Method)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.Method)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotPositive, req.Amount.String())
	}

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find visit %s: %w", visitID, err)
	}
	if visit.Status != domain.VisitDraft {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrVisitNotDraft, visitID, visit.Status)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		VisitID:   visitID,
		Method:    method,
		Amount:    req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var debit *domain.LedgerEntry
	if ledgerType, ok := method.LedgerType(); ok {
		debit = &domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			CustomerID: visit.CustomerID,
			LedgerType: ledgerType,
			EntryType:  domain.LedgerEntryUse,
			Delta:      req.Amount.Neg(),
			VisitID:    visitID,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		payment.LedgerEntryID = &debit.EntryID
	}

	saved, err := s.paymentRepo.AddPaymentWithDebit(ctx, payment, debit)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Payment rejected: insufficient ledger balance",
				slog.String("visit_id", visitID), slog.String("method", string(method)), slog.String("amount", req.Amount.String()))
			return nil, err
		}
		logger.Error("Failed to add payment", slog.String("visit_id", visitID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}

	logger.Info("Payment added", slog.String("visit_id", visitID), slog.String("payment_id", saved.PaymentID),
		slog.String("method", string(method)), slog.String("amount", req.Amount.String()))
	return saved, nil
}

// RemovePayment deletes a payment from a draft visit, reversing its ledger
// debit first. A payment whose ledger entry cannot be located is still
// removed: leaving an un-removable stale payment is worse than an imprecise
// reversal, so the gap is logged as a data-integrity warning instead.
func (s *paymentService) RemovePayment(ctx context.Context, visitID string, paymentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		return fmt.Errorf("failed to find visit %s: %w", visitID, err)
	}
	if visit.Status != domain.VisitDraft {
		return fmt.Errorf("%w: visit %s is %s", ErrVisitNotDraft, visitID, visit.Status)
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.VisitID != visitID {
		return fmt.Errorf("payment %s does not belong to visit %s: %w", paymentID, visitID, apperrors.ErrNotFound)
	}

	if err := s.paymentRepo.RemovePaymentWithReversal(ctx, *payment); err != nil {
		if errors.Is(err, apperrors.ErrReversalNotFound) {
			logger.Warn("Payment removed but ledger entry for reversal was missing",
				slog.String("visit_id", visitID), slog.String("payment_id", paymentID),
				slog.String("method", string(payment.Method)), slog.String("amount", payment.Amount.String()))
			return nil
		}
		logger.Error("Failed to remove payment", slog.String("visit_id", visitID), slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to remove payment: %w", err)
	}

	logger.Info("Payment removed", slog.String("visit_id", visitID), slog.String("payment_id", paymentID))
	return nil
}
