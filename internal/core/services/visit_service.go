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
	"github.com/SalonKit/salon_pos_app/internal/utils/pricing"
)

var (
	ErrVisitNotDraft     = errors.New("visit is not in draft status")
	ErrAlreadyFinalized  = errors.New("visit is already finalized")
	ErrNotFullyPaid      = errors.New("payments do not settle the visit total exactly")
	ErrItemInactive      = errors.New("catalog item is not active")
	ErrDiscountNotInScope = errors.New("discount event does not cover the catalog item")
)

// visitService owns the visit state machine: DRAFT -> FINALIZED, with totals
// derived from the line-item set on every mutation. Any line-item change
// clears all payments on the visit, because a changed total invalidates prior
// settlement math. That clearing is intentional business behavior, not an
// optimization shortcut; do not weaken it to a partial recalculation.
type visitService struct {
	visitRepo   portsrepo.VisitRepositoryWithTx
	catalogSvc  portssvc.CatalogSvcFacade
	accrualRate decimal.Decimal // Points earned per 100 currency units of finalized total
}

// NewVisitService creates a new VisitService.
func NewVisitService(visitRepo portsrepo.VisitRepositoryWithTx, catalogSvc portssvc.CatalogSvcFacade, accrualRate decimal.Decimal) portssvc.VisitSvcFacade {
	return &visitService{
		visitRepo:   visitRepo,
		catalogSvc:  catalogSvc,
		accrualRate: accrualRate,
	}
}

var _ portssvc.VisitSvcFacade = (*visitService)(nil)

// CreateVisit opens a new draft visit with zero totals.
func (s *visitService) CreateVisit(ctx context.Context, req dto.CreateVisitRequest, creatorUserID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	visitedAt := now
	if req.VisitedAt != nil {
		visitedAt = req.VisitedAt.UTC()
	}

	visitType := domain.VisitType(req.VisitType)
	if req.VisitType == "" {
		visitType = domain.VisitTypeNew
	}

	visit := domain.Visit{
		VisitID:        uuid.NewString(),
		CustomerID:     req.CustomerID,
		StoreID:        req.StoreID,
		VisitedAt:      visitedAt,
		Status:         domain.VisitDraft,
		VisitType:      visitType,
		SubtotalAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.visitRepo.SaveVisit(ctx, visit); err != nil {
		logger.Error("Failed to save visit", slog.String("error", err.Error()), slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to save visit: %w", err)
	}

	logger.Info("Visit created", slog.String("visit_id", visit.VisitID), slog.String("customer_id", visit.CustomerID))
	return &visit, nil
}

// GetVisitByID retrieves a visit with its line items and payments populated.
func (s *visitService) GetVisitByID(ctx context.Context, visitID string) (*domain.Visit, error) {
	return s.loadVisit(ctx, visitID)
}

// loadVisit fetches the visit header plus its line items and payments.
func (s *visitService) loadVisit(ctx context.Context, visitID string) (*domain.Visit, error) {
	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find visit %s: %w", visitID, err)
	}

	lineItems, err := s.visitRepo.FindLineItemsByVisitID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for visit %s: %w", visitID, err)
	}
	payments, err := s.visitRepo.FindPaymentsByVisitID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for visit %s: %w", visitID, err)
	}

	visit.LineItems = lineItems
	visit.Payments = payments
	return visit, nil
}

// ListVisitsByCustomer retrieves a paginated list of a customer's visits.
func (s *visitService) ListVisitsByCustomer(ctx context.Context, customerID string, params dto.ListVisitsParams) (*dto.ListVisitsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	visits, nextToken, err := s.visitRepo.ListVisitsByCustomer(ctx, customerID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list visits", slog.String("customer_id", customerID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	responses := make([]dto.VisitResponse, len(visits))
	for i := range visits {
		responses[i] = dto.ToVisitResponse(&visits[i])
	}

	return &dto.ListVisitsResponse{Visits: responses, NextToken: nextToken}, nil
}

// AddLineItem attaches a catalog item to a draft visit, reprices the visit,
// and clears any existing payments in the same transaction.
func (s *visitService) AddLineItem(ctx context.Context, visitID string, req dto.AddLineItemRequest, userID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find visit %s: %w", visitID, err)
	}
	if visit.Status != domain.VisitDraft {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrVisitNotDraft, visitID, visit.Status)
	}

	item, err := s.catalogSvc.GetItemByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrItemInactive, item.ItemID)
	}

	var rule *domain.DiscountEvent
	if req.DiscountEventID != nil {
		rule, err = s.catalogSvc.GetDiscountEventByID(ctx, *req.DiscountEventID)
		if err != nil {
			return nil, err
		}
		if !rule.AppliesTo(item.ItemID) {
			return nil, fmt.Errorf("%w: event %s, item %s", ErrDiscountNotInScope, rule.EventID, item.ItemID)
		}
	}

	discount, final := pricing.Apply(item.Price, req.Quantity, rule)

	now := time.Now().UTC()
	lineItem := domain.SaleLineItem{
		LineItemID:      uuid.NewString(),
		VisitID:         visitID,
		ItemID:          item.ItemID,
		ItemType:        item.ItemType,
		StaffID:         req.StaffID,
		Quantity:        req.Quantity,
		UnitPrice:       item.Price,
		DiscountEventID: req.DiscountEventID,
		DiscountAmount:  discount,
		FinalAmount:     final,
		PrepaidEligible: item.PrepaidEligible,
		PointsEligible:  item.PointsEligible,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	existing, err := s.visitRepo.FindLineItemsByVisitID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for visit %s: %w", visitID, err)
	}
	subtotal, total := pricing.VisitTotals(append(existing, lineItem))

	if err := s.visitRepo.AddLineItemAndReprice(ctx, lineItem, subtotal, total); err != nil {
		logger.Error("Failed to add line item", slog.String("visit_id", visitID), slog.String("item_id", req.ItemID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to add line item: %w", err)
	}

	logger.Info("Line item added, visit repriced and payments cleared",
		slog.String("visit_id", visitID), slog.String("line_item_id", lineItem.LineItemID), slog.String("total", total.String()))
	return s.loadVisit(ctx, visitID)
}

// RemoveLineItem detaches a line item from a draft visit, reprices the visit,
// and clears any existing payments in the same transaction.
func (s *visitService) RemoveLineItem(ctx context.Context, visitID string, lineItemID string, userID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find visit %s: %w", visitID, err)
	}
	if visit.Status != domain.VisitDraft {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrVisitNotDraft, visitID, visit.Status)
	}

	existing, err := s.visitRepo.FindLineItemsByVisitID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for visit %s: %w", visitID, err)
	}

	remaining := make([]domain.SaleLineItem, 0, len(existing))
	found := false
	for _, li := range existing {
		if li.LineItemID == lineItemID {
			found = true
			continue
		}
		remaining = append(remaining, li)
	}
	if !found {
		return nil, fmt.Errorf("line item %s not found on visit %s: %w", lineItemID, visitID, apperrors.ErrNotFound)
	}

	subtotal, total := pricing.VisitTotals(remaining)

	if err := s.visitRepo.RemoveLineItemAndReprice(ctx, visitID, lineItemID, subtotal, total); err != nil {
		logger.Error("Failed to remove line item", slog.String("visit_id", visitID), slog.String("line_item_id", lineItemID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to remove line item: %w", err)
	}

	logger.Info("Line item removed, visit repriced and payments cleared",
		slog.String("visit_id", visitID), slog.String("line_item_id", lineItemID), slog.String("total", total.String()))
	return s.loadVisit(ctx, visitID)
}

// FinalizeVisit transitions a draft visit to FINALIZED. It requires exact
// settlement: the payments must sum to the visit total, neither under nor
// over. On success the points accrual for the finalized total is credited in
// the same transaction as the status flip, so the credit happens exactly once
// even under a concurrent double-submit.
func (s *visitService) FinalizeVisit(ctx context.Context, visitID string, userID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.loadVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.Status == domain.VisitFinalized {
		return nil, fmt.Errorf("%w: visit %s", ErrAlreadyFinalized, visitID)
	}
	if visit.Status != domain.VisitDraft {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrVisitNotDraft, visitID, visit.Status)
	}

	if remaining := visit.Remaining(); !remaining.IsZero() {
		return nil, fmt.Errorf("%w: remaining %s on visit %s", ErrNotFullyPaid, remaining.String(), visitID)
	}

	now := time.Now().UTC()
	earn := s.pointsAccrual(visit, userID, now)

	if err := s.visitRepo.FinalizeVisit(ctx, visitID, earn, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race to another finalize; the status guard in the
			// repository kept the points credit from applying twice.
			return nil, fmt.Errorf("%w: visit %s", ErrAlreadyFinalized, visitID)
		}
		logger.Error("Failed to finalize visit", slog.String("visit_id", visitID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to finalize visit: %w", err)
	}

	if earn != nil {
		logger.Info("Visit finalized with points accrual",
			slog.String("visit_id", visitID), slog.String("points", earn.Delta.String()))
	} else {
		logger.Info("Visit finalized", slog.String("visit_id", visitID))
	}
	return s.loadVisit(ctx, visitID)
}

// pointsAccrual computes the loyalty credit for a finalized visit:
// floor(total * rate / 100). Returns nil when nothing accrues.
func (s *visitService) pointsAccrual(visit *domain.Visit, userID string, now time.Time) *domain.LedgerEntry {
	if s.accrualRate.LessThanOrEqual(decimal.Zero) || visit.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	points := visit.TotalAmount.Mul(s.accrualRate).Div(decimal.NewFromInt(100)).Floor()
	if points.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	return &domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		CustomerID: visit.CustomerID,
		LedgerType: domain.LedgerPoints,
		EntryType:  domain.LedgerEntryEarn,
		Delta:      points,
		VisitID:    visit.VisitID,
		CreatedAt:  now,
		CreatedBy:  userID,
	}
}
