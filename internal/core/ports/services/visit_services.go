package services

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/dto"
)

// VisitReaderSvc defines read operations for visit data.
type VisitReaderSvc interface {
	// GetVisitByID retrieves a visit with its line items and payments.
	GetVisitByID(ctx context.Context, visitID string) (*domain.Visit, error)

	// ListVisitsByCustomer retrieves a paginated list of a customer's visits.
	ListVisitsByCustomer(ctx context.Context, customerID string, params dto.ListVisitsParams) (*dto.ListVisitsResponse, error)
}

// VisitWriterSvc defines the settlement lifecycle operations. All mutations
// are valid only while the visit is DRAFT; FINALIZED is terminal.
type VisitWriterSvc interface {
	// CreateVisit creates a new draft visit with zero totals.
	CreateVisit(ctx context.Context, req dto.CreateVisitRequest, creatorUserID string) (*domain.Visit, error)

	// AddLineItem attaches a catalog item to the visit, reprices it, and clears
	// any existing payments. Returns the visit with refreshed totals.
	AddLineItem(ctx context.Context, visitID string, req dto.AddLineItemRequest, userID string) (*domain.Visit, error)

	// RemoveLineItem detaches a line item, reprices the visit, and clears any
	// existing payments. Returns the visit with refreshed totals.
	RemoveLineItem(ctx context.Context, visitID string, lineItemID string, userID string) (*domain.Visit, error)

	// FinalizeVisit transitions the visit to FINALIZED. Requires exact
	// settlement (remaining == 0) and credits the points accrual exactly once.
	FinalizeVisit(ctx context.Context, visitID string, userID string) (*domain.Visit, error)
}

// VisitSvcFacade combines all visit-related service interfaces.
type VisitSvcFacade interface {
	VisitReaderSvc
	VisitWriterSvc
}
