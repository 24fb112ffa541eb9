package services

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
)

// CatalogSvcFacade is the read-only catalog collaborator: item prices,
// eligibility flags, and discount rules consumed by the settlement core.
type CatalogSvcFacade interface {
	// GetItemByID retrieves a catalog item.
	GetItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error)

	// GetDiscountEventByID retrieves a discount rule.
	GetDiscountEventByID(ctx context.Context, eventID string) (*domain.DiscountEvent, error)
}
