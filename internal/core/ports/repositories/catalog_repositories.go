package repositories

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
)

// CatalogReader defines read-only access to the external item catalog.
// The settlement core never mutates catalog data.
type CatalogReader interface {
	// FindItemByID retrieves a catalog item.
	FindItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error)

	// FindItemsByIDs retrieves multiple catalog items keyed by ID.
	FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.CatalogItem, error)

	// FindDiscountEventByID retrieves a discount rule.
	FindDiscountEventByID(ctx context.Context, eventID string) (*domain.DiscountEvent, error)
}
