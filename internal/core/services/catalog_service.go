package services

import (
	"context"
	"fmt"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
)

// catalogService is a thin read-through over the external catalog store.
type catalogService struct {
	catalogRepo portsrepo.CatalogReader
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo portsrepo.CatalogReader) portssvc.CatalogSvcFacade {
	return &catalogService{catalogRepo: catalogRepo}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) GetItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	item, err := s.catalogRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog item %s: %w", itemID, err)
	}
	return item, nil
}

func (s *catalogService) GetDiscountEventByID(ctx context.Context, eventID string) (*domain.DiscountEvent, error) {
	event, err := s.catalogRepo.FindDiscountEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to find discount event %s: %w", eventID, err)
	}
	return event, nil
}
