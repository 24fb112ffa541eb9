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

// PgxCatalogRepository reads the item catalog and discount events. The
// settlement core never writes catalog data, so this repository is read-only.
type PgxCatalogRepository struct {
	BaseRepository
}

// newPgxCatalogRepository creates a new read-only catalog repository.
func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogReader {
	return &PgxCatalogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogReader = (*PgxCatalogRepository)(nil)

const catalogItemColumns = `item_id, name, item_type, price, prepaid_eligible, points_eligible, is_active`

// FindItemByID retrieves a catalog item.
func (r *PgxCatalogRepository) FindItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	query := `
		SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE item_id = $1;
	`
	var m models.CatalogItem
	err := r.Pool.QueryRow(ctx, query, itemID).Scan(
		&m.ItemID,
		&m.Name,
		&m.ItemType,
		&m.Price,
		&m.PrepaidEligible,
		&m.PointsEligible,
		&m.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find catalog item by ID "+itemID, err)
	}
	item := mapping.ToDomainCatalogItem(m)
	return &item, nil
}

// FindItemsByIDs retrieves multiple catalog items keyed by ID. IDs with no
// matching row are simply absent from the result map.
func (r *PgxCatalogRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.CatalogItem, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.CatalogItem{}, nil
	}
	query := `
		SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE item_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query catalog items", err)
	}
	defer rows.Close()

	items := make(map[string]domain.CatalogItem, len(itemIDs))
	for rows.Next() {
		var m models.CatalogItem
		if err := rows.Scan(
			&m.ItemID,
			&m.Name,
			&m.ItemType,
			&m.Price,
			&m.PrepaidEligible,
			&m.PointsEligible,
			&m.IsActive,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan catalog item row", err)
		}
		items[m.ItemID] = mapping.ToDomainCatalogItem(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating catalog item rows", err)
	}
	return items, nil
}

// FindDiscountEventByID retrieves a discount rule.
func (r *PgxCatalogRepository) FindDiscountEventByID(ctx context.Context, eventID string) (*domain.DiscountEvent, error) {
	query := `
		SELECT event_id, name, percent, amount, item_scope
		FROM discount_events
		WHERE event_id = $1;
	`
	var m models.DiscountEvent
	err := r.Pool.QueryRow(ctx, query, eventID).Scan(
		&m.EventID,
		&m.Name,
		&m.Percent,
		&m.Amount,
		&m.ItemScope,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find discount event by ID "+eventID, err)
	}
	event := mapping.ToDomainDiscountEvent(m)
	return &event, nil
}
