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

// PgxCustomerRepository reads customer records.
type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerReader {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerReader = (*PgxCustomerRepository)(nil)

// FindCustomerByID retrieves a customer.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, name, phone, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE customer_id = $1;
	`
	var m models.Customer
	err := r.Pool.QueryRow(ctx, query, customerID).Scan(
		&m.CustomerID,
		&m.Name,
		&m.Phone,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find customer by ID "+customerID, err)
	}
	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}
