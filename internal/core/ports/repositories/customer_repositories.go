package repositories

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
)

// CustomerReader defines read operations for customer data.
type CustomerReader interface {
	// FindCustomerByID retrieves a customer.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}
