package services

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/dto"
)

// PaymentSvcFacade records settlements against a draft visit. Ledger-backed
// methods debit the customer's matching ledger in the same atomic unit that
// creates the payment; removal reverses the debit.
type PaymentSvcFacade interface {
	// AddPayment records a payment against the visit.
	AddPayment(ctx context.Context, visitID string, req dto.AddPaymentRequest, userID string) (*domain.Payment, error)

	// RemovePayment deletes a payment, reversing its ledger debit first.
	RemovePayment(ctx context.Context, visitID string, paymentID string, userID string) error
}
