package dto

import (
	"time"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddPaymentRequest defines the payload for recording a payment against a visit.
// Method is validated against the closed payment-method set.
type AddPaymentRequest struct {
	Method string          `json:"method" binding:"required,paymentmethod"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	VisitID       string          `json:"visitID"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	LedgerEntryID *string         `json:"ledgerEntryID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		VisitID:       p.VisitID,
		Method:        string(p.Method),
		Amount:        p.Amount,
		LedgerEntryID: p.LedgerEntryID,
		CreatedAt:     p.CreatedAt,
	}
}
