package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VisitStatus indicates the lifecycle state of a visit.
// DRAFT is the only mutable state; FINALIZED is terminal.
type VisitStatus string

const (
	VisitDraft     VisitStatus = "DRAFT"
	VisitFinalized VisitStatus = "FINALIZED"
)

// VisitType classifies how the customer arrived. Informational, set once at creation.
type VisitType string

const (
	VisitTypeNew        VisitType = "NEW"
	VisitTypeReturning  VisitType = "RETURNING"
	VisitTypeSubstitute VisitType = "SUBSTITUTE"
)

// Visit represents one customer transaction session from item selection through
// settlement. SubtotalAmount and TotalAmount are derived from the line items and
// are never hand-edited; while the visit is DRAFT they are recomputed on every
// line-item mutation, and they freeze when the visit is finalized.
type Visit struct {
	VisitID        string          `json:"visitID"`    // Primary Key (UUID)
	CustomerID     string          `json:"customerID"` // FK -> customers.customer_id
	StoreID        string          `json:"storeID"`    // FK -> external store catalog
	VisitedAt      time.Time       `json:"visitedAt"`
	Status         VisitStatus     `json:"status"`
	VisitType      VisitType       `json:"visitType"`
	SubtotalAmount decimal.Decimal `json:"subtotalAmount"` // Derived: sum of line subtotals before discount
	TotalAmount    decimal.Decimal `json:"totalAmount"`    // Derived: sum of line final amounts
	AuditFields

	LineItems []SaleLineItem `json:"lineItems,omitempty"`
	Payments  []Payment      `json:"payments,omitempty"`
}

// Remaining returns the amount still unsettled: total minus the sum of payments.
// It must be exactly zero for the visit to finalize.
func (v Visit) Remaining() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range v.Payments {
		paid = paid.Add(p.Amount)
	}
	return v.TotalAmount.Sub(paid)
}
