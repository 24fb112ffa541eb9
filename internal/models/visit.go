package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VisitStatus mirrors the lifecycle column on the visits table.
type VisitStatus string

const (
	VisitDraft     VisitStatus = "DRAFT"
	VisitFinalized VisitStatus = "FINALIZED"
)

// Visit is the database representation of a customer visit.
type Visit struct {
	VisitID        string          `json:"visitID"`
	CustomerID     string          `json:"customerID"`
	StoreID        string          `json:"storeID"`
	VisitedAt      time.Time       `json:"visitedAt"`
	Status         VisitStatus     `json:"status"`
	VisitType      string          `json:"visitType"`
	SubtotalAmount decimal.Decimal `json:"subtotalAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AuditFields
}
