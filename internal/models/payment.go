package models

import "github.com/shopspring/decimal"

// Payment is the database representation of a settlement against a visit.
// LedgerEntryID is NULL for ordinary methods.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	VisitID       string          `json:"visitID"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	LedgerEntryID *string         `json:"ledgerEntryID"`
	AuditFields
}
