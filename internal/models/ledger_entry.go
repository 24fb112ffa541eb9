package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the database representation of one immutable balance change.
type LedgerEntry struct {
	EntryID    string          `json:"entryID"`
	CustomerID string          `json:"customerID"`
	LedgerType string          `json:"ledgerType"`
	EntryType  string          `json:"entryType"`
	Delta      decimal.Decimal `json:"delta"`
	VisitID    string          `json:"visitID"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}
