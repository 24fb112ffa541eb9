package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType distinguishes the two customer balance ledgers.
type LedgerType string

const (
	LedgerStoredValue LedgerType = "STORED_VALUE"
	LedgerPoints      LedgerType = "POINTS"
)

// LedgerEntryType tags why an entry exists.
type LedgerEntryType string

const (
	LedgerEntryUse  LedgerEntryType = "USE"  // Negative delta, created with a payment
	LedgerEntryEarn LedgerEntryType = "EARN" // Positive delta, created at finalize or by a top-up
)

// LedgerEntry is an immutable signed record of a customer balance change.
// The balance of a ledger is the running sum of its entries. Entries created
// for a visit's ledger-backed payments always sum to the negative of those
// payments' amounts; the two are created and destroyed together.
type LedgerEntry struct {
	EntryID    string          `json:"entryID"`    // Primary Key (UUID)
	CustomerID string          `json:"customerID"` // FK -> customers.customer_id
	LedgerType LedgerType      `json:"ledgerType"`
	EntryType  LedgerEntryType `json:"entryType"`
	Delta      decimal.Decimal `json:"delta"`   // Negative for USE, positive for EARN
	VisitID    string          `json:"visitID"` // Originating visit
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}
