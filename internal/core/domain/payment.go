package domain

import "github.com/shopspring/decimal"

// PaymentMethod is the closed set of settlement methods. Ledger-backed methods
// (stored value, points) must always be handled exhaustively: adding a new
// ledger-backed method requires updating IsLedgerBacked and LedgerType together.
type PaymentMethod string

const (
	PaymentCard        PaymentMethod = "CARD"
	PaymentCash        PaymentMethod = "CASH"
	PaymentTransfer    PaymentMethod = "TRANSFER"
	PaymentStoredValue PaymentMethod = "STORED_VALUE"
	PaymentPoints      PaymentMethod = "POINTS"
	PaymentOther       PaymentMethod = "OTHER"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentTransfer, PaymentStoredValue, PaymentPoints, PaymentOther:
		return true
	}
	return false
}

// IsLedgerBacked reports whether payments with this method debit a customer balance ledger.
func (m PaymentMethod) IsLedgerBacked() bool {
	switch m {
	case PaymentStoredValue, PaymentPoints:
		return true
	case PaymentCard, PaymentCash, PaymentTransfer, PaymentOther:
		return false
	}
	return false
}

// LedgerType returns the ledger a ledger-backed method settles against.
// The second return is false for ordinary methods.
func (m PaymentMethod) LedgerType() (LedgerType, bool) {
	switch m {
	case PaymentStoredValue:
		return LedgerStoredValue, true
	case PaymentPoints:
		return LedgerPoints, true
	}
	return "", false
}

// Payment records one settlement against a visit's total. For ledger-backed
// methods LedgerEntryID references the debit entry created in the same database
// transaction, so reversal on removal is unambiguous. Payments exist only while
// the visit is DRAFT (or frozen inside a finalized visit) and never change the
// visit total, only its remaining balance.
type Payment struct {
	PaymentID     string          `json:"paymentID"` // Primary Key (UUID)
	VisitID       string          `json:"visitID"`   // FK -> visits.visit_id
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	LedgerEntryID *string         `json:"ledgerEntryID,omitempty"` // FK -> ledger_entries, set for ledger-backed methods
	AuditFields
}
