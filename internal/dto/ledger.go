package dto

import (
	"time"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerBalancesResponse carries both ledger balances for one customer.
type CustomerBalancesResponse struct {
	CustomerID         string          `json:"customerID"`
	StoredValueBalance decimal.Decimal `json:"storedValueBalance"`
	PointsBalance      decimal.Decimal `json:"pointsBalance"`
}

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID    string          `json:"entryID"`
	LedgerType string          `json:"ledgerType"`
	EntryType  string          `json:"entryType"`
	Delta      decimal.Decimal `json:"delta"`
	VisitID    string          `json:"visitID"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ListLedgerEntriesParams holds parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse is the paginated ledger history payload.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:    e.EntryID,
		LedgerType: string(e.LedgerType),
		EntryType:  string(e.EntryType),
		Delta:      e.Delta,
		VisitID:    e.VisitID,
		CreatedAt:  e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of entries to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
