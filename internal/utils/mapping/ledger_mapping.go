package mapping

import (
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:    d.EntryID,
		CustomerID: d.CustomerID,
		LedgerType: string(d.LedgerType),
		EntryType:  string(d.EntryType),
		Delta:      d.Delta,
		VisitID:    d.VisitID,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:    m.EntryID,
		CustomerID: m.CustomerID,
		LedgerType: domain.LedgerType(m.LedgerType),
		EntryType:  domain.LedgerEntryType(m.EntryType),
		Delta:      m.Delta,
		VisitID:    m.VisitID,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model ledger entries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}
