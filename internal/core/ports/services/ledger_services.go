package services

import (
	"context"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/dto"
)

// LedgerSvcFacade exposes read access to the customer balance ledgers.
// Mutations go through the payment and visit services so they always ride in
// the same transaction as the payment or status change that caused them.
type LedgerSvcFacade interface {
	// GetCustomerBalances returns the stored-value and points balances.
	GetCustomerBalances(ctx context.Context, customerID string) (*dto.CustomerBalancesResponse, error)

	// ListLedgerEntries retrieves the entry history for one customer ledger.
	ListLedgerEntries(ctx context.Context, customerID string, ledgerType domain.LedgerType, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}
