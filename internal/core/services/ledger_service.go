package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/SalonKit/salon_pos_app/internal/middleware"
)

// ledgerService provides read access to the customer balance ledgers.
// All mutations ride inside the payment and visit repository transactions.
type ledgerService struct {
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	customerRepo portsrepo.CustomerReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, customerRepo portsrepo.CustomerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetCustomerBalances returns the current stored-value and points balances.
func (s *ledgerService) GetCustomerBalances(ctx context.Context, customerID string) (*dto.CustomerBalancesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	storedValue, err := s.ledgerRepo.GetBalance(ctx, customerID, domain.LedgerStoredValue)
	if err != nil {
		logger.Error("Failed to read stored-value balance", slog.String("customer_id", customerID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read stored-value balance: %w", err)
	}

	points, err := s.ledgerRepo.GetBalance(ctx, customerID, domain.LedgerPoints)
	if err != nil {
		logger.Error("Failed to read points balance", slog.String("customer_id", customerID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read points balance: %w", err)
	}

	return &dto.CustomerBalancesResponse{
		CustomerID:         customerID,
		StoredValueBalance: storedValue,
		PointsBalance:      points,
	}, nil
}

// ListLedgerEntries retrieves the entry history for one customer ledger.
func (s *ledgerService) ListLedgerEntries(ctx context.Context, customerID string, ledgerType domain.LedgerType, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByCustomer(ctx, customerID, ledgerType, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("customer_id", customerID), slog.String("ledger_type", string(ledgerType)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
