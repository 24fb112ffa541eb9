package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repository dependencies.
// accrualRate is the loyalty points earned per 100 currency units of
// finalized total (POINTS_ACCRUAL_RATE).
func NewServiceContainer(repos *portsrepo.RepositoryProvider, accrualRate decimal.Decimal) *portssvc.ServiceContainer {
	catalogSvc := NewCatalogService(repos.CatalogRepo)

	return &portssvc.ServiceContainer{
		Catalog: catalogSvc,
		Ledger:  NewLedgerService(repos.LedgerRepo, repos.CustomerRepo),
		Visit:   NewVisitService(repos.VisitRepo, catalogSvc, accrualRate),
		Payment: NewPaymentService(repos.PaymentRepo, repos.VisitRepo),
	}
}
