package pgsql

import (
	portsrepo "github.com/SalonKit/salon_pos_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	visitRepo := newPgxVisitRepository(dbPool, ledgerRepo)
	paymentRepo := newPgxPaymentRepository(dbPool, ledgerRepo)
	catalogRepo := newPgxCatalogRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		VisitRepo:    visitRepo,
		PaymentRepo:  paymentRepo,
		LedgerRepo:   ledgerRepo,
		CatalogRepo:  catalogRepo,
		CustomerRepo: customerRepo,
	}
}
