package pgsql

import (
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     newTxManager(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		LoanRepo:      newPgxLoanRepository(dbPool),
		ProvisionRepo: newPgxProvisionRepository(dbPool),
		InventoryRepo: newPgxInventoryRepository(dbPool),
		SavingsRepo:   newPgxSavingsRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
