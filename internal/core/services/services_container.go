package services

import (
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil; locker guards provisioning runs.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher ports.EventPublisher, locker ports.RunLocker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	uow := NewUnitOfWork(repos.TxManager, publisher)
	resolver := NewAccountResolver(repos.AccountRepo, cfg.Accounts)

	container.Account = NewAccountService(repos.AccountRepo, repos.TxManager)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.ReportingRepo, uow, cfg.Ledger)
	container.Reporting = NewReportingService(repos.ReportingRepo, cfg.Reporting)

	// Lending
	container.Amortization = NewAmortizationService()
	container.Disclosure = NewInterestDisclosureService(container.Amortization, cfg.Lending)
	container.Loan = NewLoanService(repos.LoanRepo, repos.ProvisionRepo, container.Amortization, container.Disclosure, container.Journal, resolver, uow)
	container.Provisioning = NewProvisioningService(repos.LoanRepo, repos.ProvisionRepo, container.Journal, resolver, uow, locker, cfg.Lending)

	container.Inventory = NewInventoryService(repos.InventoryRepo, container.Journal, resolver, uow)
	container.Savings = NewSavingsService(repos.SavingsRepo, container.Journal, resolver, uow)

	return container
}
