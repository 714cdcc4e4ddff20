package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Journal      JournalSvcFacade
	Amortization AmortizationSvc
	Disclosure   InterestDisclosureSvc
	Loan         LoanSvcFacade
	Provisioning ProvisioningSvc
	Inventory    InventorySvcFacade
	Savings      SavingsSvc
	Reporting    ReportingService
}
