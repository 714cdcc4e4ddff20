package services

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a specific account by its code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount adds a new account to the chart.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount changes the descriptive fields or active flag of an account.
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// SeedChart creates the missing accounts of a chart and returns how many were created.
	SeedChart(ctx context.Context, entries []domain.ChartEntry, userID string) (int, error)
}

// AccountResolverSvc maps posting roles to live accounts.
type AccountResolverSvc interface {
	// Resolve returns the account bound to role. It fails when the mapped
	// account is missing or inactive at the time of the call.
	Resolve(ctx context.Context, role domain.AccountRole) (*domain.Account, error)

	// Code returns the configured code for role without checking it.
	Code(role domain.AccountRole) string
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
