package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByCode retrieves a specific account by its code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code. Missing codes are simply absent.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns ErrDuplicate if the code exists.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, description, parent and active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that must run inside a unit of work
type AccountTransactionSupport interface {
	// FindAccountsByCodesForUpdate selects accounts and locks them, in code order.
	FindAccountsByCodesForUpdate(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds each change to the cached account balance.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
