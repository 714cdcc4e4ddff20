package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
// Only lines of POSTED and REVERSED entries are aggregated.
type ReportingRepository interface {
	// GetAccountTotals returns every account with its debit/credit totals for
	// entries dated within [from, to]; a nil bound is open. Accounts without
	// activity are returned with zero totals.
	GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotals, error)

	// GetCashLines returns all lines of entries dated within [from, to] that
	// touch at least one of the cash accounts, ordered by entry date and journal.
	GetCashLines(ctx context.Context, cashAccountCodes []string, from, to time.Time) ([]domain.CashLine, error)
}
