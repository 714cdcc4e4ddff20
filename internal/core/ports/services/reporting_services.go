package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Reports only read posted data.
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// IncomeStatement reports revenue and expenses for a period
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// CashFlow generates a direct-method cash flow statement for a period
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error)
}
