package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	settings      config.ReportingSettings
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository, settings config.ReportingSettings) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(),
		reportingRepo: repo,
		settings:      settings,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	tb := buildTrialBalance(totals, &asOf)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}

// IncomeStatement reports revenue and expenses for a period
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	from, to, err := reportRange(from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.GetAccountTotals(ctx, &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	report := &domain.IncomeStatement{
		From:     from,
		To:       to,
		Revenue:  []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
	}
	for _, t := range totals {
		switch t.Category {
		case domain.Revenue:
			amount := t.Credit.Sub(t.Debit)
			if amount.IsZero() {
				continue
			}
			report.Revenue = append(report.Revenue, accountAmount(t, amount))
			report.TotalRevenue = report.TotalRevenue.Add(amount)
		case domain.Expense:
			amount := t.Debit.Sub(t.Credit)
			if amount.IsZero() {
				continue
			}
			report.Expenses = append(report.Expenses, accountAmount(t, amount))
			report.TotalExpenses = report.TotalExpenses.Add(amount)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)

	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.String("net_income", report.NetIncome.StringFixed(domain.MoneyPlaces)))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date.
// Assets are reported on the debit side, so contra assets reduce the total.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheet{
		AsOf:        asOf,
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	for _, t := range totals {
		debitSide := t.Debit.Sub(t.Credit)
		creditSide := t.Credit.Sub(t.Debit)
		switch t.Category {
		case domain.Asset:
			if !debitSide.IsZero() {
				report.Assets = append(report.Assets, accountAmount(t, debitSide))
				report.TotalAssets = report.TotalAssets.Add(debitSide)
			}
		case domain.Liability:
			if !creditSide.IsZero() {
				report.Liabilities = append(report.Liabilities, accountAmount(t, creditSide))
				report.TotalLiabilities = report.TotalLiabilities.Add(creditSide)
			}
		case domain.Equity:
			if !creditSide.IsZero() {
				report.Equity = append(report.Equity, accountAmount(t, creditSide))
				report.TotalEquity = report.TotalEquity.Add(creditSide)
			}
		case domain.Revenue, domain.Expense:
			report.CurrentEarnings = report.CurrentEarnings.Add(creditSide)
		}
	}
	report.TotalEquity = report.TotalEquity.Add(report.CurrentEarnings)
	report.Balanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))

	if !report.Balanced {
		s.LogInfo(ctx, "Balance sheet does not balance",
			slog.String("asOf", asOf.Format(time.DateOnly)),
			slog.String("assets", report.TotalAssets.String()),
			slog.String("liabilities_equity", report.TotalLiabilities.Add(report.TotalEquity).String()))
	}
	return report, nil
}

// CashFlow builds a direct-method statement from posted entries that touch a
// cash account. Each entry is classified by its non-cash lines: a liability
// or equity counterpart is financing, an asset under an investing prefix is
// investing, anything else is operating.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	from, to, err := reportRange(from, to)
	if err != nil {
		return nil, err
	}
	cashCodes := make(map[string]struct{}, len(s.settings.CashAccountCodes))
	for _, code := range s.settings.CashAccountCodes {
		cashCodes[code] = struct{}{}
	}

	dayBefore := from.AddDate(0, 0, -1)
	openingTotals, err := s.reportingRepo.GetAccountTotals(ctx, nil, &dayBefore)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve opening cash", slog.String("from", from.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve opening cash: %w", err)
	}
	lines, err := s.reportingRepo.GetCashLines(ctx, s.settings.CashAccountCodes, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cash lines",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve cash lines: %w", err)
	}

	report := &domain.CashFlowStatement{From: from, To: to, Items: []domain.CashFlowItem{}}
	for _, t := range openingTotals {
		if _, ok := cashCodes[t.AccountCode]; ok {
			report.OpeningCash = report.OpeningCash.Add(t.Debit.Sub(t.Credit))
		}
	}

	for start := 0; start < len(lines); {
		end := start
		for end < len(lines) && lines[end].JournalID == lines[start].JournalID {
			end++
		}
		entry := lines[start:end]
		start = end

		amount := decimal.Zero
		for _, l := range entry {
			if _, ok := cashCodes[l.AccountCode]; ok {
				amount = amount.Add(l.Debit.Sub(l.Credit))
			}
		}
		if amount.IsZero() {
			continue
		}
		activity := s.classify(entry, cashCodes)
		report.Items = append(report.Items, domain.CashFlowItem{
			JournalID:   entry[0].JournalID,
			EntryDate:   entry[0].EntryDate,
			Description: entry[0].Description,
			Activity:    activity,
			Amount:      amount,
		})
		switch activity {
		case domain.OperatingActivity:
			report.Operating = report.Operating.Add(amount)
		case domain.InvestingActivity:
			report.Investing = report.Investing.Add(amount)
		case domain.FinancingActivity:
			report.Financing = report.Financing.Add(amount)
		}
	}
	report.NetChange = report.Operating.Add(report.Investing).Add(report.Financing)
	report.ClosingCash = report.OpeningCash.Add(report.NetChange)

	s.LogInfo(ctx, "Cash flow statement generated successfully",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("items", len(report.Items)))
	return report, nil
}

func (s *reportingService) classify(entry []domain.CashLine, cashCodes map[string]struct{}) domain.CashFlowActivity {
	investing := false
	for _, l := range entry {
		if _, ok := cashCodes[l.AccountCode]; ok {
			continue
		}
		switch l.Category {
		case domain.Liability, domain.Equity:
			return domain.FinancingActivity
		case domain.Asset:
			for _, prefix := range s.settings.InvestingPrefixes {
				if strings.HasPrefix(l.AccountCode, prefix) {
					investing = true
				}
			}
		}
	}
	if investing {
		return domain.InvestingActivity
	}
	return domain.OperatingActivity
}

func reportRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return from, to, apperrors.NewValidationError("report period ends before it starts").
			WithField("from", from.Format(time.DateOnly)).
			WithField("to", to.Format(time.DateOnly))
	}
	return from, to, nil
}

func accountAmount(t domain.AccountTotals, amount decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{AccountCode: t.AccountCode, Name: t.AccountName, Amount: amount}
}
