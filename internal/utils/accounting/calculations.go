package accounting

import (
	"fmt"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateLines checks every line and that |debit-credit| is below tolerance.
// With two-decimal amounts and the default tolerance of 0.01 this means exact balance.
func ValidateLines(lines []domain.JournalLine, tolerance decimal.Decimal) error {
	if len(lines) < 2 {
		return apperrors.NewValidationError("journal must have at least two lines").
			WithField("lines", len(lines))
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	debit, credit := SumLines(lines)
	if diff := debit.Sub(credit).Abs(); diff.IsPositive() && !diff.LessThan(tolerance) {
		return apperrors.NewValidationError("journal does not balance").
			WithField("debit", debit.StringFixed(domain.MoneyPlaces)).
			WithField("credit", credit.StringFixed(domain.MoneyPlaces))
	}
	return nil
}

// SumLines totals both sides of a set of lines.
func SumLines(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// BalanceChanges computes the net effect of lines on each account's cached
// balance, on the account's normal side.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountCode]
		if !ok {
			return nil, fmt.Errorf("account %s not loaded for balance calculation", l.AccountCode)
		}
		signed, err := domain.SignedAmount(acc.NormalBalance, l.Debit, l.Credit)
		if err != nil {
			return nil, fmt.Errorf("error calculating signed amount for account %s: %w", l.AccountCode, err)
		}
		changes[l.AccountCode] = changes[l.AccountCode].Add(signed)
	}
	return changes, nil
}

// ApplyRunningBalances fills RunningBalance on postings already in ledger order.
// It returns the closing balance.
func ApplyRunningBalances(opening decimal.Decimal, normal domain.NormalBalance, postings []domain.LedgerPosting) (decimal.Decimal, error) {
	balance := opening
	for i := range postings {
		signed, err := domain.SignedAmount(normal, postings[i].Debit, postings[i].Credit)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
		postings[i].RunningBalance = balance
	}
	return balance, nil
}
