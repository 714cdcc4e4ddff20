package accounting

import (
	"testing"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateLines(t *testing.T) {
	tol := d("0.01")
	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantErr bool
	}{
		{
			name: "balanced",
			lines: []domain.JournalLine{
				domain.DebitLine("1-1100", d("100.00"), ""),
				domain.CreditLine("4-1100", d("100.00"), ""),
			},
		},
		{
			name: "split credit",
			lines: []domain.JournalLine{
				domain.DebitLine("1-1100", d("150.00"), ""),
				domain.CreditLine("1-1300", d("100.00"), ""),
				domain.CreditLine("4-1100", d("50.00"), ""),
			},
		},
		{
			name:    "single line",
			lines:   []domain.JournalLine{domain.DebitLine("1-1100", d("1"), "")},
			wantErr: true,
		},
		{
			name: "off by one cent",
			lines: []domain.JournalLine{
				domain.DebitLine("1-1100", d("100.00"), ""),
				domain.CreditLine("4-1100", d("99.99"), ""),
			},
			wantErr: true,
		},
		{
			name: "invalid line",
			lines: []domain.JournalLine{
				{AccountCode: "1-1100", Debit: d("5"), Credit: d("5")},
				domain.CreditLine("4-1100", d("0.00"), ""),
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.lines, tol)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// a wider tolerance admits a rounding cent
	err := ValidateLines([]domain.JournalLine{
		domain.DebitLine("1-1100", d("100.00"), ""),
		domain.CreditLine("4-1100", d("99.99"), ""),
	}, d("0.05"))
	assert.NoError(t, err)

	// zero tolerance still accepts an exact balance
	err = ValidateLines([]domain.JournalLine{
		domain.DebitLine("1-1100", d("1.00"), ""),
		domain.CreditLine("4-1100", d("1.00"), ""),
	}, decimal.Zero)
	assert.NoError(t, err)
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"1-1100": {Code: "1-1100", NormalBalance: domain.NormalDebit},
		"1-1310": {Code: "1-1310", NormalBalance: domain.NormalCredit},
		"5-2100": {Code: "5-2100", NormalBalance: domain.NormalDebit},
	}
	lines := []domain.JournalLine{
		domain.DebitLine("5-2100", d("40.00"), ""),
		domain.CreditLine("1-1310", d("40.00"), ""),
	}
	changes, err := BalanceChanges(lines, accounts)
	require.NoError(t, err)
	assert.True(t, changes["5-2100"].Equal(d("40")))
	assert.True(t, changes["1-1310"].Equal(d("40")))

	_, err = BalanceChanges([]domain.JournalLine{domain.DebitLine("9-9999", d("1"), "")}, accounts)
	assert.Error(t, err)
}

func TestApplyRunningBalances(t *testing.T) {
	postings := []domain.LedgerPosting{
		{Debit: d("100"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: d("30")},
		{Debit: d("5"), Credit: decimal.Zero},
	}
	closing, err := ApplyRunningBalances(d("10"), domain.NormalDebit, postings)
	require.NoError(t, err)
	assert.True(t, closing.Equal(d("85")))
	assert.True(t, postings[0].RunningBalance.Equal(d("110")))
	assert.True(t, postings[1].RunningBalance.Equal(d("80")))
}
