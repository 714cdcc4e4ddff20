package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, s *Store, code string, normal domain.NormalBalance) {
	t.Helper()
	require.NoError(t, s.SaveAccount(context.Background(), domain.Account{
		Code: code, Name: code, Category: domain.Asset, NormalBalance: normal, IsActive: true,
	}))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "1-1100", domain.NormalDebit)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"1-1100": decimal.NewFromInt(50)}, "u", day))
		require.NoError(t, s.SaveJournal(ctx, domain.JournalEntry{JournalID: "j1", Status: domain.Posted}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.FindAccountByCode(ctx, "1-1100")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	_, err = s.FindJournalByID(ctx, "j1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "1-1100", domain.NormalDebit)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		inner := s.WithinTx(ctx, func(ctx context.Context) error {
			return s.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"1-1100": decimal.NewFromInt(10)}, "u", day)
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	acc, _ := s.FindAccountByCode(ctx, "1-1100")
	assert.True(t, acc.Balance.IsZero(), "inner work must roll back with the outer unit")
}

func TestSaveAccount_Duplicate(t *testing.T) {
	s := NewStore()
	seedAccount(t, s, "1-1100", domain.NormalDebit)
	err := s.SaveAccount(context.Background(), domain.Account{Code: "1-1100"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestListJournals_Paginates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveJournal(ctx, domain.JournalEntry{
			JournalID:   fmt.Sprintf("j%d", i),
			EntryDate:   day.AddDate(0, 0, i),
			Status:      domain.Posted,
			AuditFields: domain.NewAuditFields("u", day),
		}))
	}

	var seen []string
	var token *string
	for page := 0; page < 3; page++ {
		journals, next, err := s.ListJournals(ctx, portsrepo.JournalFilter{}, 2, token)
		require.NoError(t, err)
		for _, j := range journals {
			seen = append(seen, j.JournalID)
		}
		token = next
		if next == nil {
			break
		}
	}
	assert.Equal(t, []string{"j4", "j3", "j2", "j1", "j0"}, seen)
	assert.Nil(t, token)

	bad := "%%%"
	_, _, err := s.ListJournals(ctx, portsrepo.JournalFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLedgerQueries_SkipDrafts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "1-1100", domain.NormalDebit)
	seedAccount(t, s, "4-1100", domain.NormalCredit)
	lines := []domain.JournalLine{
		domain.DebitLine("1-1100", decimal.NewFromInt(100), ""),
		domain.CreditLine("4-1100", decimal.NewFromInt(100), ""),
	}
	require.NoError(t, s.SaveJournal(ctx, domain.JournalEntry{JournalID: "posted", EntryDate: day, Status: domain.Posted, Lines: lines}))
	require.NoError(t, s.SaveJournal(ctx, domain.JournalEntry{JournalID: "draft", EntryDate: day, Status: domain.Draft, Lines: lines}))

	postings, err := s.ListPostedLinesByAccount(ctx, "1-1100", nil, nil)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "posted", postings[0].JournalID)

	debit, credit, err := s.SumPostedByAccountBefore(ctx, "1-1100", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.IsZero())

	totals, err := s.GetAccountTotals(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals[1].Credit.Equal(decimal.NewFromInt(100)))
}

func TestFindLatestProvision(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.UpsertProvision(ctx, domain.CKPNProvision{ProvisionID: "p1", LoanID: "L1", Period: "2024-01", Amount: decimal.NewFromInt(10)}))
	require.NoError(t, s.UpsertProvision(ctx, domain.CKPNProvision{ProvisionID: "p3", LoanID: "L1", Period: "2024-03", Amount: decimal.NewFromInt(30)}))

	latest, err := s.FindLatestProvision(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", latest.Period, "the latest period wins whatever order they were stored in")

	require.NoError(t, s.UpsertProvision(ctx, domain.CKPNProvision{ProvisionID: "other", LoanID: "L1", Period: "2024-03", Amount: decimal.NewFromInt(35)}))
	latest, err = s.FindLatestProvision(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "p3", latest.ProvisionID, "upsert keeps the original record id")
	assert.True(t, latest.Amount.Equal(decimal.NewFromInt(35)))

	_, err = s.FindLatestProvision(ctx, "L2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkInstallmentPaid_Twice(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveSchedule(ctx, []domain.LoanSchedule{{ScheduleID: "s1", LoanID: "L1", InstallmentNo: 1}}))
	require.NoError(t, s.MarkInstallmentPaid(ctx, "s1", day))
	assert.ErrorIs(t, s.MarkInstallmentPaid(ctx, "s1", day), apperrors.ErrState)
}
