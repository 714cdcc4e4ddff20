package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo   *MockJournalRepository
	mockAccountRepo   *MockAccountRepository
	mockReportingRepo *MockReportingRepository
	mockPublisher     *MockEventPublisher
	service           portssvc.JournalSvcFacade
	cashAccount       domain.Account
	incomeAccount     domain.Account
	userID            string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockPublisher = new(MockEventPublisher)
	uow := services.NewUnitOfWork(passthroughTx{}, suite.mockPublisher)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockReportingRepo, uow, config.DefaultLedgerSettings())

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		Code:          "1-1100",
		Name:          "Cash on Hand",
		Category:      domain.Asset,
		NormalBalance: domain.NormalDebit,
		IsActive:      true,
	}
	suite.incomeAccount = domain.Account{
		Code:          "4-1100",
		Name:          "Loan Interest Income",
		Category:      domain.Revenue,
		NormalBalance: domain.NormalCredit,
		IsActive:      true,
	}
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.Code:   suite.cashAccount,
		suite.incomeAccount.Code: suite.incomeAccount,
	}
}

func (suite *JournalServiceTestSuite) draft(id string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalID:   id,
		EntryDate:   day(2024, time.March, 1),
		Description: "Interest received",
		Status:      domain.Draft,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountCode: "1-1100", Debit: dec("100.00"), Credit: decimal.Zero},
			{LineNo: 2, AccountCode: "4-1100", Debit: decimal.Zero, Credit: dec("100.00")},
		},
	}
}

func balancedRequest(post bool) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        day(2024, time.March, 1),
		Description: "Interest received",
		Lines: []dto.JournalLineRequest{
			{AccountCode: "1-1100", Debit: dec("100.00"), Credit: decimal.Zero},
			{AccountCode: "4-1100", Debit: decimal.Zero, Credit: dec("100.00")},
		},
		Post: post,
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateJournal_DraftSuccess() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", mock.Anything, mock.MatchedBy(func(j domain.JournalEntry) bool {
		return j.Status == domain.Draft &&
			j.ReferenceType == domain.RefManual &&
			len(j.Lines) == 2 &&
			j.Lines[0].JournalID == j.JournalID &&
			j.Lines[1].LineNo == 2 &&
			j.Lines[0].LineID != ""
	})).Return(nil).Once()

	created, err := suite.service.CreateJournal(ctx, balancedRequest(false), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.JournalID)
	suite.Equal(domain.Draft, created.Status)
	suite.Nil(created.PostedAt)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_RejectsInvalidEntries() {
	ctx := context.Background()
	unbalanced := balancedRequest(true)
	unbalanced.Lines[1].Credit = dec("99.99")

	single := balancedRequest(true)
	single.Lines = single.Lines[:1]

	bothSides := balancedRequest(true)
	bothSides.Lines[0].Credit = dec("100.00")

	tooPrecise := balancedRequest(true)
	tooPrecise.Lines[0].Debit = dec("100.001")
	tooPrecise.Lines[1].Credit = dec("100.001")

	noDescription := balancedRequest(true)
	noDescription.Description = "  "

	noDate := balancedRequest(true)
	noDate.Date = time.Time{}

	tests := []struct {
		name string
		req  dto.CreateJournalRequest
	}{
		{"unbalanced by one cent", unbalanced},
		{"single line", single},
		{"debit and credit on one line", bothSides},
		{"more than two decimals", tooPrecise},
		{"blank description", noDescription},
		{"missing date", noDate},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			created, err := suite.service.CreateJournal(ctx, tt.req, suite.userID)
			suite.Nil(created)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	accounts := suite.accountsMap()
	income := accounts["4-1100"]
	income.IsActive = false
	accounts["4-1100"] = income
	suite.mockAccountRepo.On("FindAccountsByCodesForUpdate", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(accounts, nil).Once()

	_, err := suite.service.CreateJournal(ctx, balancedRequest(true), suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(map[string]domain.Account{"1-1100": suite.cashAccount}, nil).Once()

	_, err := suite.service.CreateJournal(ctx, balancedRequest(false), suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByIDForUpdate", mock.Anything, "j-1").Return(suite.draft("j-1"), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodesForUpdate", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("UpdateJournalStatusAndLinks", mock.Anything, "j-1", domain.Posted, mock.AnythingOfType("*time.Time"),
		suite.userID, (*string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalances", mock.Anything, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes["1-1100"].Equal(dec("100")) &&
			changes["4-1100"].Equal(dec("100"))
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.Type == domain.EventJournalPosted && e.JournalID == "j-1" && e.Amount.Equal(dec("100"))
	})).Return(nil).Once()

	posted, err := suite.service.PostJournal(ctx, "j-1", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.userID, posted.ApprovedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draft("j-2")
	entry.Status = domain.Posted
	suite.mockJournalRepo.On("FindJournalByIDForUpdate", mock.Anything, "j-2").Return(entry, nil).Once()

	_, err := suite.service.PostJournal(ctx, "j-2", suite.userID)

	suite.ErrorIs(err, apperrors.ErrState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateJournalStatusAndLinks",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByIDForUpdate", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("journal", "missing")).Once()

	_, err := suite.service.PostJournal(ctx, "missing", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestPostEntry_PublishFailureDoesNotFailPosting() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountsByCodesForUpdate", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalances", mock.Anything, mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unavailable")).Once()

	posted, err := suite.service.PostEntry(ctx, *suite.draft(""), suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(posted.JournalID)
	suite.Equal(domain.Posted, posted.Status)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_SaveFailurePublishesNothing() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountsByCodesForUpdate", mock.Anything, []string{"1-1100", "4-1100"}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := suite.service.PostEntry(ctx, *suite.draft(""), suite.userID)

	suite.Require().Error(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_StateErrors() {
	ctx := context.Background()
	original := "j-orig"

	draft := suite.draft("j-draft")

	reversed := suite.draft("j-reversed")
	reversed.Status = domain.Reversed

	reversal := suite.draft("j-reversal")
	reversal.Status = domain.Posted
	reversal.ReversesJournalID = &original

	for _, entry := range []*domain.JournalEntry{draft, reversed, reversal} {
		suite.Run(entry.JournalID, func() {
			suite.mockJournalRepo.On("FindJournalByIDForUpdate", mock.Anything, entry.JournalID).Return(entry, nil).Once()
			_, err := suite.service.ReverseJournal(ctx, entry.JournalID, "duplicate", suite.userID)
			suite.ErrorIs(err, apperrors.ErrState)
		})
	}
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_RequiresReason() {
	_, err := suite.service.ReverseJournal(context.Background(), "j-1", " ", suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalByIDForUpdate", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListJournals() {
	ctx := context.Background()
	suite.Run("limit is clamped", func() {
		suite.mockJournalRepo.On("ListJournals", ctx, portsrepo.JournalFilter{Status: domain.Posted}, 200, (*string)(nil)).
			Return([]domain.JournalEntry{}, nil, nil).Once()
		resp, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{Limit: 5000, Status: "POSTED"})
		suite.Require().NoError(err)
		suite.Empty(resp.Journals)
		suite.Nil(resp.NextToken)
	})
	suite.Run("unknown status", func() {
		_, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{Limit: 10, Status: "VOID"})
		suite.ErrorIs(err, apperrors.ErrValidation)
	})
	suite.Run("next token passed through", func() {
		suite.mockJournalRepo.On("ListJournals", ctx, portsrepo.JournalFilter{}, 20, (*string)(nil)).
			Return([]domain.JournalEntry{*suite.draft("j-9")}, "token-2", nil).Once()
		resp, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{})
		suite.Require().NoError(err)
		suite.Len(resp.Journals, 1)
		suite.Require().NotNil(resp.NextToken)
		suite.Equal("token-2", *resp.NextToken)
	})
}

func (suite *JournalServiceTestSuite) TestGetLedger_InvertedRange() {
	from, to := day(2024, time.March, 31), day(2024, time.March, 1)
	_, err := suite.service.GetLedger(context.Background(), "1-1100", &from, &to)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestGetTrialBalance_SkipsIdleAccounts() {
	ctx := context.Background()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return([]domain.AccountTotals{
		{AccountCode: "1-1100", Category: domain.Asset, NormalBalance: domain.NormalDebit, Debit: dec("250"), Credit: dec("50")},
		{AccountCode: "1-1200", Category: domain.Asset, NormalBalance: domain.NormalDebit},
		{AccountCode: "4-1100", Category: domain.Revenue, NormalBalance: domain.NormalCredit, Credit: dec("200")},
	}, nil).Once()

	tb, err := suite.service.GetTrialBalance(ctx, nil)

	suite.Require().NoError(err)
	suite.Len(tb.Rows, 2)
	suite.True(tb.Balanced)
	suite.True(tb.TotalDebit.Equal(dec("250")))
	suite.True(tb.Rows[0].Balance.Equal(dec("200")))
	suite.True(tb.Rows[1].Balance.Equal(dec("200")))
}

// --- End-to-end over the memory store ---

func TestJournal_DraftIsInvisibleUntilPosted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.Journal.CreateJournal(ctx, balancedRequest(false), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.Draft, draft.Status)
	assert.True(t, env.balance(t, "1-1100").IsZero())

	tb, err := env.svc.Journal.GetTrialBalance(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)
	assert.Empty(t, env.publisher.Events())

	posted, err := env.svc.Journal.PostJournal(ctx, draft.JournalID, "approver")
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, posted.Status)
	assert.Equal(t, "approver", posted.ApprovedBy)
	assert.True(t, env.balance(t, "1-1100").Equal(dec("100")))
	assert.True(t, env.balance(t, "4-1100").Equal(dec("100")))

	_, err = env.svc.Journal.PostJournal(ctx, draft.JournalID, "approver")
	assert.ErrorIs(t, err, apperrors.ErrState)

	events := env.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventJournalPosted, events[0].Type)
	assert.Equal(t, draft.JournalID, events[0].JournalID)
	env.assertBooksBalance(t)
}

func TestJournal_ReverseRestoresBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	original := env.post(t, day(2024, time.March, 5), "1-1100", "3-1100", "500.00")
	assert.True(t, env.balance(t, "1-1100").Equal(dec("500")))

	reversal, err := env.svc.Journal.ReverseJournal(ctx, original.JournalID, "keyed twice", testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, reversal.Status)
	assert.Equal(t, domain.RefReversal, reversal.ReferenceType)
	assert.Equal(t, original.JournalID, reversal.ReferenceID)
	require.NotNil(t, reversal.ReversesJournalID)
	assert.Equal(t, original.JournalID, *reversal.ReversesJournalID)
	assert.True(t, reversal.EntryDate.Equal(original.EntryDate))
	assert.Contains(t, reversal.Description, "keyed twice")
	require.Len(t, reversal.Lines, 2)
	assert.True(t, reversal.Lines[0].Credit.Equal(dec("500")))
	assert.True(t, reversal.Lines[1].Debit.Equal(dec("500")))

	assert.True(t, env.balance(t, "1-1100").IsZero())
	assert.True(t, env.balance(t, "3-1100").IsZero())

	stored, err := env.svc.Journal.GetJournalByID(ctx, original.JournalID)
	require.NoError(t, err)
	assert.Equal(t, domain.Reversed, stored.Status)
	require.NotNil(t, stored.ReversedByJournalID)
	assert.Equal(t, reversal.JournalID, *stored.ReversedByJournalID)

	_, err = env.svc.Journal.ReverseJournal(ctx, original.JournalID, "again", testUser)
	assert.ErrorIs(t, err, apperrors.ErrState)
	_, err = env.svc.Journal.ReverseJournal(ctx, reversal.JournalID, "undo the undo", testUser)
	assert.ErrorIs(t, err, apperrors.ErrState)

	// both entries still count, and cancel out
	tb, err := env.svc.Journal.GetTrialBalance(ctx, nil)
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	for _, row := range tb.Rows {
		assert.True(t, row.Balance.IsZero(), row.AccountCode)
	}

	events := env.publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventJournalReversed, events[1].Type)
	assert.Equal(t, reversal.JournalID, events[1].JournalID)
}

func TestJournal_InactiveAccountRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inactive := false
	_, err := env.svc.Account.UpdateAccount(ctx, "1-1200", dto.UpdateAccountRequest{IsActive: &inactive}, testUser)
	require.NoError(t, err)

	_, err = env.svc.Journal.CreateJournal(ctx, dto.CreateJournalRequest{
		Date:        day(2024, time.March, 1),
		Description: "to a closed bank account",
		Lines: []dto.JournalLineRequest{
			{AccountCode: "1-1200", Debit: dec("10"), Credit: decimal.Zero},
			{AccountCode: "3-1100", Debit: decimal.Zero, Credit: dec("10")},
		},
		Post: true,
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	resp, err := env.svc.Journal.ListJournals(ctx, dto.ListJournalsParams{})
	require.NoError(t, err)
	assert.Empty(t, resp.Journals)
	assert.Empty(t, env.publisher.Events())
}

func TestJournal_LedgerRunningBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.post(t, day(2024, time.January, 5), "1-1100", "3-1100", "100.00")
	env.post(t, day(2024, time.January, 10), "1-1100", "4-2100", "50.00")
	env.post(t, day(2024, time.February, 1), "3-1100", "1-1100", "30.00")
	env.post(t, day(2024, time.March, 15), "1-1100", "4-2100", "7.25")

	from, to := day(2024, time.January, 10), day(2024, time.February, 29)
	ledger, err := env.svc.Journal.GetLedger(ctx, "1-1100", &from, &to)
	require.NoError(t, err)

	assert.True(t, ledger.OpeningBalance.Equal(dec("100")), ledger.OpeningBalance.String())
	require.Len(t, ledger.Postings, 2)
	assert.True(t, ledger.Postings[0].RunningBalance.Equal(dec("150")))
	assert.True(t, ledger.Postings[1].Credit.Equal(dec("30")))
	assert.True(t, ledger.Postings[1].RunningBalance.Equal(dec("120")))
	assert.True(t, ledger.ClosingBalance.Equal(dec("120")))

	// a credit-normal account runs positive on the credit side
	all, err := env.svc.Journal.GetLedger(ctx, "4-2100", nil, nil)
	require.NoError(t, err)
	assert.True(t, all.OpeningBalance.IsZero())
	assert.True(t, all.ClosingBalance.Equal(dec("57.25")))
	assert.True(t, all.ClosingBalance.Equal(env.balance(t, "4-2100")))

	_, err = env.svc.Journal.GetLedger(ctx, "9-9999", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJournal_TrialBalanceAsOf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.post(t, day(2024, time.January, 5), "1-1100", "3-1100", "100.00")
	env.post(t, day(2024, time.February, 5), "1-1200", "1-1100", "60.00")

	asOf := day(2024, time.January, 31)
	tb, err := env.svc.Journal.GetTrialBalance(ctx, &asOf)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	assert.True(t, tb.TotalDebit.Equal(dec("100")))
	assert.True(t, tb.Balanced)

	full, err := env.svc.Journal.GetTrialBalance(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, full.Rows, 3)
	assert.True(t, full.TotalDebit.Equal(dec("160")))
	assert.True(t, full.TotalCredit.Equal(dec("160")))
}

func TestJournal_ListFiltersAndPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		env.post(t, day(2024, time.January, i), "1-1100", "3-1100", "10.00")
	}
	_, err := env.svc.Journal.CreateJournal(ctx, balancedRequest(false), testUser)
	require.NoError(t, err)

	page, err := env.svc.Journal.ListJournals(ctx, dto.ListJournalsParams{Limit: 2, Status: string(domain.Posted)})
	require.NoError(t, err)
	require.Len(t, page.Journals, 2)
	require.NotNil(t, page.NextToken)
	assert.True(t, page.Journals[0].EntryDate.Equal(day(2024, time.January, 3)))

	rest, err := env.svc.Journal.ListJournals(ctx, dto.ListJournalsParams{Limit: 2, Status: string(domain.Posted), NextToken: page.NextToken})
	require.NoError(t, err)
	require.Len(t, rest.Journals, 1)
	assert.Nil(t, rest.NextToken)

	drafts, err := env.svc.Journal.ListJournals(ctx, dto.ListJournalsParams{Status: string(domain.Draft)})
	require.NoError(t, err)
	assert.Len(t, drafts.Journals, 1)
}
