package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/SscSPs/coop_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 200
)

// journalService provides core journal and ledger operations.
type journalService struct {
	BaseService
	journalRepo   portsrepo.JournalRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	uow           *UnitOfWork
	tolerance     decimal.Decimal
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	uow *UnitOfWork,
	settings config.LedgerSettings,
) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService:   newBaseService(),
		journalRepo:   journalRepo,
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		uow:           uow,
		tolerance:     settings.BalanceTolerance,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal validates and stores a new entry. When req.Post is set the
// entry is posted in the same unit of work.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("journal description is required")
	}
	if req.Date.IsZero() {
		return nil, apperrors.NewValidationError("journal date is required")
	}
	refType := req.ReferenceType
	if refType == "" {
		refType = domain.RefManual
	}

	entry := domain.JournalEntry{
		JournalID:     s.NewID(),
		EntryDate:     domain.DateOnly(req.Date),
		Description:   req.Description,
		Status:        domain.Draft,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Lines:         dto.ToJournalLines(req.Lines),
		AuditFields:   domain.NewAuditFields(creatorUserID, s.Now()),
	}
	if err := accounting.ValidateLines(entry.Lines, s.tolerance); err != nil {
		return nil, err
	}

	if req.Post {
		posted, err := s.PostEntry(ctx, entry, creatorUserID)
		if err != nil {
			return nil, err
		}
		return posted, nil
	}

	err := s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.loadActiveAccounts(ctx, entry.AccountCodes(), false); err != nil {
			return err
		}
		s.stampLines(&entry)
		return s.journalRepo.SaveJournal(ctx, entry)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create journal")
		return nil, err
	}

	s.LogInfo(ctx, "Journal draft created", slog.String("journal_id", entry.JournalID))
	return &entry, nil
}

// PostEntry validates entry, saves it as POSTED and applies it to account
// balances. It joins any unit of work already open on ctx.
func (s *journalService) PostEntry(ctx context.Context, entry domain.JournalEntry, userID string) (*domain.JournalEntry, error) {
	if entry.JournalID == "" {
		entry.JournalID = s.NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.AuditFields = domain.NewAuditFields(userID, s.Now())
	}
	entry.EntryDate = domain.DateOnly(entry.EntryDate)
	for i := range entry.Lines {
		entry.Lines[i].LineNo = i + 1
	}
	if err := accounting.ValidateLines(entry.Lines, s.tolerance); err != nil {
		return nil, err
	}

	err := s.uow.Run(ctx, func(ctx context.Context) error {
		accounts, err := s.loadActiveAccounts(ctx, entry.AccountCodes(), true)
		if err != nil {
			return err
		}
		postedAt := s.Now()
		entry.Status = domain.Posted
		entry.PostedAt = &postedAt
		entry.ApprovedBy = userID
		s.stampLines(&entry)

		if err := s.journalRepo.SaveJournal(ctx, entry); err != nil {
			return fmt.Errorf("failed to save journal: %w", err)
		}
		if err := s.applyBalances(ctx, entry.Lines, accounts, userID, postedAt); err != nil {
			return err
		}
		s.uow.raise(ctx, s.newEvent(domain.EventJournalPosted, entry))
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post journal entry", slog.String("reference_type", entry.ReferenceType))
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted", slog.String("journal_id", entry.JournalID), slog.String("reference_type", entry.ReferenceType))
	return &entry, nil
}

// PostJournal moves a draft to POSTED.
func (s *journalService) PostJournal(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindJournalByIDForUpdate(ctx, journalID)
		if err != nil {
			return err
		}
		if !entry.Status.CanTransitionTo(domain.Posted) {
			return apperrors.NewStateError("journal %s is %s and cannot be posted", journalID, entry.Status).
				WithField("journal_id", journalID)
		}
		// Accounts may have been deactivated since the draft was saved.
		if err := accounting.ValidateLines(entry.Lines, s.tolerance); err != nil {
			return err
		}
		accounts, err := s.loadActiveAccounts(ctx, entry.AccountCodes(), true)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, journalID, domain.Posted, &now, userID, nil, userID, now); err != nil {
			return fmt.Errorf("failed to update journal status: %w", err)
		}
		if err := s.applyBalances(ctx, entry.Lines, accounts, userID, now); err != nil {
			return err
		}

		entry.Status = domain.Posted
		entry.PostedAt = &now
		entry.ApprovedBy = userID
		entry.Touch(userID, now)
		s.uow.raise(ctx, s.newEvent(domain.EventJournalPosted, *entry))
		posted = entry
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post journal", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted", slog.String("journal_id", journalID))
	return posted, nil
}

// ReverseJournal creates a new journal entry that reverses a previously posted journal.
// The reversal is dated like the original so the two cancel in every report.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reversal reason is required")
	}

	var reversal domain.JournalEntry
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		original, err := s.journalRepo.FindJournalByIDForUpdate(ctx, journalID)
		if err != nil {
			return err
		}
		if err := validateReversible(original); err != nil {
			return err
		}

		now := s.Now()
		reversal = domain.JournalEntry{
			JournalID:         s.NewID(),
			EntryDate:         original.EntryDate,
			Description:       fmt.Sprintf("Reversal of %s: %s", original.Description, reason),
			Status:            domain.Posted,
			ReferenceType:     domain.RefReversal,
			ReferenceID:       original.JournalID,
			ApprovedBy:        userID,
			PostedAt:          &now,
			ReversesJournalID: &original.JournalID,
			Lines:             make([]domain.JournalLine, len(original.Lines)),
			AuditFields:       domain.NewAuditFields(userID, now),
		}
		for i, l := range original.Lines {
			reversal.Lines[i] = l.Swapped()
		}
		s.stampLines(&reversal)

		accounts, err := s.accountRepo.FindAccountsByCodesForUpdate(ctx, sortedCodes(reversal.AccountCodes()))
		if err != nil {
			return fmt.Errorf("failed to lock accounts for reversal: %w", err)
		}
		if err := s.journalRepo.SaveJournal(ctx, reversal); err != nil {
			return fmt.Errorf("failed to save reversing journal: %w", err)
		}
		if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, original.JournalID, domain.Reversed, nil, "", &reversal.JournalID, userID, now); err != nil {
			return fmt.Errorf("failed to update original journal status: %w", err)
		}
		if err := s.applyBalances(ctx, reversal.Lines, accounts, userID, now); err != nil {
			return err
		}
		s.uow.raise(ctx, s.newEvent(domain.EventJournalReversed, reversal))
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to reverse journal", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal reversed successfully",
		slog.String("journal_id", journalID),
		slog.String("reversing_journal_id", reversal.JournalID))
	return &reversal, nil
}

func validateReversible(original *domain.JournalEntry) error {
	switch {
	case original.IsReversal():
		return apperrors.NewStateError("journal %s is itself a reversal", original.JournalID).
			WithField("journal_id", original.JournalID)
	case original.Status == domain.Reversed:
		return apperrors.NewStateError("journal %s is already reversed", original.JournalID).
			WithField("journal_id", original.JournalID)
	case !original.Status.CanTransitionTo(domain.Reversed):
		return apperrors.NewStateError("journal %s is %s, expected POSTED", original.JournalID, original.Status).
			WithField("journal_id", original.JournalID)
	}
	return nil
}

// GetJournalByID retrieves a specific journal entry with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal by ID", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}

// ListJournals retrieves a paginated list of journals, newest first.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	if limit > maxJournalPageSize {
		limit = maxJournalPageSize
	}
	status := domain.JournalStatus(params.Status)
	if status != "" && !status.IsValid() {
		return nil, apperrors.NewValidationError("unknown journal status %q", params.Status)
	}

	filter := portsrepo.JournalFilter{
		Status:        status,
		ReferenceType: params.ReferenceType,
		ReferenceID:   params.ReferenceID,
	}
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list journals")
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}
	if journals == nil {
		journals = []domain.JournalEntry{}
	}

	s.LogDebug(ctx, "Journals listed successfully", slog.Int("count", len(journals)))
	return &dto.ListJournalsResponse{Journals: journals, NextToken: nextToken}, nil
}

// GetLedger lists the posted lines of one account with running balances.
func (s *journalService) GetLedger(ctx context.Context, accountCode string, from, to *time.Time) (*domain.AccountLedger, error) {
	from, to = dateBound(from), dateBound(to)
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.NewValidationError("ledger range ends before it starts")
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if from != nil {
		debit, credit, err := s.journalRepo.SumPostedByAccountBefore(ctx, accountCode, *from)
		if err != nil {
			s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_code", accountCode))
			return nil, fmt.Errorf("failed to compute opening balance: %w", err)
		}
		if opening, err = domain.SignedAmount(account.NormalBalance, debit, credit); err != nil {
			return nil, err
		}
	}

	postings, err := s.journalRepo.ListPostedLinesByAccount(ctx, accountCode, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines", slog.String("account_code", accountCode))
		return nil, fmt.Errorf("failed to list ledger lines: %w", err)
	}
	if postings == nil {
		postings = []domain.LedgerPosting{}
	}
	closing, err := accounting.ApplyRunningBalances(opening, account.NormalBalance, postings)
	if err != nil {
		return nil, err
	}

	return &domain.AccountLedger{
		Account:        *account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Postings:       postings,
		ClosingBalance: closing,
	}, nil
}

// GetTrialBalance sums posted lines per account up to asOf.
func (s *journalService) GetTrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	asOf = dateBound(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, nil, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account totals for trial balance")
		return nil, fmt.Errorf("failed to load account totals: %w", err)
	}
	return buildTrialBalance(totals, asOf), nil
}

func buildTrialBalance(totals []domain.AccountTotals, asOf *time.Time) *domain.TrialBalance {
	tb := &domain.TrialBalance{AsOf: asOf, Rows: []domain.TrialBalanceRow{}}
	for _, t := range totals {
		if t.Debit.IsZero() && t.Credit.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{AccountTotals: t, Balance: t.Net()})
		tb.TotalDebit = tb.TotalDebit.Add(t.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.Credit)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}

// loadActiveAccounts fetches the accounts of codes, failing when one is
// missing or inactive. With lock set the rows are locked in code order.
func (s *journalService) loadActiveAccounts(ctx context.Context, codes []string, lock bool) (map[string]domain.Account, error) {
	codes = sortedCodes(codes)
	var (
		accounts map[string]domain.Account
		err      error
	)
	if lock {
		accounts, err = s.accountRepo.FindAccountsByCodesForUpdate(ctx, codes)
	} else {
		accounts, err = s.accountRepo.FindAccountsByCodes(ctx, codes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, code := range codes {
		acc, ok := accounts[code]
		if !ok {
			return nil, apperrors.NewValidationError("account %s does not exist", code).WithField("account", code)
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError("account %s is inactive", code).WithField("account", code)
		}
	}
	return accounts, nil
}

func (s *journalService) applyBalances(ctx context.Context, lines []domain.JournalLine, accounts map[string]domain.Account, userID string, at time.Time) error {
	changes, err := accounting.BalanceChanges(lines, accounts)
	if err != nil {
		return fmt.Errorf("internal error calculating balance changes: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalances(ctx, changes, userID, at); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func (s *journalService) stampLines(entry *domain.JournalEntry) {
	for i := range entry.Lines {
		entry.Lines[i].LineID = s.NewID()
		entry.Lines[i].JournalID = entry.JournalID
		entry.Lines[i].LineNo = i + 1
	}
}

func (s *journalService) newEvent(eventType string, entry domain.JournalEntry) domain.LedgerEvent {
	debit, _ := entry.Totals()
	return domain.LedgerEvent{
		EventID:       s.NewID(),
		Type:          eventType,
		JournalID:     entry.JournalID,
		EntryDate:     entry.EntryDate,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Amount:        debit,
		OccurredAt:    s.Now(),
	}
}

func sortedCodes(codes []string) []string {
	out := uniqueStrings(codes)
	sort.Strings(out)
	return out
}

func dateBound(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}
