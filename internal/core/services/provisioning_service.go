package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type provisioningService struct {
	BaseService
	loanRepo      portsrepo.LoanRepositoryFacade
	provisionRepo portsrepo.ProvisionRepository
	poster        portssvc.JournalPosterSvc
	resolver      portssvc.AccountResolverSvc
	uow           *UnitOfWork
	locker        ports.RunLocker
	settings      config.LendingSettings
}

// NewProvisioningService creates the monthly CKPN runner.
func NewProvisioningService(
	loanRepo portsrepo.LoanRepositoryFacade,
	provisionRepo portsrepo.ProvisionRepository,
	poster portssvc.JournalPosterSvc,
	resolver portssvc.AccountResolverSvc,
	uow *UnitOfWork,
	locker ports.RunLocker,
	settings config.LendingSettings,
) portssvc.ProvisioningSvc {
	return &provisioningService{
		BaseService:   newBaseService(),
		loanRepo:      loanRepo,
		provisionRepo: provisionRepo,
		poster:        poster,
		resolver:      resolver,
		uow:           uow,
		locker:        locker,
		settings:      settings,
	}
}

var _ portssvc.ProvisioningSvc = (*provisioningService)(nil)

type provisionAccounts struct {
	expense   string
	allowance string
}

// RunMonthlyProvision ages every active loan at the end of period, sets its
// collectibility and posts the change in required provision. A loan that
// fails is reported in its outcome; the others still run.
func (s *provisioningService) RunMonthlyProvision(ctx context.Context, period string, userID string) (*domain.ProvisionRunSummary, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	if err := s.settings.ProvisionRates.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "ckpn:"+p.String(), s.settings.ProvisionLockTTL)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to acquire provisioning lock", slog.String("period", p.String()))
		}
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.LogError(ctx, err, "Failed to release provisioning lock", slog.String("period", p.String()))
		}
	}()

	expense, err := s.resolver.Resolve(ctx, domain.RoleProvisionExpense)
	if err != nil {
		return nil, err
	}
	allowance, err := s.resolver.Resolve(ctx, domain.RoleLoanLossAllowance)
	if err != nil {
		return nil, err
	}
	accounts := provisionAccounts{expense: expense.Code, allowance: allowance.Code}

	loans, err := s.loanRepo.ListLoansByStatus(ctx, domain.LoanActive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active loans", slog.String("period", p.String()))
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}

	s.LogInfo(ctx, "Provisioning run started", slog.String("period", p.String()), slog.Int("loans", len(loans)))

	outcomes := make([]domain.ProvisionOutcome, len(loans))
	workers := s.settings.ProvisionWorkers
	if workers <= 0 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, loan := range loans {
		g.Go(func() error {
			outcomes[i] = s.provisionLoan(ctx, loan.LoanID, p, accounts, userID)
			return nil
		})
	}
	_ = g.Wait()

	summary := &domain.ProvisionRunSummary{Period: p.String(), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case domain.ProvisionPosted:
			summary.Processed++
			summary.TotalDelta = summary.TotalDelta.Add(o.Delta)
		case domain.ProvisionSkipped:
			summary.Skipped++
		case domain.ProvisionFailed:
			summary.Failed++
		}
	}

	s.LogInfo(ctx, "Provisioning run finished",
		slog.String("period", summary.Period),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.String("total_delta", summary.TotalDelta.StringFixed(domain.MoneyPlaces)))
	return summary, nil
}

func (s *provisioningService) provisionLoan(ctx context.Context, loanID string, p domain.Period, accounts provisionAccounts, userID string) domain.ProvisionOutcome {
	outcome := domain.ProvisionOutcome{LoanID: loanID}
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanActive {
			outcome.Status = domain.ProvisionSkipped
			return nil
		}
		schedule, err := s.loanRepo.FindScheduleByLoanID(ctx, loanID)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		asOf := p.EndDate()
		outcome.OverdueDays = domain.OverdueDays(schedule, asOf)
		outcome.Collectibility = domain.ClassifyOverdue(outcome.OverdueDays)
		rate, err := s.settings.ProvisionRates.RateFor(outcome.Collectibility)
		if err != nil {
			return err
		}
		outcome.Outstanding = loan.RemainingBalance
		outcome.Required = domain.RoundMoney(loan.RemainingBalance.Mul(rate))

		previous, err := s.provisionRepo.FindLatestProvision(ctx, loanID)
		switch {
		case err == nil:
			// The booked allowance already reflects the later month.
			if previous.Period > p.String() {
				return apperrors.NewStateError("loan %s is already provisioned for %s", loanID, previous.Period).
					WithField("period", p.String()).
					WithField("latest_period", previous.Period)
			}
			outcome.Previous = previous.Amount
		case errors.Is(err, apperrors.ErrNotFound):
			outcome.Previous = decimal.Zero
		default:
			return fmt.Errorf("failed to load previous provision: %w", err)
		}
		outcome.Delta = outcome.Required.Sub(outcome.Previous)

		now := s.Now()
		if loan.Collectibility != outcome.Collectibility {
			loan.Collectibility = outcome.Collectibility
			loan.Touch(userID, now)
			if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
				return fmt.Errorf("failed to update collectibility: %w", err)
			}
		}

		if outcome.Delta.IsZero() {
			outcome.Status = domain.ProvisionSkipped
			return nil
		}

		amount := outcome.Delta.Abs()
		debit, credit := accounts.expense, accounts.allowance
		if outcome.Delta.IsNegative() {
			debit, credit = credit, debit
		}
		entry := domain.JournalEntry{
			EntryDate:     asOf,
			Description:   fmt.Sprintf("CKPN %s loan %s (%s)", p, loanID, outcome.Collectibility),
			ReferenceType: domain.RefProvision,
			ReferenceID:   loanID,
			Lines: []domain.JournalLine{
				domain.DebitLine(debit, amount, "provision adjustment"),
				domain.CreditLine(credit, amount, "provision adjustment"),
			},
		}
		posted, err := s.poster.PostEntry(ctx, entry, userID)
		if err != nil {
			return err
		}
		outcome.JournalID = posted.JournalID

		provision := domain.CKPNProvision{
			ProvisionID:    s.NewID(),
			LoanID:         loanID,
			Period:         p.String(),
			Collectibility: outcome.Collectibility,
			OverdueDays:    outcome.OverdueDays,
			Rate:           rate,
			Outstanding:    outcome.Outstanding,
			Amount:         outcome.Required,
			JournalID:      posted.JournalID,
			AuditFields:    domain.NewAuditFields(userID, now),
		}
		if err := s.provisionRepo.UpsertProvision(ctx, provision); err != nil {
			return fmt.Errorf("failed to store provision: %w", err)
		}
		outcome.Status = domain.ProvisionPosted
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Provisioning failed for loan", slog.String("loan_id", loanID), slog.String("period", p.String()))
		return domain.ProvisionOutcome{LoanID: loanID, Status: domain.ProvisionFailed, Error: err.Error()}
	}
	return outcome
}

// ListProvisions returns the stored provisions of one period.
func (s *provisioningService) ListProvisions(ctx context.Context, period string) ([]domain.CKPNProvision, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	provisions, err := s.provisionRepo.ListProvisionsByPeriod(ctx, p.String())
	if err != nil {
		s.LogError(ctx, err, "Failed to list provisions", slog.String("period", p.String()))
		return nil, fmt.Errorf("failed to list provisions: %w", err)
	}
	if provisions == nil {
		provisions = []domain.CKPNProvision{}
	}
	return provisions, nil
}
