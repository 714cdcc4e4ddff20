package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// Payment methods accepted for installments.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
)

type loanService struct {
	BaseService
	loanRepo      portsrepo.LoanRepositoryFacade
	provisionRepo portsrepo.ProvisionRepository
	amortization  portssvc.AmortizationSvc
	disclosure    portssvc.InterestDisclosureSvc
	poster        portssvc.JournalPosterSvc
	resolver      portssvc.AccountResolverSvc
	uow           *UnitOfWork
}

// NewLoanService creates the loan lifecycle service.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryFacade,
	provisionRepo portsrepo.ProvisionRepository,
	amortization portssvc.AmortizationSvc,
	disclosure portssvc.InterestDisclosureSvc,
	poster portssvc.JournalPosterSvc,
	resolver portssvc.AccountResolverSvc,
	uow *UnitOfWork,
) portssvc.LoanSvcFacade {
	return &loanService{
		BaseService:   newBaseService(),
		loanRepo:      loanRepo,
		provisionRepo: provisionRepo,
		amortization:  amortization,
		disclosure:    disclosure,
		poster:        poster,
		resolver:      resolver,
		uow:           uow,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan registers a PENDING application.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error) {
	if strings.TrimSpace(req.MemberID) == "" {
		return nil, apperrors.NewValidationError("member id is required")
	}
	if err := validateLoanTerms(req.Principal, req.AnnualRatePct, req.TermMonths); err != nil {
		return nil, err
	}
	if req.AdminFee.IsNegative() || !domain.HasMoneyPrecision(req.AdminFee) || !req.AdminFee.LessThan(req.Principal) {
		return nil, apperrors.NewValidationError("admin fee must be a non-negative amount below the principal").
			WithField("adminFee", req.AdminFee.String())
	}

	loan := domain.Loan{
		LoanID:           s.NewID(),
		MemberID:         req.MemberID,
		Principal:        req.Principal,
		AnnualRatePct:    req.AnnualRatePct,
		TermMonths:       req.TermMonths,
		AdminFee:         req.AdminFee,
		Status:           domain.LoanPending,
		Collectibility:   domain.Lancar,
		RemainingBalance: req.Principal,
		AuditFields:      domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("member_id", req.MemberID))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}
	s.LogInfo(ctx, "Loan application created", slog.String("loan_id", loan.LoanID), slog.String("member_id", loan.MemberID))
	return &loan, nil
}

func (s *loanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.loanRepo.FindLoanByID(ctx, loanID)
}

func (s *loanService) GetSchedule(ctx context.Context, loanID string) ([]domain.LoanSchedule, error) {
	if _, err := s.loanRepo.FindLoanByID(ctx, loanID); err != nil {
		return nil, err
	}
	schedule, err := s.loanRepo.FindScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		schedule = []domain.LoanSchedule{}
	}
	return schedule, nil
}

func (s *loanService) ListPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	if _, err := s.loanRepo.FindLoanByID(ctx, loanID); err != nil {
		return nil, err
	}
	payments, err := s.loanRepo.ListPaymentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	if payments == nil {
		payments = []domain.LoanPayment{}
	}
	return payments, nil
}

// Simulate computes a schedule and its effective rate without storing anything.
// A solver that cannot converge still yields its best bound, with a warning.
func (s *loanService) Simulate(req dto.SimulateLoanRequest) (*dto.LoanSimulationResponse, error) {
	start := s.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	summary, err := s.amortization.GetSummary(req.Principal, req.AnnualRatePct, req.TermMonths, start)
	if err != nil {
		return nil, err
	}
	resp := &dto.LoanSimulationResponse{Summary: summary}
	eir, err := s.disclosure.CalculateEIR(req.Principal, req.AnnualRatePct, req.Fees, req.TermMonths)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrConvergence):
		resp.Warning = err.Error()
	default:
		return nil, err
	}
	resp.EIR = eir
	return resp, nil
}

func (s *loanService) SubmitForApproval(ctx context.Context, loanID string, userID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanWaitingApproval, userID, nil)
}

// ApproveLoan fixes the disbursement date and stores the full repayment schedule.
func (s *loanService) ApproveLoan(ctx context.Context, loanID string, req dto.ApproveLoanRequest, approverID string) (*domain.Loan, error) {
	if req.DisbursementDate.IsZero() {
		return nil, apperrors.NewValidationError("disbursement date is required")
	}
	return s.transition(ctx, loanID, domain.LoanApproved, approverID, func(ctx context.Context, loan *domain.Loan) error {
		start := domain.DateOnly(req.DisbursementDate)
		summary, err := s.amortization.GetSummary(loan.Principal, loan.AnnualRatePct, loan.TermMonths, start)
		if err != nil {
			return err
		}
		if err := s.loanRepo.SaveSchedule(ctx, domain.ScheduleRows(loan.LoanID, summary.Schedule, s.NewID)); err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}
		loan.DisbursementDate = &start
		loan.MonthlyPayment = summary.MonthlyPayment
		loan.ApprovedBy = approverID
		return nil
	})
}

func (s *loanService) RejectLoan(ctx context.Context, loanID string, reason string, userID string) (*domain.Loan, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("rejection reason is required")
	}
	loan, err := s.transition(ctx, loanID, domain.LoanRejected, userID, nil)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Loan rejected", slog.String("loan_id", loanID), slog.String("reason", reason))
	return loan, nil
}

// DisburseLoan activates an approved loan and posts Dr receivable against
// cash, with the admin fee withheld and recognised as income.
func (s *loanService) DisburseLoan(ctx context.Context, loanID string, userID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanActive, userID, func(ctx context.Context, loan *domain.Loan) error {
		receivable, err := s.resolver.Resolve(ctx, domain.RoleLoanReceivable)
		if err != nil {
			return err
		}
		cash, err := s.resolver.Resolve(ctx, domain.RoleCash)
		if err != nil {
			return err
		}
		lines := []domain.JournalLine{
			domain.DebitLine(receivable.Code, loan.Principal, "principal"),
			domain.CreditLine(cash.Code, loan.Principal.Sub(loan.AdminFee), "net disbursement"),
		}
		if loan.AdminFee.IsPositive() {
			feeIncome, err := s.resolver.Resolve(ctx, domain.RoleAdminFeeIncome)
			if err != nil {
				return err
			}
			lines = append(lines, domain.CreditLine(feeIncome.Code, loan.AdminFee, "admin fee"))
		}

		date := s.Now()
		if loan.DisbursementDate != nil {
			date = *loan.DisbursementDate
		}
		posted, err := s.poster.PostEntry(ctx, domain.JournalEntry{
			EntryDate:     date,
			Description:   fmt.Sprintf("Disbursement of loan %s to member %s", loan.LoanID, loan.MemberID),
			ReferenceType: domain.RefDisbursement,
			ReferenceID:   loan.LoanID,
			Lines:         lines,
		}, userID)
		if err != nil {
			return err
		}
		loan.DisbursementJournalID = posted.JournalID
		return nil
	})
}

// PayInstallment settles the earliest unpaid installment in full.
func (s *loanService) PayInstallment(ctx context.Context, loanID string, req dto.PayInstallmentRequest, userID string) (*domain.LoanPayment, error) {
	method := req.Method
	switch method {
	case "":
		method = PaymentMethodCash
	case PaymentMethodCash, PaymentMethodTransfer:
	default:
		return nil, apperrors.NewValidationError("unknown payment method %q", req.Method)
	}
	date := req.Date
	if date.IsZero() {
		date = s.Now()
	}
	date = domain.DateOnly(date)

	var payment domain.LoanPayment
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanActive {
			return apperrors.NewStateError("loan %s is %s, payments need an ACTIVE loan", loanID, loan.Status).
				WithField("loan_id", loanID)
		}
		schedule, err := s.loanRepo.FindScheduleByLoanID(ctx, loanID)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		due := domain.EarliestUnpaid(schedule)
		if due == nil {
			return apperrors.NewStateError("loan %s has no unpaid installment", loanID).WithField("loan_id", loanID)
		}

		cash, err := s.resolver.Resolve(ctx, domain.RoleCash)
		if err != nil {
			return err
		}
		receivable, err := s.resolver.Resolve(ctx, domain.RoleLoanReceivable)
		if err != nil {
			return err
		}
		lines := []domain.JournalLine{
			domain.DebitLine(cash.Code, due.Total, method),
			domain.CreditLine(receivable.Code, due.Principal, "principal"),
		}
		if due.Interest.IsPositive() {
			income, err := s.resolver.Resolve(ctx, domain.RoleInterestIncome)
			if err != nil {
				return err
			}
			lines = append(lines, domain.CreditLine(income.Code, due.Interest, "interest"))
		}
		posted, err := s.poster.PostEntry(ctx, domain.JournalEntry{
			EntryDate:     date,
			Description:   fmt.Sprintf("Installment %d of loan %s", due.InstallmentNo, loanID),
			ReferenceType: domain.RefLoanPayment,
			ReferenceID:   loanID,
			Lines:         lines,
		}, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := s.loanRepo.MarkInstallmentPaid(ctx, due.ScheduleID, date); err != nil {
			return err
		}
		loan.AmountPaid = loan.AmountPaid.Add(due.Total)
		loan.RemainingBalance = loan.RemainingBalance.Sub(due.Principal)
		payment = domain.LoanPayment{
			PaymentID:        s.NewID(),
			LoanID:           loanID,
			InstallmentNo:    due.InstallmentNo,
			PaymentDate:      date,
			PrincipalPaid:    due.Principal,
			InterestPaid:     due.Interest,
			TotalPaid:        due.Total,
			OutstandingAfter: loan.RemainingBalance,
			Method:           method,
			JournalID:        posted.JournalID,
			AuditFields:      domain.NewAuditFields(userID, now),
		}
		if err := s.loanRepo.SavePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		unpaid := 0
		for _, row := range schedule {
			if !row.IsPaid && row.ScheduleID != due.ScheduleID {
				unpaid++
			}
		}
		if unpaid == 0 {
			loan.Status = domain.LoanPaidOff
			loan.Collectibility = domain.Lancar
			if err := s.releaseProvision(ctx, loan.LoanID, date, userID, now); err != nil {
				return err
			}
		}
		loan.Touch(userID, now)
		if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record installment payment", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Installment paid",
		slog.String("loan_id", loanID),
		slog.Int("installment_no", payment.InstallmentNo),
		slog.String("outstanding", payment.OutstandingAfter.StringFixed(domain.MoneyPlaces)))
	return &payment, nil
}

// releaseProvision reverses the allowance still booked for a repaid loan and
// stores a zero provision, so later runs and reports see nothing outstanding.
func (s *loanService) releaseProvision(ctx context.Context, loanID string, date time.Time, userID string, now time.Time) error {
	latest, err := s.provisionRepo.FindLatestProvision(ctx, loanID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to load provision: %w", err)
	case latest.Amount.IsZero():
		return nil
	}

	allowance, err := s.resolver.Resolve(ctx, domain.RoleLoanLossAllowance)
	if err != nil {
		return err
	}
	expense, err := s.resolver.Resolve(ctx, domain.RoleProvisionExpense)
	if err != nil {
		return err
	}
	posted, err := s.poster.PostEntry(ctx, domain.JournalEntry{
		EntryDate:     date,
		Description:   fmt.Sprintf("CKPN release on payoff of loan %s", loanID),
		ReferenceType: domain.RefProvision,
		ReferenceID:   loanID,
		Lines: []domain.JournalLine{
			domain.DebitLine(allowance.Code, latest.Amount, "provision release"),
			domain.CreditLine(expense.Code, latest.Amount, "provision release"),
		},
	}, userID)
	if err != nil {
		return err
	}

	period := domain.PeriodOf(date).String()
	if latest.Period > period {
		period = latest.Period
	}
	if err := s.provisionRepo.UpsertProvision(ctx, domain.CKPNProvision{
		ProvisionID:    s.NewID(),
		LoanID:         loanID,
		Period:         period,
		Collectibility: domain.Lancar,
		Rate:           decimal.Zero,
		Outstanding:    decimal.Zero,
		Amount:         decimal.Zero,
		JournalID:      posted.JournalID,
		AuditFields:    domain.NewAuditFields(userID, now),
	}); err != nil {
		return fmt.Errorf("failed to store released provision: %w", err)
	}
	s.LogInfo(ctx, "Provision released on payoff",
		slog.String("loan_id", loanID),
		slog.String("amount", latest.Amount.StringFixed(domain.MoneyPlaces)))
	return nil
}

func (s *loanService) MarkDefaulted(ctx context.Context, loanID string, userID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanDefaulted, userID, nil)
}

// transition moves a loan to next after mutate succeeds, all in one unit of work.
func (s *loanService) transition(ctx context.Context, loanID string, next domain.LoanStatus, userID string, mutate func(ctx context.Context, loan *domain.Loan) error) (*domain.Loan, error) {
	var updated *domain.Loan
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(next) {
			return apperrors.NewStateError("loan %s cannot move from %s to %s", loanID, loan.Status, next).
				WithField("loan_id", loanID)
		}
		if mutate != nil {
			if err := mutate(ctx, loan); err != nil {
				return err
			}
		}
		loan.Status = next
		loan.Touch(userID, s.Now())
		if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Loan transition failed", slog.String("loan_id", loanID), slog.String("to", string(next)))
		return nil, err
	}
	s.LogInfo(ctx, "Loan status changed", slog.String("loan_id", loanID), slog.String("status", string(next)))
	return updated, nil
}
