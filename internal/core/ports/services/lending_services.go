package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// AmortizationSvc builds flat-rate installment schedules.
type AmortizationSvc interface {
	// GetSummary returns the schedule of a flat-rate loan starting at startDate.
	GetSummary(principal, annualRatePct decimal.Decimal, termMonths int, startDate time.Time) (*domain.AmortizationSummary, error)
}

// InterestDisclosureSvc computes the effective interest rate of a flat-rate loan.
type InterestDisclosureSvc interface {
	// CalculateEIR returns the annual effective rate in percent. When no root
	// lies in the search bracket the closest bound is returned along with a
	// ConvergenceError.
	CalculateEIR(principal, annualRatePct, fees decimal.Decimal, termMonths int) (*domain.EIRResult, error)
}

// LoanReaderSvc defines read operations for loans
type LoanReaderSvc interface {
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	GetSchedule(ctx context.Context, loanID string) ([]domain.LoanSchedule, error)
	ListPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error)

	// Simulate prices a prospective loan without storing anything.
	Simulate(req dto.SimulateLoanRequest) (*dto.LoanSimulationResponse, error)
}

// LoanWriterSvc defines the loan lifecycle
type LoanWriterSvc interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error)
	SubmitForApproval(ctx context.Context, loanID string, userID string) (*domain.Loan, error)

	// ApproveLoan fixes the disbursement date and stores the full schedule.
	ApproveLoan(ctx context.Context, loanID string, req dto.ApproveLoanRequest, approverID string) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID string, reason string, userID string) (*domain.Loan, error)

	// DisburseLoan posts the disbursement entry and activates the loan.
	DisburseLoan(ctx context.Context, loanID string, userID string) (*domain.Loan, error)

	// PayInstallment settles the earliest unpaid installment.
	PayInstallment(ctx context.Context, loanID string, req dto.PayInstallmentRequest, userID string) (*domain.LoanPayment, error)

	MarkDefaulted(ctx context.Context, loanID string, userID string) (*domain.Loan, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}

// ProvisioningSvc runs month-end loan-loss provisioning (CKPN).
type ProvisioningSvc interface {
	// RunMonthlyProvision classifies every active loan as of the end of period
	// (YYYY-MM) and posts the change in required provision. Loans are
	// processed independently; one failure does not stop the others.
	RunMonthlyProvision(ctx context.Context, period string, userID string) (*domain.ProvisionRunSummary, error)

	ListProvisions(ctx context.Context, period string) ([]domain.CKPNProvision, error)
}
