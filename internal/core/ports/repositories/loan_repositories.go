package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// LoanReader defines read operations for loans, schedules and payments
type LoanReader interface {
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByStatus returns loans in the given status ordered by id.
	ListLoansByStatus(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error)

	// FindScheduleByLoanID returns installments ordered by installment number.
	FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.LoanSchedule, error)

	ListPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
}

// LoanWriter defines write operations for loans
type LoanWriter interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error
	UpdateLoan(ctx context.Context, loan domain.Loan) error

	// SaveSchedule stores a full installment set in one call.
	SaveSchedule(ctx context.Context, schedule []domain.LoanSchedule) error

	// MarkInstallmentPaid flips the paid flag. Returns ErrState if already paid.
	MarkInstallmentPaid(ctx context.Context, scheduleID string, paidAt time.Time) error

	SavePayment(ctx context.Context, payment domain.LoanPayment) error
}

// LoanTransactionSupport defines operations that must run inside a unit of work
type LoanTransactionSupport interface {
	// FindLoanByIDForUpdate retrieves and locks a loan row.
	FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LoanTransactionSupport
}
