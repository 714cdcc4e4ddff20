package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/models"
	"github.com/SscSPs/coop_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `loan_id, member_id, principal, annual_rate_pct, term_months, admin_fee, disbursement_date,
	status, collectibility, monthly_payment, amount_paid, remaining_balance, approved_by, disbursement_journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

const scheduleColumns = `schedule_id, loan_id, installment_no, due_date, principal, interest, total, is_paid, paid_at, reminder_sent_at`

const paymentColumns = `payment_id, loan_id, installment_no, payment_date, principal_paid, interest_paid, total_paid,
	outstanding_after, method, journal_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) *PgxLoanRepository {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.LoanID, m.MemberID, m.Principal, m.AnnualRatePct, m.TermMonths, m.AdminFee, m.DisbursementDate,
		m.Status, m.Collectibility, m.MonthlyPayment, m.AmountPaid, m.RemainingBalance, m.ApprovedBy, m.DisbursementJournalID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "loan", m.LoanID)
	}
	return nil
}

// UpdateLoan writes every mutable column; the loan terms stay as created.
func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET disbursement_date = $2, status = $3, collectibility = $4, monthly_payment = $5, amount_paid = $6,
		    remaining_balance = $7, approved_by = $8, disbursement_journal_id = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE loan_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.LoanID, m.DisbursementDate, m.Status, m.Collectibility, m.MonthlyPayment, m.AmountPaid,
		m.RemainingBalance, m.ApprovedBy, m.DisbursementJournalID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "loan", m.LoanID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("loan", m.LoanID)
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, false)
}

func (r *PgxLoanRepository) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, true)
}

func (r *PgxLoanRepository) findLoan(ctx context.Context, loanID string, forUpdate bool) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan %s: %w", loanID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Loan])
	if err != nil {
		return nil, mapReadError(err, "loan", loanID)
	}
	loan := mapping.ToDomainLoan(m)
	return &loan, nil
}

func (r *PgxLoanRepository) ListLoansByStatus(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE status = $1 ORDER BY loan_id;`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s loans: %w", status, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Loan])
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan rows: %w", err)
	}
	loans := make([]domain.Loan, len(ms))
	for i, m := range ms {
		loans[i] = mapping.ToDomainLoan(m)
	}
	return loans, nil
}

// SaveSchedule inserts the whole installment set in one batch.
func (r *PgxLoanRepository) SaveSchedule(ctx context.Context, schedule []domain.LoanSchedule) error {
	if len(schedule) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO loan_schedules (` + scheduleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, s := range schedule {
		batch.Queue(query, s.ScheduleID, s.LoanID, s.InstallmentNo, s.DueDate, s.Principal, s.Interest, s.Total, s.IsPaid, s.PaidAt, s.ReminderSentAt)
	}
	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for range schedule {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = mapWriteError(err, "loan schedule", schedule[0].LoanID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close schedule batch: %w", err)
	}
	return batchErr
}

func (r *PgxLoanRepository) FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.LoanSchedule, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+scheduleColumns+` FROM loan_schedules WHERE loan_id = $1 ORDER BY installment_no;`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule of loan %s: %w", loanID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LoanSchedule])
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule of loan %s: %w", loanID, err)
	}
	schedule := make([]domain.LoanSchedule, len(ms))
	for i, m := range ms {
		schedule[i] = mapping.ToDomainLoanSchedule(m)
	}
	return schedule, nil
}

// MarkInstallmentPaid only flips unpaid rows, so a concurrent second payment
// of the same installment sees zero rows affected.
func (r *PgxLoanRepository) MarkInstallmentPaid(ctx context.Context, scheduleID string, paidAt time.Time) error {
	cmdTag, err := r.db(ctx).Exec(ctx,
		`UPDATE loan_schedules SET is_paid = TRUE, paid_at = $2 WHERE schedule_id = $1 AND is_paid = FALSE;`,
		scheduleID, paidAt)
	if err != nil {
		return mapWriteError(err, "installment", scheduleID)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loan_schedules WHERE schedule_id = $1);`, scheduleID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check installment %s: %w", scheduleID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("installment", scheduleID)
	}
	return apperrors.NewStateError("installment %s is already paid", scheduleID)
}

func (r *PgxLoanRepository) SavePayment(ctx context.Context, payment domain.LoanPayment) error {
	query := `
		INSERT INTO loan_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		payment.PaymentID, payment.LoanID, payment.InstallmentNo, payment.PaymentDate,
		payment.PrincipalPaid, payment.InterestPaid, payment.TotalPaid, payment.OutstandingAfter,
		payment.Method, payment.JournalID,
		payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "loan payment", payment.PaymentID)
	}
	return nil
}

func (r *PgxLoanRepository) ListPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+paymentColumns+` FROM loan_payments WHERE loan_id = $1 ORDER BY installment_no;`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of loan %s: %w", loanID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LoanPayment])
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments of loan %s: %w", loanID, err)
	}
	payments := make([]domain.LoanPayment, len(ms))
	for i, m := range ms {
		payments[i] = mapping.ToDomainLoanPayment(m)
	}
	return payments, nil
}
