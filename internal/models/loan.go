package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a row of the loans table.
type Loan struct {
	LoanID                string          `db:"loan_id"`
	MemberID              string          `db:"member_id"`
	Principal             decimal.Decimal `db:"principal"`
	AnnualRatePct         decimal.Decimal `db:"annual_rate_pct"`
	TermMonths            int             `db:"term_months"`
	AdminFee              decimal.Decimal `db:"admin_fee"`
	DisbursementDate      *time.Time      `db:"disbursement_date"`
	Status                string          `db:"status"`
	Collectibility        string          `db:"collectibility"`
	MonthlyPayment        decimal.Decimal `db:"monthly_payment"`
	AmountPaid            decimal.Decimal `db:"amount_paid"`
	RemainingBalance      decimal.Decimal `db:"remaining_balance"`
	ApprovedBy            *string         `db:"approved_by"`
	DisbursementJournalID *string         `db:"disbursement_journal_id"`
	AuditFields
}

// LoanSchedule is one installment row.
type LoanSchedule struct {
	ScheduleID     string          `db:"schedule_id"`
	LoanID         string          `db:"loan_id"`
	InstallmentNo  int             `db:"installment_no"`
	DueDate        time.Time       `db:"due_date"`
	Principal      decimal.Decimal `db:"principal"`
	Interest       decimal.Decimal `db:"interest"`
	Total          decimal.Decimal `db:"total"`
	IsPaid         bool            `db:"is_paid"`
	PaidAt         *time.Time      `db:"paid_at"`
	ReminderSentAt *time.Time      `db:"reminder_sent_at"`
}

// LoanPayment is an immutable payment row.
type LoanPayment struct {
	PaymentID        string          `db:"payment_id"`
	LoanID           string          `db:"loan_id"`
	InstallmentNo    int             `db:"installment_no"`
	PaymentDate      time.Time       `db:"payment_date"`
	PrincipalPaid    decimal.Decimal `db:"principal_paid"`
	InterestPaid     decimal.Decimal `db:"interest_paid"`
	TotalPaid        decimal.Decimal `db:"total_paid"`
	OutstandingAfter decimal.Decimal `db:"outstanding_after"`
	Method           string          `db:"method"`
	JournalID        string          `db:"journal_id"`
	AuditFields
}

// Provision is one CKPN record per loan and period.
type Provision struct {
	ProvisionID    string          `db:"provision_id"`
	LoanID         string          `db:"loan_id"`
	Period         string          `db:"period"`
	Collectibility string          `db:"collectibility"`
	OverdueDays    int             `db:"overdue_days"`
	Rate           decimal.Decimal `db:"rate"`
	Outstanding    decimal.Decimal `db:"outstanding"`
	Amount         decimal.Decimal `db:"amount"`
	JournalID      *string         `db:"journal_id"`
	AuditFields
}
