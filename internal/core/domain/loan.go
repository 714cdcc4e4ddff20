package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a member loan.
type LoanStatus string

const (
	LoanPending         LoanStatus = "PENDING"
	LoanWaitingApproval LoanStatus = "WAITING_APPROVAL"
	LoanApproved        LoanStatus = "APPROVED"
	LoanActive          LoanStatus = "ACTIVE"
	LoanPaidOff         LoanStatus = "PAID_OFF"
	LoanDefaulted       LoanStatus = "DEFAULTED"
	LoanRejected        LoanStatus = "REJECTED"
)

// IsValid reports whether s is a known status.
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanPending, LoanWaitingApproval, LoanApproved, LoanActive,
		LoanPaidOff, LoanDefaulted, LoanRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a loan may move from s to next.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanPending:
		return next == LoanWaitingApproval || next == LoanRejected
	case LoanWaitingApproval:
		return next == LoanApproved || next == LoanRejected
	case LoanApproved:
		return next == LoanActive
	case LoanActive:
		return next == LoanPaidOff || next == LoanDefaulted
	case LoanPaidOff, LoanDefaulted, LoanRejected:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s LoanStatus) IsTerminal() bool {
	switch s {
	case LoanPaidOff, LoanDefaulted, LoanRejected:
		return true
	case LoanPending, LoanWaitingApproval, LoanApproved, LoanActive:
		return false
	default:
		return false
	}
}

// Loan is a flat-rate member loan.
type Loan struct {
	LoanID                string          `json:"loanID"`
	MemberID              string          `json:"memberID"`
	Principal             decimal.Decimal `json:"principal"`
	AnnualRatePct         decimal.Decimal `json:"annualRatePct"`
	TermMonths            int             `json:"termMonths"`
	AdminFee              decimal.Decimal `json:"adminFee"`
	DisbursementDate      *time.Time      `json:"disbursementDate,omitempty"`
	Status                LoanStatus      `json:"status"`
	Collectibility        Collectibility  `json:"collectibility"`
	MonthlyPayment        decimal.Decimal `json:"monthlyPayment"`
	AmountPaid            decimal.Decimal `json:"amountPaid"`
	RemainingBalance      decimal.Decimal `json:"remainingBalance"` // outstanding principal
	ApprovedBy            string          `json:"approvedBy,omitempty"`
	DisbursementJournalID string          `json:"disbursementJournalID,omitempty"`
	AuditFields
}

// LoanSchedule is one installment of a loan's repayment plan.
type LoanSchedule struct {
	ScheduleID     string          `json:"scheduleID"`
	LoanID         string          `json:"loanID"`
	InstallmentNo  int             `json:"installmentNo"`
	DueDate        time.Time       `json:"dueDate"`
	Principal      decimal.Decimal `json:"principal"`
	Interest       decimal.Decimal `json:"interest"`
	Total          decimal.Decimal `json:"total"`
	IsPaid         bool            `json:"isPaid"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	ReminderSentAt *time.Time      `json:"reminderSentAt,omitempty"`
}

// LoanPayment settles one installment. Immutable once written.
type LoanPayment struct {
	PaymentID        string          `json:"paymentID"`
	LoanID           string          `json:"loanID"`
	InstallmentNo    int             `json:"installmentNo"`
	PaymentDate      time.Time       `json:"paymentDate"`
	PrincipalPaid    decimal.Decimal `json:"principalPaid"`
	InterestPaid     decimal.Decimal `json:"interestPaid"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	OutstandingAfter decimal.Decimal `json:"outstandingAfter"`
	Method           string          `json:"method"`
	JournalID        string          `json:"journalID"`
	AuditFields
}

// EarliestUnpaid returns the first unpaid installment by due date, or nil.
func EarliestUnpaid(schedule []LoanSchedule) *LoanSchedule {
	var earliest *LoanSchedule
	for i := range schedule {
		s := &schedule[i]
		if s.IsPaid {
			continue
		}
		if earliest == nil || s.DueDate.Before(earliest.DueDate) ||
			(s.DueDate.Equal(earliest.DueDate) && s.InstallmentNo < earliest.InstallmentNo) {
			earliest = s
		}
	}
	return earliest
}

// OverdueDays is the number of whole days between the earliest unpaid due
// date and asOf, clamped to zero.
func OverdueDays(schedule []LoanSchedule, asOf time.Time) int {
	earliest := EarliestUnpaid(schedule)
	if earliest == nil {
		return 0
	}
	days := int(DateOnly(asOf).Sub(DateOnly(earliest.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
