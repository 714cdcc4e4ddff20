package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one computed row of a flat-rate schedule.
type Installment struct {
	InstallmentNo int             `json:"installmentNo"`
	DueDate       time.Time       `json:"dueDate"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	Total         decimal.Decimal `json:"total"`
}

// AmortizationSummary is a schedule with its aggregate totals.
type AmortizationSummary struct {
	Principal        decimal.Decimal `json:"principal"`
	AnnualRatePct    decimal.Decimal `json:"annualRatePct"`
	TermMonths       int             `json:"termMonths"`
	StartDate        time.Time       `json:"startDate"`
	MonthlyPrincipal decimal.Decimal `json:"monthlyPrincipal"`
	MonthlyInterest  decimal.Decimal `json:"monthlyInterest"`
	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
	TotalPrincipal   decimal.Decimal `json:"totalPrincipal"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
	TotalPayable     decimal.Decimal `json:"totalPayable"`
	Schedule         []Installment   `json:"schedule"`
}

// EIRResult is the effective rate implied by a flat-rate schedule.
type EIRResult struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	NetProceeds    decimal.Decimal `json:"netProceeds"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	AnnualRatePct  decimal.Decimal `json:"annualRatePct"`
	Iterations     int             `json:"iterations"`
	Converged      bool            `json:"converged"`
}

// ScheduleRows turns computed installments into persisted rows for a loan.
func ScheduleRows(loanID string, installments []Installment, newID func() string) []LoanSchedule {
	rows := make([]LoanSchedule, len(installments))
	for i, in := range installments {
		rows[i] = LoanSchedule{
			ScheduleID:    newID(),
			LoanID:        loanID,
			InstallmentNo: in.InstallmentNo,
			DueDate:       in.DueDate,
			Principal:     in.Principal,
			Interest:      in.Interest,
			Total:         in.Total,
		}
	}
	return rows
}
