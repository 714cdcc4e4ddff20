package dto

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to open a loan application.
type CreateLoanRequest struct {
	MemberID      string          `json:"memberID" binding:"required"`
	Principal     decimal.Decimal `json:"principal" binding:"dgt0"`
	AnnualRatePct decimal.Decimal `json:"annualRatePct" binding:"dgte0"`
	TermMonths    int             `json:"termMonths" binding:"required,gt=0,lte=360"`
	AdminFee      decimal.Decimal `json:"adminFee" binding:"dgte0"`
}

// RejectLoanRequest carries the reason a loan application was refused.
type RejectLoanRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ApproveLoanRequest sets the disbursement date; the schedule starts from it.
type ApproveLoanRequest struct {
	DisbursementDate time.Time `json:"disbursementDate" binding:"required"`
}

// PayInstallmentRequest records payment of the next unpaid installment.
type PayInstallmentRequest struct {
	Date   time.Time `json:"date" binding:"required"`
	Method string    `json:"method" binding:"omitempty,oneof=CASH TRANSFER"`
}

// SimulateLoanRequest is a what-if schedule with its effective rate.
type SimulateLoanRequest struct {
	Principal     decimal.Decimal `json:"principal" form:"principal" binding:"dgt0"`
	AnnualRatePct decimal.Decimal `json:"annualRatePct" form:"annualRatePct" binding:"dgte0"`
	TermMonths    int             `json:"termMonths" form:"termMonths" binding:"required,gt=0,lte=360"`
	Fees          decimal.Decimal `json:"fees" form:"fees" binding:"dgte0"`
	StartDate     *time.Time      `json:"startDate" form:"startDate" time_format:"2006-01-02"`
}

// LoanSimulationResponse pairs a flat-rate schedule with its effective rate.
type LoanSimulationResponse struct {
	Summary *domain.AmortizationSummary `json:"summary"`
	EIR     *domain.EIRResult           `json:"eir"`
	Warning string                      `json:"warning,omitempty"`
}
