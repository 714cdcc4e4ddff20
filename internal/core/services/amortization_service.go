package services

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var monthsTimesPercent = decimal.NewFromInt(1200)

type amortizationService struct{}

// NewAmortizationService creates the flat-rate schedule calculator.
func NewAmortizationService() portssvc.AmortizationSvc {
	return &amortizationService{}
}

var _ portssvc.AmortizationSvc = (*amortizationService)(nil)

// GetSummary builds a flat-rate schedule. Every installment but the last
// repays P/n truncated to cents; the last repays the remainder. Interest is
// the same each month, except that the last installment gives up the
// principal residue from its interest so the monthly total stays constant.
func (s *amortizationService) GetSummary(principal, annualRatePct decimal.Decimal, termMonths int, startDate time.Time) (*domain.AmortizationSummary, error) {
	if err := validateLoanTerms(principal, annualRatePct, termMonths); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(termMonths))
	monthlyPrincipal := principal.Div(n).Truncate(domain.MoneyPlaces)
	monthlyInterest := domain.RoundMoney(principal.Mul(annualRatePct).Div(monthsTimesPercent))
	monthlyPayment := monthlyPrincipal.Add(monthlyInterest)
	residue := principal.Sub(monthlyPrincipal.Mul(n))

	start := domain.DateOnly(startDate)
	summary := &domain.AmortizationSummary{
		Principal:        principal,
		AnnualRatePct:    annualRatePct,
		TermMonths:       termMonths,
		StartDate:        start,
		MonthlyPrincipal: monthlyPrincipal,
		MonthlyInterest:  monthlyInterest,
		MonthlyPayment:   monthlyPayment,
		Schedule:         make([]domain.Installment, termMonths),
	}

	for i := 1; i <= termMonths; i++ {
		p, in := monthlyPrincipal, monthlyInterest
		if i == termMonths {
			p = p.Add(residue)
			if in.GreaterThanOrEqual(residue) {
				in = in.Sub(residue)
			}
		}
		summary.Schedule[i-1] = domain.Installment{
			InstallmentNo: i,
			DueDate:       start.AddDate(0, i, 0),
			Principal:     p,
			Interest:      in,
			Total:         p.Add(in),
		}
		summary.TotalPrincipal = summary.TotalPrincipal.Add(p)
		summary.TotalInterest = summary.TotalInterest.Add(in)
	}
	summary.TotalPayable = summary.TotalPrincipal.Add(summary.TotalInterest)
	return summary, nil
}

func validateLoanTerms(principal, annualRatePct decimal.Decimal, termMonths int) error {
	if termMonths <= 0 {
		return apperrors.NewValidationError("term must be at least one month").WithField("termMonths", termMonths)
	}
	if !principal.IsPositive() {
		return apperrors.NewValidationError("principal must be positive").WithField("principal", principal.String())
	}
	if !domain.HasMoneyPrecision(principal) {
		return apperrors.NewValidationError("principal has more than %d decimals", domain.MoneyPlaces).
			WithField("principal", principal.String())
	}
	if annualRatePct.IsNegative() {
		return apperrors.NewValidationError("interest rate cannot be negative").WithField("annualRatePct", annualRatePct.String())
	}
	return nil
}
