package services

import (
	"math"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/shopspring/decimal"
)

const (
	// monthly rate bracket searched by the solver
	eirLowerBound = 0.0
	eirUpperBound = 1.0

	monthlyRatePlaces = 10
	annualRatePlaces  = 4
)

type interestDisclosureService struct {
	amortization  portssvc.AmortizationSvc
	maxIterations int
	tolerance     float64
}

// NewInterestDisclosureService creates the EIR calculator.
func NewInterestDisclosureService(amortization portssvc.AmortizationSvc, settings config.LendingSettings) portssvc.InterestDisclosureSvc {
	return &interestDisclosureService{
		amortization:  amortization,
		maxIterations: settings.EIRMaxIterations,
		tolerance:     settings.EIRTolerance,
	}
}

var _ portssvc.InterestDisclosureSvc = (*interestDisclosureService)(nil)

// CalculateEIR finds the monthly rate r at which the installment totals of the
// flat schedule have a present value equal to principal less fees.
// The root is bracketed in [0, 1] and found by bisection.
//
// When no root lies in the bracket the nearest bound is returned together
// with a convergence error.
func (s *interestDisclosureService) CalculateEIR(principal, annualRatePct, fees decimal.Decimal, termMonths int) (*domain.EIRResult, error) {
	if fees.IsNegative() {
		return nil, apperrors.NewValidationError("fees cannot be negative").WithField("fees", fees.String())
	}
	summary, err := s.amortization.GetSummary(principal, annualRatePct, termMonths, time.Time{})
	if err != nil {
		return nil, err
	}
	netProceeds := principal.Sub(fees)
	if !netProceeds.IsPositive() {
		return nil, apperrors.NewValidationError("fees consume the whole principal").
			WithField("principal", principal.String()).
			WithField("fees", fees.String())
	}

	// The last installment can differ from the others by the rounding residue.
	payments := make([]float64, len(summary.Schedule))
	undiscounted := decimal.Zero
	for i, row := range summary.Schedule {
		payments[i] = row.Total.InexactFloat64()
		undiscounted = undiscounted.Add(row.Total)
	}
	target := netProceeds.InexactFloat64()
	excess := func(r float64) float64 {
		return presentValue(payments, r) - target
	}

	result := &domain.EIRResult{
		MonthlyPayment: summary.MonthlyPayment,
		NetProceeds:    netProceeds,
	}

	lo, hi := eirLowerBound, eirUpperBound
	switch undiscounted.Cmp(netProceeds) {
	case 0:
		s.fill(result, lo, 0, true)
		return result, nil
	case -1:
		// Payments never recover the proceeds, even at zero interest.
		s.fill(result, lo, 0, false)
		return result, apperrors.NewConvergenceError(0, "lower")
	}
	if excess(hi) > 0 {
		s.fill(result, hi, 0, false)
		return result, apperrors.NewConvergenceError(0, "upper")
	}

	iterations := 0
	for hi-lo >= s.tolerance && iterations < s.maxIterations {
		iterations++
		mid := lo + (hi-lo)/2
		if excess(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	converged := hi-lo < s.tolerance
	s.fill(result, lo+(hi-lo)/2, iterations, converged)
	if !converged {
		return result, apperrors.NewConvergenceError(iterations, result.MonthlyRate.String())
	}
	return result, nil
}

func (s *interestDisclosureService) fill(result *domain.EIRResult, monthly float64, iterations int, converged bool) {
	result.MonthlyRate = decimal.NewFromFloat(monthly).Round(monthlyRatePlaces)
	result.AnnualRatePct = decimal.NewFromFloat(monthly * 12 * 100).Round(annualRatePlaces)
	result.Iterations = iterations
	result.Converged = converged
}

// presentValue discounts the k-th payment (1-based) by (1+r)^k.
func presentValue(payments []float64, r float64) float64 {
	pv := 0.0
	for k, payment := range payments {
		pv += payment / math.Pow(1+r, float64(k+1))
	}
	return pv
}
