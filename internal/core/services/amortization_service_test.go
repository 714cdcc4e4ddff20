package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetSummary_EvenSplit(t *testing.T) {
	svc := services.NewAmortizationService()
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	summary, err := svc.GetSummary(dec("12000000"), dec("12"), 12, start)
	require.NoError(t, err)

	assert.True(t, summary.MonthlyPrincipal.Equal(dec("1000000")))
	assert.True(t, summary.MonthlyInterest.Equal(dec("120000")))
	assert.True(t, summary.MonthlyPayment.Equal(dec("1120000")))
	assert.True(t, summary.TotalPayable.Equal(dec("13440000")), summary.TotalPayable.String())
	require.Len(t, summary.Schedule, 12)
	for _, in := range summary.Schedule {
		assert.True(t, in.Total.Equal(dec("1120000")), "installment %d", in.InstallmentNo)
	}
	// AddDate normalises month-end overflow.
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), summary.Schedule[0].DueDate)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), summary.Schedule[11].DueDate)
}

func TestGetSummary_ResidueGoesToLastInstallment(t *testing.T) {
	svc := services.NewAmortizationService()

	summary, err := svc.GetSummary(dec("1000000"), dec("10"), 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, summary.MonthlyPrincipal.Equal(dec("333333.33")))
	assert.True(t, summary.MonthlyInterest.Equal(dec("8333.33")))

	last := summary.Schedule[2]
	assert.True(t, last.Principal.Equal(dec("333333.34")), last.Principal.String())
	assert.True(t, last.Interest.Equal(dec("8333.32")), last.Interest.String())
	assert.True(t, last.Total.Equal(summary.MonthlyPayment))

	assert.True(t, summary.TotalPrincipal.Equal(dec("1000000")))
	assert.True(t, summary.TotalInterest.Equal(dec("24999.98")), summary.TotalInterest.String())
	assert.True(t, summary.TotalPayable.Equal(dec("1024999.98")))
}

func TestGetSummary_TotalInterestGivesUpResidue(t *testing.T) {
	svc := services.NewAmortizationService()

	// Flat interest would be 1000000 x 10% / 12 x 3 = 25000. Rounding the
	// monthly interest loses 0.01 and the last installment gives up the
	// 0.01 principal residue from its interest to keep its total constant.
	summary, err := svc.GetSummary(dec("1000000"), dec("10"), 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	flat := dec("25000")
	residue := summary.Schedule[2].Principal.Sub(summary.MonthlyPrincipal)
	assert.True(t, residue.Equal(dec("0.01")))
	assert.True(t, summary.TotalInterest.Equal(summary.MonthlyInterest.Mul(decimal.NewFromInt(3)).Sub(residue)))
	assert.True(t, flat.Sub(summary.TotalInterest).Equal(dec("0.02")), summary.TotalInterest.String())
	for _, in := range summary.Schedule {
		assert.True(t, in.Total.Equal(summary.MonthlyPayment), "installment %d", in.InstallmentNo)
	}
}

func TestGetSummary_ZeroRateLastInstallmentLarger(t *testing.T) {
	svc := services.NewAmortizationService()

	summary, err := svc.GetSummary(dec("100"), decimal.Zero, 3, time.Now())
	require.NoError(t, err)
	assert.True(t, summary.Schedule[0].Total.Equal(dec("33.33")))
	assert.True(t, summary.Schedule[2].Total.Equal(dec("33.34")))
	assert.True(t, summary.TotalPayable.Equal(dec("100")))
}

func TestGetSummary_RejectsBadInput(t *testing.T) {
	svc := services.NewAmortizationService()
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		term      int
	}{
		{"zero term", dec("1000"), dec("12"), 0},
		{"negative term", dec("1000"), dec("12"), -1},
		{"zero principal", decimal.Zero, dec("12"), 12},
		{"negative rate", dec("1000"), dec("-1"), 12},
		{"sub-cent principal", dec("1000.001"), dec("12"), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetSummary(tt.principal, tt.rate, tt.term, time.Now())
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func newEIRService(maxIterations int) portssvc.InterestDisclosureSvc {
	settings := config.DefaultLendingSettings()
	settings.EIRMaxIterations = maxIterations
	return services.NewInterestDisclosureService(services.NewAmortizationService(), settings)
}

func TestCalculateEIR_Converges(t *testing.T) {
	svc := newEIRService(200)

	res, err := svc.CalculateEIR(dec("12000000"), dec("12"), decimal.Zero, 12)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.True(t, res.MonthlyPayment.Equal(dec("1120000")))
	assert.InDelta(t, 21.4572, res.AnnualRatePct.InexactFloat64(), 0.001)
	assert.Greater(t, res.Iterations, 0)
	assert.LessOrEqual(t, res.Iterations, 200)

	withFees, err := svc.CalculateEIR(dec("12000000"), dec("12"), dec("120000"), 12)
	require.NoError(t, err)
	assert.True(t, withFees.NetProceeds.Equal(dec("11880000")))
	assert.InDelta(t, 23.4137, withFees.AnnualRatePct.InexactFloat64(), 0.001)
	assert.True(t, withFees.AnnualRatePct.GreaterThan(res.AnnualRatePct))
}

func TestCalculateEIR_ZeroCostLoan(t *testing.T) {
	res, err := newEIRService(200).CalculateEIR(dec("1200"), decimal.Zero, decimal.Zero, 12)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.True(t, res.AnnualRatePct.IsZero())
}

func TestCalculateEIR_ZeroCostUnevenSplit(t *testing.T) {
	// 33.33 + 33.33 + 33.34 repays 100 exactly at zero interest.
	res, err := newEIRService(200).CalculateEIR(dec("100"), decimal.Zero, decimal.Zero, 3)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.True(t, res.MonthlyRate.IsZero())
	assert.True(t, res.AnnualRatePct.IsZero())
}

func TestCalculateEIR_DiscountsActualInstallments(t *testing.T) {
	// 1000 at 0% over 3 with a 0.01 fee: the last installment (333.34) carries
	// the residue, so the rate is small but positive.
	res, err := newEIRService(200).CalculateEIR(dec("1000"), decimal.Zero, dec("0.01"), 3)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.True(t, res.MonthlyRate.IsPositive())
	assert.Less(t, res.AnnualRatePct.InexactFloat64(), 0.01)
}

func TestCalculateEIR_BoundsOutsideBracket(t *testing.T) {
	svc := newEIRService(200)

	// fees leave almost nothing disbursed: the rate exceeds 100% a month
	res, err := svc.CalculateEIR(dec("1000"), dec("12"), dec("990"), 12)
	assert.ErrorIs(t, err, apperrors.ErrConvergence)
	require.NotNil(t, res)
	assert.True(t, res.MonthlyRate.Equal(decimal.NewFromInt(1)))
}

func TestCalculateEIR_IterationBudget(t *testing.T) {
	res, err := newEIRService(5).CalculateEIR(dec("12000000"), dec("12"), decimal.Zero, 12)
	assert.ErrorIs(t, err, apperrors.ErrConvergence)
	require.NotNil(t, res)
	assert.Equal(t, 5, res.Iterations)
	assert.False(t, res.Converged)
}

func TestCalculateEIR_RejectsBadInput(t *testing.T) {
	svc := newEIRService(200)

	_, err := svc.CalculateEIR(dec("1000"), dec("12"), dec("1000"), 12)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CalculateEIR(dec("1000"), dec("12"), dec("-1"), 12)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CalculateEIR(dec("1000"), dec("12"), decimal.Zero, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
