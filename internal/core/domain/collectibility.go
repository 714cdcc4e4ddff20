package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Collectibility is the aging bucket of a loan.
type Collectibility string

const (
	Lancar         Collectibility = "LANCAR"          // current
	DalamPerhatian Collectibility = "DALAM_PERHATIAN" // 1-90 days overdue
	KurangLancar   Collectibility = "KURANG_LANCAR"   // 91-180
	Diragukan      Collectibility = "DIRAGUKAN"       // 181-270
	Macet          Collectibility = "MACET"           // over 270
)

// IsValid reports whether c is a known bucket.
func (c Collectibility) IsValid() bool {
	switch c {
	case Lancar, DalamPerhatian, KurangLancar, Diragukan, Macet:
		return true
	default:
		return false
	}
}

// ClassifyOverdue derives the bucket from overdue days. Negative input is
// treated as current.
func ClassifyOverdue(days int) Collectibility {
	switch {
	case days <= 0:
		return Lancar
	case days <= 90:
		return DalamPerhatian
	case days <= 180:
		return KurangLancar
	case days <= 270:
		return Diragukan
	default:
		return Macet
	}
}

// ProvisionRates holds the provision rate (fraction of outstanding) per bucket.
type ProvisionRates struct {
	Lancar         decimal.Decimal
	DalamPerhatian decimal.Decimal
	KurangLancar   decimal.Decimal
	Diragukan      decimal.Decimal
	Macet          decimal.Decimal
}

// DefaultProvisionRates returns 1%, 5%, 15%, 50% and 100%.
func DefaultProvisionRates() ProvisionRates {
	return ProvisionRates{
		Lancar:         decimal.RequireFromString("0.01"),
		DalamPerhatian: decimal.RequireFromString("0.05"),
		KurangLancar:   decimal.RequireFromString("0.15"),
		Diragukan:      decimal.RequireFromString("0.50"),
		Macet:          decimal.NewFromInt(1),
	}
}

// RateFor returns the rate for bucket c.
func (r ProvisionRates) RateFor(c Collectibility) (decimal.Decimal, error) {
	switch c {
	case Lancar:
		return r.Lancar, nil
	case DalamPerhatian:
		return r.DalamPerhatian, nil
	case KurangLancar:
		return r.KurangLancar, nil
	case Diragukan:
		return r.Diragukan, nil
	case Macet:
		return r.Macet, nil
	default:
		return decimal.Zero, apperrors.NewValidationError("unknown collectibility %q", string(c))
	}
}

// Validate checks every rate lies in [0, 1].
func (r ProvisionRates) Validate() error {
	one := decimal.NewFromInt(1)
	for _, c := range []Collectibility{Lancar, DalamPerhatian, KurangLancar, Diragukan, Macet} {
		rate, _ := r.RateFor(c)
		if rate.IsNegative() || rate.GreaterThan(one) {
			return apperrors.NewValidationError("provision rate for %s must be between 0 and 1", c).
				WithField("rate", rate.String())
		}
	}
	return nil
}

// Period is a provisioning month.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, apperrors.NewValidationError("period must be YYYY-MM").WithField("period", s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf is the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// EndDate is the last calendar day of the month, used as the aging reference date.
func (p Period) EndDate() time.Time {
	return time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// CKPNProvision is the stored provision for one loan in one period.
type CKPNProvision struct {
	ProvisionID    string          `json:"provisionID"`
	LoanID         string          `json:"loanID"`
	Period         string          `json:"period"`
	Collectibility Collectibility  `json:"collectibility"`
	OverdueDays    int             `json:"overdueDays"`
	Rate           decimal.Decimal `json:"rate"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Amount         decimal.Decimal `json:"amount"`
	JournalID      string          `json:"journalID,omitempty"`
	AuditFields
}

// ProvisionOutcomeStatus describes what happened to one loan during a run.
type ProvisionOutcomeStatus string

const (
	ProvisionPosted  ProvisionOutcomeStatus = "POSTED"
	ProvisionSkipped ProvisionOutcomeStatus = "SKIPPED"
	ProvisionFailed  ProvisionOutcomeStatus = "FAILED"
)

// ProvisionOutcome is the per-loan result of a provisioning run.
type ProvisionOutcome struct {
	LoanID         string                 `json:"loanID"`
	Status         ProvisionOutcomeStatus `json:"status"`
	Collectibility Collectibility         `json:"collectibility,omitempty"`
	OverdueDays    int                    `json:"overdueDays"`
	Outstanding    decimal.Decimal        `json:"outstanding"`
	Previous       decimal.Decimal        `json:"previous"`
	Required       decimal.Decimal        `json:"required"`
	Delta          decimal.Decimal        `json:"delta"`
	JournalID      string                 `json:"journalID,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// ProvisionRunSummary aggregates a provisioning run.
type ProvisionRunSummary struct {
	Period     string             `json:"period"`
	Processed  int                `json:"processed"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	TotalDelta decimal.Decimal    `json:"totalDelta"`
	Outcomes   []ProvisionOutcome `json:"outcomes"`
}
