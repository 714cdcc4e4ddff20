package repositories

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// ProvisionRepository stores one CKPN provision per loan per period.
type ProvisionRepository interface {
	// FindLatestProvision returns the loan's provision with the greatest period.
	// Returns ErrNotFound when there is none.
	FindLatestProvision(ctx context.Context, loanID string) (*domain.CKPNProvision, error)

	// UpsertProvision inserts or replaces the (loan, period) record.
	UpsertProvision(ctx context.Context, provision domain.CKPNProvision) error

	// ListProvisionsByPeriod returns every record of a period ordered by loan id.
	ListProvisionsByPeriod(ctx context.Context, period string) ([]domain.CKPNProvision, error)
}
