package repositories

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// SavingsRepository keeps per-member voluntary savings balances.
type SavingsRepository interface {
	// FindSavings returns ErrNotFound for a member without savings.
	FindSavings(ctx context.Context, memberID string) (*domain.MemberSavings, error)

	// FindSavingsForUpdate locks the member row; ErrNotFound when absent.
	FindSavingsForUpdate(ctx context.Context, memberID string) (*domain.MemberSavings, error)

	// SaveSavings inserts or updates the member row.
	SaveSavings(ctx context.Context, savings domain.MemberSavings) error
}
