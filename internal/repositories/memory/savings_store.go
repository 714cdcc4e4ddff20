package memory

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

func (s *Store) FindSavings(ctx context.Context, memberID string) (*domain.MemberSavings, error) {
	var (
		sv domain.MemberSavings
		ok bool
	)
	s.read(func(d *state) { sv, ok = d.savings[memberID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("savings", memberID)
	}
	return &sv, nil
}

func (s *Store) FindSavingsForUpdate(ctx context.Context, memberID string) (*domain.MemberSavings, error) {
	return s.FindSavings(ctx, memberID)
}

func (s *Store) SaveSavings(ctx context.Context, savings domain.MemberSavings) error {
	return s.write(func(d *state) error {
		d.savings[savings.MemberID] = savings
		return nil
	})
}
