package services

import (
	"context"
	"errors"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
)

type accountResolver struct {
	accounts portsrepo.AccountReader
	mapping  domain.AccountMapping
}

// NewAccountResolver binds posting roles to the chart through mapping.
func NewAccountResolver(accounts portsrepo.AccountReader, mapping domain.AccountMapping) portssvc.AccountResolverSvc {
	return &accountResolver{accounts: accounts, mapping: mapping}
}

var _ portssvc.AccountResolverSvc = (*accountResolver)(nil)

func (r *accountResolver) Code(role domain.AccountRole) string {
	return r.mapping[role]
}

func (r *accountResolver) Resolve(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	code := r.mapping[role]
	if code == "" {
		return nil, apperrors.NewValidationError("no account mapped for %s", role)
	}
	acc, err := r.accounts.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("account %s mapped for %s does not exist", code, role).
				WithField("role", string(role))
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, apperrors.NewValidationError("account %s mapped for %s is inactive", code, role).
			WithField("role", string(role))
	}
	return acc, nil
}
