package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(func(d *state) error {
		if _, exists := d.accounts[account.Code]; exists {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		d.accounts[account.Code] = account
		return nil
	})
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var (
		acc domain.Account
		ok  bool
	)
	s.read(func(d *state) { acc, ok = d.accounts[code] })
	if !ok {
		return nil, apperrors.NewNotFoundError("account", code)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(codes))
	s.read(func(d *state) {
		for _, code := range codes {
			if acc, ok := d.accounts[code]; ok {
				out[code] = acc
			}
		}
	})
	return out, nil
}

// FindAccountsByCodesForUpdate needs no row locks: the caller already holds
// the unit-of-work lock.
func (s *Store) FindAccountsByCodesForUpdate(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	return s.FindAccountsByCodes(ctx, codes)
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var out []domain.Account
	s.read(func(d *state) {
		out = make([]domain.Account, 0, len(d.accounts))
		for _, acc := range d.accounts {
			out = append(out, acc)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.write(func(d *state) error {
		existing, ok := d.accounts[account.Code]
		if !ok {
			return apperrors.NewNotFoundError("account", account.Code)
		}
		existing.Name = account.Name
		existing.Description = account.Description
		existing.ParentCode = account.ParentCode
		existing.IsActive = account.IsActive
		existing.LastUpdatedAt = account.LastUpdatedAt
		existing.LastUpdatedBy = account.LastUpdatedBy
		d.accounts[account.Code] = existing
		return nil
	})
}

func (s *Store) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	return s.write(func(d *state) error {
		for code := range balanceChanges {
			if _, ok := d.accounts[code]; !ok {
				return apperrors.NewNotFoundError("account", code)
			}
		}
		for code, change := range balanceChanges {
			acc := d.accounts[code]
			acc.Balance = acc.Balance.Add(change)
			acc.Touch(userID, now)
			d.accounts[code] = acc
		}
		return nil
	})
}
