package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(),
		accountRepo: repo,
		txManager:   txManager,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("account code is required")
	}
	if !req.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown account category %q", string(req.Category))
	}
	normal := req.NormalBalance
	if normal == "" {
		normal, _ = req.Category.DefaultNormalBalance()
	} else if !normal.IsValid() {
		return nil, apperrors.NewValidationError("unknown normal balance %q", string(normal))
	}

	if req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent account %s does not exist", req.ParentCode)
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_code", req.ParentCode))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.Category != req.Category {
			return nil, apperrors.NewValidationError("parent account %s is %s, not %s", parent.Code, parent.Category, req.Category)
		}
	}

	account := domain.Account{
		Code:          code,
		Name:          req.Name,
		Category:      req.Category,
		NormalBalance: normal,
		ParentCode:    req.ParentCode,
		Description:   req.Description,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_code", code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_code", code))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("account_code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_code", code))
		return account, nil
	}

	account.Touch(userID, s.Now())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_code", code))
	return account, nil
}

// SeedChart creates the accounts of entries that do not exist yet. Existing
// accounts are left untouched so seeding can be repeated.
func (s *accountService) SeedChart(ctx context.Context, entries []domain.ChartEntry, userID string) (int, error) {
	created := 0
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		codes := make([]string, len(entries))
		for i, e := range entries {
			codes[i] = e.Code
		}
		existing, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
		if err != nil {
			return fmt.Errorf("failed to load existing accounts: %w", err)
		}
		audit := domain.NewAuditFields(userID, s.Now())
		for _, e := range entries {
			if _, ok := existing[e.Code]; ok {
				continue
			}
			if err := s.accountRepo.SaveAccount(ctx, e.Account(audit)); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", e.Code, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts")
		return 0, err
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("created", created))
	return created, nil
}
