package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/models"
	"github.com/SscSPs/coop_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `code, name, category, normal_balance, parent_code, description, is_active, balance,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.Code,
		m.Name,
		m.Category,
		m.NormalBalance,
		m.ParentCode,
		m.Description,
		m.IsActive,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account", m.Code)
	}
	return nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	rows, err := r.db(ctx).Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s: %w", code, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapReadError(err, "account", code)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByCodes retrieves multiple accounts keyed by code.
// Codes that do not exist are simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	return r.findByCodes(ctx, codes, false)
}

// FindAccountsByCodesForUpdate locks the rows in code order so concurrent
// postings touching the same accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	return r.findByCodes(ctx, codes, true)
}

func (r *PgxAccountRepository) findByCodes(ctx context.Context, codes []string, forUpdate bool) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1) ORDER BY code`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by codes: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account rows: %w", err)
	}

	accounts := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		accounts[m.Code] = mapping.ToDomainAccount(m)
	}
	if len(accounts) != len(uniqueCodes(sorted)) {
		slog.DebugContext(ctx, "Some requested accounts were not found", slog.Int("requested", len(sorted)), slog.Int("found", len(accounts)))
	}
	return accounts, nil
}

// ListAccounts retrieves the whole chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account rows: %w", err)
	}
	accounts := make([]domain.Account, len(ms))
	for i, m := range ms {
		accounts[i] = mapping.ToDomainAccount(m)
	}
	return accounts, nil
}

// UpdateAccount updates name, description, parent and the active flag.
// Category, normal balance and the cached balance are never changed here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, description = $3, parent_code = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE code = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.Code,
		m.Name,
		m.Description,
		m.ParentCode,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account", m.Code)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", m.Code)
	}
	return nil
}

// UpdateAccountBalances adds each change to the cached balance in one batch.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE code = $1;
	`
	codes := make([]string, 0, len(balanceChanges))
	for code, delta := range balanceChanges {
		if !delta.IsZero() {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	sort.Strings(codes)

	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(query, code, balanceChanges[code], now, userID)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for _, code := range codes {
		ct, err := br.Exec()
		switch {
		case err != nil && batchErr == nil:
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", code, err)
		case err == nil && ct.RowsAffected() == 0 && batchErr == nil:
			batchErr = apperrors.NewNotFoundError("account", code)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}

func uniqueCodes(sorted []string) []string {
	out := sorted[:0:0]
	for i, c := range sorted {
		if i == 0 || c != sorted[i-1] {
			out = append(out, c)
		}
	}
	return out
}
