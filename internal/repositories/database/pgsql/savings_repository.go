package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/models"
	"github.com/SscSPs/coop_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSavingsRepository struct {
	BaseRepository
}

func newPgxSavingsRepository(pool *pgxpool.Pool) *PgxSavingsRepository {
	return &PgxSavingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SavingsRepository = (*PgxSavingsRepository)(nil)

func (r *PgxSavingsRepository) FindSavings(ctx context.Context, memberID string) (*domain.MemberSavings, error) {
	return r.find(ctx, memberID, false)
}

func (r *PgxSavingsRepository) FindSavingsForUpdate(ctx context.Context, memberID string) (*domain.MemberSavings, error) {
	return r.find(ctx, memberID, true)
}

func (r *PgxSavingsRepository) find(ctx context.Context, memberID string, forUpdate bool) (*domain.MemberSavings, error) {
	query := `SELECT member_id, balance, created_at, created_by, last_updated_at, last_updated_by FROM member_savings WHERE member_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings of member %s: %w", memberID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.MemberSavings])
	if err != nil {
		return nil, mapReadError(err, "savings", memberID)
	}
	s := mapping.ToDomainMemberSavings(m)
	return &s, nil
}

// SaveSavings inserts or updates the member row.
func (r *PgxSavingsRepository) SaveSavings(ctx context.Context, savings domain.MemberSavings) error {
	query := `
		INSERT INTO member_savings (member_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (member_id) DO UPDATE
		SET balance = EXCLUDED.balance, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		savings.MemberID, savings.Balance, savings.CreatedAt, savings.CreatedBy, savings.LastUpdatedAt, savings.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "savings", savings.MemberID)
	}
	return nil
}
