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

const provisionColumns = `provision_id, loan_id, period, collectibility, overdue_days, rate, outstanding, amount, journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProvisionRepository struct {
	BaseRepository
}

func newPgxProvisionRepository(pool *pgxpool.Pool) *PgxProvisionRepository {
	return &PgxProvisionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProvisionRepository = (*PgxProvisionRepository)(nil)

// FindLatestProvision relies on YYYY-MM periods sorting as text.
func (r *PgxProvisionRepository) FindLatestProvision(ctx context.Context, loanID string) (*domain.CKPNProvision, error) {
	query := `
		SELECT ` + provisionColumns + `
		FROM loan_provisions
		WHERE loan_id = $1
		ORDER BY period DESC
		LIMIT 1;
	`
	rows, err := r.db(ctx).Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provisions of loan %s: %w", loanID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Provision])
	if err != nil {
		return nil, mapReadError(err, "provision", loanID)
	}
	p := mapping.ToDomainProvision(m)
	return &p, nil
}

// UpsertProvision keeps the original id and creation audit on a rerun.
func (r *PgxProvisionRepository) UpsertProvision(ctx context.Context, provision domain.CKPNProvision) error {
	m := mapping.ToModelProvision(provision)
	query := `
		INSERT INTO loan_provisions (` + provisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (loan_id, period) DO UPDATE
		SET collectibility = EXCLUDED.collectibility,
		    overdue_days = EXCLUDED.overdue_days,
		    rate = EXCLUDED.rate,
		    outstanding = EXCLUDED.outstanding,
		    amount = EXCLUDED.amount,
		    journal_id = EXCLUDED.journal_id,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.ProvisionID, m.LoanID, m.Period, m.Collectibility, m.OverdueDays, m.Rate, m.Outstanding, m.Amount, m.JournalID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "provision", m.LoanID+"/"+m.Period)
	}
	return nil
}

func (r *PgxProvisionRepository) ListProvisionsByPeriod(ctx context.Context, period string) ([]domain.CKPNProvision, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+provisionColumns+` FROM loan_provisions WHERE period = $1 ORDER BY loan_id;`, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query provisions of %s: %w", period, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Provision])
	if err != nil {
		return nil, fmt.Errorf("failed to scan provisions of %s: %w", period, err)
	}
	out := make([]domain.CKPNProvision, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainProvision(m)
	}
	return out, nil
}
