package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetAccountTotals sums every account's counted lines dated within [from, to].
// Accounts without activity come back with zero totals.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotals, error) {
	query := `
		SELECT
			a.code,
			a.name,
			a.category,
			a.normal_balance,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT jl.account_code, jl.debit, jl.credit
			FROM journal_lines jl
			JOIN journals j ON j.journal_id = jl.journal_id
			WHERE j.status = ANY($1)
				AND ($2::date IS NULL OR j.entry_date >= $2)
				AND ($3::date IS NULL OR j.entry_date <= $3)
		) l ON l.account_code = a.code
		GROUP BY a.code, a.name, a.category, a.normal_balance
		ORDER BY a.code
	`

	rows, err := r.db(ctx).Query(ctx, query, countedStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountTotals, error) {
		var t domain.AccountTotals
		var category, normal string
		if err := row.Scan(&t.AccountCode, &t.AccountName, &category, &normal, &t.Debit, &t.Credit); err != nil {
			return t, err
		}
		t.Category = domain.AccountCategory(category)
		t.NormalBalance = domain.NormalBalance(normal)
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning account totals: %w", err)
	}
	if result == nil {
		// Return empty slice instead of nil
		return []domain.AccountTotals{}, nil
	}
	return result, nil
}

// GetCashLines returns every line of the counted entries in range that touch
// one of the cash accounts, grouped by entry in date order.
func (r *reportingRepository) GetCashLines(ctx context.Context, cashAccountCodes []string, from, to time.Time) ([]domain.CashLine, error) {
	query := `
		SELECT j.journal_id, j.entry_date, j.description, l.account_code, a.category, l.debit, l.credit
		FROM journals j
		JOIN journal_lines l ON l.journal_id = j.journal_id
		JOIN accounts a ON a.code = l.account_code
		WHERE j.status = ANY($1)
			AND j.entry_date BETWEEN $2 AND $3
			AND EXISTS (
				SELECT 1 FROM journal_lines c
				WHERE c.journal_id = j.journal_id AND c.account_code = ANY($4)
			)
		ORDER BY j.entry_date, j.created_at, j.journal_id, l.line_no
	`

	rows, err := r.db(ctx).Query(ctx, query, countedStatuses, from, to, cashAccountCodes)
	if err != nil {
		return nil, fmt.Errorf("error querying cash lines: %w", err)
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CashLine, error) {
		var l domain.CashLine
		var category string
		if err := row.Scan(&l.JournalID, &l.EntryDate, &l.Description, &l.AccountCode, &category, &l.Debit, &l.Credit); err != nil {
			return l, err
		}
		l.Category = domain.AccountCategory(category)
		return l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning cash lines: %w", err)
	}
	return result, nil
}
