package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/models"
	"github.com/SscSPs/coop_backoffice/internal/utils/mapping"
	"github.com/SscSPs/coop_backoffice/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, entry_date, description, status, reference_type, reference_id,
	approved_by, posted_at, reverses_journal_id, reversed_by_journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, line_no, account_code, debit, credit, description`

// countedStatuses are the journal states whose lines take part in ledgers and reports.
var countedStatuses = []string{string(domain.Posted), string(domain.Reversed)}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journals and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournal inserts the header and queues every line in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.JournalEntry) error {
	m := mapping.ToModelJournal(journal)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.JournalID,
		m.EntryDate,
		m.Description,
		m.Status,
		m.ReferenceType,
		m.ReferenceID,
		m.ApprovedBy,
		m.PostedAt,
		m.ReversesJournalID,
		m.ReversedByJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, line := range journal.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, l.LineID, l.JournalID, l.LineNo, l.AccountCode, l.Debit, l.Credit, l.Description)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = mapWriteError(err, "journal", m.JournalID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal batch %s: %w", m.JournalID, err)
	}
	return batchErr
}

// FindJournalByID retrieves a journal together with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, journalID, false)
}

// FindJournalByIDForUpdate is FindJournalByID with the header row locked.
func (r *PgxJournalRepository) FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, journalID, true)
}

func (r *PgxJournalRepository) findJournal(ctx context.Context, journalID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal %s: %w", journalID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, mapReadError(err, "journal", journalID)
	}

	lineRows, err := r.db(ctx).Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE journal_id = $1 ORDER BY line_no;`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal %s: %w", journalID, err)
	}
	lines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines of journal %s: %w", journalID, err)
	}

	entry := mapping.ToDomainJournal(m)
	entry.Lines = mapping.ToDomainJournalLineSlice(lines)
	return &entry, nil
}

// UpdateJournalStatusAndLinks sets the status and, when given, the posting
// time, approver and reversal link. Nil or empty arguments keep the stored value.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, postedAt *time.Time, approvedBy string, reversedByJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    posted_at = COALESCE($3, posted_at),
		    approved_by = COALESCE($4, approved_by),
		    reversed_by_journal_id = COALESCE($5, reversed_by_journal_id),
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE journal_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		journalID,
		string(status),
		postedAt,
		mapping.NullableString(approvedBy),
		reversedByJournalID,
		updatedAt,
		updatedByUserID,
	)
	if err != nil {
		return mapWriteError(err, "journal", journalID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal", journalID)
	}
	return nil
}

// ListJournals retrieves journal headers newest first using token-based pagination.
// One extra row is fetched to tell whether a next page exists.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.ReferenceType != "" {
		conditions = append(conditions, "reference_type = "+arg(filter.ReferenceType))
	}
	if filter.ReferenceID != "" {
		conditions = append(conditions, "reference_id = "+arg(filter.ReferenceID))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		// Tuple comparison matches the ORDER BY below.
		conditions = append(conditions, fmt.Sprintf("(entry_date, created_at, journal_id) < (%s, %s, %s)",
			arg(cursor.EntryDate), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_date DESC, created_at DESC, journal_id DESC LIMIT " + arg(limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan journal rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.JournalID})
		next = &token
	}
	journals := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		journals[i] = mapping.ToDomainJournal(m)
	}
	return journals, next, nil
}

// ListPostedLinesByAccount returns the account's lines in ledger order.
func (r *PgxJournalRepository) ListPostedLinesByAccount(ctx context.Context, accountCode string, from, to *time.Time) ([]domain.LedgerPosting, error) {
	query := `
		SELECT j.journal_id, j.entry_date, j.description, l.line_no, l.debit, l.credit, j.created_at
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE l.account_code = $1
		  AND j.status = ANY($2)
		  AND ($3::date IS NULL OR j.entry_date >= $3)
		  AND ($4::date IS NULL OR j.entry_date <= $4)
		ORDER BY j.entry_date, j.created_at, j.journal_id, l.line_no;
	`
	rows, err := r.db(ctx).Query(ctx, query, accountCode, countedStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger of account %s: %w", accountCode, err)
	}
	postings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerPosting, error) {
		var p domain.LedgerPosting
		err := row.Scan(&p.JournalID, &p.EntryDate, &p.Description, &p.LineNo, &p.Debit, &p.Credit, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger of account %s: %w", accountCode, err)
	}
	return postings, nil
}

// SumPostedByAccountBefore totals the account's counted lines dated before the given day.
func (r *PgxJournalRepository) SumPostedByAccountBefore(ctx context.Context, accountCode string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE l.account_code = $1 AND j.status = ANY($2) AND j.entry_date < $3;
	`
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, accountCode, countedStatuses, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum ledger of account %s: %w", accountCode, err)
	}
	return debit, credit, nil
}
