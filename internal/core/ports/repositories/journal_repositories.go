package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalFilter narrows ListJournals. Zero values mean "any".
type JournalFilter struct {
	Status        domain.JournalStatus
	ReferenceType string
	ReferenceID   string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal together with its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindJournalByIDForUpdate is FindJournalByID with the header row locked.
	FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournals retrieves journals (without lines) newest first using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, filter JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal header and all of its lines.
	SaveJournal(ctx context.Context, journal domain.JournalEntry) error

	// UpdateJournalStatusAndLinks sets the status and, when given, the posting time, approver and reversal link.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, postedAt *time.Time, approvedBy string, reversedByJournalID *string, updatedByUserID string, updatedAt time.Time) error
}

// LedgerReader defines per-account reads over posted lines. Draft entries are never included.
type LedgerReader interface {
	// ListPostedLinesByAccount returns the account's lines with entry date in [from, to]
	// (either bound optional), ordered by entry date, creation time and line number.
	ListPostedLinesByAccount(ctx context.Context, accountCode string, from, to *time.Time) ([]domain.LedgerPosting, error)

	// SumPostedByAccountBefore totals the account's debits and credits dated strictly before the given date.
	SumPostedByAccountBefore(ctx context.Context, accountCode string, before time.Time) (decimal.Decimal, decimal.Decimal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerReader
}
