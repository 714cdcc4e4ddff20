package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal validates and stores a new entry as a draft, or posts it
	// straight away when the request asks for it.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostJournal moves a draft to POSTED and applies it to account balances.
	PostJournal(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error)

	// ReverseJournal posts the mirror of a posted entry and marks the original REVERSED.
	ReverseJournal(ctx context.Context, journalID string, reason string, userID string) (*domain.JournalEntry, error)
}

// JournalPosterSvc is used by other services to record system-generated
// entries. It joins any unit of work already open on ctx.
type JournalPosterSvc interface {
	PostEntry(ctx context.Context, entry domain.JournalEntry, userID string) (*domain.JournalEntry, error)
}

// LedgerQuerySvc defines the derived views of posted lines
type LedgerQuerySvc interface {
	// GetLedger lists an account's postings in a range with running balances.
	GetLedger(ctx context.Context, accountCode string, from, to *time.Time) (*domain.AccountLedger, error)

	// GetTrialBalance sums posted lines per account up to asOf (all time when nil).
	GetTrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalPosterSvc
	LedgerQuerySvc
}
