package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is a row of the journals table. Lines live in journal_lines.
type Journal struct {
	JournalID           string        `db:"journal_id"`
	EntryDate           time.Time     `db:"entry_date"`
	Description         string        `db:"description"`
	Status              JournalStatus `db:"status"`
	ReferenceType       *string       `db:"reference_type"`
	ReferenceID         *string       `db:"reference_id"`
	ApprovedBy          *string       `db:"approved_by"`
	PostedAt            *time.Time    `db:"posted_at"`
	ReversesJournalID   *string       `db:"reverses_journal_id"`
	ReversedByJournalID *string       `db:"reversed_by_journal_id"`
	AuditFields
}

// JournalLine is a single debit or credit of a journal.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	LineNo      int             `db:"line_no"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description *string         `db:"description"`
}
