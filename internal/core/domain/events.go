package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger event types.
const (
	EventJournalPosted   = "journal.posted"
	EventJournalReversed = "journal.reversed"
)

// LedgerEvent is published after a posting or reversal commits.
type LedgerEvent struct {
	EventID       string          `json:"eventID"`
	Type          string          `json:"type"`
	JournalID     string          `json:"journalID"`
	EntryDate     time.Time       `json:"entryDate"`
	ReferenceType string          `json:"referenceType,omitempty"`
	ReferenceID   string          `json:"referenceID,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
