package dto

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line of a new entry.
type JournalLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit      decimal.Decimal `json:"credit" binding:"dgte0"`
	Description string          `json:"description"`
}

// CreateJournalRequest defines the data needed to record a journal entry.
type CreateJournalRequest struct {
	Date          time.Time            `json:"date" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ReferenceType string               `json:"referenceType"`
	ReferenceID   string               `json:"referenceID"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	Post          bool                 `json:"post"` // post immediately instead of leaving a draft
}

// ReverseJournalRequest carries the reason recorded on the reversing entry.
type ReverseJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit         int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken     *string `form:"nextToken"`
	Status        string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	ReferenceType string  `form:"referenceType"`
	ReferenceID   string  `form:"referenceID"`
}

// ListJournalsResponse is one page of journal entries.
type ListJournalsResponse struct {
	Journals  []domain.JournalEntry `json:"journals"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// DateRangeParams is an optional inclusive date range from the query string.
type DateRangeParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// AsOfParams is an optional report date from the query string.
type AsOfParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// ToJournalLines converts request lines to domain lines numbered from 1.
func ToJournalLines(lines []JournalLineRequest) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalLine{
			LineNo:      i + 1,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return out
}
