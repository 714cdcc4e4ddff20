package mapping

import (
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/models"
)

// ToModelJournal converts a domain JournalEntry header to a model Journal
func ToModelJournal(d domain.JournalEntry) models.Journal {
	return models.Journal{
		JournalID:           d.JournalID,
		EntryDate:           d.EntryDate,
		Description:         d.Description,
		Status:              models.JournalStatus(d.Status),
		ReferenceType:       NullableString(d.ReferenceType),
		ReferenceID:         NullableString(d.ReferenceID),
		ApprovedBy:          NullableString(d.ApprovedBy),
		PostedAt:            d.PostedAt,
		ReversesJournalID:   d.ReversesJournalID,
		ReversedByJournalID: d.ReversedByJournalID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain JournalEntry without lines
func ToDomainJournal(m models.Journal) domain.JournalEntry {
	return domain.JournalEntry{
		JournalID:           m.JournalID,
		EntryDate:           m.EntryDate,
		Description:         m.Description,
		Status:              domain.JournalStatus(m.Status),
		ReferenceType:       StringValue(m.ReferenceType),
		ReferenceID:         StringValue(m.ReferenceID),
		ApprovedBy:          StringValue(m.ApprovedBy),
		PostedAt:            m.PostedAt,
		ReversesJournalID:   m.ReversesJournalID,
		ReversedByJournalID: m.ReversedByJournalID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		JournalID:   d.JournalID,
		LineNo:      d.LineNo,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: NullableString(d.Description),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		JournalID:   m.JournalID,
		LineNo:      m.LineNo,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: StringValue(m.Description),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
