package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveJournal(ctx context.Context, journal domain.JournalEntry) error {
	return s.write(func(d *state) error {
		if _, exists := d.journals[journal.JournalID]; exists {
			return fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, journal.JournalID)
		}
		journal.Lines = append([]domain.JournalLine(nil), journal.Lines...)
		d.journals[journal.JournalID] = journal
		return nil
	})
}

func (s *Store) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	var (
		j  domain.JournalEntry
		ok bool
	)
	s.read(func(d *state) { j, ok = d.journals[journalID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("journal", journalID)
	}
	j.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return &j, nil
}

func (s *Store) FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return s.FindJournalByID(ctx, journalID)
}

func (s *Store) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, postedAt *time.Time, approvedBy string, reversedByJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	return s.write(func(d *state) error {
		j, ok := d.journals[journalID]
		if !ok {
			return apperrors.NewNotFoundError("journal", journalID)
		}
		j.Status = status
		if postedAt != nil {
			j.PostedAt = postedAt
		}
		if approvedBy != "" {
			j.ApprovedBy = approvedBy
		}
		if reversedByJournalID != nil {
			j.ReversedByJournalID = reversedByJournalID
		}
		j.Touch(updatedByUserID, updatedAt)
		d.journals[journalID] = j
		return nil
	})
}

func (s *Store) ListJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}

	var matched []domain.JournalEntry
	s.read(func(d *state) {
		for _, j := range d.journals {
			if filter.Status != "" && j.Status != filter.Status {
				continue
			}
			if filter.ReferenceType != "" && j.ReferenceType != filter.ReferenceType {
				continue
			}
			if filter.ReferenceID != "" && j.ReferenceID != filter.ReferenceID {
				continue
			}
			if cursor != nil && !cursor.Before(j.EntryDate, j.CreatedAt, j.JournalID) {
				continue
			}
			j.Lines = nil
			matched = append(matched, j)
		}
	})
	sort.Slice(matched, func(a, b int) bool {
		x, y := matched[a], matched[b]
		if !x.EntryDate.Equal(y.EntryDate) {
			return x.EntryDate.After(y.EntryDate)
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.After(y.CreatedAt)
		}
		return x.JournalID > y.JournalID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeCursor(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.JournalID})
	return page, &token, nil
}

func (s *Store) ListPostedLinesByAccount(ctx context.Context, accountCode string, from, to *time.Time) ([]domain.LedgerPosting, error) {
	var postings []domain.LedgerPosting
	s.read(func(d *state) {
		for _, j := range d.journals {
			if !j.Status.CountsInLedger() || !inRange(j.EntryDate, from, to) {
				continue
			}
			for _, l := range j.Lines {
				if l.AccountCode != accountCode {
					continue
				}
				postings = append(postings, domain.LedgerPosting{
					JournalID:   j.JournalID,
					EntryDate:   j.EntryDate,
					Description: j.Description,
					LineNo:      l.LineNo,
					Debit:       l.Debit,
					Credit:      l.Credit,
					CreatedAt:   j.CreatedAt,
				})
			}
		}
	})
	sort.Slice(postings, func(a, b int) bool {
		x, y := postings[a], postings[b]
		if !x.EntryDate.Equal(y.EntryDate) {
			return x.EntryDate.Before(y.EntryDate)
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.Before(y.CreatedAt)
		}
		if x.JournalID != y.JournalID {
			return x.JournalID < y.JournalID
		}
		return x.LineNo < y.LineNo
	})
	return postings, nil
}

func (s *Store) SumPostedByAccountBefore(ctx context.Context, accountCode string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	s.read(func(d *state) {
		for _, j := range d.journals {
			if !j.Status.CountsInLedger() || !j.EntryDate.Before(before) {
				continue
			}
			for _, l := range j.Lines {
				if l.AccountCode == accountCode {
					debit = debit.Add(l.Debit)
					credit = credit.Add(l.Credit)
				}
			}
		}
	})
	return debit, credit, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
