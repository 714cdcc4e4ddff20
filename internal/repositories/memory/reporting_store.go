package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

func (s *Store) GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotals, error) {
	var out []domain.AccountTotals
	s.read(func(d *state) {
		byCode := make(map[string]*domain.AccountTotals, len(d.accounts))
		for code, acc := range d.accounts {
			byCode[code] = &domain.AccountTotals{
				AccountCode:   acc.Code,
				AccountName:   acc.Name,
				Category:      acc.Category,
				NormalBalance: acc.NormalBalance,
			}
		}
		for _, j := range d.journals {
			if !j.Status.CountsInLedger() || !inRange(j.EntryDate, from, to) {
				continue
			}
			for _, l := range j.Lines {
				t, ok := byCode[l.AccountCode]
				if !ok {
					continue
				}
				t.Debit = t.Debit.Add(l.Debit)
				t.Credit = t.Credit.Add(l.Credit)
			}
		}
		out = make([]domain.AccountTotals, 0, len(byCode))
		for _, t := range byCode {
			out = append(out, *t)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (s *Store) GetCashLines(ctx context.Context, cashAccountCodes []string, from, to time.Time) ([]domain.CashLine, error) {
	cash := make(map[string]struct{}, len(cashAccountCodes))
	for _, code := range cashAccountCodes {
		cash[code] = struct{}{}
	}

	type entryLines struct {
		entry domain.JournalEntry
		lines []domain.CashLine
	}
	var entries []entryLines
	s.read(func(d *state) {
		for _, j := range d.journals {
			if !j.Status.CountsInLedger() || !inRange(j.EntryDate, &from, &to) {
				continue
			}
			touchesCash := false
			for _, l := range j.Lines {
				if _, ok := cash[l.AccountCode]; ok {
					touchesCash = true
					break
				}
			}
			if !touchesCash {
				continue
			}
			el := entryLines{entry: j}
			for _, l := range j.Lines {
				el.lines = append(el.lines, domain.CashLine{
					JournalID:   j.JournalID,
					EntryDate:   j.EntryDate,
					Description: j.Description,
					AccountCode: l.AccountCode,
					Category:    d.accounts[l.AccountCode].Category,
					Debit:       l.Debit,
					Credit:      l.Credit,
				})
			}
			entries = append(entries, el)
		}
	})
	sort.Slice(entries, func(a, b int) bool {
		x, y := entries[a].entry, entries[b].entry
		if !x.EntryDate.Equal(y.EntryDate) {
			return x.EntryDate.Before(y.EntryDate)
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.Before(y.CreatedAt)
		}
		return x.JournalID < y.JournalID
	})

	var out []domain.CashLine
	for _, e := range entries {
		out = append(out, e.lines...)
	}
	return out, nil
}
