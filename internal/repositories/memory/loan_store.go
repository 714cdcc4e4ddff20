package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

func (s *Store) SaveLoan(ctx context.Context, loan domain.Loan) error {
	return s.write(func(d *state) error {
		if _, exists := d.loans[loan.LoanID]; exists {
			return fmt.Errorf("%w: loan %s", apperrors.ErrDuplicate, loan.LoanID)
		}
		d.loans[loan.LoanID] = loan
		return nil
	})
}

func (s *Store) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	return s.write(func(d *state) error {
		if _, ok := d.loans[loan.LoanID]; !ok {
			return apperrors.NewNotFoundError("loan", loan.LoanID)
		}
		d.loans[loan.LoanID] = loan
		return nil
	})
}

func (s *Store) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	var (
		loan domain.Loan
		ok   bool
	)
	s.read(func(d *state) { loan, ok = d.loans[loanID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("loan", loanID)
	}
	return &loan, nil
}

func (s *Store) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.FindLoanByID(ctx, loanID)
}

func (s *Store) ListLoansByStatus(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error) {
	var out []domain.Loan
	s.read(func(d *state) {
		for _, loan := range d.loans {
			if loan.Status == status {
				out = append(out, loan)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LoanID < out[j].LoanID })
	return out, nil
}

func (s *Store) SaveSchedule(ctx context.Context, schedule []domain.LoanSchedule) error {
	if len(schedule) == 0 {
		return nil
	}
	return s.write(func(d *state) error {
		loanID := schedule[0].LoanID
		if len(d.schedules[loanID]) > 0 {
			return fmt.Errorf("%w: schedule for loan %s", apperrors.ErrDuplicate, loanID)
		}
		rows := append([]domain.LoanSchedule(nil), schedule...)
		sort.Slice(rows, func(i, j int) bool { return rows[i].InstallmentNo < rows[j].InstallmentNo })
		d.schedules[loanID] = rows
		return nil
	})
}

func (s *Store) FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.LoanSchedule, error) {
	var out []domain.LoanSchedule
	s.read(func(d *state) { out = append([]domain.LoanSchedule(nil), d.schedules[loanID]...) })
	return out, nil
}

func (s *Store) MarkInstallmentPaid(ctx context.Context, scheduleID string, paidAt time.Time) error {
	return s.write(func(d *state) error {
		for loanID, rows := range d.schedules {
			for i := range rows {
				if rows[i].ScheduleID != scheduleID {
					continue
				}
				if rows[i].IsPaid {
					return apperrors.NewStateError("installment %d of loan %s is already paid", rows[i].InstallmentNo, loanID)
				}
				at := paidAt
				rows[i].IsPaid = true
				rows[i].PaidAt = &at
				return nil
			}
		}
		return apperrors.NewNotFoundError("installment", scheduleID)
	})
}

func (s *Store) SavePayment(ctx context.Context, payment domain.LoanPayment) error {
	return s.write(func(d *state) error {
		d.payments[payment.LoanID] = append(d.payments[payment.LoanID], payment)
		return nil
	})
}

func (s *Store) ListPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	var out []domain.LoanPayment
	s.read(func(d *state) { out = append([]domain.LoanPayment(nil), d.payments[loanID]...) })
	return out, nil
}

func provisionKey(loanID, period string) string {
	return loanID + "|" + period
}

func (s *Store) FindLatestProvision(ctx context.Context, loanID string) (*domain.CKPNProvision, error) {
	var (
		latest domain.CKPNProvision
		found  bool
	)
	s.read(func(d *state) {
		for _, p := range d.provisions {
			// YYYY-MM compares correctly as a string.
			if p.LoanID != loanID {
				continue
			}
			if !found || p.Period > latest.Period {
				latest, found = p, true
			}
		}
	})
	if !found {
		return nil, apperrors.NewNotFoundError("provision", loanID)
	}
	return &latest, nil
}

func (s *Store) UpsertProvision(ctx context.Context, provision domain.CKPNProvision) error {
	return s.write(func(d *state) error {
		key := provisionKey(provision.LoanID, provision.Period)
		if existing, ok := d.provisions[key]; ok {
			provision.ProvisionID = existing.ProvisionID
			provision.CreatedAt = existing.CreatedAt
			provision.CreatedBy = existing.CreatedBy
		}
		d.provisions[key] = provision
		return nil
	})
}

func (s *Store) ListProvisionsByPeriod(ctx context.Context, period string) ([]domain.CKPNProvision, error) {
	var out []domain.CKPNProvision
	s.read(func(d *state) {
		for _, p := range d.provisions {
			if p.Period == period {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LoanID < out[j].LoanID })
	return out, nil
}
