package mapping

import (
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:                d.LoanID,
		MemberID:              d.MemberID,
		Principal:             d.Principal,
		AnnualRatePct:         d.AnnualRatePct,
		TermMonths:            d.TermMonths,
		AdminFee:              d.AdminFee,
		DisbursementDate:      d.DisbursementDate,
		Status:                string(d.Status),
		Collectibility:        string(d.Collectibility),
		MonthlyPayment:        d.MonthlyPayment,
		AmountPaid:            d.AmountPaid,
		RemainingBalance:      d.RemainingBalance,
		ApprovedBy:            NullableString(d.ApprovedBy),
		DisbursementJournalID: NullableString(d.DisbursementJournalID),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:                m.LoanID,
		MemberID:              m.MemberID,
		Principal:             m.Principal,
		AnnualRatePct:         m.AnnualRatePct,
		TermMonths:            m.TermMonths,
		AdminFee:              m.AdminFee,
		DisbursementDate:      m.DisbursementDate,
		Status:                domain.LoanStatus(m.Status),
		Collectibility:        domain.Collectibility(m.Collectibility),
		MonthlyPayment:        m.MonthlyPayment,
		AmountPaid:            m.AmountPaid,
		RemainingBalance:      m.RemainingBalance,
		ApprovedBy:            StringValue(m.ApprovedBy),
		DisbursementJournalID: StringValue(m.DisbursementJournalID),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSchedule converts a model installment to a domain installment
func ToDomainLoanSchedule(m models.LoanSchedule) domain.LoanSchedule {
	return domain.LoanSchedule{
		ScheduleID:     m.ScheduleID,
		LoanID:         m.LoanID,
		InstallmentNo:  m.InstallmentNo,
		DueDate:        m.DueDate,
		Principal:      m.Principal,
		Interest:       m.Interest,
		Total:          m.Total,
		IsPaid:         m.IsPaid,
		PaidAt:         m.PaidAt,
		ReminderSentAt: m.ReminderSentAt,
	}
}

// ToDomainLoanPayment converts a model payment to a domain payment
func ToDomainLoanPayment(m models.LoanPayment) domain.LoanPayment {
	return domain.LoanPayment{
		PaymentID:        m.PaymentID,
		LoanID:           m.LoanID,
		InstallmentNo:    m.InstallmentNo,
		PaymentDate:      m.PaymentDate,
		PrincipalPaid:    m.PrincipalPaid,
		InterestPaid:     m.InterestPaid,
		TotalPaid:        m.TotalPaid,
		OutstandingAfter: m.OutstandingAfter,
		Method:           m.Method,
		JournalID:        m.JournalID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelProvision converts a domain provision to a model provision
func ToModelProvision(d domain.CKPNProvision) models.Provision {
	return models.Provision{
		ProvisionID:    d.ProvisionID,
		LoanID:         d.LoanID,
		Period:         d.Period,
		Collectibility: string(d.Collectibility),
		OverdueDays:    d.OverdueDays,
		Rate:           d.Rate,
		Outstanding:    d.Outstanding,
		Amount:         d.Amount,
		JournalID:      NullableString(d.JournalID),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProvision converts a model provision to a domain provision
func ToDomainProvision(m models.Provision) domain.CKPNProvision {
	return domain.CKPNProvision{
		ProvisionID:    m.ProvisionID,
		LoanID:         m.LoanID,
		Period:         m.Period,
		Collectibility: domain.Collectibility(m.Collectibility),
		OverdueDays:    m.OverdueDays,
		Rate:           m.Rate,
		Outstanding:    m.Outstanding,
		Amount:         m.Amount,
		JournalID:      StringValue(m.JournalID),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
