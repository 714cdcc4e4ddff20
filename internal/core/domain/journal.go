package domain

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// IsValid reports whether s is a known status.
func (s JournalStatus) IsValid() bool {
	switch s {
	case Draft, Posted, Reversed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether an entry may move from s to next.
// DRAFT -> POSTED -> REVERSED is the only path.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	switch s {
	case Draft:
		return next == Posted
	case Posted:
		return next == Reversed
	case Reversed:
		return false
	default:
		return false
	}
}

// CountsInLedger reports whether lines of an entry in this status take part in
// ledgers, trial balances and reports. Drafts never do; a reversed entry still
// does and is cancelled out by its reversal.
func (s JournalStatus) CountsInLedger() bool {
	switch s {
	case Posted, Reversed:
		return true
	case Draft:
		return false
	default:
		return false
	}
}

// Reference types used by postings generated inside the core.
const (
	RefManual       = "MANUAL"
	RefReversal     = "REVERSAL"
	RefDisbursement = "LOAN_DISBURSEMENT"
	RefLoanPayment  = "LOAN_PAYMENT"
	RefProvision    = "CKPN"
	RefSale         = "SALE"
	RefStockIn      = "STOCK_RECEIPT"
	RefSavings      = "SAVINGS"
)

// JournalEntry is a balanced set of debit/credit lines.
type JournalEntry struct {
	JournalID           string        `json:"journalID"`
	EntryDate           time.Time     `json:"entryDate"`
	Description         string        `json:"description"`
	Status              JournalStatus `json:"status"`
	ReferenceType       string        `json:"referenceType,omitempty"`
	ReferenceID         string        `json:"referenceID,omitempty"`
	ApprovedBy          string        `json:"approvedBy,omitempty"`
	PostedAt            *time.Time    `json:"postedAt,omitempty"`
	ReversesJournalID   *string       `json:"reversesJournalID,omitempty"`
	ReversedByJournalID *string       `json:"reversedByJournalID,omitempty"`
	Lines               []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsReversal reports whether the entry was produced by reversing another one.
func (j JournalEntry) IsReversal() bool {
	return j.ReversesJournalID != nil
}

// Totals sums the debit and credit sides.
func (j JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, l := range j.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// AccountCodes returns the distinct account codes referenced by the lines, in line order.
func (j JournalEntry) AccountCodes() []string {
	seen := make(map[string]struct{}, len(j.Lines))
	codes := make([]string, 0, len(j.Lines))
	for _, l := range j.Lines {
		if _, ok := seen[l.AccountCode]; ok {
			continue
		}
		seen[l.AccountCode] = struct{}{}
		codes = append(codes, l.AccountCode)
	}
	return codes
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	LineNo      int             `json:"lineNo"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// DebitLine and CreditLine build one-sided lines.
func DebitLine(accountCode string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountCode: accountCode, Debit: amount, Credit: decimal.Zero, Description: description}
}

func CreditLine(accountCode string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountCode: accountCode, Debit: decimal.Zero, Credit: amount, Description: description}
}

// Validate checks that exactly one side is strictly positive, the other is
// zero, and neither carries more than two decimals.
func (l JournalLine) Validate() error {
	if l.AccountCode == "" {
		return apperrors.NewValidationError("line %d has no account code", l.LineNo)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return apperrors.NewValidationError("line %d has a negative amount", l.LineNo).
			WithField("account", l.AccountCode)
	}
	if !HasMoneyPrecision(l.Debit) || !HasMoneyPrecision(l.Credit) {
		return apperrors.NewValidationError("line %d has more than %d decimals", l.LineNo, MoneyPlaces).
			WithField("account", l.AccountCode)
	}
	if l.Debit.IsPositive() == l.Credit.IsPositive() {
		return apperrors.NewValidationError("line %d must have exactly one of debit or credit", l.LineNo).
			WithField("account", l.AccountCode).
			WithField("debit", l.Debit.StringFixed(MoneyPlaces)).
			WithField("credit", l.Credit.StringFixed(MoneyPlaces))
	}
	return nil
}

// Swapped returns the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	out := l
	out.Debit, out.Credit = l.Credit, l.Debit
	return out
}

// Amount is whichever side is populated.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}
