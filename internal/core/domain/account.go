package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountCategory defines the fundamental accounting type of an account.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// IsValid reports whether c is one of the five categories.
func (c AccountCategory) IsValid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	default:
		return false
	}
}

// DefaultNormalBalance is the side on which increases are usually recorded.
// Contra accounts (e.g. loan-loss allowance) override it explicitly.
func (c AccountCategory) DefaultNormalBalance() (NormalBalance, error) {
	switch c {
	case Asset, Expense:
		return NormalDebit, nil
	case Liability, Equity, Revenue:
		return NormalCredit, nil
	default:
		return "", fmt.Errorf("unknown account category %q", string(c))
	}
}

// NormalBalance is the side (debit or credit) on which an account increases.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	switch n {
	case NormalDebit, NormalCredit:
		return true
	default:
		return false
	}
}

// Account represents an entry in the chart of accounts.
type Account struct {
	Code          string          `json:"code"` // hierarchical, e.g. "1-1100"
	Name          string          `json:"name"`
	Category      AccountCategory `json:"category"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	ParentCode    string          `json:"parentCode,omitempty"`
	Description   string          `json:"description,omitempty"`
	IsActive      bool            `json:"isActive"`
	Balance       decimal.Decimal `json:"balance"` // cached, positive on the normal side
	AuditFields
}

// SignedAmount returns the effect of a debit/credit pair on a balance kept on
// the given normal side.
func SignedAmount(normal NormalBalance, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch normal {
	case NormalDebit:
		return debit.Sub(credit), nil
	case NormalCredit:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance %q", string(normal))
	}
}
