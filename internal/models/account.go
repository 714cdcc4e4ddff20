package models

import (
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

// Account is a row of the accounts table.
// ParentCode and Description are nullable columns.
type Account struct {
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	Category      AccountCategory `db:"category"`
	NormalBalance string          `db:"normal_balance"`
	ParentCode    *string         `db:"parent_code"`
	Description   *string         `db:"description"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"` // cached, positive on the normal side
	AuditFields
}
