package domain

import "github.com/shopspring/decimal"

// MemberSavings is the running voluntary-savings balance of one member.
type MemberSavings struct {
	MemberID string          `json:"memberID"`
	Balance  decimal.Decimal `json:"balance"`
	AuditFields
}
