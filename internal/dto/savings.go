package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsTransactionRequest is a voluntary-savings deposit or withdrawal.
type SavingsTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"dgt0"`
	Date   time.Time       `json:"date" binding:"required"`
}
