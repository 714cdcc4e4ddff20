package dto

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to register a store product.
type CreateProductRequest struct {
	SKU           string               `json:"sku" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	CostingMethod domain.CostingMethod `json:"costingMethod" binding:"required,oneof=FIFO AVERAGE"`
	SellingPrice  decimal.Decimal      `json:"sellingPrice" binding:"dgte0"`
}

// Payment sources for a stock receipt.
const (
	PaidFromCash    = "CASH"
	PaidFromPayable = "PAYABLE"
)

// ReceiveStockRequest records a purchase of stock.
type ReceiveStockRequest struct {
	Quantity int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost decimal.Decimal `json:"unitCost" binding:"dgt0"`
	Supplier string          `json:"supplier"`
	Date     time.Time       `json:"date" binding:"required"`
	PaidFrom string          `json:"paidFrom" binding:"omitempty,oneof=CASH PAYABLE"` // defaults to CASH
}

// RecordSaleRequest records a cash sale of stock.
type RecordSaleRequest struct {
	Quantity  int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice"` // defaults to the product selling price
	Date      time.Time        `json:"date" binding:"required"`
}

// COGSQuery asks what a deduction would cost without performing it.
type COGSQuery struct {
	Quantity int64 `form:"quantity" binding:"required,gt=0"`
}

// SaleResponse is the outcome of a recorded sale.
type SaleResponse struct {
	ProductID      string               `json:"productID"`
	Quantity       int64                `json:"quantity"`
	Revenue        decimal.Decimal      `json:"revenue"`
	COGS           *domain.COGSResult   `json:"cogs"`
	GrossMargin    decimal.Decimal      `json:"grossMargin"`
	SaleJournal    *domain.JournalEntry `json:"saleJournal"`
	CostJournal    *domain.JournalEntry `json:"costJournal"`
	RemainingStock int64                `json:"remainingStock"`
}
