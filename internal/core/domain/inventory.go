package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CostingMethod selects how cost of goods sold is computed for a product.
type CostingMethod string

const (
	CostingFIFO    CostingMethod = "FIFO"
	CostingAverage CostingMethod = "AVERAGE"
)

// IsValid reports whether m is a known costing method.
func (m CostingMethod) IsValid() bool {
	switch m {
	case CostingFIFO, CostingAverage:
		return true
	default:
		return false
	}
}

// Product is a store item with its running stock and weighted-average cost.
type Product struct {
	ProductID     string          `json:"productID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	CostingMethod CostingMethod   `json:"costingMethod"`
	Stock         int64           `json:"stock"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	AuditFields
}

// ProductBatch is one receipt of stock, consumed oldest first under FIFO.
type ProductBatch struct {
	BatchID      string          `json:"batchID"`
	ProductID    string          `json:"productID"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	QtyReceived  int64           `json:"qtyReceived"`
	RemainingQty int64           `json:"remainingQty"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Supplier     string          `json:"supplier,omitempty"`
	AuditFields
}

// SortBatchesFIFO orders batches oldest purchase first, then by creation time and id.
func SortBatchesFIFO(batches []ProductBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.BatchID < b.BatchID
	})
}

// BatchConsumption is the part of a batch taken by one deduction.
type BatchConsumption struct {
	BatchID  string          `json:"batchID"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
	Cost     decimal.Decimal `json:"cost"`
}

// COGSResult is the cost of a deduction and, under FIFO, its per-batch detail.
type COGSResult struct {
	ProductID    string             `json:"productID"`
	Method       CostingMethod      `json:"method"`
	Quantity     int64              `json:"quantity"`
	TotalCost    decimal.Decimal    `json:"totalCost"`
	Consumptions []BatchConsumption `json:"consumptions,omitempty"`
}

// WeightedAverage computes round((avg*stock + cost*qty)/(stock+qty), 2).
// With nothing on hand afterwards the old average is kept.
func WeightedAverage(avg decimal.Decimal, stock int64, unitCost decimal.Decimal, qty int64) decimal.Decimal {
	total := stock + qty
	if total <= 0 {
		return avg
	}
	value := avg.Mul(decimal.NewFromInt(stock)).Add(unitCost.Mul(decimal.NewFromInt(qty)))
	return RoundMoney(value.Div(decimal.NewFromInt(total)))
}
