package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the products table.
type Product struct {
	ProductID     string          `db:"product_id"`
	SKU           string          `db:"sku"`
	Name          string          `db:"name"`
	CostingMethod string          `db:"costing_method"`
	Stock         int64           `db:"stock"`
	AverageCost   decimal.Decimal `db:"average_cost"`
	SellingPrice  decimal.Decimal `db:"selling_price"`
	AuditFields
}

// ProductBatch is one stock receipt.
type ProductBatch struct {
	BatchID      string          `db:"batch_id"`
	ProductID    string          `db:"product_id"`
	PurchaseDate time.Time       `db:"purchase_date"`
	QtyReceived  int64           `db:"qty_received"`
	RemainingQty int64           `db:"remaining_qty"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	Supplier     *string         `db:"supplier"`
	AuditFields
}

// MemberSavings is the voluntary-savings balance of one member.
type MemberSavings struct {
	MemberID string          `db:"member_id"`
	Balance  decimal.Decimal `db:"balance"`
	AuditFields
}
