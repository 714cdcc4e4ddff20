package services

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/dto"
)

// InventoryReaderSvc defines read operations for store products
type InventoryReaderSvc interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListBatches(ctx context.Context, productID string) ([]domain.ProductBatch, error)

	// CalculateCOGS prices a deduction of quantity without changing stock.
	CalculateCOGS(ctx context.Context, productID string, quantity int64) (*domain.COGSResult, error)
}

// InventoryWriterSvc defines stock movements
type InventoryWriterSvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)

	// DeductStock removes quantity using the product's costing method and
	// returns its cost. Nothing changes when stock is insufficient.
	DeductStock(ctx context.Context, productID string, quantity int64, userID string) (*domain.COGSResult, error)

	// ReceiveStock adds a batch, updates the weighted average and posts the purchase.
	ReceiveStock(ctx context.Context, productID string, req dto.ReceiveStockRequest, userID string) (*domain.ProductBatch, error)

	// RecordSale deducts stock and posts the revenue and cost entries.
	RecordSale(ctx context.Context, productID string, req dto.RecordSaleRequest, userID string) (*dto.SaleResponse, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}

// SavingsSvc handles member voluntary savings.
type SavingsSvc interface {
	GetSavings(ctx context.Context, memberID string) (*domain.MemberSavings, error)
	Deposit(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string) (*domain.MemberSavings, error)
	Withdraw(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string) (*domain.MemberSavings, error)
}
