package repositories

import (
	"context"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// ProductReader defines read operations for products and their batches
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListAvailableBatches returns batches with remaining quantity, oldest purchase first.
	ListAvailableBatches(ctx context.Context, productID string) ([]domain.ProductBatch, error)
}

// ProductWriter defines write operations for products and batches
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProductStock writes stock and average cost.
	UpdateProductStock(ctx context.Context, product domain.Product) error

	SaveBatch(ctx context.Context, batch domain.ProductBatch) error
	UpdateBatchRemaining(ctx context.Context, batchID string, remainingQty int64) error
}

// ProductTransactionSupport defines operations that must run inside a unit of work
type ProductTransactionSupport interface {
	FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error)
	ListAvailableBatchesForUpdate(ctx context.Context, productID string) ([]domain.ProductBatch, error)
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductTransactionSupport
}
