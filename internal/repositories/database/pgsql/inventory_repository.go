package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/models"
	"github.com/SscSPs/coop_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `product_id, sku, name, costing_method, stock, average_cost, selling_price,
	created_at, created_by, last_updated_at, last_updated_by`

const batchColumns = `batch_id, product_id, purchase_date, qty_received, remaining_qty, unit_cost, supplier,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(pool *pgxpool.Pool) *PgxInventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

// SaveProduct inserts a product; a taken SKU is reported as ErrDuplicate.
func (r *PgxInventoryRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.db(ctx).Exec(ctx, query,
		product.ProductID, product.SKU, product.Name, string(product.CostingMethod), product.Stock,
		product.AverageCost, product.SellingPrice,
		product.CreatedAt, product.CreatedBy, product.LastUpdatedAt, product.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "product", product.SKU)
	}
	return nil
}

func (r *PgxInventoryRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findProduct(ctx, productID, false)
}

func (r *PgxInventoryRepository) FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findProduct(ctx, productID, true)
}

func (r *PgxInventoryRepository) findProduct(ctx context.Context, productID string, forUpdate bool) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", productID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, mapReadError(err, "product", productID)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}

// UpdateProductStock writes stock and average cost only.
func (r *PgxInventoryRepository) UpdateProductStock(ctx context.Context, product domain.Product) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE products
		SET stock = $2, average_cost = $3, last_updated_at = $4, last_updated_by = $5
		WHERE product_id = $1;`,
		product.ProductID, product.Stock, product.AverageCost, product.LastUpdatedAt, product.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "product", product.ProductID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product", product.ProductID)
	}
	return nil
}

func (r *PgxInventoryRepository) SaveBatch(ctx context.Context, batch domain.ProductBatch) error {
	query := `INSERT INTO product_batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.db(ctx).Exec(ctx, query,
		batch.BatchID, batch.ProductID, batch.PurchaseDate, batch.QtyReceived, batch.RemainingQty, batch.UnitCost,
		mapping.NullableString(batch.Supplier),
		batch.CreatedAt, batch.CreatedBy, batch.LastUpdatedAt, batch.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "batch", batch.BatchID)
	}
	return nil
}

func (r *PgxInventoryRepository) UpdateBatchRemaining(ctx context.Context, batchID string, remainingQty int64) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `UPDATE product_batches SET remaining_qty = $2 WHERE batch_id = $1;`, batchID, remainingQty)
	if err != nil {
		return mapWriteError(err, "batch", batchID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("batch", batchID)
	}
	return nil
}

// ListAvailableBatches returns batches with stock left, oldest purchase first.
func (r *PgxInventoryRepository) ListAvailableBatches(ctx context.Context, productID string) ([]domain.ProductBatch, error) {
	return r.listBatches(ctx, productID, false)
}

func (r *PgxInventoryRepository) ListAvailableBatchesForUpdate(ctx context.Context, productID string) ([]domain.ProductBatch, error) {
	return r.listBatches(ctx, productID, true)
}

func (r *PgxInventoryRepository) listBatches(ctx context.Context, productID string, forUpdate bool) ([]domain.ProductBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1 AND remaining_qty > 0
		ORDER BY purchase_date, created_at, batch_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches of product %s: %w", productID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ProductBatch])
	if err != nil {
		return nil, fmt.Errorf("failed to scan batches of product %s: %w", productID, err)
	}
	batches := make([]domain.ProductBatch, len(ms))
	for i, m := range ms {
		batches[i] = mapping.ToDomainProductBatch(m)
	}
	return batches, nil
}
