package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) error {
	return s.write(func(d *state) error {
		if _, exists := d.products[product.ProductID]; exists {
			return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
		}
		for _, p := range d.products {
			if p.SKU == product.SKU {
				return fmt.Errorf("%w: sku %s", apperrors.ErrDuplicate, product.SKU)
			}
		}
		d.products[product.ProductID] = product
		return nil
	})
}

func (s *Store) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var (
		p  domain.Product
		ok bool
	)
	s.read(func(d *state) { p, ok = d.products[productID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("product", productID)
	}
	return &p, nil
}

func (s *Store) FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return s.FindProductByID(ctx, productID)
}

func (s *Store) UpdateProductStock(ctx context.Context, product domain.Product) error {
	return s.write(func(d *state) error {
		existing, ok := d.products[product.ProductID]
		if !ok {
			return apperrors.NewNotFoundError("product", product.ProductID)
		}
		existing.Stock = product.Stock
		existing.AverageCost = product.AverageCost
		existing.LastUpdatedAt = product.LastUpdatedAt
		existing.LastUpdatedBy = product.LastUpdatedBy
		d.products[product.ProductID] = existing
		return nil
	})
}

func (s *Store) SaveBatch(ctx context.Context, batch domain.ProductBatch) error {
	return s.write(func(d *state) error {
		if _, ok := d.products[batch.ProductID]; !ok {
			return apperrors.NewNotFoundError("product", batch.ProductID)
		}
		d.batches[batch.ProductID] = append(d.batches[batch.ProductID], batch)
		return nil
	})
}

func (s *Store) UpdateBatchRemaining(ctx context.Context, batchID string, remainingQty int64) error {
	return s.write(func(d *state) error {
		for _, batches := range d.batches {
			for i := range batches {
				if batches[i].BatchID == batchID {
					batches[i].RemainingQty = remainingQty
					return nil
				}
			}
		}
		return apperrors.NewNotFoundError("batch", batchID)
	})
}

func (s *Store) ListAvailableBatches(ctx context.Context, productID string) ([]domain.ProductBatch, error) {
	var out []domain.ProductBatch
	s.read(func(d *state) {
		for _, b := range d.batches[productID] {
			if b.RemainingQty > 0 {
				out = append(out, b)
			}
		}
	})
	domain.SortBatchesFIFO(out)
	return out, nil
}

func (s *Store) ListAvailableBatchesForUpdate(ctx context.Context, productID string) ([]domain.ProductBatch, error) {
	return s.ListAvailableBatches(ctx, productID)
}
