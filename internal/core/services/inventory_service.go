package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

type inventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryRepositoryFacade
	poster        portssvc.JournalPosterSvc
	resolver      portssvc.AccountResolverSvc
	uow           *UnitOfWork
}

// NewInventoryService creates the store stock and costing service.
func NewInventoryService(
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	poster portssvc.JournalPosterSvc,
	resolver portssvc.AccountResolverSvc,
	uow *UnitOfWork,
) portssvc.InventorySvcFacade {
	return &inventoryService{
		BaseService:   newBaseService(),
		inventoryRepo: inventoryRepo,
		poster:        poster,
		resolver:      resolver,
		uow:           uow,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" || name == "" {
		return nil, apperrors.NewValidationError("sku and name are required")
	}
	if !req.CostingMethod.IsValid() {
		return nil, apperrors.NewValidationError("unknown costing method %q", string(req.CostingMethod))
	}
	if req.SellingPrice.IsNegative() || !domain.HasMoneyPrecision(req.SellingPrice) {
		return nil, apperrors.NewValidationError("invalid selling price").WithField("sellingPrice", req.SellingPrice.String())
	}

	product := domain.Product{
		ProductID:     s.NewID(),
		SKU:           sku,
		Name:          name,
		CostingMethod: req.CostingMethod,
		AverageCost:   decimal.Zero,
		SellingPrice:  req.SellingPrice,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.inventoryRepo.SaveProduct(ctx, product); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save product", slog.String("sku", sku))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("sku", sku))
	return &product, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.inventoryRepo.FindProductByID(ctx, productID)
}

// ListBatches returns the batches that still hold stock, oldest first.
func (s *inventoryService) ListBatches(ctx context.Context, productID string) ([]domain.ProductBatch, error) {
	if _, err := s.inventoryRepo.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}
	batches, err := s.inventoryRepo.ListAvailableBatches(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	if batches == nil {
		batches = []domain.ProductBatch{}
	}
	return batches, nil
}

// CalculateCOGS prices a deduction without changing stock.
func (s *inventoryService) CalculateCOGS(ctx context.Context, productID string, quantity int64) (*domain.COGSResult, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive").WithField("quantity", quantity)
	}
	product, err := s.inventoryRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	batches, err := s.inventoryRepo.ListAvailableBatches(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	result, _, err := computeCOGS(*product, batches, quantity)
	return result, err
}

// DeductStock removes quantity from stock and returns its cost.
func (s *inventoryService) DeductStock(ctx context.Context, productID string, quantity int64, userID string) (*domain.COGSResult, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive").WithField("quantity", quantity)
	}
	var (
		result *domain.COGSResult
		err    error
	)
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		result, _, err = s.deductStock(ctx, productID, quantity, userID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to deduct stock", slog.String("product_id", productID))
		return nil, err
	}
	return result, nil
}

// deductStock must run inside a unit of work.
func (s *inventoryService) deductStock(ctx context.Context, productID string, quantity int64, userID string) (*domain.COGSResult, *domain.Product, error) {
	product, err := s.inventoryRepo.FindProductByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	batches, err := s.inventoryRepo.ListAvailableBatchesForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock batches: %w", err)
	}
	result, taken, err := computeCOGS(*product, batches, quantity)
	if err != nil {
		return nil, nil, err
	}

	remaining := make(map[string]int64, len(batches))
	for _, b := range batches {
		remaining[b.BatchID] = b.RemainingQty
	}
	for _, c := range taken {
		if err := s.inventoryRepo.UpdateBatchRemaining(ctx, c.BatchID, remaining[c.BatchID]-c.Quantity); err != nil {
			return nil, nil, fmt.Errorf("failed to update batch %s: %w", c.BatchID, err)
		}
	}

	product.Stock -= quantity
	product.Touch(userID, s.Now())
	if err := s.inventoryRepo.UpdateProductStock(ctx, *product); err != nil {
		return nil, nil, fmt.Errorf("failed to update product stock: %w", err)
	}
	s.LogDebug(ctx, "Stock deducted",
		slog.String("product_id", productID),
		slog.Int64("quantity", quantity),
		slog.String("cost", result.TotalCost.StringFixed(domain.MoneyPlaces)))
	return result, product, nil
}

// computeCOGS prices quantity under the product's method. Only FIFO consumes
// batches, oldest first; the returned consumptions say how much leaves each one.
// Average-costed batches stay as received.
func computeCOGS(product domain.Product, batches []domain.ProductBatch, quantity int64) (*domain.COGSResult, []domain.BatchConsumption, error) {
	if quantity > product.Stock {
		return nil, nil, apperrors.NewInsufficientStockError(product.ProductID, quantity, product.Stock)
	}
	result := &domain.COGSResult{ProductID: product.ProductID, Method: product.CostingMethod, Quantity: quantity}
	switch product.CostingMethod {
	case domain.CostingFIFO:
	case domain.CostingAverage:
		result.TotalCost = domain.RoundMoney(product.AverageCost.Mul(decimal.NewFromInt(quantity)))
		return result, nil, nil
	default:
		return nil, nil, apperrors.NewValidationError("unknown costing method %q", string(product.CostingMethod))
	}

	domain.SortBatchesFIFO(batches)
	var (
		taken     []domain.BatchConsumption
		fifoCost  = decimal.Zero
		remaining = quantity
		available int64
	)
	for _, b := range batches {
		available += b.RemainingQty
		if remaining == 0 || b.RemainingQty <= 0 {
			continue
		}
		qty := min(remaining, b.RemainingQty)
		cost := domain.RoundMoney(b.UnitCost.Mul(decimal.NewFromInt(qty)))
		taken = append(taken, domain.BatchConsumption{BatchID: b.BatchID, Quantity: qty, UnitCost: b.UnitCost, Cost: cost})
		fifoCost = fifoCost.Add(cost)
		remaining -= qty
	}
	if remaining > 0 {
		return nil, nil, apperrors.NewInsufficientStockError(product.ProductID, quantity, available)
	}
	result.TotalCost = fifoCost
	result.Consumptions = taken
	return result, taken, nil
}

// ReceiveStock records a purchase batch and posts Dr inventory against cash or payables.
func (s *inventoryService) ReceiveStock(ctx context.Context, productID string, req dto.ReceiveStockRequest, userID string) (*domain.ProductBatch, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive").WithField("quantity", req.Quantity)
	}
	if !req.UnitCost.IsPositive() || !domain.HasMoneyPrecision(req.UnitCost) {
		return nil, apperrors.NewValidationError("unit cost must be a positive amount").WithField("unitCost", req.UnitCost.String())
	}
	fundingRole := domain.RoleCash
	switch req.PaidFrom {
	case "", dto.PaidFromCash:
	case dto.PaidFromPayable:
		fundingRole = domain.RolePayable
	default:
		return nil, apperrors.NewValidationError("unknown payment source %q", req.PaidFrom)
	}
	date := req.Date
	if date.IsZero() {
		date = s.Now()
	}

	var batch domain.ProductBatch
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		inventory, err := s.resolver.Resolve(ctx, domain.RoleInventory)
		if err != nil {
			return err
		}
		funding, err := s.resolver.Resolve(ctx, fundingRole)
		if err != nil {
			return err
		}
		product, err := s.inventoryRepo.FindProductByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		now := s.Now()
		batch = domain.ProductBatch{
			BatchID:      s.NewID(),
			ProductID:    productID,
			PurchaseDate: domain.DateOnly(date),
			QtyReceived:  req.Quantity,
			RemainingQty: req.Quantity,
			UnitCost:     req.UnitCost,
			Supplier:     req.Supplier,
			AuditFields:  domain.NewAuditFields(userID, now),
		}
		if err := s.inventoryRepo.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to save batch: %w", err)
		}

		product.AverageCost = domain.WeightedAverage(product.AverageCost, product.Stock, req.UnitCost, req.Quantity)
		product.Stock += req.Quantity
		product.Touch(userID, now)
		if err := s.inventoryRepo.UpdateProductStock(ctx, *product); err != nil {
			return fmt.Errorf("failed to update product stock: %w", err)
		}

		amount := domain.RoundMoney(req.UnitCost.Mul(decimal.NewFromInt(req.Quantity)))
		_, err = s.poster.PostEntry(ctx, domain.JournalEntry{
			EntryDate:     batch.PurchaseDate,
			Description:   fmt.Sprintf("Stock receipt %s x%d", product.SKU, req.Quantity),
			ReferenceType: domain.RefStockIn,
			ReferenceID:   batch.BatchID,
			Lines: []domain.JournalLine{
				domain.DebitLine(inventory.Code, amount, product.Name),
				domain.CreditLine(funding.Code, amount, req.Supplier),
			},
		}, userID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to receive stock", slog.String("product_id", productID))
		return nil, err
	}

	s.LogInfo(ctx, "Stock received",
		slog.String("product_id", productID),
		slog.String("batch_id", batch.BatchID),
		slog.Int64("quantity", req.Quantity))
	return &batch, nil
}

// RecordSale deducts stock and posts the sale and its cost in one unit of work.
func (s *inventoryService) RecordSale(ctx context.Context, productID string, req dto.RecordSaleRequest, userID string) (*dto.SaleResponse, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive").WithField("quantity", req.Quantity)
	}
	date := req.Date
	if date.IsZero() {
		date = s.Now()
	}
	date = domain.DateOnly(date)

	var resp dto.SaleResponse
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		cash, err := s.resolver.Resolve(ctx, domain.RoleCash)
		if err != nil {
			return err
		}
		sales, err := s.resolver.Resolve(ctx, domain.RoleSalesRevenue)
		if err != nil {
			return err
		}
		cogsAcc, err := s.resolver.Resolve(ctx, domain.RoleCOGS)
		if err != nil {
			return err
		}
		inventory, err := s.resolver.Resolve(ctx, domain.RoleInventory)
		if err != nil {
			return err
		}

		cogs, product, err := s.deductStock(ctx, productID, req.Quantity, userID)
		if err != nil {
			return err
		}
		price := product.SellingPrice
		if req.UnitPrice != nil {
			price = *req.UnitPrice
		}
		if !price.IsPositive() || !domain.HasMoneyPrecision(price) {
			return apperrors.NewValidationError("unit price must be a positive amount").WithField("unitPrice", price.String())
		}
		revenue := domain.RoundMoney(price.Mul(decimal.NewFromInt(req.Quantity)))

		saleJournal, err := s.poster.PostEntry(ctx, domain.JournalEntry{
			EntryDate:     date,
			Description:   fmt.Sprintf("Sale %s x%d", product.SKU, req.Quantity),
			ReferenceType: domain.RefSale,
			ReferenceID:   productID,
			Lines: []domain.JournalLine{
				domain.DebitLine(cash.Code, revenue, ""),
				domain.CreditLine(sales.Code, revenue, product.Name),
			},
		}, userID)
		if err != nil {
			return err
		}

		var costJournal *domain.JournalEntry
		if cogs.TotalCost.IsPositive() {
			costJournal, err = s.poster.PostEntry(ctx, domain.JournalEntry{
				EntryDate:     date,
				Description:   fmt.Sprintf("Cost of sale %s x%d (%s)", product.SKU, req.Quantity, cogs.Method),
				ReferenceType: domain.RefSale,
				ReferenceID:   saleJournal.JournalID,
				Lines: []domain.JournalLine{
					domain.DebitLine(cogsAcc.Code, cogs.TotalCost, ""),
					domain.CreditLine(inventory.Code, cogs.TotalCost, product.Name),
				},
			}, userID)
			if err != nil {
				return err
			}
		}

		resp = dto.SaleResponse{
			ProductID:      productID,
			Quantity:       req.Quantity,
			Revenue:        revenue,
			COGS:           cogs,
			GrossMargin:    revenue.Sub(cogs.TotalCost),
			SaleJournal:    saleJournal,
			CostJournal:    costJournal,
			RemainingStock: product.Stock,
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record sale", slog.String("product_id", productID))
		return nil, err
	}
	return &resp, nil
}
