package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// RegisterInventoryRoutes registers product, stock and sale routes.
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService}

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("/:id", h.getProduct)
		products.GET("/:id/batches", h.listBatches)
		products.GET("/:id/cogs", h.quoteCOGS)
		products.POST("/:id/receipts", h.receiveStock)
		products.POST("/:id/sales", h.recordSale)
	}
}

func (h *inventoryHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	product, err := h.inventoryService.CreateProduct(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	c.JSON(http.StatusCreated, product)
}

func (h *inventoryHandler) getProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *inventoryHandler) listBatches(c *gin.Context) {
	batches, err := h.inventoryService.ListBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list batches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// quoteCOGS prices a deduction of ?quantity= units without touching stock.
func (h *inventoryHandler) quoteCOGS(c *gin.Context) {
	var q dto.COGSQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.inventoryService.CalculateCOGS(c.Request.Context(), c.Param("id"), q.Quantity)
	if err != nil {
		respondError(c, err, "Failed to calculate cost of goods sold")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *inventoryHandler) receiveStock(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	batch, err := h.inventoryService.ReceiveStock(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to receive stock")
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// recordSale deducts stock and posts revenue and cost in one unit of work.
func (h *inventoryHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	sale, err := h.inventoryService.RecordSale(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record sale")
		return
	}
	logger.Info("Sale recorded",
		slog.String("product_id", sale.ProductID),
		slog.Int64("quantity", sale.Quantity),
		slog.String("revenue", sale.Revenue.String()))
	c.JSON(http.StatusCreated, sale)
}
