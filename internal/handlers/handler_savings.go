package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/gin-gonic/gin"
)

type savingsHandler struct {
	savingsService portssvc.SavingsSvc
}

// RegisterSavingsRoutes registers member voluntary-savings routes.
func RegisterSavingsRoutes(rg *gin.RouterGroup, savingsService portssvc.SavingsSvc) {
	h := &savingsHandler{savingsService: savingsService}

	savings := rg.Group("/savings/:memberID")
	{
		savings.GET("", h.get)
		savings.POST("/deposits", h.deposit)
		savings.POST("/withdrawals", h.withdraw)
	}
}

func (h *savingsHandler) get(c *gin.Context) {
	s, err := h.savingsService.GetSavings(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve savings")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *savingsHandler) deposit(c *gin.Context) {
	h.move(c, h.savingsService.Deposit, "Failed to record deposit")
}

func (h *savingsHandler) withdraw(c *gin.Context) {
	h.move(c, h.savingsService.Withdraw, "Failed to record withdrawal")
}

type savingsMove func(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string) (*domain.MemberSavings, error)

func (h *savingsHandler) move(c *gin.Context, fn savingsMove, failMsg string) {
	var req dto.SavingsTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	s, err := fn(c.Request.Context(), c.Param("memberID"), req, userID)
	if err != nil {
		respondError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, s)
}
