package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type provisioningHandler struct {
	provisioningService portssvc.ProvisioningSvc
}

// RegisterProvisioningRoutes registers the month-end CKPN routes.
func RegisterProvisioningRoutes(rg *gin.RouterGroup, provisioningService portssvc.ProvisioningSvc) {
	h := &provisioningHandler{provisioningService: provisioningService}

	provisioning := rg.Group("/provisioning")
	{
		provisioning.POST("/runs", h.run)
		provisioning.GET("/:period", h.list)
	}
}

// run classifies every active loan for the period and posts the changes.
// Per-loan failures are reported in the summary; the run itself still succeeds.
func (h *provisioningHandler) run(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RunProvisionRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	summary, err := h.provisioningService.RunMonthlyProvision(c.Request.Context(), req.Period, userID)
	if err != nil {
		respondError(c, err, "Failed to run provisioning")
		return
	}
	logger.Info("Provisioning run finished",
		slog.String("period", summary.Period),
		slog.Int("processed", summary.Processed),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}

func (h *provisioningHandler) list(c *gin.Context) {
	provisions, err := h.provisioningService.ListProvisions(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err, "Failed to list provisions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"provisions": provisions})
}
