package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	ledgerService    portssvc.LedgerQuerySvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, ls portssvc.LedgerQuerySvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		ledgerService:    ls,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, ledgerService portssvc.LedgerQuerySvc) {
	h := newReportingHandler(reportingService, ledgerService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
	}
}

// getTrialBalance sums every account up to asOf (YYYY-MM-DD), or over all
// posted entries when asOf is omitted.
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var params dto.AsOfParams
	if !bindQuery(c, &params) {
		return
	}

	tb, err := h.ledgerService.GetTrialBalance(c.Request.Context(), params.AsOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	if !tb.Balanced {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Trial balance does not balance",
			slog.String("debit", tb.TotalDebit.String()), slog.String("credit", tb.TotalCredit.String()))
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	var params dto.ReportAsOfParams
	if !bindQuery(c, &params) {
		return
	}
	bs, err := h.reportingService.BalanceSheet(c.Request.Context(), params.AsOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, bs)
}

func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	var params dto.ReportPeriodParams
	if !bindQuery(c, &params) {
		return
	}
	is, err := h.reportingService.IncomeStatement(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, is)
}

// getCashFlow reports cash movements between from and to, both inclusive.
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	var params dto.ReportPeriodParams
	if !bindQuery(c, &params) {
		return
	}
	cf, err := h.reportingService.CashFlow(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, cf)
}
