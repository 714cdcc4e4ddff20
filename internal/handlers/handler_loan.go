package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// RegisterLoanRoutes registers the loan lifecycle routes.
func RegisterLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("/simulate", h.simulate)
		loans.POST("", h.createLoan)
		loans.GET("/:id", h.getLoan)
		loans.GET("/:id/schedule", h.getSchedule)
		loans.GET("/:id/payments", h.listPayments)
		loans.POST("/:id/submit", h.submit)
		loans.POST("/:id/approve", h.approve)
		loans.POST("/:id/reject", h.reject)
		loans.POST("/:id/disburse", h.disburse)
		loans.POST("/:id/payments", h.pay)
		loans.POST("/:id/default", h.markDefaulted)
	}
}

// simulate prices a prospective loan from query parameters. A convergence
// failure of the EIR solver still returns the schedule, with a warning.
func (h *loanHandler) simulate(c *gin.Context) {
	var req dto.SimulateLoanRequest
	if !bindQuery(c, &req) {
		return
	}
	resp, err := h.loanService.Simulate(req)
	if err != nil {
		respondError(c, err, "Failed to simulate loan")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create loan")
		return
	}
	logger.Info("Loan application created", slog.String("loan_id", loan.LoanID), slog.String("member_id", loan.MemberID))
	c.JSON(http.StatusCreated, loan)
}

func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *loanHandler) getSchedule(c *gin.Context) {
	schedule, err := h.loanService.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": schedule})
}

func (h *loanHandler) listPayments(c *gin.Context) {
	payments, err := h.loanService.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *loanHandler) submit(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.SubmitForApproval(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to submit loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}

// approve records the approver and stores the schedule.
func (h *loanHandler) approve(c *gin.Context) {
	var req dto.ApproveLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	approverID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("id"), req, approverID)
	if err != nil {
		respondError(c, err, "Failed to approve loan")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan approved", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusOK, loan)
}

func (h *loanHandler) reject(c *gin.Context) {
	var req dto.RejectLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.RejectLoan(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to reject loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *loanHandler) disburse(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.DisburseLoan(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to disburse loan")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan disbursed", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusOK, loan)
}

// pay settles the earliest unpaid installment.
func (h *loanHandler) pay(c *gin.Context) {
	var req dto.PayInstallmentRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	payment, err := h.loanService.PayInstallment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *loanHandler) markDefaulted(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	loan, err := h.loanService.MarkDefaulted(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to mark loan defaulted")
		return
	}
	c.JSON(http.StatusOK, loan)
}
