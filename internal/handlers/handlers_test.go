package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/events"
	"github.com/SscSPs/coop_backoffice/internal/handlers"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/SscSPs/coop_backoffice/internal/platform/lock"
	"github.com/SscSPs/coop_backoffice/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "handler-test-secret"
	testIssuer = "coop-backoffice-test"
)

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StorageDriver: config.StorageMemory,
		JWTSecret:     testSecret,
		JWTIssuer:     testIssuer,
		Ledger:        config.DefaultLedgerSettings(),
		Lending:       config.DefaultLendingSettings(),
		Accounts:      domain.DefaultAccountMapping(),
		Reporting:     config.DefaultReportingSettings(),
	}
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(cfg, repos, events.NewLogPublisher(nil), lock.NewLocalLocker())
	_, err := container.Account.SeedChart(context.Background(), domain.DefaultChart, "system")
	s.Require().NoError(err)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, container)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "clerk-1",
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s.token, err = token.SignedString([]byte(testSecret))
	s.Require().NoError(err)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func journalBody(debit, credit string, post bool) gin.H {
	return gin.H{
		"date":        "2024-01-15T00:00:00Z",
		"description": "capital injection",
		"lines": []gin.H{
			{"accountCode": "1-1100", "debit": debit, "credit": "0"},
			{"accountCode": "3-1100", "debit": "0", "credit": credit},
		},
		"post": post,
	}
}

func (s *HandlersTestSuite) TestHealthNeedsNoToken() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestAPIRejectsMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestJournalLifecycle() {
	w := s.do(http.MethodPost, "/api/v1/journals", journalBody("500000", "500000", false))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var draft domain.JournalEntry
	s.decode(w, &draft)
	s.Equal(domain.Draft, draft.Status)

	w = s.do(http.MethodPost, "/api/v1/journals/"+draft.JournalID+"/post", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var posted domain.JournalEntry
	s.decode(w, &posted)
	s.Equal(domain.Posted, posted.Status)

	w = s.do(http.MethodGet, "/api/v1/accounts/1-1100", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var cash domain.Account
	s.decode(w, &cash)
	s.True(cash.Balance.Equal(decimal.NewFromInt(500000)), cash.Balance.String())

	w = s.do(http.MethodPost, "/api/v1/journals/"+draft.JournalID+"/reverse", gin.H{"reason": "entered twice"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal domain.JournalEntry
	s.decode(w, &reversal)
	s.Require().NotNil(reversal.ReversesJournalID)
	s.Equal(draft.JournalID, *reversal.ReversesJournalID)

	w = s.do(http.MethodPost, "/api/v1/journals/"+draft.JournalID+"/reverse", gin.H{"reason": "again"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/reports/trial-balance", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tb struct {
		Balanced bool `json:"balanced"`
		Totals   struct {
			Debit  decimal.Decimal `json:"debit"`
			Credit decimal.Decimal `json:"credit"`
		} `json:"totals"`
	}
	s.decode(w, &tb)
	s.True(tb.Balanced)
	s.True(tb.Totals.Debit.Equal(tb.Totals.Credit))
}

func (s *HandlersTestSuite) TestJournalValidation() {
	tests := []struct {
		name string
		body gin.H
	}{
		{"unbalanced", journalBody("100", "90", true)},
		{"negative amount", journalBody("-5", "-5", true)},
		{"missing lines", gin.H{"date": "2024-01-15T00:00:00Z", "description": "empty"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/v1/journals", tt.body)
			s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := s.do(http.MethodGet, "/api/v1/journals/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestCashFlowNeedsPeriod() {
	w := s.do(http.MethodGet, "/api/v1/reports/cash-flow", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/reports/cash-flow?from=2024-01-01&to=2024-01-31", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlersTestSuite) TestLoanSimulateAndLifecycle() {
	w := s.do(http.MethodGet, "/api/v1/loans/simulate?principal=12000000&annualRatePct=12&termMonths=12", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var sim struct {
		Summary struct {
			MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
		} `json:"summary"`
	}
	s.decode(w, &sim)
	s.True(sim.Summary.MonthlyPayment.Equal(decimal.NewFromInt(1120000)), sim.Summary.MonthlyPayment.String())

	w = s.do(http.MethodPost, "/api/v1/loans", gin.H{
		"memberID":      "M-001",
		"principal":     "5000000",
		"annualRatePct": "12",
		"termMonths":    10,
		"adminFee":      "50000",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var loan domain.Loan
	s.decode(w, &loan)
	s.Equal(domain.LoanPending, loan.Status)

	w = s.do(http.MethodPost, "/api/v1/loans/"+loan.LoanID+"/disburse", nil)
	s.Equal(http.StatusConflict, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/loans", gin.H{"memberID": "M-001", "principal": "0", "termMonths": 10})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestInsufficientStockReportsAvailable() {
	w := s.do(http.MethodPost, "/api/v1/products", gin.H{
		"sku":           "RICE-5KG",
		"name":          "Rice 5kg",
		"costingMethod": "FIFO",
		"sellingPrice":  "60000",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var product domain.Product
	s.decode(w, &product)

	w = s.do(http.MethodPost, "/api/v1/products/"+product.ProductID+"/receipts", gin.H{
		"quantity": 2,
		"unitCost": "50000",
		"date":     "2024-01-02T00:00:00Z",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/products/"+product.ProductID+"/sales", gin.H{
		"quantity": 3,
		"date":     "2024-01-03T00:00:00Z",
	})
	s.Require().Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var body struct {
		Details map[string]string `json:"details"`
	}
	s.decode(w, &body)
	s.Equal("2", body.Details["available"])
}

func (s *HandlersTestSuite) TestSavingsOverdraw() {
	w := s.do(http.MethodPost, "/api/v1/savings/M-007/deposits", gin.H{"amount": "100000", "date": "2024-01-05T00:00:00Z"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/savings/M-007/withdrawals", gin.H{"amount": "150000", "date": "2024-01-06T00:00:00Z"})
	s.Equal(http.StatusConflict, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/savings/M-007", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var savings domain.MemberSavings
	s.decode(w, &savings)
	s.True(savings.Balance.Equal(decimal.NewFromInt(100000)), savings.Balance.String())
}

func (s *HandlersTestSuite) TestProvisioningRunWithoutLoans() {
	w := s.do(http.MethodPost, "/api/v1/provisioning/runs", gin.H{"period": "2024-01"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var summary domain.ProvisionRunSummary
	s.decode(w, &summary)
	s.Equal(0, summary.Processed)

	w = s.do(http.MethodPost, "/api/v1/provisioning/runs", gin.H{"period": "2024-13"})
	s.Equal(http.StatusBadRequest, w.Code)
}
