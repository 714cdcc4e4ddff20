package dto

import (
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to add an account to the chart.
type CreateAccountRequest struct {
	Code          string                 `json:"code" binding:"required,max=20"`
	Name          string                 `json:"name" binding:"required"`
	Category      domain.AccountCategory `json:"category" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance domain.NormalBalance   `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // defaults from category
	ParentCode    string                 `json:"parentCode"`
	Description   string                 `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Category      domain.AccountCategory `json:"category"`
	NormalBalance domain.NormalBalance   `json:"normalBalance"`
	ParentCode    string                 `json:"parentCode,omitempty"`
	Description   string                 `json:"description,omitempty"`
	IsActive      bool                   `json:"isActive"`
	Balance       decimal.Decimal        `json:"balance"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy string                 `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// SeedChartResponse reports how many default accounts were created.
type SeedChartResponse struct {
	Created int `json:"created"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:          acc.Code,
		Name:          acc.Name,
		Category:      acc.Category,
		NormalBalance: acc.NormalBalance,
		ParentCode:    acc.ParentCode,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
