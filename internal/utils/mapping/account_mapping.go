package mapping

import (
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:          d.Code,
		Name:          d.Name,
		Category:      models.AccountCategory(d.Category),
		NormalBalance: string(d.NormalBalance),
		ParentCode:    NullableString(d.ParentCode),
		Description:   NullableString(d.Description),
		IsActive:      d.IsActive,
		Balance:       d.Balance,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:          m.Code,
		Name:          m.Name,
		Category:      domain.AccountCategory(m.Category),
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		ParentCode:    StringValue(m.ParentCode),
		Description:   StringValue(m.Description),
		IsActive:      m.IsActive,
		Balance:       m.Balance,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
