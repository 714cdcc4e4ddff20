package mapping

import (
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/models"
)

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:     m.ProductID,
		SKU:           m.SKU,
		Name:          m.Name,
		CostingMethod: domain.CostingMethod(m.CostingMethod),
		Stock:         m.Stock,
		AverageCost:   m.AverageCost,
		SellingPrice:  m.SellingPrice,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductBatch converts a model batch to a domain batch
func ToDomainProductBatch(m models.ProductBatch) domain.ProductBatch {
	return domain.ProductBatch{
		BatchID:      m.BatchID,
		ProductID:    m.ProductID,
		PurchaseDate: m.PurchaseDate,
		QtyReceived:  m.QtyReceived,
		RemainingQty: m.RemainingQty,
		UnitCost:     m.UnitCost,
		Supplier:     StringValue(m.Supplier),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMemberSavings converts a model savings row to domain savings
func ToDomainMemberSavings(m models.MemberSavings) domain.MemberSavings {
	return domain.MemberSavings{
		MemberID:    m.MemberID,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
