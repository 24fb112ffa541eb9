package mapping

import (
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/models"
)

// ToDomainCatalogItem converts a model CatalogItem to a domain CatalogItem.
func ToDomainCatalogItem(m models.CatalogItem) domain.CatalogItem {
	return domain.CatalogItem{
		ItemID:          m.ItemID,
		Name:            m.Name,
		ItemType:        domain.LineItemType(m.ItemType),
		Price:           m.Price,
		PrepaidEligible: m.PrepaidEligible,
		PointsEligible:  m.PointsEligible,
		IsActive:        m.IsActive,
	}
}

// ToDomainDiscountEvent converts a model DiscountEvent to a domain DiscountEvent.
func ToDomainDiscountEvent(m models.DiscountEvent) domain.DiscountEvent {
	return domain.DiscountEvent{
		EventID:   m.EventID,
		Name:      m.Name,
		Percent:   m.Percent,
		Amount:    m.Amount,
		ItemScope: m.ItemScope,
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer.
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Phone:       m.Phone,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
