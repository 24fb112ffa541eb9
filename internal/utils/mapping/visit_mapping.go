package mapping

import (
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/SalonKit/salon_pos_app/internal/models"
)

// ToModelVisit converts a domain Visit to a model Visit.
func ToModelVisit(d domain.Visit) models.Visit {
	return models.Visit{
		VisitID:        d.VisitID,
		CustomerID:     d.CustomerID,
		StoreID:        d.StoreID,
		VisitedAt:      d.VisitedAt,
		Status:         models.VisitStatus(d.Status),
		VisitType:      string(d.VisitType),
		SubtotalAmount: d.SubtotalAmount,
		TotalAmount:    d.TotalAmount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVisit converts a model Visit to a domain Visit.
func ToDomainVisit(m models.Visit) domain.Visit {
	return domain.Visit{
		VisitID:        m.VisitID,
		CustomerID:     m.CustomerID,
		StoreID:        m.StoreID,
		VisitedAt:      m.VisitedAt,
		Status:         domain.VisitStatus(m.Status),
		VisitType:      domain.VisitType(m.VisitType),
		SubtotalAmount: m.SubtotalAmount,
		TotalAmount:    m.TotalAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain SaleLineItem to a model SaleLineItem.
func ToModelLineItem(d domain.SaleLineItem) models.SaleLineItem {
	return models.SaleLineItem{
		LineItemID:      d.LineItemID,
		VisitID:         d.VisitID,
		ItemID:          d.ItemID,
		ItemType:        string(d.ItemType),
		StaffID:         d.StaffID,
		Quantity:        d.Quantity,
		UnitPrice:       d.UnitPrice,
		DiscountEventID: d.DiscountEventID,
		DiscountAmount:  d.DiscountAmount,
		FinalAmount:     d.FinalAmount,
		PrepaidEligible: d.PrepaidEligible,
		PointsEligible:  d.PointsEligible,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItem converts a model SaleLineItem to a domain SaleLineItem.
func ToDomainLineItem(m models.SaleLineItem) domain.SaleLineItem {
	return domain.SaleLineItem{
		LineItemID:      m.LineItemID,
		VisitID:         m.VisitID,
		ItemID:          m.ItemID,
		ItemType:        domain.LineItemType(m.ItemType),
		StaffID:         m.StaffID,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountEventID: m.DiscountEventID,
		DiscountAmount:  m.DiscountAmount,
		FinalAmount:     m.FinalAmount,
		PrepaidEligible: m.PrepaidEligible,
		PointsEligible:  m.PointsEligible,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineItemSlice converts a slice of model line items.
func ToDomainLineItemSlice(ms []models.SaleLineItem) []domain.SaleLineItem {
	out := make([]domain.SaleLineItem, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLineItem(m)
	}
	return out
}

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		VisitID:       d.VisitID,
		Method:        string(d.Method),
		Amount:        d.Amount,
		LedgerEntryID: d.LedgerEntryID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		VisitID:       m.VisitID,
		Method:        domain.PaymentMethod(m.Method),
		Amount:        m.Amount,
		LedgerEntryID: m.LedgerEntryID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model payments.
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	out := make([]domain.Payment, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPayment(m)
	}
	return out
}
