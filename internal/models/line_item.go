package models

import "github.com/shopspring/decimal"

// SaleLineItem is the database representation of a visit line item.
type SaleLineItem struct {
	LineItemID      string          `json:"lineItemID"`
	VisitID         string          `json:"visitID"`
	ItemID          string          `json:"itemID"`
	ItemType        string          `json:"itemType"`
	StaffID         string          `json:"staffID"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountEventID *string         `json:"discountEventID"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
	PrepaidEligible bool            `json:"prepaidEligible"`
	PointsEligible  bool            `json:"pointsEligible"`
	AuditFields
}
