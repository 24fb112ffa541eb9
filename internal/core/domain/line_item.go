package domain

import "github.com/shopspring/decimal"

// LineItemType identifies what kind of catalog entry a line item sells.
type LineItemType string

const (
	LineItemService         LineItemType = "SERVICE"
	LineItemProduct         LineItemType = "PRODUCT"
	LineItemPrepaidTopup    LineItemType = "PREPAID_TOPUP"
	LineItemMembershipTopup LineItemType = "MEMBERSHIP_TOPUP"
)

// SaleLineItem is a single catalog item attached to a visit. It is owned
// exclusively by its visit and exists only while the visit is DRAFT (or frozen
// inside a finalized visit). Discount figures are computed by the pricing
// engine at creation time and stored denormalized.
type SaleLineItem struct {
	LineItemID      string          `json:"lineItemID"` // Primary Key (UUID)
	VisitID         string          `json:"visitID"`    // FK -> visits.visit_id
	ItemID          string          `json:"itemID"`     // FK -> external catalog item
	ItemType        LineItemType    `json:"itemType"`
	StaffID         string          `json:"staffID,omitempty"` // FK -> external staff catalog, nullable
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`                 // Catalog price snapshot at sale time
	DiscountEventID *string         `json:"discountEventID,omitempty"` // Applied discount rule, nullable
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"` // UnitPrice*Quantity - DiscountAmount
	PrepaidEligible bool            `json:"prepaidEligible"`
	PointsEligible  bool            `json:"pointsEligible"`
	AuditFields
}

// Subtotal returns the pre-discount amount for the line.
func (li SaleLineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}
