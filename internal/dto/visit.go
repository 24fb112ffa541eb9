package dto

import (
	"time"

	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVisitRequest defines the payload for opening a new draft visit.
type CreateVisitRequest struct {
	CustomerID string `json:"customerID" binding:"required"`
	StoreID    string `json:"storeID" binding:"required"`
	VisitType  string `json:"visitType" binding:"omitempty,oneof=NEW RETURNING SUBSTITUTE"`
	VisitedAt  *time.Time `json:"visitedAt,omitempty"`
}

// AddLineItemRequest defines the payload for attaching a catalog item to a visit.
type AddLineItemRequest struct {
	ItemID          string  `json:"itemID" binding:"required"`
	StaffID         string  `json:"staffID,omitempty"`
	Quantity        int64   `json:"quantity" binding:"required,gt=0"`
	DiscountEventID *string `json:"discountEventID,omitempty"`
}

// LineItemResponse defines the data returned for a sale line item.
type LineItemResponse struct {
	LineItemID      string          `json:"lineItemID"`
	ItemID          string          `json:"itemID"`
	ItemType        string          `json:"itemType"`
	StaffID         string          `json:"staffID,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountEventID *string         `json:"discountEventID,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
	PrepaidEligible bool            `json:"prepaidEligible"`
	PointsEligible  bool            `json:"pointsEligible"`
}

// VisitResponse defines the data returned for a visit, including its derived
// totals and the remaining amount still unsettled.
type VisitResponse struct {
	VisitID        string             `json:"visitID"`
	CustomerID     string             `json:"customerID"`
	StoreID        string             `json:"storeID"`
	VisitedAt      time.Time          `json:"visitedAt"`
	Status         string             `json:"status"`
	VisitType      string             `json:"visitType"`
	SubtotalAmount decimal.Decimal    `json:"subtotalAmount"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	Remaining      decimal.Decimal    `json:"remaining"`
	LineItems      []LineItemResponse `json:"lineItems,omitempty"`
	Payments       []PaymentResponse  `json:"payments,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ListVisitsParams holds parameters for listing a customer's visits.
type ListVisitsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListVisitsResponse is the paginated visit list payload.
type ListVisitsResponse struct {
	Visits    []VisitResponse `json:"visits"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineItemResponse converts a domain.SaleLineItem to its DTO.
func ToLineItemResponse(li *domain.SaleLineItem) LineItemResponse {
	return LineItemResponse{
		LineItemID:      li.LineItemID,
		ItemID:          li.ItemID,
		ItemType:        string(li.ItemType),
		StaffID:         li.StaffID,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		DiscountEventID: li.DiscountEventID,
		DiscountAmount:  li.DiscountAmount,
		FinalAmount:     li.FinalAmount,
		PrepaidEligible: li.PrepaidEligible,
		PointsEligible:  li.PointsEligible,
	}
}

// ToVisitResponse converts a domain.Visit to its DTO, computing the remaining
// balance from the payments currently attached.
func ToVisitResponse(v *domain.Visit) VisitResponse {
	resp := VisitResponse{
		VisitID:        v.VisitID,
		CustomerID:     v.CustomerID,
		StoreID:        v.StoreID,
		VisitedAt:      v.VisitedAt,
		Status:         string(v.Status),
		VisitType:      string(v.VisitType),
		SubtotalAmount: v.SubtotalAmount,
		TotalAmount:    v.TotalAmount,
		Remaining:      v.Remaining(),
		CreatedAt:      v.CreatedAt,
	}
	if len(v.LineItems) > 0 {
		resp.LineItems = make([]LineItemResponse, len(v.LineItems))
		for i := range v.LineItems {
			resp.LineItems[i] = ToLineItemResponse(&v.LineItems[i])
		}
	}
	if len(v.Payments) > 0 {
		resp.Payments = make([]PaymentResponse, len(v.Payments))
		for i := range v.Payments {
			resp.Payments[i] = ToPaymentResponse(&v.Payments[i])
		}
	}
	return resp
}
