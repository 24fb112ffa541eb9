package models

import "github.com/shopspring/decimal"

// CatalogItem is the database representation of a catalog item. Read-only to
// the settlement core.
type CatalogItem struct {
	ItemID          string          `json:"itemID"`
	Name            string          `json:"name"`
	ItemType        string          `json:"itemType"`
	Price           decimal.Decimal `json:"price"`
	PrepaidEligible bool            `json:"prepaidEligible"`
	PointsEligible  bool            `json:"pointsEligible"`
	IsActive        bool            `json:"isActive"`
}

// DiscountEvent is the database representation of a discount rule. Read-only
// to the settlement core. ItemScope is stored as a text array; empty means
// the rule applies to every item.
type DiscountEvent struct {
	EventID   string           `json:"eventID"`
	Name      string           `json:"name"`
	Percent   *decimal.Decimal `json:"percent"`
	Amount    *decimal.Decimal `json:"amount"`
	ItemScope []string         `json:"itemScope"`
}
