package domain

import "github.com/shopspring/decimal"

// CatalogItem is a read-only snapshot of an item in the external catalog system.
// This core never mutates catalog data.
type CatalogItem struct {
	ItemID          string          `json:"itemID"`
	Name            string          `json:"name"`
	ItemType        LineItemType    `json:"itemType"`
	Price           decimal.Decimal `json:"price"`
	PrepaidEligible bool            `json:"prepaidEligible"` // May be settled with stored value
	PointsEligible  bool            `json:"pointsEligible"`  // May be settled with points
	IsActive        bool            `json:"isActive"`
}

// DiscountEvent is a read-only percent-or-amount discount rule from the
// external catalog. Exactly one of Percent or Amount is set. An empty ItemScope
// means the rule applies to every item.
type DiscountEvent struct {
	EventID   string           `json:"eventID"`
	Name      string           `json:"name"`
	Percent   *decimal.Decimal `json:"percent,omitempty"` // e.g. 10 for 10%
	Amount    *decimal.Decimal `json:"amount,omitempty"`  // Flat discount in currency units
	ItemScope []string         `json:"itemScope,omitempty"`
}

// AppliesTo reports whether the rule may be applied to the given catalog item.
func (d DiscountEvent) AppliesTo(itemID string) bool {
	if len(d.ItemScope) == 0 {
		return true
	}
	for _, id := range d.ItemScope {
		if id == itemID {
			return true
		}
	}
	return false
}
