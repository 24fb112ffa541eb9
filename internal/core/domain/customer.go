package domain

// Customer is the owner of the two balance ledgers. Full customer CRM data
// lives outside this core; only the fields the settlement engine needs are here.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (UUID)
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	AuditFields
}
