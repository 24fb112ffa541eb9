package models

// Customer is the database representation of a customer.
type Customer struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	AuditFields
}
