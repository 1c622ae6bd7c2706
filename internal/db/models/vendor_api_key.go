package models

import "time"

// VendorAPIKey correlates an issued token with its license without retaining
// the token. Rows are written best-effort after license creation; customer
// name and email are denormalized at write time for audit convenience.
type VendorAPIKey struct {
	ID           string    `json:"id" db:"id"`
	LicenseID    string    `json:"license_id" db:"license_id"`
	APIKeyHash   string    `json:"api_key_hash" db:"api_key_hash"`
	Status       string    `json:"status" db:"status"`
	CustomerCode string    `json:"customer_code" db:"customer_code"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
