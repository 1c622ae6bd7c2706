package models

import "time"

// Customer represents an account a license can be issued against.
// customer_id is the human-assigned customer code, not a surrogate key.
type Customer struct {
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	ContactPhone string    `json:"contact_phone" db:"contact_phone"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	Country      string    `json:"country" db:"country"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	Notes        string    `json:"notes" db:"notes"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
