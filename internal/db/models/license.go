// Package models defines the database model types for the license portal.
// Each type corresponds to a database table and uses struct tags for both JSON
// serialization and sqlx row scanning. Models are pure data types — business
// logic belongs in the service layer, query logic in the repositories layer.
package models

import "time"

// License lifecycle states.
const (
	LicenseStatusActive  = "active"
	LicenseStatusRevoked = "revoked"
)

// License represents an issued license record. The signed token itself is
// never stored; signature_hash fingerprints the canonical claims and the
// vendor_api_keys table carries the token hash for correlation.
type License struct {
	LicenseID     string     `json:"license_id" db:"license_id"`
	CustomerID    string     `json:"customer_id" db:"customer_id"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	IssuedAt      *time.Time `json:"issued_at,omitempty" db:"issued_at"` // nil on legacy rows, falls back to created_at
	Features      []string   `json:"features" db:"-"`                    // JSONB column
	Status        string     `json:"status" db:"status"`
	SignatureHash string     `json:"signature_hash,omitempty" db:"signature_hash"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	// Joined fields (not stored in the licenses table)
	CompanyName string `json:"company_name,omitempty" db:"company_name"` // joined from customers
}
