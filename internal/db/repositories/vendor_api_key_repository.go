// vendor_api_key_repository.go implements VendorAPIKeyRepository, providing
// database queries for the token-to-license correlation records.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/licensegate/licensegate/internal/db/models"
)

// VendorAPIKeyRepository handles vendor API key database operations
type VendorAPIKeyRepository struct {
	db *sql.DB
}

// NewVendorAPIKeyRepository creates a new VendorAPIKeyRepository
func NewVendorAPIKeyRepository(db *sql.DB) *VendorAPIKeyRepository {
	return &VendorAPIKeyRepository{db: db}
}

// Create inserts a new correlation record
func (r *VendorAPIKeyRepository) Create(ctx context.Context, key *models.VendorAPIKey) error {
	key.ID = uuid.New().String()
	key.CreatedAt = time.Now()
	if key.Status == "" {
		key.Status = "active"
	}

	query := `
		INSERT INTO vendor_api_keys (id, license_id, api_key_hash, status, customer_code, customer_name, contact_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		key.ID,
		key.LicenseID,
		key.APIKeyHash,
		key.Status,
		key.CustomerCode,
		key.CustomerName,
		key.ContactEmail,
		key.CreatedAt,
	)

	return err
}

// GetByLicenseID retrieves the most recent correlation record for a license
func (r *VendorAPIKeyRepository) GetByLicenseID(ctx context.Context, licenseID string) (*models.VendorAPIKey, error) {
	query := `
		SELECT id, license_id, api_key_hash, status, customer_code, customer_name, contact_email, created_at
		FROM vendor_api_keys
		WHERE license_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	key := &models.VendorAPIKey{}
	err := r.db.QueryRowContext(ctx, query, licenseID).Scan(
		&key.ID,
		&key.LicenseID,
		&key.APIKeyHash,
		&key.Status,
		&key.CustomerCode,
		&key.CustomerName,
		&key.ContactEmail,
		&key.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return key, nil
}
