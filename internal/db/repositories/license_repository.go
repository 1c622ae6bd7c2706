// license_repository.go implements LicenseRepository, providing database
// queries for license creation, lookup, conditional revocation, and
// per-customer counts.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/licensegate/licensegate/internal/db/models"
)

// LicenseRepository handles license database operations
type LicenseRepository struct {
	db *sql.DB
}

// NewLicenseRepository creates a new LicenseRepository
func NewLicenseRepository(db *sql.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// Create inserts a new license record. The license_id and timestamps are
// assigned here; the caller provides claims, status, and signature hash.
func (r *LicenseRepository) Create(ctx context.Context, license *models.License) error {
	if license.LicenseID == "" {
		license.LicenseID = uuid.New().String()
	}
	now := time.Now()
	license.CreatedAt = now
	license.UpdatedAt = now

	// Marshal features to JSONB
	featuresJSON, err := json.Marshal(license.Features)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO licenses (license_id, customer_id, expires_at, issued_at, features, status, signature_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		license.LicenseID,
		license.CustomerID,
		license.ExpiresAt,
		license.IssuedAt,
		featuresJSON,
		license.Status,
		license.SignatureHash,
		license.CreatedAt,
		license.UpdatedAt,
	)

	return err
}

// GetByLicenseID retrieves a license by its identifier
func (r *LicenseRepository) GetByLicenseID(ctx context.Context, licenseID string) (*models.License, error) {
	query := `
		SELECT license_id, customer_id, expires_at, issued_at, features, status, signature_hash, created_at, updated_at
		FROM licenses
		WHERE license_id = $1
	`

	license := &models.License{}
	var featuresJSON []byte

	err := r.db.QueryRowContext(ctx, query, licenseID).Scan(
		&license.LicenseID,
		&license.CustomerID,
		&license.ExpiresAt,
		&license.IssuedAt,
		&featuresJSON,
		&license.Status,
		&license.SignatureHash,
		&license.CreatedAt,
		&license.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	// Unmarshal features from JSONB
	err = json.Unmarshal(featuresJSON, &license.Features)
	if err != nil {
		return nil, err
	}

	return license, nil
}

// Revoke flips an active license to revoked and reports how many rows changed.
// The status predicate makes concurrent revocations race on the database row:
// exactly one caller observes a row count of one, every other caller sees zero.
func (r *LicenseRepository) Revoke(ctx context.Context, licenseID string, revokedAt time.Time) (int64, error) {
	query := `
		UPDATE licenses
		SET status = $2, updated_at = $3
		WHERE license_id = $1 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, licenseID, models.LicenseStatusRevoked, revokedAt, models.LicenseStatusActive)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountByCustomer returns how many licenses reference a customer, regardless
// of status. Used to guard customer deletion.
func (r *LicenseRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	query := `SELECT COUNT(*) FROM licenses WHERE customer_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
