// Package services implements higher-level business logic that coordinates
// across repositories and the license token core. The license service, for
// example, orchestrates canonicalizing claims, signing the token, persisting
// the record, and writing the best-effort vendor key correlation — a multi-step
// operation that spans several domain boundaries.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/licensegate/licensegate/internal/db/models"
	"github.com/licensegate/licensegate/internal/db/repositories"
	"github.com/licensegate/licensegate/internal/license"
)

var (
	// ErrLicenseNotFound is returned when no license exists for the given identifier.
	ErrLicenseNotFound = errors.New("license not found")

	// ErrAlreadyRevoked is returned when revoking a license that is not active.
	ErrAlreadyRevoked = errors.New("license is already revoked")
)

// LicenseService coordinates the license token lifecycle against the store.
type LicenseService struct {
	signer        *license.Signer
	licenseRepo   *repositories.LicenseRepository
	customerRepo  *repositories.CustomerRepository
	vendorKeyRepo *repositories.VendorAPIKeyRepository

	// now is replaceable in tests for deterministic clocks.
	now func() time.Time
}

// NewLicenseService creates a new LicenseService
func NewLicenseService(
	signer *license.Signer,
	licenseRepo *repositories.LicenseRepository,
	customerRepo *repositories.CustomerRepository,
	vendorKeyRepo *repositories.VendorAPIKeyRepository,
) *LicenseService {
	return &LicenseService{
		signer:        signer,
		licenseRepo:   licenseRepo,
		customerRepo:  customerRepo,
		vendorKeyRepo: vendorKeyRepo,
		now:           time.Now,
	}
}

// CreateLicenseInput carries the caller-supplied fields for a new license.
type CreateLicenseInput struct {
	CustomerID string
	ExpiresAt  time.Time
	Features   []string

	// CustomerCode optionally overrides the code denormalized onto the vendor
	// key correlation; empty falls back to CustomerID.
	CustomerCode string
}

// IssuedLicense pairs a stored license record with its signed token. The token
// is returned to the caller and never persisted; APIKeyHash is its SHA-256
// fingerprint, the only form of the key the store keeps.
type IssuedLicense struct {
	License    *models.License
	Token      string
	APIKeyHash string
}

// Create issues a new license: canonicalize the claims, sign the token,
// fingerprint both, persist the record, then attempt the vendor key
// correlation write. The correlation write is best-effort; its failure is
// logged and does not fail the issuance.
func (s *LicenseService) Create(ctx context.Context, input CreateLicenseInput) (*IssuedLicense, error) {
	now := s.now()

	claims, err := license.Canonicalize(input.CustomerID, input.ExpiresAt, input.Features, time.Time{}, now)
	if err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(claims, now)
	if err != nil {
		return nil, err
	}

	issuedAt := claims.IssuedAt
	record := &models.License{
		CustomerID:    claims.CustomerID,
		ExpiresAt:     claims.ExpiresAt,
		IssuedAt:      &issuedAt,
		Features:      claims.Features,
		Status:        models.LicenseStatusActive,
		SignatureHash: license.SignatureHash(claims),
	}

	if err := s.licenseRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store license: %w", err)
	}

	apiKeyHash := license.TokenHash(token)

	customerCode := input.CustomerCode
	if customerCode == "" {
		customerCode = claims.CustomerID
	}
	s.writeVendorKey(ctx, record, apiKeyHash, customerCode)

	return &IssuedLicense{License: record, Token: token, APIKeyHash: apiKeyHash}, nil
}

// writeVendorKey records the token-to-license correlation. Every failure path
// is swallowed after logging: the license is already issued and the token
// already returned to the caller, so this write must never undo an issuance.
func (s *LicenseService) writeVendorKey(ctx context.Context, record *models.License, apiKeyHash, customerCode string) {
	key := &models.VendorAPIKey{
		LicenseID:    record.LicenseID,
		APIKeyHash:   apiKeyHash,
		Status:       "active",
		CustomerCode: customerCode,
	}

	customer, err := s.customerRepo.GetByCustomerID(ctx, record.CustomerID)
	if err != nil {
		slog.Warn("vendor key customer lookup failed",
			"license_id", record.LicenseID, "customer_id", record.CustomerID, "error", err)
	} else if customer != nil {
		key.CustomerName = customer.CompanyName
		key.ContactEmail = customer.ContactEmail
	}

	if err := s.vendorKeyRepo.Create(ctx, key); err != nil {
		slog.Warn("vendor key correlation write failed",
			"license_id", record.LicenseID, "error", err)
	}
}

// ReissueToken re-derives the signed token for an existing license from its
// stored claims. The stored issued_at is reused so the token is a faithful
// re-issue, not a new grant; legacy rows without issued_at fall back to
// created_at. A license whose expiry has already passed cannot be re-signed
// and surfaces license.ErrExpiredAtSigning.
func (s *LicenseService) ReissueToken(ctx context.Context, licenseID string) (*IssuedLicense, error) {
	record, err := s.licenseRepo.GetByLicenseID(ctx, licenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load license: %w", err)
	}
	if record == nil {
		return nil, ErrLicenseNotFound
	}

	issuedAt := record.CreatedAt
	if record.IssuedAt != nil {
		issuedAt = *record.IssuedAt
	}

	claims := license.ClaimSet{
		CustomerID: record.CustomerID,
		ExpiresAt:  record.ExpiresAt.UTC(),
		Features:   record.Features,
		IssuedAt:   issuedAt.UTC(),
	}

	token, err := s.signer.Sign(claims, s.now())
	if err != nil {
		return nil, err
	}

	return &IssuedLicense{License: record, Token: token, APIKeyHash: license.TokenHash(token)}, nil
}

// Revoke transitions an active license to revoked. The update is conditional
// on the current status, so concurrent revocations are decided by the
// database: the single caller whose update changed a row wins, everyone else
// resolves to ErrAlreadyRevoked or ErrLicenseNotFound.
func (s *LicenseService) Revoke(ctx context.Context, licenseID string) (*models.License, error) {
	affected, err := s.licenseRepo.Revoke(ctx, licenseID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to revoke license: %w", err)
	}

	record, getErr := s.licenseRepo.GetByLicenseID(ctx, licenseID)

	if affected == 0 {
		if getErr != nil {
			return nil, fmt.Errorf("failed to load license: %w", getErr)
		}
		if record == nil {
			return nil, ErrLicenseNotFound
		}
		return nil, ErrAlreadyRevoked
	}

	if getErr != nil {
		return nil, fmt.Errorf("failed to load license: %w", getErr)
	}
	return record, nil
}

// ValidateToken checks a presented token cryptographically. It performs no
// store lookup: revocation is an authorization concern for online checks,
// while this answers whether the token itself is authentic and unexpired.
func (s *LicenseService) ValidateToken(token string) license.ValidationResult {
	return s.signer.Validate(token, s.now())
}
