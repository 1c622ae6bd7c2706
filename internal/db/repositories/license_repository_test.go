package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/licensegate/licensegate/internal/db/models"
)

var errDB = errors.New("db failure")

// ---------------------------------------------------------------------------
// Column definitions
// ---------------------------------------------------------------------------

var licenseCols = []string{
	"license_id", "customer_id", "expires_at", "issued_at",
	"features", "status", "signature_hash", "created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Row builders
// ---------------------------------------------------------------------------

var sampleFeatures = []byte(`["core","reports"]`)

func sampleLicenseRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(licenseCols).
		AddRow("lic-1", "ACME-001", now.Add(30*24*time.Hour), now,
			sampleFeatures, "active", "abc123hash", now, now)
}

func emptyLicenseRow() *sqlmock.Rows {
	return sqlmock.NewRows(licenseCols)
}

func newLicenseRepo(t *testing.T) (*LicenseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewLicenseRepository(db), mock
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateLicense_Success(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("INSERT INTO licenses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	license := &models.License{
		CustomerID:    "ACME-001",
		ExpiresAt:     time.Now().Add(30 * 24 * time.Hour),
		Features:      []string{"core"},
		Status:        models.LicenseStatusActive,
		SignatureHash: "abc123hash",
	}
	if err := repo.Create(context.Background(), license); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if license.LicenseID == "" {
		t.Error("expected a generated license_id")
	}
	if license.CreatedAt.IsZero() || license.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be assigned")
	}
}

func TestCreateLicense_KeepsProvidedID(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("INSERT INTO licenses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	license := &models.License{LicenseID: "lic-fixed", CustomerID: "ACME-001", Features: []string{}}
	if err := repo.Create(context.Background(), license); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if license.LicenseID != "lic-fixed" {
		t.Errorf("LicenseID = %s, want lic-fixed", license.LicenseID)
	}
}

func TestCreateLicense_DBError(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("INSERT INTO licenses").
		WillReturnError(errDB)

	license := &models.License{CustomerID: "ACME-001", Features: []string{}}
	if err := repo.Create(context.Background(), license); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetByLicenseID
// ---------------------------------------------------------------------------

func TestGetByLicenseID_Found(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectQuery("SELECT.*FROM licenses.*WHERE license_id").
		WithArgs("lic-1").
		WillReturnRows(sampleLicenseRow())

	license, err := repo.GetByLicenseID(context.Background(), "lic-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if license == nil {
		t.Fatal("expected license, got nil")
	}
	if license.CustomerID != "ACME-001" {
		t.Errorf("CustomerID = %s, want ACME-001", license.CustomerID)
	}
	if len(license.Features) != 2 {
		t.Errorf("len(Features) = %d, want 2", len(license.Features))
	}
	if license.IssuedAt == nil {
		t.Error("expected issued_at to be set")
	}
}

func TestGetByLicenseID_NotFound(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectQuery("SELECT.*FROM licenses.*WHERE license_id").
		WillReturnRows(emptyLicenseRow())

	license, err := repo.GetByLicenseID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if license != nil {
		t.Errorf("expected nil, got %+v", license)
	}
}

func TestGetByLicenseID_LegacyNullIssuedAt(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	now := time.Now()
	rows := sqlmock.NewRows(licenseCols).
		AddRow("lic-legacy", "ACME-001", now.Add(time.Hour), nil,
			[]byte(`[]`), "active", "hash", now, now)
	mock.ExpectQuery("SELECT.*FROM licenses.*WHERE license_id").
		WillReturnRows(rows)

	license, err := repo.GetByLicenseID(context.Background(), "lic-legacy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if license.IssuedAt != nil {
		t.Errorf("IssuedAt = %v, want nil", license.IssuedAt)
	}
}

func TestGetByLicenseID_DBError(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectQuery("SELECT.*FROM licenses.*WHERE license_id").
		WillReturnError(errDB)

	if _, err := repo.GetByLicenseID(context.Background(), "lic-1"); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Revoke
// ---------------------------------------------------------------------------

func TestRevoke_ActiveLicense(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("UPDATE licenses").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Revoke(context.Background(), "lic-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}
}

func TestRevoke_AlreadyRevokedOrMissing(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("UPDATE licenses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Revoke(context.Background(), "lic-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0", affected)
	}
}

func TestRevoke_DBError(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec("UPDATE licenses").
		WillReturnError(errDB)

	if _, err := repo.Revoke(context.Background(), "lic-1", time.Now()); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// CountByCustomer
// ---------------------------------------------------------------------------

func TestCountByCustomer(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM licenses").
		WithArgs("ACME-001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByCustomer(context.Background(), "ACME-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestCountByCustomer_DBError(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM licenses").
		WillReturnError(errDB)

	if _, err := repo.CountByCustomer(context.Background(), "ACME-001"); err == nil {
		t.Error("expected error, got nil")
	}
}
