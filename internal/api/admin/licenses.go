// licenses.go implements HTTP handlers for the license token lifecycle:
// issuance, key re-derivation, revocation, and validation.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/services"
	"github.com/licensegate/licensegate/internal/telemetry"
)

// LicenseHandlers handles license lifecycle endpoints
type LicenseHandlers struct {
	svc *services.LicenseService
}

// NewLicenseHandlers creates a new LicenseHandlers instance
func NewLicenseHandlers(svc *services.LicenseService) *LicenseHandlers {
	return &LicenseHandlers{svc: svc}
}

// createLicenseRequest is the POST /api/v1/licenses body. Features accepts a
// JSON array, a single string, or null. customer_code is an optional vendor
// billing code recorded on the key correlation; it defaults to customer_id.
type createLicenseRequest struct {
	CustomerID   string              `json:"customer_id"`
	ExpiresAt    string              `json:"expires_at"`
	Features     license.FeatureList `json:"features"`
	CustomerCode string              `json:"customer_code"`
}

// CreateLicense issues a new license and returns the signed key. The key is
// returned exactly once; only its fingerprint is stored.
// POST /api/v1/licenses
func (h *LicenseHandlers) CreateLicense(c *gin.Context) {
	var req createLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("rejected license create body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		return
	}
	if req.ExpiresAt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at is required"})
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be an RFC3339 timestamp"})
		return
	}

	issued, err := h.svc.Create(c.Request.Context(), services.CreateLicenseInput{
		CustomerID:   req.CustomerID,
		ExpiresAt:    expiresAt,
		Features:     req.Features,
		CustomerCode: req.CustomerCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, license.ErrCustomerIDRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		case errors.Is(err, license.ErrInvalidExpiry):
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be in the future"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create license"})
		}
		return
	}

	telemetry.LicensesIssuedTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"license":      issued.License,
		"license_key":  issued.Token,
		"api_key_hash": issued.APIKeyHash,
	})
}

// GetLicenseKey re-derives the signed key for an existing license from its
// stored claims. An expired license cannot be re-signed and returns 410.
// GET /api/v1/licenses/:license_id/key
func (h *LicenseHandlers) GetLicenseKey(c *gin.Context) {
	licenseID := c.Param("license_id")

	issued, err := h.svc.ReissueToken(c.Request.Context(), licenseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "License not found"})
		case errors.Is(err, license.ErrExpiredAtSigning):
			c.JSON(http.StatusGone, gin.H{"error": "License has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve license key"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"license_id":  issued.License.LicenseID,
		"customer_id": issued.License.CustomerID,
		"license_key": issued.Token,
		"expires_at":  issued.License.ExpiresAt,
	})
}

// RevokeLicense transitions an active license to revoked.
// PUT /api/v1/licenses/:license_id/revoke
func (h *LicenseHandlers) RevokeLicense(c *gin.Context) {
	licenseID := c.Param("license_id")

	record, err := h.svc.Revoke(c.Request.Context(), licenseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "License not found"})
		case errors.Is(err, services.ErrAlreadyRevoked):
			c.JSON(http.StatusConflict, gin.H{"error": "License is already revoked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke license"})
		}
		return
	}

	telemetry.LicenseRevocationsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "License revoked",
		"license": record,
	})
}

// validateLicenseRequest is the POST /api/v1/licenses/validate body.
type validateLicenseRequest struct {
	LicenseKey string `json:"license_key"`
}

// ValidateLicense checks a presented license key and always answers 200 with
// a structured result; validity is data, not an HTTP error.
// POST /api/v1/licenses/validate
func (h *LicenseHandlers) ValidateLicense(c *gin.Context) {
	var req validateLicenseRequest
	// A malformed body is treated the same as an absent key: the result
	// reports the key as missing rather than failing the request.
	_ = c.ShouldBindJSON(&req)

	result := h.svc.ValidateToken(req.LicenseKey)

	telemetry.LicenseValidationsTotal.WithLabelValues(validationLabel(result)).Inc()

	c.JSON(http.StatusOK, result)
}

// validationLabel maps a validation outcome onto the bounded set of metric
// label values for license_validations_total.
func validationLabel(result license.ValidationResult) string {
	if result.Valid {
		return "valid"
	}
	switch result.Error {
	case "license key is required":
		return "missing"
	case "license has expired":
		return "expired"
	case "invalid license key signature":
		return "invalid_signature"
	default:
		return "malformed"
	}
}
