// stats.go implements handlers for aggregating and serving dashboard statistics.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// expiringHorizon is the window the dashboard treats as "expiring soon".
const expiringHorizon = 30 * 24 * time.Hour

// StatsHandler handles stats-related API requests
type StatsHandler struct {
	db *sqlx.DB

	// now is replaceable in tests for deterministic clocks.
	now func() time.Time
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(database *sqlx.DB) *StatsHandler {
	return &StatsHandler{
		db:  database,
		now: time.Now,
	}
}

// DashboardSummary holds the aggregate counts shown at the top of the dashboard.
type DashboardSummary struct {
	TotalLicenses   int64 `db:"total_licenses" json:"total_licenses"`
	ActiveLicenses  int64 `db:"active_licenses" json:"active_licenses"`
	RevokedLicenses int64 `db:"revoked_licenses" json:"revoked_licenses"`
	ExpiredLicenses int64 `db:"expired_licenses" json:"expired_licenses"`
	ExpiringSoon    int64 `db:"expiring_soon" json:"expiring_soon"`
	TotalCustomers  int64 `db:"total_customers" json:"total_customers"`
}

// LicenseListEntry is one row of the dashboard license lists. Features are
// deliberately omitted; the lists are overview tables, not license detail.
type LicenseListEntry struct {
	LicenseID   string     `db:"license_id" json:"license_id"`
	CustomerID  string     `db:"customer_id" json:"customer_id"`
	CompanyName string     `db:"company_name" json:"company_name"`
	ExpiresAt   time.Time  `db:"expires_at" json:"expires_at"`
	IssuedAt    *time.Time `db:"issued_at" json:"issued_at,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// CustomerListEntry is one row of the per-customer dashboard view.
type CustomerListEntry struct {
	CustomerID     string `db:"customer_id" json:"customer_id"`
	CompanyName    string `db:"company_name" json:"company_name"`
	Status         string `db:"status" json:"status"`
	TotalLicenses  int64  `db:"total_licenses" json:"total_licenses"`
	ActiveLicenses int64  `db:"active_licenses" json:"active_licenses"`
}

// DashboardStats is the response for GET /api/v1/stats/dashboard. Exactly one
// of the list fields is populated, selected by the type query parameter.
type DashboardStats struct {
	Summary   DashboardSummary    `json:"summary"`
	Licenses  []LicenseListEntry  `json:"licenses,omitempty"`
	Customers []CustomerListEntry `json:"customers,omitempty"`
}

// GetDashboardStats returns dashboard statistics. The summary counts are
// loaded in a single database round-trip; the type parameter
// (all|active|expiring|customers) selects which list accompanies them.
// GET /api/v1/stats/dashboard?type=all|active|expiring|customers
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().UTC()
	horizon := now.Add(expiringHorizon)

	listType := c.DefaultQuery("type", "all")
	switch listType {
	case "all", "active", "expiring", "customers":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of: all, active, expiring, customers"})
		return
	}

	var stats DashboardStats

	// Core counts — single round-trip.
	summaryQuery := `
		SELECT
			(SELECT COUNT(*) FROM licenses) AS total_licenses,
			(SELECT COUNT(*) FROM licenses WHERE status = 'active' AND expires_at > $1) AS active_licenses,
			(SELECT COUNT(*) FROM licenses WHERE status = 'revoked') AS revoked_licenses,
			(SELECT COUNT(*) FROM licenses WHERE status = 'active' AND expires_at <= $1) AS expired_licenses,
			(SELECT COUNT(*) FROM licenses WHERE status = 'active' AND expires_at > $1 AND expires_at <= $2) AS expiring_soon,
			(SELECT COUNT(*) FROM customers) AS total_customers
	`
	if err := h.db.GetContext(ctx, &stats.Summary, summaryQuery, now, horizon); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard statistics"})
		return
	}

	switch listType {
	case "all":
		err := h.db.SelectContext(ctx, &stats.Licenses, `
			SELECT l.license_id, l.customer_id, COALESCE(c.company_name, '') AS company_name,
			       l.expires_at, l.issued_at, l.status, l.created_at
			FROM licenses l
			LEFT JOIN customers c ON c.customer_id = l.customer_id
			ORDER BY l.created_at DESC
		`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load licenses"})
			return
		}
	case "active":
		err := h.db.SelectContext(ctx, &stats.Licenses, `
			SELECT l.license_id, l.customer_id, COALESCE(c.company_name, '') AS company_name,
			       l.expires_at, l.issued_at, l.status, l.created_at
			FROM licenses l
			LEFT JOIN customers c ON c.customer_id = l.customer_id
			WHERE l.status = 'active' AND l.expires_at > $1
			ORDER BY l.expires_at ASC
		`, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load licenses"})
			return
		}
	case "expiring":
		err := h.db.SelectContext(ctx, &stats.Licenses, `
			SELECT l.license_id, l.customer_id, COALESCE(c.company_name, '') AS company_name,
			       l.expires_at, l.issued_at, l.status, l.created_at
			FROM licenses l
			LEFT JOIN customers c ON c.customer_id = l.customer_id
			WHERE l.status = 'active' AND l.expires_at > $1 AND l.expires_at <= $2
			ORDER BY l.expires_at ASC
		`, now, horizon)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load licenses"})
			return
		}
	case "customers":
		err := h.db.SelectContext(ctx, &stats.Customers, `
			SELECT c.customer_id, c.company_name, c.status,
			       COUNT(l.license_id) AS total_licenses,
			       COUNT(l.license_id) FILTER (WHERE l.status = 'active' AND l.expires_at > $1) AS active_licenses
			FROM customers c
			LEFT JOIN licenses l ON l.customer_id = c.customer_id
			GROUP BY c.customer_id, c.company_name, c.status
			ORDER BY c.company_name ASC, c.customer_id ASC
		`, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
			return
		}
	}

	if stats.Licenses == nil && (listType == "all" || listType == "active" || listType == "expiring") {
		stats.Licenses = []LicenseListEntry{}
	}
	if stats.Customers == nil && listType == "customers" {
		stats.Customers = []CustomerListEntry{}
	}

	c.JSON(http.StatusOK, stats)
}
