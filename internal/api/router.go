// Package api wires together all HTTP routes for the license vendor portal.
//
// Route grouping philosophy:
//   - /api/v1/auth/login is public but carries a stricter rate limit so the
//     single-admin login cannot be brute forced.
//   - /api/v1/licenses/validate is public: license holders present their key
//     for an offline-equivalent check without portal credentials.
//   - Every other /api/v1/ route requires a valid admin session token.
package api

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/licensegate/licensegate/internal/api/admin"
	"github.com/licensegate/licensegate/internal/auth"
	"github.com/licensegate/licensegate/internal/config"
	"github.com/licensegate/licensegate/internal/db/repositories"
	"github.com/licensegate/licensegate/internal/license"
	"github.com/licensegate/licensegate/internal/middleware"
	"github.com/licensegate/licensegate/internal/services"
)

// BackgroundServices holds references to background resources that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible
// for calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the
// HTTP server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize the license token signer
	signer, err := license.NewSigner(cfg.License.Secret)
	if err != nil {
		log.Fatalf("Failed to initialize license signer: %v", err)
	}

	// Initialize the admin session manager
	sessions, err := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Initialize repositories
	licenseRepo := repositories.NewLicenseRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	vendorKeyRepo := repositories.NewVendorAPIKeyRepository(db)

	// Wrap *sql.DB with sqlx for the stats handler
	sqlxDB := sqlx.NewDb(db, "postgres")

	licenseService := services.NewLicenseService(signer, licenseRepo, customerRepo, vendorKeyRepo)

	// Initialize handlers
	authHandlers := admin.NewAuthHandlers(cfg, sessions)
	licenseHandlers := admin.NewLicenseHandlers(licenseService)
	customerHandlers := admin.NewCustomerHandlers(customerRepo, licenseRepo)
	statsHandler := admin.NewStatsHandler(sqlxDB)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Rate limiters: stricter bucket for login, general bucket for the rest.
	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	apiV1 := router.Group("/api/v1")
	{
		// Login endpoint (public, brute-force rate limited)
		authGroup := apiV1.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		{
			authGroup.POST("/login", authHandlers.LoginHandler())
			authGroup.GET("/verify", middleware.SessionAuthMiddleware(sessions), authHandlers.VerifyHandler())
		}

		// License key validation (public: license holders have no portal account)
		publicGroup := apiV1.Group("")
		publicGroup.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		{
			publicGroup.POST("/licenses/validate", licenseHandlers.ValidateLicense)
		}

		// Everything else requires an admin session
		adminGroup := apiV1.Group("")
		adminGroup.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		adminGroup.Use(middleware.SessionAuthMiddleware(sessions))
		{
			// License lifecycle
			adminGroup.POST("/licenses", licenseHandlers.CreateLicense)
			adminGroup.GET("/licenses/:license_id/key", licenseHandlers.GetLicenseKey)
			adminGroup.PUT("/licenses/:license_id/revoke", licenseHandlers.RevokeLicense)

			// Customer management
			adminGroup.POST("/customers", customerHandlers.CreateCustomer)
			adminGroup.GET("/customers", customerHandlers.ListCustomers)
			adminGroup.GET("/customers/:customer_id", customerHandlers.GetCustomer)
			adminGroup.PUT("/customers/:customer_id", customerHandlers.UpdateCustomer)
			adminGroup.DELETE("/customers/:customer_id", customerHandlers.DeleteCustomer)

			// Dashboard statistics
			adminGroup.GET("/stats/dashboard", statsHandler.GetDashboardStats)
		}
	}

	bg := &BackgroundServices{
		rateLimiters: []*middleware.RateLimiter{authRateLimiter, generalRateLimiter},
	}

	return router, bg
}

// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		requestID, _ := c.Get(middleware.RequestIDKey)
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", fmt.Sprintf("%v", requestID)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
