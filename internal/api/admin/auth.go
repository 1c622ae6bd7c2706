// auth.go implements HTTP handlers for admin portal login and session verification.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/licensegate/licensegate/internal/auth"
	"github.com/licensegate/licensegate/internal/config"
)

// AuthHandlers handles authentication-related endpoints
type AuthHandlers struct {
	cfg      *config.Config
	sessions *auth.SessionManager
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cfg *config.Config, sessions *auth.SessionManager) *AuthHandlers {
	return &AuthHandlers{cfg: cfg, sessions: sessions}
}

// loginRequest is the POST /api/v1/auth/login body.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler authenticates the admin account and issues a session token.
// POST /api/v1/auth/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Username and password are required",
			})
			return
		}

		// Constant response for both wrong username and wrong password so the
		// login endpoint does not reveal which part was incorrect.
		if req.Username != h.cfg.Auth.AdminUsername ||
			!auth.CheckPassword(h.cfg.Auth.AdminPasswordHash, req.Password) {
			slog.Warn("admin login failed", "username", req.Username, "ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid username or password",
			})
			return
		}

		token, err := h.sessions.Issue(req.Username)
		if err != nil {
			slog.Error("failed to issue session token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create session",
			})
			return
		}

		slog.Info("admin login", "username", req.Username, "ip", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_in": int(h.cfg.Auth.SessionTTL.Seconds()),
		})
	}
}

// VerifyHandler reports whether the presented session token is still valid.
// Runs behind SessionAuthMiddleware, so reaching the handler means it is.
// GET /api/v1/auth/verify
func (h *AuthHandlers) VerifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, _ := c.Get("username")
		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"username": username,
		})
	}
}
