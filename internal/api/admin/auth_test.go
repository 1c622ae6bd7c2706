package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/licensegate/licensegate/internal/auth"
	"github.com/licensegate/licensegate/internal/config"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct horse battery staple"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	hash, err := auth.HashPassword(testAdminPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	cfg := &config.Config{}
	cfg.Auth.AdminUsername = testAdminUser
	cfg.Auth.AdminPasswordHash = hash
	cfg.Auth.SessionTTL = time.Hour

	sessions, err := auth.NewSessionManager("test-session-secret", cfg.Auth.SessionTTL)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	h := NewAuthHandlers(cfg, sessions)

	r := gin.New()
	r.POST("/auth/login", h.LoginHandler())
	r.GET("/auth/verify", func(c *gin.Context) {
		// Simulate the session middleware having verified the token.
		c.Set("username", testAdminUser)
	}, h.VerifyHandler())
	return r
}

// ---------------------------------------------------------------------------
// LoginHandler
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: body=%s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("response missing 'token'")
	}
	if resp["expires_in"] != float64(3600) {
		t.Errorf("expires_in = %v, want 3600", resp["expires_in"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(map[string]string{
		"username": testAdminUser,
		"password": "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_WrongUsername(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(map[string]string{
		"username": "root",
		"password": testAdminPassword,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	// Same error body as wrong password: the endpoint must not reveal which
	// part of the credentials failed.
	resp := getJSON(w)
	if resp["error"] != "Invalid username or password" {
		t.Errorf("error = %v, want generic credentials message", resp["error"])
	}
}

func TestLogin_MissingFields(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(map[string]string{
		"username": testAdminUser,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_EmptyBody(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// VerifyHandler
// ---------------------------------------------------------------------------

func TestVerify_ReturnsUsername(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/verify", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := getJSON(w)
	if resp["valid"] != true {
		t.Errorf("valid = %v, want true", resp["valid"])
	}
	if resp["username"] != testAdminUser {
		t.Errorf("username = %v, want %q", resp["username"], testAdminUser)
	}
}
