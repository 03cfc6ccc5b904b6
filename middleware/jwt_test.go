package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"securacore-http-service/config"
	"securacore-http-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*gin.Engine, services.InterfaceJWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecretKey: "test-secret"}
	InitAuthMiddleware(cfg)

	r := gin.New()
	r.GET("/resident-only", AuthenticateResident(), func(c *gin.Context) {
		flatNo, _ := c.Get("flatNo")
		c.JSON(http.StatusOK, gin.H{"flat_no": flatNo})
	})
	r.GET("/admin-only", AuthenticateSystemAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, services.NewJWTService(cfg)
}

// TestAuthRejectsMissingToken verifies requests without a token get 401.
func TestAuthRejectsMissingToken(t *testing.T) {
	r, _ := setupAuthTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resident-only", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthRejectsGarbageToken verifies malformed tokens get 401.
func TestAuthRejectsGarbageToken(t *testing.T) {
	r, _ := setupAuthTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resident-only", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthAcceptsMatchingRole verifies a resident token passes the
// resident gate and the flat claim lands in the context.
func TestAuthAcceptsMatchingRole(t *testing.T) {
	r, jwtService := setupAuthTest(t)

	token, err := jwtService.GenerateToken(7, "resident", "A-101")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resident-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A-101")
}

// TestAuthRejectsWrongRole verifies a resident token cannot reach the
// admin gate.
func TestAuthRejectsWrongRole(t *testing.T) {
	r, jwtService := setupAuthTest(t)

	token, err := jwtService.GenerateToken(7, "resident", "A-101")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestAuthAdminPassesResidentGate verifies the admin override on
// role-gated groups.
func TestAuthAdminPassesResidentGate(t *testing.T) {
	r, jwtService := setupAuthTest(t)

	token, err := jwtService.GenerateToken(1, "admin", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resident-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
