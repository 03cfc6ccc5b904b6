package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"securacore-http-service/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecretKey:         "test-secret",
		DefaultAdminPassword: "admin123",
		PackageOTPLength:     4,
	}
	return SetupRouter(db, cfg)
}

// TestAuthenticatedRoutesNotRateLimited verifies the public rate limiter
// stays on the public group: role-gated routes keep answering 401 for
// missing tokens even under rapid fire, never 429.
func TestAuthenticatedRoutesNotRateLimited(t *testing.T) {
	r := setupTestRouter(t)

	for i := 0; i < 30; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "request %d", i)
	}
}

// TestPublicRoutesRateLimited verifies the public group throttles once the
// burst is exhausted.
func TestPublicRoutesRateLimited(t *testing.T) {
	r := setupTestRouter(t)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	throttled := false
	for i := 0; i < 40; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		if w.Code == http.StatusTooManyRequests {
			throttled = true
			break
		}
	}
	assert.True(t, throttled, "public route should throttle beyond its burst")
}
