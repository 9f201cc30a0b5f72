package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret"

func signed(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func jwtRouter() *gin.Engine {
	r := gin.New()
	r.GET("/data", middleware.AuthMiddleware(jwtSecret, "vaultline"), func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "vaultline",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"valid", "Bearer " + signed(t, valid, jwtSecret), http.StatusOK},
		{"wrong secret", "Bearer " + signed(t, valid, "other"), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, expired, jwtSecret), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signed(t, wrongIssuer, jwtSecret), http.StatusUnauthorized},
		{"no subject", "Bearer " + signed(t, noSubject, jwtSecret), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(jwtRouter(), "Authorization", tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestIngestAuth(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/data", middleware.IngestAuth("s3cret"), handler)
	assert.Equal(t, http.StatusNoContent, doGet(r, "Authorization", "Bearer s3cret").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Authorization", "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "", "").Code)

	disabled := gin.New()
	disabled.GET("/data", middleware.IngestAuth(""), handler)
	assert.Equal(t, http.StatusServiceUnavailable, doGet(disabled, "Authorization", "Bearer ").Code)
}

func TestRateLimit_PerIP(t *testing.T) {
	lim, err := middleware.NewIPLimiter("2-M", "test", nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/data", middleware.RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "", "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "", "").Code)
	w := doGet(r, "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	_, err = middleware.NewIPLimiter("lots", "test", nil)
	assert.Error(t, err)
}
