package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func signToken(t *testing.T, role string, key string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)

	return signed
}

func runGuarded(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/admin/ping", AdminAuth(testSigningKey), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestAdminAuth(t *testing.T) {
	t.Run("accepts an admin token", func(t *testing.T) {
		recorder := runGuarded(t, "Bearer "+signToken(t, "admin", testSigningKey))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		recorder := runGuarded(t, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a token with the wrong key", func(t *testing.T) {
		recorder := runGuarded(t, "Bearer "+signToken(t, "admin", "other-key"))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a non-admin role", func(t *testing.T) {
		recorder := runGuarded(t, "Bearer "+signToken(t, "user", testSigningKey))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
