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

	"github.com/neurobud/neurobud-api/pkg/config"
)

func authRouter(cfg config.InternalAuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(InternalAuth(cfg))
	r.POST("/generate", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": "scheduler",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestInternalAuthDisabledPassesThrough(t *testing.T) {
	r := authRouter(config.InternalAuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalAuthMissingHeader(t *testing.T) {
	r := authRouter(config.InternalAuthConfig{Enabled: true, Secret: "secret"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalAuthMalformedHeader(t *testing.T) {
	r := authRouter(config.InternalAuthConfig{Enabled: true, Secret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalAuthValidToken(t *testing.T) {
	r := authRouter(config.InternalAuthConfig{Enabled: true, Secret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", jwt.SigningMethodHS256))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalAuthWrongSecret(t *testing.T) {
	r := authRouter(config.InternalAuthConfig{Enabled: true, Secret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", jwt.SigningMethodHS256))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
