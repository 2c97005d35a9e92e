package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/config"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/utils"
)

const testSecret = "jwt-test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}, mw...)
	return e
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "USER", 5)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "USER", 5)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	adminToken, err := utils.NewAccessToken(testSecret, 1, "ADMIN", 5)
	require.NoError(t, err)
	userToken, err := utils.NewAccessToken(testSecret, 2, "USER", 5)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole("ADMIN"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	keyFor := func(strategy string) string {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/tickets")
		c.Set("user_id", uint64(42))
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		return buildRateKey(cfg, c)
	}

	assert.Equal(t, "rl:ip:10.0.0.9", keyFor("ip"))
	assert.Equal(t, "rl:user:42", keyFor("user"))
	assert.Equal(t, "rl:route:GET /v1/tickets", keyFor("route"))
	assert.Equal(t, "rl:ip:10.0.0.9:user:42:route:GET /v1/tickets", keyFor("ip_user_route"))
}

func TestCurrentUserIDFallsBackToAnon(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", currentUserID(c))

	c.Set("user_id", uint64(9))
	assert.Equal(t, "9", currentUserID(c))
}
