package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

// ticketsKey computes the cache key the middleware will derive for a
// GET on the given route.
func ticketsKey(t *testing.T, cfg config.CacheConfig, route string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, route, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return cacheKeyFrom(cfg, c)
}

func TestRedisCacheMissServesAndStores(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()
	key := ticketsKey(t, cfg, "/v1/tickets")
	mock.ExpectGet(key).RedisNil()

	e := echo.New()
	e.GET("/v1/tickets", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"hello": "world"})
	}, NewRedisCache(cfg, rdb))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tickets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "world")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheHitReplaysStoredResponse(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()
	key := ticketsKey(t, cfg, "/v1/tickets")

	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"cached":true}`))
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(payload))

	handlerCalled := false
	e := echo.New()
	e.GET("/v1/tickets", func(c echo.Context) error {
		handlerCalled = true
		return c.JSON(http.StatusOK, echo.Map{"cached": false})
	}, NewRedisCache(cfg, rdb))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tickets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"cached":true}`, rec.Body.String())
	assert.False(t, handlerCalled, "handler must not run on a cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheSkipsUncachedMethods(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	e.POST("/v1/waitlist", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"ok": true})
	}, NewRedisCache(cfg, rdb))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/waitlist", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheNilClientPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/v1/tickets", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, NewRedisCache(cacheTestConfig(), nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tickets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "text/plain")
	payload, err := encodePayload(http.StatusOK, hdr, []byte("body"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/plain", gotHdr.Get("Content-Type"))
	assert.Equal(t, []byte("body"), body)

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
