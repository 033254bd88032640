package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func limiterContext(e *echo.Echo, ip string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	e := echo.New()
	limited := LoginLimiter(rdb, zap.NewNop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// First ten attempts pass.
	for i := 0; i < loginLimitMax; i++ {
		ctx, rec := limiterContext(e, "203.0.113.9")
		require.NoError(t, limited(ctx))
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}

	// The eleventh is rejected.
	ctx, rec := limiterContext(e, "203.0.113.9")
	require.NoError(t, limited(ctx))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected.
	ctx, rec = limiterContext(e, "198.51.100.7")
	require.NoError(t, limited(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	// The window expiring resets the counter.
	mr.FastForward(loginLimitWindow)
	ctx, rec = limiterContext(e, "203.0.113.9")
	require.NoError(t, limited(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()
	defer rdb.Close()

	e := echo.New()
	limited := LoginLimiter(rdb, zap.NewNop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	ctx, rec := limiterContext(e, "203.0.113.9")
	require.NoError(t, limited(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
}
