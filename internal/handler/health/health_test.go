package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospitofind/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCtx() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerOK(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	db := &database.FakeDB{PingFn: func(context.Context) error { return nil }}

	ctx, rec := newCtx()
	require.NoError(t, Handler(db, rdb)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandlerDatabaseDown(t *testing.T) {
	db := &database.FakeDB{PingFn: func(context.Context) error { return errors.New("down") }}

	ctx, rec := newCtx()
	require.NoError(t, Handler(db, nil)(ctx))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()
	db := &database.FakeDB{PingFn: func(context.Context) error { return nil }}

	ctx, rec := newCtx()
	require.NoError(t, Handler(db, rdb)(ctx))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
