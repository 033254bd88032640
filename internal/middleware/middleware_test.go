package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospitofind/internal/model"
	"hospitofind/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx)
	require.Error(t, err)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// valid token
	tok, err := service.IssueAccessToken(model.User{ID: 1, Username: "alice", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	claims, err := extractClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.True(t, claims.IsAdmin())
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	tok, err := service.IssueAccessToken(model.User{ID: 2, Username: "bob"}, time.Minute)
	require.NoError(t, err)

	called := false
	next := func(c echo.Context) error {
		called = true
		claims := c.Get(ContextUserKey).(*service.CustomClaims)
		require.Equal(t, 2, claims.UserID)
		return nil
	}

	ctx, _ := newContext("Bearer " + tok)
	require.NoError(t, RequireAuth(next)(ctx))
	require.True(t, called)

	called = false
	ctx, _ = newContext("")
	require.Error(t, RequireAuth(next)(ctx))
	require.False(t, called)
}

func TestOptionalAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	// Anonymous requests pass through without claims.
	called := false
	next := func(c echo.Context) error {
		called = true
		require.Nil(t, c.Get(ContextUserKey))
		return nil
	}
	ctx, _ := newContext("")
	require.NoError(t, OptionalAuth(next)(ctx))
	require.True(t, called)

	// A valid token attaches claims.
	tok, err := service.IssueAccessToken(model.User{ID: 5, Username: "eve"}, time.Minute)
	require.NoError(t, err)
	next = func(c echo.Context) error {
		claims := c.Get(ContextUserKey).(*service.CustomClaims)
		require.Equal(t, 5, claims.UserID)
		return nil
	}
	ctx, _ = newContext("Bearer " + tok)
	require.NoError(t, OptionalAuth(next)(ctx))
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	adminTok, err := service.IssueAccessToken(model.User{ID: 1, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	userTok, err := service.IssueAccessToken(model.User{ID: 2, Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	ctx, rec := newContext("Bearer " + adminTok)
	require.NoError(t, RequireAdmin(next)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, _ = newContext("Bearer " + userTok)
	err = RequireAdmin(next)(ctx)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestClientIP(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 70.41.3.18")
	ctx := e.NewContext(req, httptest.NewRecorder())
	require.Equal(t, "203.0.113.9", ClientIP(ctx))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	ctx = e.NewContext(req, httptest.NewRecorder())
	require.Equal(t, "192.0.2.1", ClientIP(ctx))
}
