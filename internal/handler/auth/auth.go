package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/mailer"
	"hospitofind/internal/model"
	"hospitofind/internal/service"
	"hospitofind/internal/store"
	"hospitofind/internal/worker"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
)

var (
	createUser       = store.CreateUser
	getUserByEmail   = store.GetUserByEmail
	userExists       = store.UserExists
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccess      = service.IssueAccessToken
	issueRefresh     = service.IssueRefreshToken
	verifyRefresh    = service.VerifyRefreshToken
	getUserByID      = store.GetUserByID
)

// Options carries the cross-cutting pieces the auth handlers need besides
// the database.
type Options struct {
	Production  bool
	FrontendURL string
	Mailer      mailer.Mailer
	Workers     worker.Pool
	Logger      *zap.Logger
}

// @Summary     Register a new account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RegisterRequest true "registration payload"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, opts Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		exists, err := userExists(ctx, db, req.Email, req.Username)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "registration failed"})
		}
		if exists {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email or username already taken"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "registration failed"})
		}
		u := model.User{
			Name:         req.Name,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: &hash,
			Role:         model.RoleUser,
			IsActive:     true,
		}
		created, err := createUser(ctx, db, &u)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "registration failed"})
		}

		sendWelcomeEmail(opts, created)

		return c.JSON(http.StatusCreated, api.NewUserResponse(*created))
	}
}

// Welcome mail goes through the worker pool so a slow mail provider never
// delays the registration response.
func sendWelcomeEmail(opts Options, u *model.User) {
	if opts.Mailer == nil || opts.Workers == nil {
		return
	}
	to, name := u.Email, u.Name
	if name == "" {
		name = u.Username
	}
	opts.Workers.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Welcome to HospitoFind. You can now submit and bookmark hospitals at %s.</p>",
			name, opts.FrontendURL)
		if err := opts.Mailer.Send(ctx, to, "Welcome to HospitoFind", body); err != nil && opts.Logger != nil {
			opts.Logger.Warn("failed to send welcome email", zap.Error(err))
		}
	})
}

// @Summary     Log in with email and password
// @Description Returns a short-lived access token and sets the refresh
// @Description token as an httpOnly cookie.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.LoginRequest true "credentials"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, opts Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		u, err := getUserByEmail(ctx, db, req.Email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
		}
		authed, err := authenticateUser(ctx, *u, req.Password)
		if err != nil {
			switch err {
			case service.ErrAccountSuspended:
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "account suspended"})
			case service.ErrFederatedAccount:
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "this account signs in with a social provider"})
			default:
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
			}
		}

		access, err := issueAccess(*authed, service.AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "login failed"})
		}
		refresh, err := issueRefresh(*authed, service.RefreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "login failed"})
		}
		c.SetCookie(service.NewRefreshCookie(refresh, opts.Production))

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: access,
			Name:        authed.Name,
			Username:    authed.Username,
			Email:       authed.Email,
			Role:        authed.Role,
		})
	}
}

// @Summary     Refresh the access token
// @Description Reads the refresh cookie and mints a new access token.
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.RefreshResponse
// @Failure     401 {object} api.ErrorResponse
// @Router      /auth/refresh [get]
func RefreshHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(service.RefreshCookieName)
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "missing refresh token"})
		}
		claims, err := verifyRefresh(cookie.Value)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		// Reload the user so role changes and suspensions take effect
		// at refresh time rather than at token expiry.
		u, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil || !u.IsActive {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		access, err := issueAccess(*u, service.AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "refresh failed"})
		}
		return c.JSON(http.StatusOK, api.RefreshResponse{AccessToken: access})
	}
}

// @Summary     Log out
// @Description Clears the refresh cookie.
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /auth/logout [post]
func LogoutHandler(production bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(service.ClearRefreshCookie(production))
		return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
	}
}
