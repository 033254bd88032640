package users

import (
	"net/http"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/middleware"
	"hospitofind/internal/service"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByID     = store.GetUserByID
	updateProfile   = store.UpdateUserProfile
	updatePassword  = store.UpdateUserPassword
	deleteUser      = store.DeleteUser
	comparePassword = service.ComparePassword
	hashPassword    = service.HashPassword
	countSubs       = store.CountSubmissions
)

// Contributor levels by verified submission count.
func contributorLevel(verified int) string {
	switch {
	case verified >= 20:
		return "Gold"
	case verified >= 5:
		return "Silver"
	case verified >= 1:
		return "Bronze"
	default:
		return "Newcomer"
	}
}

func currentClaims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil && claims.UserID != 0
}

// @Summary     Current user profile
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func MeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		u, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(*u))
	}
}

// @Summary     Update current user profile
// @Description Requires the current password as confirmation.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.UpdateMeRequest true "profile changes"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [patch]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		u, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if u.PasswordHash == nil || comparePassword(*u.PasswordHash, req.Password) != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "incorrect password"})
		}

		name, email := u.Name, u.Email
		if req.Name != "" {
			name = req.Name
		}
		if req.Email != "" {
			email = req.Email
		}
		if err := updateProfile(ctx, db, u.ID, name, email); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update profile"})
		}
		u.Name, u.Email = name, email
		return c.JSON(http.StatusOK, api.NewUserResponse(*u))
	}
}

// @Summary     Change current user password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.UpdatePasswordRequest true "old and new password"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdatePasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		var req api.UpdatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		u, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if u.PasswordHash == nil || comparePassword(*u.PasswordHash, req.OldPassword) != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "incorrect password"})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update password"})
		}
		if err := updatePassword(ctx, db, u.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update password"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
	}
}

// @Summary     Delete current user account
// @Description Requires the current password as confirmation. Submitted
// @Description hospitals stay in the directory with their author cleared.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.DeleteMeRequest true "password confirmation"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [delete]
func DeleteMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		var req api.DeleteMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		u, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if u.PasswordHash == nil || comparePassword(*u.PasswordHash, req.Password) != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "incorrect password"})
		}

		if err := deleteUser(ctx, db, u.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete account"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "account deleted"})
	}
}

// @Summary     Current user's contribution stats
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserStatsResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/stats [get]
func MyStatsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		total, verified, err := countSubs(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load stats"})
		}
		return c.JSON(http.StatusOK, api.UserStatsResponse{
			TotalSubmissions:    total,
			VerifiedSubmissions: verified,
			PendingSubmissions:  total - verified,
			ContributorLevel:    contributorLevel(verified),
		})
	}
}
