package users

import (
	"errors"
	"net/http"
	"strconv"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	listUsers      = store.ListUsers
	createUser     = store.CreateUser
	userExists     = store.UserExists
	updateRole     = store.UpdateUserRole
	toggleActive   = store.ToggleUserActive
	countUsers     = store.CountUsers
	countHospitals = store.CountHospitals
)

// @Summary     List all users
// @Tags        admin
// @Produce     json
// @Success     200 {array} api.UserResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		us, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list users"})
		}
		resp := make([]api.UserResponse, 0, len(us))
		for _, u := range us {
			resp = append(resp, api.NewUserResponse(u))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Create a user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body api.CreateUserRequest true "user payload"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		exists, err := userExists(ctx, db, req.Email, req.Username)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}
		if exists {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email or username already taken"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}
		role := req.Role
		if role == "" {
			role = model.RoleUser
		}
		u := model.User{
			Name:         req.Name,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: &hash,
			Role:         role,
			IsActive:     true,
			IsVerified:   true,
		}
		created, err := createUser(ctx, db, &u)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}
		return c.JSON(http.StatusCreated, api.NewUserResponse(*created))
	}
}

// @Summary     Change a user's role
// @Description Admins cannot demote themselves.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       id path int true "user ID"
// @Param       request body api.UpdateRoleRequest true "new role"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/role [patch]
func UpdateRoleHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		var req api.UpdateRoleRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if id == claims.UserID && req.Role != model.RoleAdmin {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "you cannot demote yourself"})
		}

		if err := updateRole(c.Request().Context(), db, id, req.Role); err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update role"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
	}
}

// @Summary     Toggle a user's active status
// @Description Admins cannot suspend themselves.
// @Tags        admin
// @Produce     json
// @Param       id path int true "user ID"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/status [patch]
func ToggleUserStatusHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		if id == claims.UserID {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "you cannot suspend yourself"})
		}
		active, err := toggleActive(c.Request().Context(), db, id)
		if err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update status"})
		}
		return c.JSON(http.StatusOK, map[string]bool{"is_active": active})
	}
}

// @Summary     Delete a user
// @Description Admins cannot delete themselves.
// @Tags        admin
// @Produce     json
// @Param       id path int true "user ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		if id == claims.UserID {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "you cannot delete yourself"})
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete user"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
	}
}

// @Summary     Moderation dashboard counts
// @Tags        admin
// @Produce     json
// @Success     200 {object} api.AdminStatsResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/stats [get]
func AdminStatsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		total, verified, err := countHospitals(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load stats"})
		}
		users, err := countUsers(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load stats"})
		}
		return c.JSON(http.StatusOK, api.AdminStatsResponse{
			TotalHospitals:    total,
			VerifiedHospitals: verified,
			PendingHospitals:  total - verified,
			TotalUsers:        users,
		})
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
