package users

import (
	"net/http"
	"strconv"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	addFavorite     = store.AddFavorite
	removeFavorite  = store.RemoveFavorite
	listFavorites   = store.ListFavorites
	pushRecentView  = store.PushRecentView
	listRecentViews = store.ListRecentViews
)

// @Summary     List bookmarked hospitals
// @Tags        users
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/favorites [get]
func ListFavoritesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		hs, err := listFavorites(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list favorites"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Bookmark a hospital
// @Tags        users
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/favorites/{id} [post]
func AddFavoriteHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		if err := addFavorite(c.Request().Context(), db, claims.UserID, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to add favorite"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "favorite added"})
	}
}

// @Summary     Remove a bookmark
// @Tags        users
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/favorites/{id} [delete]
func RemoveFavoriteHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		if err := removeFavorite(c.Request().Context(), db, claims.UserID, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to remove favorite"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "favorite removed"})
	}
}

// @Summary     Recently viewed hospitals
// @Tags        users
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/recently-viewed [get]
func ListRecentViewsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		hs, err := listRecentViews(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list recent views"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Record a hospital page view
// @Description Pushes the hospital onto the recently-viewed list (newest
// @Description first, capped at 20) and bumps the weekly view counter.
// @Tags        users
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/recently-viewed/{id} [post]
func PushRecentViewHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		if err := pushRecentView(c.Request().Context(), db, claims.UserID, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to record view"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "view recorded"})
	}
}
