package hospitals

import (
	"net/http"
	"strconv"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/geocode"
	"hospitofind/internal/middleware"
	"hospitofind/internal/model"
	"hospitofind/internal/service"

	"github.com/labstack/echo/v4"
)

// @Summary     Create a hospital
// @Description Admin submissions go live immediately; user submissions land
// @Description in the moderation sandbox until approved.
// @Tags        hospitals
// @Accept      json
// @Produce     json
// @Param       hospital body api.HospitalRequest true "hospital payload"
// @Success     201 {object} api.HospitalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals [post]
func CreateHospitalHandler(db database.DB, geocoder Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.HospitalRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		exists, err := duplicateExists(ctx, db, req.Name, req.Address.City, req.Address.State, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create hospital"})
		}
		if exists {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "Hospital already exists in this city"})
		}

		slug, err := uniqueSlug(ctx, db, req.Name, req.Address.State, req.Address.City)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create hospital"})
		}

		coords := lookupCoordinates(c, geocoder, req.Address)

		userID := claims.UserID
		h := model.Hospital{
			Name:        req.Name,
			Slug:        slug,
			Street:      req.Address.Street,
			City:        req.Address.City,
			State:       req.Address.State,
			PhoneNumber: req.PhoneNumber,
			Website:     req.Website,
			Email:       req.Email,
			PhotoURL:    req.PhotoURL,
			Type:        req.Type,
			Services:    req.Services,
			Comments:    req.Comments,
			Hours:       req.Hours,
			Verified:    service.VerifiedOnCreate(claims.IsAdmin()),
			CreatedBy:   &userID,
			Longitude:   coords.Longitude,
			Latitude:    coords.Latitude,
		}
		created, err := createHospital(ctx, db, &h)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create hospital"})
		}
		return c.JSON(http.StatusCreated, api.NewHospitalResponse(*created))
	}
}

// @Summary     Update a hospital
// @Description Owner or admin only. A non-admin edit of a verified record
// @Description sends it back to the moderation sandbox.
// @Tags        hospitals
// @Accept      json
// @Produce     json
// @Param       id path int true "hospital ID"
// @Param       hospital body api.HospitalRequest true "hospital payload"
// @Success     200 {object} api.HospitalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals/{id} [patch]
func UpdateHospitalHandler(db database.DB, geocoder Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		var req api.HospitalRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		current, err := getHospitalByID(ctx, db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
		}
		if !claims.IsAdmin() && (current.CreatedBy == nil || *current.CreatedBy != claims.UserID) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "you can only edit your own submissions"})
		}

		exists, err := duplicateExists(ctx, db, req.Name, req.Address.City, req.Address.State, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update hospital"})
		}
		if exists {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "Hospital already exists in this city"})
		}

		h := *current
		addressChanged := h.Street != req.Address.Street ||
			h.City != req.Address.City || h.State != req.Address.State
		h.Name = req.Name
		h.Street = req.Address.Street
		h.City = req.Address.City
		h.State = req.Address.State
		h.PhoneNumber = req.PhoneNumber
		h.Website = req.Website
		h.Email = req.Email
		h.PhotoURL = req.PhotoURL
		h.Type = req.Type
		h.Services = req.Services
		h.Comments = req.Comments
		h.Hours = req.Hours
		h.Verified = service.VerifiedAfterEdit(current.Verified, claims.IsAdmin())

		if addressChanged || !h.HasCoordinates() {
			coords := lookupCoordinates(c, geocoder, req.Address)
			if coords.Longitude != nil {
				h.Longitude, h.Latitude = coords.Longitude, coords.Latitude
			}
		}

		if err := updateHospital(ctx, db, &h); err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update hospital"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponse(h))
	}
}

// @Summary     Delete a hospital
// @Tags        hospitals
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals/{id} [delete]
func DeleteHospitalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		if err := deleteHospital(c.Request().Context(), db, id); err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete hospital"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "hospital deleted"})
	}
}

// @Summary     Approve a sandbox submission
// @Tags        admin
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals/approve/{id} [patch]
func ApproveHospitalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		if err := setVerified(c.Request().Context(), db, id, true); err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to approve hospital"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "hospital approved"})
	}
}

// @Summary     Toggle the featured flag on a hospital
// @Tags        admin
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals/feature/{id} [patch]
func FeatureHospitalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		featured, err := toggleFeatured(c.Request().Context(), db, id)
		if err != nil {
			if isNoRows(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to feature hospital"})
		}
		return c.JSON(http.StatusOK, map[string]bool{"is_featured": featured})
	}
}

// Geocoding never blocks a write: failures come back as empty coordinates.
func lookupCoordinates(c echo.Context, geocoder Geocoder, addr api.Address) geocode.Coordinates {
	if geocoder == nil {
		return geocode.Coordinates{}
	}
	return geocoder.Lookup(c.Request().Context(), geocode.FullAddress(addr.Street, addr.City, addr.State))
}
