package hospitals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hospitofind/internal/api"
	"hospitofind/internal/cache"
	"hospitofind/internal/database"
	"hospitofind/internal/geocode"
	"hospitofind/internal/middleware"
	"hospitofind/internal/model"
	"hospitofind/internal/service"
	"hospitofind/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// Geocoder is the slice of the geocoding client the handlers need; tests
// substitute a stub.
type Geocoder interface {
	Lookup(ctx context.Context, fullAddress string) geocode.Coordinates
}

var (
	listHospitals      = store.ListHospitals
	listAllHospitals   = store.ListAllHospitals
	listPending        = store.ListPendingHospitals
	listByCreator      = store.ListHospitalsByCreator
	listFeatured       = store.ListFeaturedHospitals
	countHospitals     = store.CountHospitals
	randomHospitals    = store.RandomVerifiedHospitals
	getHospitalByID    = store.GetHospitalByID
	getHospitalByName  = store.GetHospitalByName
	createHospital     = store.CreateHospital
	updateHospital     = store.UpdateHospital
	deleteHospital     = store.DeleteHospital
	setVerified        = store.SetHospitalVerified
	toggleFeatured     = store.ToggleHospitalFeatured
	duplicateExists    = store.HospitalDuplicateExists
	searchHospitals    = store.SearchHospitals
	findHospitals      = service.FindHospitals
	findByCityState    = service.FindHospitalsByCityState
	uniqueSlug         = service.UniqueSlug
	createShareLink    = store.CreateShareableLink
	getShareLink       = store.GetShareableLink
	getBySlug          = store.GetHospitalBySlug
	getBySlugOnly      = store.GetHospitalBySlugOnly
	getByNamePrefix    = store.GetHospitalByNamePrefix
)

const (
	featuredCacheKey = "hospitals:featured"
	featuredCacheTTL = 10 * time.Minute
	featuredLimit    = 6
)

// @Summary     List verified hospitals
// @Tags        hospitals
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals [get]
func ListHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := listHospitals(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list hospitals"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Hospital counts
// @Tags        hospitals
// @Produce     json
// @Success     200 {object} map[string]int
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/count [get]
func CountHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		total, verified, err := countHospitals(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to count hospitals"})
		}
		return c.JSON(http.StatusOK, map[string]int{
			"total":    total,
			"verified": verified,
		})
	}
}

// @Summary     Random verified hospitals
// @Tags        hospitals
// @Produce     json
// @Param       limit query int false "sample size" default(3)
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/random [get]
func RandomHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 3
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		hs, err := randomHospitals(c.Request().Context(), db, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to sample hospitals"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Featured hospitals
// @Description Short-lived cached list of featured records for the landing page
// @Tags        hospitals
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/top [get]
func TopHospitalsHandler(db database.DB, ch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if cached, ok, err := ch.Get(ctx, featuredCacheKey); err == nil && ok {
			var resp []api.HospitalResponse
			if json.Unmarshal(cached, &resp) == nil {
				return c.JSON(http.StatusOK, resp)
			}
		}

		hs, err := listFeatured(ctx, db, featuredLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list featured hospitals"})
		}
		resp := api.NewHospitalResponses(hs)
		if payload, err := json.Marshal(resp); err == nil {
			_ = ch.Set(ctx, featuredCacheKey, payload, featuredCacheTTL)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     List every hospital, verified or not
// @Tags        admin
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/hospitals [get]
func AllHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := listAllHospitals(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list hospitals"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Unverified community submissions
// @Tags        hospitals
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/sandbox [get]
func SandboxHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := listPending(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list submissions"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Get a hospital by ID
// @Tags        hospitals
// @Produce     json
// @Param       id path int true "hospital ID"
// @Success     200 {object} api.HospitalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /hospitals/id/{id} [get]
func GetHospitalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid hospital ID"})
		}
		h, err := getHospitalByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponse(*h))
	}
}

// @Summary     Get a hospital by name
// @Tags        hospitals
// @Produce     json
// @Param       name path string true "hospital name"
// @Success     200 {object} api.HospitalResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /hospitals/name/{name} [get]
func GetHospitalByNameHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := getHospitalByName(c.Request().Context(), db, c.Param("name"))
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponse(*h))
	}
}

// @Summary     Hospital page lookup by slug
// @Description Resolves /hospital/:state/:city/:slug with fallbacks for
// @Description legacy links: slug within city, slug alone, name prefix, raw id.
// @Tags        hospitals
// @Produce     json
// @Param       state path string true "state slug"
// @Param       city  path string true "city slug"
// @Param       slug  path string true "hospital slug"
// @Success     200 {object} api.HospitalResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /hospitals/slug/{state}/{city}/{slug} [get]
func GetHospitalBySlugHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		state, city, slug := c.Param("state"), c.Param("city"), c.Param("slug")

		h, err := getBySlug(ctx, db, state, city, slug)
		if err != nil {
			h, err = getBySlugOnly(ctx, db, slug)
		}
		if err != nil {
			// Imported records often carry a slugified name but no slug.
			h, err = getByNamePrefix(ctx, db, deslug(slug))
		}
		if err != nil {
			if id, convErr := strconv.Atoi(slug); convErr == nil {
				h, err = getHospitalByID(ctx, db, id)
			}
		}
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "hospital not found"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponse(*h))
	}
}

// @Summary     Current user's submissions
// @Tags        hospitals
// @Produce     json
// @Success     200 {array} api.HospitalResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /hospitals/submissions [get]
func MySubmissionsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		hs, err := listByCreator(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list submissions"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

func deslug(slug string) string {
	out := []rune(slug)
	for i, r := range out {
		if r == '-' {
			out[i] = ' '
		}
	}
	return string(out)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Shared snapshot builder: model → immutable share entry.
func snapshotHospitals(hs []model.Hospital) []model.SharedHospital {
	out := make([]model.SharedHospital, 0, len(hs))
	for _, h := range hs {
		out = append(out, model.SharedHospital{
			HospitalID: h.ID,
			Slug:       h.Slug,
			Name:       h.Name,
			Street:     h.Street,
			City:       h.City,
			State:      h.State,
			Phone:      h.PhoneNumber,
			Website:    h.Website,
			Email:      h.Email,
			PhotoURL:   h.PhotoURL,
			Type:       h.Type,
			Services:   h.Services,
		})
	}
	return out
}
