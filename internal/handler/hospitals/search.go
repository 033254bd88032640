package hospitals

import (
	"errors"
	"net/http"
	"strconv"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/middleware"
	"hospitofind/internal/service"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
)

// @Summary     Free-text hospital search
// @Description Matches name, street, city and state; results are ranked
// @Description exact > prefix > substring.
// @Tags        hospitals
// @Produce     json
// @Param       q query string true "search term, at least 2 characters"
// @Success     200 {array} api.HospitalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/find [get]
func FindHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		term := c.QueryParam("q")
		if term == "" {
			term = c.QueryParam("term")
		}
		hs, err := findHospitals(c.Request().Context(), db, term)
		if err != nil {
			if errors.Is(err, service.ErrTermTooShort) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "search failed"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Hospitals in a city
// @Tags        hospitals
// @Produce     json
// @Param       city  query string true "city"
// @Param       state query string true "state"
// @Success     200 {array} api.HospitalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/city [get]
func HospitalsByCityHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		city, state := c.QueryParam("city"), c.QueryParam("state")
		if city == "" || state == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "city and state are required"})
		}
		hs, err := findByCityState(c.Request().Context(), db, city, state)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "search failed"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Filtered hospital search
// @Description Conjunction of optional address, city and state filters.
// @Tags        hospitals
// @Produce     json
// @Param       address query string false "matches name or street"
// @Param       city    query string false "city"
// @Param       state   query string false "state"
// @Success     200 {array} api.HospitalResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/search [get]
func SearchHospitalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params api.SearchParams
		if err := c.Bind(&params); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid search parameters"})
		}
		hs, err := searchHospitals(c.Request().Context(), db, store.SearchFilter{
			Address: params.Address,
			City:    params.City,
			State:   params.State,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "search failed"})
		}
		return c.JSON(http.StatusOK, api.NewHospitalResponses(hs))
	}
}

// @Summary     Nearby hospitals
// @Description Proximity search around the given coordinates. Without
// @Description coordinates, or when nothing is in range, returns a random
// @Description sample flagged as a fallback.
// @Tags        hospitals
// @Produce     json
// @Param       lat   query number false "latitude (alias: latitude)"
// @Param       lon   query number false "longitude (alias: longitude)"
// @Param       limit query int    false "result count" default(3)
// @Success     200 {object} api.NearbyResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /hospitals/nearby [get]
func NearbyHospitalsHandler(engine *service.NearbyEngine) echo.HandlerFunc {
	return func(c echo.Context) error {
		lat, err := parseCoordParam(coordParam(c, "lat", "latitude"), -90, 90)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid latitude"})
		}
		lon, err := parseCoordParam(coordParam(c, "lon", "longitude"), -180, 180)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid longitude"})
		}
		// One coordinate without the other degrades to the sampled path.
		if (lat == nil) != (lon == nil) {
			lat, lon = nil, nil
		}

		limit := service.DefaultNearbyLimit
		if v := c.QueryParam("limit"); v != "" {
			if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 && n <= 50 {
				limit = n
			}
		}

		resp, err := engine.Search(c.Request().Context(), lat, lon, limit, middleware.ClientIP(c))
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "search unavailable"})
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// coordParam reads the short query param name, falling back to the long
// alias.
func coordParam(c echo.Context, name, alias string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return c.QueryParam(alias)
}

func parseCoordParam(raw string, min, max float64) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < min || v > max {
		return nil, errors.New("out of range")
	}
	return &v, nil
}
