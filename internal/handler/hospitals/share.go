package hospitals

import (
	"net/http"
	"strings"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/middleware"
	"hospitofind/internal/model"
	"hospitofind/internal/service"
	"hospitofind/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// newLinkID produces the short opaque token used in share URLs.
var newLinkID = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// @Summary     Share a search result set
// @Description Snapshots the hospitals matching the given filter behind a
// @Description link that stays valid for 30 days, surviving later edits.
// @Tags        hospitals
// @Accept      json
// @Produce     json
// @Param       request body api.ShareRequest true "search filter to snapshot"
// @Success     201 {object} api.ShareResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/share [post]
func ShareSearchHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ShareRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}

		hs, err := searchHospitals(c.Request().Context(), db, store.SearchFilter{
			Address: req.SearchParams.Address,
			City:    req.SearchParams.City,
			State:   req.SearchParams.State,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create share link"})
		}
		if len(hs) == 0 {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "no hospitals match this search"})
		}

		link := model.ShareableLink{
			LinkID:    newLinkID(),
			Hospitals: snapshotHospitals(hs),
		}
		// Sharing works anonymously; attribution is recorded when a
		// token happens to be present.
		if claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims); ok && claims.UserID != 0 {
			userID := claims.UserID
			link.CreatedBy = &userID
		}

		created, err := createShareLink(c.Request().Context(), db, &link)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create share link"})
		}
		return c.JSON(http.StatusCreated, api.ShareResponse{ShareableLink: created.LinkID})
	}
}

// @Summary     Retrieve a shared result set
// @Tags        hospitals
// @Produce     json
// @Param       linkId path string true "share link ID"
// @Success     200 {array} model.SharedHospital
// @Failure     404 {object} api.ErrorResponse
// @Router      /hospitals/share/{linkId} [get]
func GetSharedSearchHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		link, err := getShareLink(c.Request().Context(), db, c.Param("linkId"))
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "link not found or expired"})
		}
		return c.JSON(http.StatusOK, link.Hospitals)
	}
}
