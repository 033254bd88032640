package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	listHospitals = store.ListHospitals
	listCityPairs = store.ListCityPairs
}

func newCtx() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestIndexHandler(t *testing.T) {
	ctx, rec := newCtx()
	require.NoError(t, IndexHandler("https://api.hospitofind.online")(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xmlContentType, rec.Header().Get(echo.HeaderContentType))

	var idx sitemapIndex
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &idx))
	require.Len(t, idx.Maps, 3)
	require.Equal(t, "https://api.hospitofind.online/api/sitemap/static.xml", idx.Maps[0].Loc)
}

func TestStaticHandler(t *testing.T) {
	ctx, rec := newCtx()
	require.NoError(t, StaticHandler("https://hospitofind.online")(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var set urlSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.URLs, len(staticPaths))
	require.Equal(t, "https://hospitofind.online/", set.URLs[0].Loc)
	require.Equal(t, "https://hospitofind.online/find", set.URLs[1].Loc)
}

func TestCitiesHandlerSanitizesNames(t *testing.T) {
	defer restoreGlobals()

	listCityPairs = func(context.Context, database.DB) ([]store.CityPair, error) {
		return []store.CityPair{{State: "Nigeria", City: "Port Harcourt"}}, nil
	}
	ctx, rec := newCtx()
	require.NoError(t, CitiesHandler(nil, "https://hospitofind.online")(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var set urlSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.URLs, 1)
	require.Equal(t, "https://hospitofind.online/city/nigeria/port-harcourt", set.URLs[0].Loc)
}

func TestHospitalsHandler(t *testing.T) {
	defer restoreGlobals()

	updated := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	listHospitals = func(context.Context, database.DB) ([]model.Hospital, error) {
		return []model.Hospital{
			{Name: "Island General", Slug: "island-general", City: "Lagos", State: "Nigeria", UpdatedAt: updated},
			// no slug: fall back to the sanitized name
			{Name: "Mercy Clinic", City: "Ibadan", State: "Nigeria", UpdatedAt: updated},
		}, nil
	}
	ctx, rec := newCtx()
	require.NoError(t, HospitalsHandler(nil, "https://hospitofind.online")(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var set urlSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.URLs, 2)
	require.Equal(t, "https://hospitofind.online/hospital/nigeria/lagos/island-general", set.URLs[0].Loc)
	require.Equal(t, "2026-03-15", set.URLs[0].LastMod)
	require.Equal(t, "https://hospitofind.online/hospital/nigeria/ibadan/mercy-clinic", set.URLs[1].Loc)
}
