// Package sitemap renders the search-engine sitemap set: an index, a
// static-pages map, a city map and a hospital map, all rooted at the
// public frontend URL.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/service"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listHospitals = store.ListHospitals
	listCityPairs = store.ListCityPairs
)

var staticPaths = []string{
	"/", "/find", "/nearby", "/about", "/login", "/signup",
}

const xmlContentType = "application/xml; charset=utf-8"

type sitemapIndex struct {
	XMLName xml.Name   `xml:"sitemapindex"`
	Xmlns   string     `xml:"xmlns,attr"`
	Maps    []indexRef `xml:"sitemap"`
}

type indexRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

func renderXML(c echo.Context, v any) error {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to render sitemap"})
	}
	return c.Blob(http.StatusOK, xmlContentType, append([]byte(xml.Header), out...))
}

// @Summary     Sitemap index
// @Tags        sitemap
// @Produce     xml
// @Success     200 {string} string "sitemap index XML"
// @Router      /sitemap.xml [get]
func IndexHandler(baseURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		today := time.Now().UTC().Format("2006-01-02")
		idx := sitemapIndex{
			Xmlns: sitemapXmlns,
			Maps: []indexRef{
				{Loc: baseURL + "/api/sitemap/static.xml", LastMod: today},
				{Loc: baseURL + "/api/sitemap/cities.xml", LastMod: today},
				{Loc: baseURL + "/api/sitemap/hospitals.xml", LastMod: today},
			},
		}
		return renderXML(c, idx)
	}
}

// @Summary     Static pages sitemap
// @Tags        sitemap
// @Produce     xml
// @Success     200 {string} string "urlset XML"
// @Router      /sitemap/static.xml [get]
func StaticHandler(frontendURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		set := urlSet{Xmlns: sitemapXmlns}
		for _, p := range staticPaths {
			set.URLs = append(set.URLs, urlEntry{
				Loc:        frontendURL + p,
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
		return renderXML(c, set)
	}
}

// @Summary     City pages sitemap
// @Tags        sitemap
// @Produce     xml
// @Success     200 {string} string "urlset XML"
// @Failure     500 {object} api.ErrorResponse
// @Router      /sitemap/cities.xml [get]
func CitiesHandler(db database.DB, frontendURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pairs, err := listCityPairs(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to render sitemap"})
		}
		set := urlSet{Xmlns: sitemapXmlns}
		for _, p := range pairs {
			set.URLs = append(set.URLs, urlEntry{
				Loc: fmt.Sprintf("%s/city/%s/%s",
					frontendURL, service.Sanitize(p.State), service.Sanitize(p.City)),
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}
		return renderXML(c, set)
	}
}

// @Summary     Hospital pages sitemap
// @Tags        sitemap
// @Produce     xml
// @Success     200 {string} string "urlset XML"
// @Failure     500 {object} api.ErrorResponse
// @Router      /sitemap/hospitals.xml [get]
func HospitalsHandler(db database.DB, frontendURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := listHospitals(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to render sitemap"})
		}
		set := urlSet{Xmlns: sitemapXmlns}
		for _, h := range hs {
			slug := h.Slug
			if slug == "" {
				slug = service.Sanitize(h.Name)
			}
			set.URLs = append(set.URLs, urlEntry{
				Loc: fmt.Sprintf("%s/hospital/%s/%s/%s",
					frontendURL, service.Sanitize(h.State), service.Sanitize(h.City), slug),
				LastMod:    h.UpdatedAt.UTC().Format("2006-01-02"),
				ChangeFreq: "monthly",
				Priority:   "0.7",
			})
		}
		return renderXML(c, set)
	}
}
