package geocode

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Coordinates is a geocoding result. Longitude/Latitude are nil when the
// address could not be resolved; callers persist the record anyway.
type Coordinates struct {
	Longitude *float64
	Latitude  *float64
}

// Client resolves free-text addresses through the Mapbox forward-geocoding
// API. The provider is treated as unreliable: two retries with a fixed
// delay, a 5-second cap per call, and a null result instead of an error
// on exhaustion.
type Client struct {
	http  *resty.Client
	token string
	log   *zap.Logger
}

func NewClient(token string, log *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(3 * time.Second).
		SetRetryMaxWaitTime(3 * time.Second)
	return &Client{http: c, token: token, log: log}
}

// SetBaseURL points the client at a different endpoint, used by tests.
func (c *Client) SetBaseURL(url string) { c.http.SetBaseURL(url) }

type mapboxResponse struct {
	Features []struct {
		Center []float64 `json:"center"` // [longitude, latitude]
	} `json:"features"`
}

// Lookup geocodes a full address. Always returns usable Coordinates; on
// any failure both pointers are nil and the failure is logged.
func (c *Client) Lookup(ctx context.Context, fullAddress string) Coordinates {
	if fullAddress == "" || c.token == "" {
		return Coordinates{}
	}

	var out mapboxResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", c.token).
		SetQueryParam("limit", "1").
		SetResult(&out).
		Get("/" + url.PathEscape(fullAddress) + ".json")
	if err != nil {
		c.log.Warn("geocoding failed", zap.String("address", fullAddress), zap.Error(err))
		return Coordinates{}
	}
	if resp.IsError() {
		c.log.Warn("geocoding rejected",
			zap.String("address", fullAddress),
			zap.Int("status", resp.StatusCode()))
		return Coordinates{}
	}
	if len(out.Features) == 0 || len(out.Features[0].Center) < 2 {
		c.log.Info("no geocoding match", zap.String("address", fullAddress))
		return Coordinates{}
	}

	lon := out.Features[0].Center[0]
	lat := out.Features[0].Center[1]
	return Coordinates{Longitude: &lon, Latitude: &lat}
}

// FullAddress joins address parts the way the geocoder expects.
func FullAddress(street, city, state string) string {
	if street == "" {
		return fmt.Sprintf("%s, %s", city, state)
	}
	return fmt.Sprintf("%s, %s, %s", street, city, state)
}
