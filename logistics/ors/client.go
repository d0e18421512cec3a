/*
Package ors implements logistics.DistanceProvider against the
OpenRouteService API.

ENDPOINTS:
  GET  /geocode/search             pelias geocoding (place -> coordinates)
  POST /v2/directions/{profile}    routing (coordinates -> distance meters)

PROFILES:
  Truck  driving-car
  Rail   driving-hgv (heavy goods vehicle as a proxy for the rail corridor;
         package logistics applies the 0.968 rail scaling afterwards)

RESILIENCE:
  Geocode and route results are cached with a TTL so repeated estimates for
  the same city pair do not burn API quota, and outbound calls go through a
  client-side rate limiter to stay under the free-tier request budget.
*/
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// profile maps transport modes to ORS routing profiles.
var profiles = map[logistics.Mode]string{
	logistics.ModeTruck: "driving-car",
	logistics.ModeRail:  "driving-hgv",
}

// Client talks to OpenRouteService. Implements logistics.DistanceProvider
// using the driving-car profile for road distances.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client. Results are cached for an hour; outbound requests
// are limited to ~1/s with a small burst, matching the free-tier quota.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   gocache.New(time.Hour, 10*time.Minute),
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ logistics.DistanceProvider = (*Client)(nil)

// Locate geocodes a place name via pelias search, returning the first hit.
func (c *Client) Locate(ctx context.Context, place string) (logistics.Coordinate, error) {
	cacheKey := "geocode:" + place
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.(logistics.Coordinate), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return logistics.Coordinate{}, err
	}

	u := fmt.Sprintf("%s/geocode/search?api_key=%s&text=%s&size=1",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return logistics.Coordinate{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return logistics.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return logistics.Coordinate{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Features []struct {
			Geometry struct {
				// GeoJSON order: [lon, lat]
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return logistics.Coordinate{}, fmt.Errorf("geocode decode: %w", err)
	}
	if len(body.Features) == 0 || len(body.Features[0].Geometry.Coordinates) < 2 {
		return logistics.Coordinate{}, fmt.Errorf("geocode: no result for %q", place)
	}

	coords := body.Features[0].Geometry.Coordinates
	loc := logistics.Coordinate{Lat: coords[1], Lon: coords[0]}
	c.cache.SetDefault(cacheKey, loc)
	return loc, nil
}

// RoadKm returns the driving distance between two place names in km.
func (c *Client) RoadKm(ctx context.Context, origin, destination string) (decimal.Decimal, error) {
	return c.routeKm(ctx, profiles[logistics.ModeTruck], origin, destination)
}

// RailKm returns the heavy-goods route distance between two place names in
// km, routed with the driving-hgv profile.
func (c *Client) RailKm(ctx context.Context, origin, destination string) (decimal.Decimal, error) {
	return c.routeKm(ctx, profiles[logistics.ModeRail], origin, destination)
}

func (c *Client) routeKm(ctx context.Context, profile, origin, destination string) (decimal.Decimal, error) {
	cacheKey := fmt.Sprintf("route:%s:%s:%s", profile, origin, destination)
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.(decimal.Decimal), nil
	}

	from, err := c.Locate(ctx, origin)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := c.Locate(ctx, destination)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	// ORS expects [lon, lat] pairs.
	payload, err := json.Marshal(map[string]any{
		"coordinates": [][]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
	})
	if err != nil {
		return decimal.Zero, err
	}

	u := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("directions: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Routes []struct {
			Summary struct {
				Distance float64 `json:"distance"` // meters
			} `json:"summary"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("directions decode: %w", err)
	}
	if len(body.Routes) == 0 {
		return decimal.Zero, fmt.Errorf("directions: no route from %q to %q", origin, destination)
	}

	km := decimal.NewFromFloat(body.Routes[0].Summary.Distance / 1000).Round(2)
	c.cache.SetDefault(cacheKey, km)
	return km, nil
}
