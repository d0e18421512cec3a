package ors_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics/ors"
)

// fakeORS serves canned geocode and directions responses and counts hits.
func fakeORS(t *testing.T, geocodeHits, routeHits *atomic.Int64) *httptest.Server {
	t.Helper()

	coords := map[string][]float64{ // GeoJSON [lon, lat]
		"Pune":   {73.8567, 18.5204},
		"Mumbai": {72.8777, 19.0760},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocode/search", func(w http.ResponseWriter, r *http.Request) {
		geocodeHits.Add(1)
		place := r.URL.Query().Get("text")
		c, ok := coords[place]
		features := []any{}
		if ok {
			features = append(features, map[string]any{
				"geometry": map[string]any{"coordinates": c},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"features": features})
	})
	// Distinct distances per profile so a test can tell which one was hit.
	routes := map[string]float64{
		"driving-car": 148325.0, // meters
		"driving-hgv": 100000.0,
	}
	mux.HandleFunc("POST /v2/directions/{profile}", func(w http.ResponseWriter, r *http.Request) {
		routeHits.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		meters, ok := routes[r.PathValue("profile")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"routes": []any{
				map[string]any{"summary": map[string]any{"distance": meters}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLocate(t *testing.T) {
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("test-key", ors.WithBaseURL(srv.URL))

	got, err := c.Locate(context.Background(), "Pune")
	require.NoError(t, err)
	assert.InDelta(t, 18.5204, got.Lat, 1e-9)
	assert.InDelta(t, 73.8567, got.Lon, 1e-9)
}

func TestLocate_NoResult(t *testing.T) {
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("test-key", ors.WithBaseURL(srv.URL))

	_, err := c.Locate(context.Background(), "Atlantis")
	assert.Error(t, err)
}

func TestRoadKm(t *testing.T) {
	// 148325 meters -> 148.33 km (rounded to two decimals)
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("test-key", ors.WithBaseURL(srv.URL))

	got, err := c.RoadKm(context.Background(), "Pune", "Mumbai")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("148.33")), "got %v", got)
}

func TestRailKm_UsesHGVProfile(t *testing.T) {
	// The fake serves 148.33 km on driving-car but 100 km on driving-hgv;
	// rail resolution must see the heavy-goods number.
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("test-key", ors.WithBaseURL(srv.URL))

	got, err := c.RailKm(context.Background(), "Pune", "Mumbai")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("100")), "got %v", got)

	// End to end: 100 x 0.968
	resolved, err := logistics.Resolve(context.Background(), c, logistics.ModeRail, "Pune", "Mumbai")
	require.NoError(t, err)
	assert.True(t, resolved.Equal(decimal.RequireFromString("96.8")), "got %v", resolved)
}

func TestRoadKm_CachesResult(t *testing.T) {
	// GIVEN: two identical lookups
	// THEN: the second is answered from cache, no extra requests
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("test-key", ors.WithBaseURL(srv.URL))

	_, err := c.RoadKm(context.Background(), "Pune", "Mumbai")
	require.NoError(t, err)
	geoAfterFirst, routeAfterFirst := geo.Load(), route.Load()

	_, err = c.RoadKm(context.Background(), "Pune", "Mumbai")
	require.NoError(t, err)

	assert.Equal(t, geoAfterFirst, geo.Load())
	assert.Equal(t, routeAfterFirst, route.Load())
}

func TestRoadKm_BadAPIKey(t *testing.T) {
	var geo, route atomic.Int64
	srv := fakeORS(t, &geo, &route)
	c := ors.New("wrong-key", ors.WithBaseURL(srv.URL))

	_, err := c.RoadKm(context.Background(), "Pune", "Mumbai")
	assert.Error(t, err)
}
