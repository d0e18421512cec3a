package logistics_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// stubProvider answers from fixed data instead of a routing service.
type stubProvider struct {
	roadKm decimal.Decimal
	railKm decimal.Decimal
	coords map[string]logistics.Coordinate
	err    error
}

func (p *stubProvider) RoadKm(_ context.Context, _, _ string) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.roadKm, nil
}

func (p *stubProvider) RailKm(_ context.Context, _, _ string) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.railKm, nil
}

func (p *stubProvider) Locate(_ context.Context, place string) (logistics.Coordinate, error) {
	if p.err != nil {
		return logistics.Coordinate{}, p.err
	}
	c, ok := p.coords[place]
	if !ok {
		return logistics.Coordinate{}, errors.New("no such place")
	}
	return c, nil
}

func TestResolve_TruckUsesRoadDistance(t *testing.T) {
	p := &stubProvider{roadKm: d("482.736")}

	got, err := logistics.Resolve(context.Background(), p, logistics.ModeTruck, "Pune", "Mumbai")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("482.74")), "got %v", got)
}

func TestResolve_RailScalesHGVDistance(t *testing.T) {
	// GIVEN: 200 km by car route but 100 km by heavy-goods route
	// THEN: rail estimate is 100 x 0.968, from the heavy-goods route
	p := &stubProvider{roadKm: d("200"), railKm: d("100")}

	got, err := logistics.Resolve(context.Background(), p, logistics.ModeRail, "Pune", "Mumbai")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("96.8")), "got %v", got)
}

func TestResolve_AirUsesGreatCircle(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	p := &stubProvider{coords: map[string]logistics.Coordinate{
		"A": {Lat: 0, Lon: 0},
		"B": {Lat: 0, Lon: 1},
	}}

	got, err := logistics.Resolve(context.Background(), p, logistics.ModeAir, "A", "B")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("111.19")), "got %v", got)
}

func TestResolve_UnknownMode(t *testing.T) {
	p := &stubProvider{roadKm: d("100")}

	_, err := logistics.Resolve(context.Background(), p, logistics.Mode("Boat"), "A", "B")
	assert.Error(t, err)
}

func TestResolve_ProviderFailurePropagates(t *testing.T) {
	boom := errors.New("routing service down")
	p := &stubProvider{err: boom}

	_, err := logistics.Resolve(context.Background(), p, logistics.ModeTruck, "A", "B")
	assert.True(t, errors.Is(err, boom))

	_, err = logistics.Resolve(context.Background(), p, logistics.ModeAir, "A", "B")
	assert.True(t, errors.Is(err, boom))
}

func TestEstimate_TruckFormula(t *testing.T) {
	// 100 km x 10 kg x 1.58 x 1.9 = 3002
	p := &stubProvider{roadKm: d("100")}

	km, kg, err := logistics.Estimate(context.Background(), p, logistics.ModeTruck, "A", "B", d("10"))
	require.NoError(t, err)
	assert.True(t, km.Equal(d("100")))
	assert.True(t, kg.Equal(d("3002")), "got %v", kg)
}

func TestEstimate_RailFormula(t *testing.T) {
	// 96.8 km x 10 kg x 1.58 x 0.6 = 917.664
	p := &stubProvider{railKm: d("100")}

	km, kg, err := logistics.Estimate(context.Background(), p, logistics.ModeRail, "A", "B", d("10"))
	require.NoError(t, err)
	assert.True(t, km.Equal(d("96.8")))
	assert.True(t, kg.Equal(d("917.664")), "got %v", kg)
}

func TestHaversineKm(t *testing.T) {
	// Pune to Mumbai, well-known ~120 km apart as the crow flies.
	pune := logistics.Coordinate{Lat: 18.5204, Lon: 73.8567}
	mumbai := logistics.Coordinate{Lat: 19.0760, Lon: 72.8777}

	got := logistics.HaversineKm(pune, mumbai)
	assert.InDelta(t, 120, got, 5)

	// Zero distance to itself.
	assert.True(t, math.Abs(logistics.HaversineKm(pune, pune)) < 1e-9)
}

func TestModes(t *testing.T) {
	assert.Equal(t, []logistics.Mode{logistics.ModeTruck, logistics.ModeRail, logistics.ModeAir}, logistics.Modes())
}
