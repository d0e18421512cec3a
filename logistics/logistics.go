/*
Package logistics resolves freight distances for the logistics calculator.

PURPOSE:
  The logistics formula (distance x weight x flat factor x mode efficiency)
  lives in package emission and only consumes a resolved distance in km.
  This package is the collaborator that produces that number:

    Truck  raw road-network distance from the provider
    Rail   heavy-goods route distance scaled by 0.968
    Air    great-circle distance between the geocoded endpoints

  The road network and geocoding come from an injected DistanceProvider;
  see the ors subpackage for the OpenRouteService implementation.
*/
package logistics

import (
	"context"
	"fmt"
	"math"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/shopspring/decimal"
)

// Mode is a freight transport mode.
type Mode string

const (
	ModeTruck Mode = "Truck"
	ModeRail  Mode = "Rail"
	ModeAir   Mode = "Air"
)

// Modes lists the supported modes in display order.
func Modes() []Mode { return []Mode{ModeTruck, ModeRail, ModeAir} }

// railScale adjusts a road-network distance to a rail estimate.
var railScale = decimal.RequireFromString("0.968")

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DistanceProvider is the external routing/geocoding dependency. The core
// never calls it; only Resolve does.
type DistanceProvider interface {
	// RoadKm returns the road-network distance between two place names.
	RoadKm(ctx context.Context, origin, destination string) (decimal.Decimal, error)

	// RailKm returns the heavy-goods route distance between two place
	// names, the corridor proxy the rail scaling is applied to.
	RailKm(ctx context.Context, origin, destination string) (decimal.Decimal, error)

	// Locate geocodes a place name.
	Locate(ctx context.Context, place string) (Coordinate, error)
}

// Resolve produces the distance the logistics formula consumes, in km,
// rounded to two decimals.
func Resolve(ctx context.Context, p DistanceProvider, mode Mode, origin, destination string) (decimal.Decimal, error) {
	switch mode {
	case ModeAir:
		from, err := p.Locate(ctx, origin)
		if err != nil {
			return decimal.Zero, fmt.Errorf("geocode %q: %w", origin, err)
		}
		to, err := p.Locate(ctx, destination)
		if err != nil {
			return decimal.Zero, fmt.Errorf("geocode %q: %w", destination, err)
		}
		return decimal.NewFromFloat(HaversineKm(from, to)).Round(2), nil

	case ModeRail:
		corridor, err := p.RailKm(ctx, origin, destination)
		if err != nil {
			return decimal.Zero, err
		}
		return corridor.Mul(railScale).Round(2), nil

	case ModeTruck:
		road, err := p.RoadKm(ctx, origin, destination)
		if err != nil {
			return decimal.Zero, err
		}
		return road.Round(2), nil

	default:
		return decimal.Zero, fmt.Errorf("unknown transport mode %q", mode)
	}
}

// Estimate resolves the distance and computes the emission for shipping
// weightKg by the given mode.
func Estimate(ctx context.Context, p DistanceProvider, mode Mode, origin, destination string, weightKg decimal.Decimal) (distanceKm, kgCO2e decimal.Decimal, err error) {
	distanceKm, err = Resolve(ctx, p, mode, origin, destination)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return distanceKm, emission.Logistics(string(mode), distanceKm, weightKg), nil
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
