/*
dto.go - Request/response data structures for the HTTP API.

All quantities cross the wire as float64 and are converted to
decimal.Decimal at the boundary; the core never sees a float.
*/
package api

import (
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/batch"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/rollup"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENTS
// =============================================================================

type CreateEventRequest struct {
	Name string `json:"name"`
}

type EventDTO struct {
	Name string `json:"name"`
}

// =============================================================================
// CALCULATION
// =============================================================================

// CalcRequest is one stateless calculation. Which fields matter depends on
// the domain: quantity alone for the (category, quantity) calculators,
// weight+quantity for materials, distance+weight for logistics.
type CalcRequest struct {
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Weight   float64 `json:"weight,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	// Item selects a single kit component for material calculations.
	Item string `json:"item,omitempty"`
}

type CalcResponse struct {
	Category string  `json:"category"`
	Scope    string  `json:"scope"`
	Emission float64 `json:"emission_kg_co2e"`
}

// =============================================================================
// BATCHES
// =============================================================================

type BatchEntryRequest struct {
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
}

type SaveBatchRequest struct {
	Domain  string              `json:"domain"`
	Entries []BatchEntryRequest `json:"entries"`
}

type EntryDTO struct {
	ID       int     `json:"id"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Emission float64 `json:"emission"`
}

type BatchDTO struct {
	RecordID string     `json:"record_id"`
	Scope    string     `json:"scope"`
	Source   string     `json:"source"`
	Total    float64    `json:"total_emission"`
	Entries  []EntryDTO `json:"entries"`
}

// SaveMaterialRequest persists one material calculation.
type SaveMaterialRequest struct {
	Category string  `json:"category"`
	Item     string  `json:"item,omitempty"` // single kit component
	Weight   float64 `json:"weight"`
	Quantity float64 `json:"quantity"`
}

// =============================================================================
// LOGISTICS
// =============================================================================

type LogisticsRequest struct {
	Mode        string  `json:"mode"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
}

type ModeEmissionDTO struct {
	Mode     string  `json:"mode"`
	Emission float64 `json:"emission"`
}

type LogisticsResponse struct {
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distance_km"`
	Emission   float64 `json:"emission"`
	// Comparison recomputes the emission for every mode at the resolved
	// distance, mirroring the dashboard's comparison chart.
	Comparison []ModeEmissionDTO `json:"comparison"`
}

// =============================================================================
// ROLLUP
// =============================================================================

type PointDTO struct {
	Timestamp string  `json:"timestamp"`
	Running   float64 `json:"running_total"`
}

type MaxLineDTO struct {
	RecordID  string  `json:"record_id"`
	Source    string  `json:"source"`
	Item      string  `json:"item"`
	Emission  float64 `json:"emission"`
	Timestamp string  `json:"timestamp"`
}

type RollupDTO struct {
	Event       string             `json:"event"`
	PerScope    map[string]float64 `json:"per_scope"`
	PerCategory map[string]float64 `json:"per_category"`
	Cumulative  []PointDTO         `json:"cumulative"`
	Monthly     map[string]float64 `json:"monthly"`
	LineCounts  map[string]int     `json:"line_counts"`
	MaxLine     *MaxLineDTO        `json:"max_line,omitempty"`
	Total       float64            `json:"total"`
}

// =============================================================================
// HVAC ALTERNATIVES
// =============================================================================

type AlternativeDTO struct {
	Refrigerant  string  `json:"refrigerant"`
	Factor       float64 `json:"factor"`
	ReductionPct float64 `json:"reduction_pct"`
}

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User string `json:"user"`
	Role string `json:"role"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toEntryDTO(e batch.Entry) EntryDTO {
	return EntryDTO{
		ID:       e.ID,
		Category: e.Category,
		Quantity: f64(e.Quantity),
		Emission: f64(e.Emission),
	}
}

func toRollupDTO(event string, roll rollup.Rollup) RollupDTO {
	dto := RollupDTO{
		Event:       event,
		PerScope:    make(map[string]float64, len(roll.PerScope)),
		PerCategory: make(map[string]float64, len(roll.PerCategory)),
		Monthly:     make(map[string]float64, len(roll.Monthly)),
		LineCounts:  make(map[string]int, len(roll.LineCounts)),
		Total:       f64(roll.Total),
	}
	for scope, total := range roll.PerScope {
		dto.PerScope[string(scope)] = f64(total)
	}
	for source, total := range roll.PerCategory {
		dto.PerCategory[string(source)] = f64(total)
	}
	for month, total := range roll.Monthly {
		dto.Monthly[month] = f64(total)
	}
	for source, n := range roll.LineCounts {
		dto.LineCounts[string(source)] = n
	}
	for _, p := range roll.Cumulative {
		dto.Cumulative = append(dto.Cumulative, PointDTO{
			Timestamp: p.At.UTC().Format(timeFormat),
			Running:   f64(p.Running),
		})
	}
	if roll.MaxLine != nil {
		dto.MaxLine = &MaxLineDTO{
			RecordID:  roll.MaxLine.RecordID,
			Source:    string(roll.MaxLine.Source),
			Item:      roll.MaxLine.Item,
			Emission:  f64(roll.MaxLine.Emission),
			Timestamp: roll.MaxLine.At.UTC().Format(timeFormat),
		}
	}
	return dto
}

func toRecord(event string, scope emission.Scope, source emission.Source,
	item string, quantity, weight, kgCO2e decimal.Decimal) emission.Record {
	return emission.Record{
		ID:         emission.NewID(),
		Event:      event,
		Scope:      scope,
		Source:     source,
		Items:      []string{item},
		Quantities: []decimal.Decimal{quantity},
		Emissions:  []decimal.Decimal{kgCO2e},
		Weight:     weight,
		Total:      kgCO2e,
		RecordedAt: nowUTC(),
	}
}
