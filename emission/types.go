/*
Package emission is the core of the engine: pure calculators that turn an
activity quantity into kg CO2e, and the record types the rest of the system
moves around.

PURPOSE:
  Everything here is deterministic arithmetic over decimal.Decimal. No I/O,
  no clock, no shared state. The persistence gateway, HTTP layer, and
  distance resolution are collaborators defined by interface only.

KEY CONCEPTS IN THIS FILE (types.go):
  - Scope:   GHG Protocol category (Scope1/Scope2/Scope3)
  - Source:  which calculator family produced a record (fuel, food, ...)
  - Record:  one persisted submission, possibly carrying several line items
             as parallel items/quantities/emissions slices
  - Gateway: the read/write contract the persistence layer must satisfy

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal end to end; float64 only at the edges
  2. Totality: every calculator is defined for every key (unknown => zero)
  3. Immutability: records are append-only; rollups are derived, never stored

SEE ALSO:
  - calc.go: the calculator functions
  - factor/: the constant tables behind them
  - rollup/: aggregation over Records
*/
package emission

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SCOPE AND SOURCE
// =============================================================================

// Scope is the GHG Protocol category a record belongs to.
type Scope string

const (
	Scope1 Scope = "Scope1" // direct combustion
	Scope2 Scope = "Scope2" // purchased energy, refrigerant leakage
	Scope3 Scope = "Scope3" // materials, food, transport, logistics
)

// Source identifies the calculator family behind a record. Values double as
// the legacy source-table names so historical stores read back cleanly.
type Source string

const (
	SourceFuel        Source = "FuelEmissions"
	SourceElectricity Source = "ElectricityEmissions"
	SourceHVAC        Source = "HVACEmissions"
	SourceMaterial    Source = "Materials"
	SourceFood        Source = "FoodItemsEmissions"
	SourceDish        Source = "FoodItems"
	SourceTransport   Source = "TransportEmissions"
	SourceLogistics   Source = "LogisticsEmissions"
)

// ScopeOf maps a source to its scope.
func ScopeOf(s Source) Scope {
	switch s {
	case SourceFuel:
		return Scope1
	case SourceElectricity, SourceHVAC:
		return Scope2
	default:
		return Scope3
	}
}

// =============================================================================
// RECORD - One persisted submission
// =============================================================================

// Record is a persisted submission for one event. A single-line save has
// slices of length one; a batch save carries its lines as parallel slices.
// The three slices must stay the same length - rollup validates this when
// expanding and fails with MalformedRecordError on mismatch.
type Record struct {
	ID     string
	Event  string
	Scope  Scope
	Source Source

	Items      []string
	Quantities []decimal.Decimal
	Emissions  []decimal.Decimal

	// Weight applies to material records (kg per unit); zero elsewhere.
	Weight decimal.Decimal

	Total      decimal.Decimal
	RecordedAt time.Time
}

// Lines returns the number of line items the record carries, using the
// shortest parallel slice so a malformed record never causes an
// out-of-range access here. Length validation is rollup's job.
func (r Record) Lines() int {
	n := len(r.Items)
	if len(r.Quantities) < n {
		n = len(r.Quantities)
	}
	if len(r.Emissions) < n {
		n = len(r.Emissions)
	}
	return n
}

// NewID returns a fresh record/batch identifier. ULIDs sort by creation
// time, which keeps sqlite scans in insertion order for free.
func NewID() string {
	return ulid.Make().String()
}

// =============================================================================
// GATEWAY - Persistence contract (implemented by store/sqlite, store/memory)
// =============================================================================

// Gateway is the read/write contract the persistence layer satisfies. The
// core never generates storage errors of its own; whatever the gateway
// returns propagates unchanged.
type Gateway interface {
	// SaveEvent registers an event name.
	SaveEvent(ctx context.Context, name string) error

	// LatestEvent returns the most recently registered event name, or
	// ErrNoEvent when none exists.
	LatestEvent(ctx context.Context) (string, error)

	// ListEvents returns all registered event names, oldest first.
	ListEvents(ctx context.Context) ([]string, error)

	// Save appends records. Validation happens before Save is called; a
	// failed write must not leave partial state behind.
	Save(ctx context.Context, records []Record) error

	// LoadAll returns every record for an event, ascending by RecordedAt.
	LoadAll(ctx context.Context, event string) ([]Record, error)
}
