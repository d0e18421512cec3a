/*
errors.go - Centralized error types for the emissions core.

ERROR CATEGORIES:
  1. Validation errors - bad input rejected before any calculation
  2. Record errors     - legacy records that cannot be expanded
  3. Store errors      - surfaced by the gateway, propagated unchanged

Unknown factor keys are NOT an error anywhere in the core: they yield a
zero factor and therefore zero emission. See factor.Lookup.
*/
package emission

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidQuantity is returned when a negative quantity is submitted.
	// Zero is fine (it just contributes zero emission); negative is not.
	ErrInvalidQuantity = errors.New("quantity must not be negative")

	// ErrMalformedRecord is returned when a list-encoded record's parallel
	// slices disagree in length and the record cannot be expanded.
	ErrMalformedRecord = errors.New("malformed record: parallel lists disagree")

	// ErrNoEvent is returned by Gateway.LatestEvent when no event has been
	// registered yet.
	ErrNoEvent = errors.New("no event registered")

	// ErrEventNotFound is returned when a named event does not exist.
	ErrEventNotFound = errors.New("event not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidQuantityError reports a rejected entry.
type InvalidQuantityError struct {
	Category string
	Quantity string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %s for %q", e.Quantity, e.Category)
}

func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// MalformedRecordError identifies the record whose expansion failed so the
// caller can report it instead of silently dropping it.
type MalformedRecordError struct {
	RecordID   string
	Items      int
	Quantities int
	Emissions  int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %s: %d items, %d quantities, %d emissions",
		e.RecordID, e.Items, e.Quantities, e.Emissions)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }
