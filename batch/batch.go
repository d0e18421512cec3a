/*
Package batch is the entry aggregator: the caller-owned working set of line
entries behind one "save" action in a calculator page.

PURPOSE:
  The dashboard lets a user stack up several lines (three fuels, five food
  items) before saving them as one submission. A Batch owns exactly that
  state: add a line and its emission is computed immediately; remove a line
  and the total reflects it; Record() freezes the batch into one persisted
  record.

OWNERSHIP:
  A Batch belongs to the session that created it. There is no process-wide
  current batch and nothing here is safe for concurrent use - by contract
  one UI session drives one Batch.

ENTRY IDS:
  Entry IDs are batch-local and monotonically increasing. Removing an entry
  never frees its ID for reuse, so UI rows keyed by entry ID can never
  collide after a remove.

SEE ALSO:
  - emission/calc.go: the CalcFunc a batch computes lines with
  - rollup/: aggregation over the records batches produce
*/
package batch

import (
	"time"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/shopspring/decimal"
)

// Entry is one line in a batch.
type Entry struct {
	ID       int
	Category string
	Quantity decimal.Decimal
	Emission decimal.Decimal
}

// Batch accumulates entries for one submission.
type Batch struct {
	scope  emission.Scope
	source emission.Source
	calc   emission.CalcFunc

	nextID  int
	entries []Entry
}

// New creates an empty batch that computes line emissions with calc.
func New(scope emission.Scope, source emission.Source, calc emission.CalcFunc) *Batch {
	return &Batch{scope: scope, source: source, calc: calc}
}

// Add validates the quantity, computes the line emission, and appends the
// entry. Negative quantity fails with ErrInvalidQuantity; zero is allowed
// and contributes zero emission. Unknown categories are allowed too - they
// carry a zero factor.
func (b *Batch) Add(category string, quantity decimal.Decimal) (Entry, error) {
	if quantity.IsNegative() {
		return Entry{}, &emission.InvalidQuantityError{
			Category: category,
			Quantity: quantity.String(),
		}
	}

	e := Entry{
		ID:       b.nextID,
		Category: category,
		Quantity: quantity,
		Emission: b.calc(category, quantity),
	}
	b.nextID++
	b.entries = append(b.entries, e)
	return e, nil
}

// Remove drops the entry with the given ID and reports whether it existed.
// The freed ID is never reassigned.
func (b *Batch) Remove(id int) bool {
	for i, e := range b.entries {
		if e.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Total returns the sum of all entry emissions.
func (b *Batch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.entries {
		total = total.Add(e.Emission)
	}
	return total
}

// Entries returns the current entries in insertion order. The caller must
// not mutate the returned slice.
func (b *Batch) Entries() []Entry {
	return b.entries
}

// Len returns the number of live entries.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Record freezes the batch into one persisted record for the given event,
// carrying the lines as parallel slices. The batch itself stays usable;
// Record takes a snapshot.
func (b *Batch) Record(event string, at time.Time) emission.Record {
	items := make([]string, len(b.entries))
	quantities := make([]decimal.Decimal, len(b.entries))
	emissions := make([]decimal.Decimal, len(b.entries))
	for i, e := range b.entries {
		items[i] = e.Category
		quantities[i] = e.Quantity
		emissions[i] = e.Emission
	}

	return emission.Record{
		ID:         emission.NewID(),
		Event:      event,
		Scope:      b.scope,
		Source:     b.source,
		Items:      items,
		Quantities: quantities,
		Emissions:  emissions,
		Total:      b.Total(),
		RecordedAt: at,
	}
}
