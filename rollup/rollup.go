/*
Package rollup derives event summaries from persisted records.

PURPOSE:
  Given every record stored for one event, produce the numbers the overview
  dashboard renders: totals per scope and per source, a cumulative series in
  timestamp order, the single biggest line, monthly totals. A Rollup is
  recomputed on demand and never stored - the records are the only truth.

LEGACY EXPANSION:
  Batch saves persist several line items inside one record as parallel
  items/quantities/emissions lists (historically JSON arrays in a single
  cell). Expand splits such a record into one logical line per element and
  fails with MalformedRecordError when the lists disagree in length. The
  record is reported, not silently dropped.

SEE ALSO:
  - emission/types.go: Record shape
  - store/sqlite: where list-encoded records come from
*/
package rollup

import (
	"sort"
	"time"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/shopspring/decimal"
)

// Line is one logical line item after expansion.
type Line struct {
	RecordID string
	Event    string
	Scope    emission.Scope
	Source   emission.Source
	Item     string
	Quantity decimal.Decimal
	Emission decimal.Decimal
	At       time.Time
}

// Point is one step of the cumulative series.
type Point struct {
	At      time.Time
	Running decimal.Decimal
}

// Rollup is the derived summary for one event.
type Rollup struct {
	PerScope    map[emission.Scope]decimal.Decimal
	PerCategory map[emission.Source]decimal.Decimal
	Cumulative  []Point
	// MaxLine is the line with the largest single emission; ties go to the
	// earliest timestamp. Nil when there are no lines.
	MaxLine *Line
	// Monthly sums emissions per YYYY-MM bucket.
	Monthly map[string]decimal.Decimal
	// LineCounts counts logical lines per source.
	LineCounts map[emission.Source]int
	Total      decimal.Decimal
}

// Expand splits a record into one Line per list element. A single-line
// record expands to one Line. Fails with MalformedRecordError when the
// parallel lists disagree in length.
func Expand(r emission.Record) ([]Line, error) {
	if len(r.Items) != len(r.Quantities) || len(r.Items) != len(r.Emissions) {
		return nil, &emission.MalformedRecordError{
			RecordID:   r.ID,
			Items:      len(r.Items),
			Quantities: len(r.Quantities),
			Emissions:  len(r.Emissions),
		}
	}

	lines := make([]Line, len(r.Items))
	for i := range r.Items {
		lines[i] = Line{
			RecordID: r.ID,
			Event:    r.Event,
			Scope:    r.Scope,
			Source:   r.Source,
			Item:     r.Items[i],
			Quantity: r.Quantities[i],
			Emission: r.Emissions[i],
			At:       r.RecordedAt,
		}
	}
	return lines, nil
}

// Summarize computes the rollup over the given records. Empty input yields
// zeroed maps and an empty series, not an error. A record that cannot be
// expanded aborts the whole summary with its MalformedRecordError so the
// caller can surface the offending record.
func Summarize(records []emission.Record) (Rollup, error) {
	roll := Rollup{
		PerScope:    make(map[emission.Scope]decimal.Decimal),
		PerCategory: make(map[emission.Source]decimal.Decimal),
		Monthly:     make(map[string]decimal.Decimal),
		LineCounts:  make(map[emission.Source]int),
		Total:       decimal.Zero,
	}
	if len(records) == 0 {
		return roll, nil
	}

	// Scan in timestamp order regardless of how the gateway ordered them.
	ordered := make([]emission.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	running := decimal.Zero
	for _, r := range ordered {
		lines, err := Expand(r)
		if err != nil {
			return Rollup{}, err
		}

		recordSum := decimal.Zero
		for i := range lines {
			line := lines[i]
			recordSum = recordSum.Add(line.Emission)

			addTo(roll.PerScope, line.Scope, line.Emission)
			addTo(roll.PerCategory, line.Source, line.Emission)
			addTo(roll.Monthly, line.At.Format("2006-01"), line.Emission)
			roll.LineCounts[line.Source]++

			if roll.MaxLine == nil || line.Emission.GreaterThan(roll.MaxLine.Emission) {
				l := line
				roll.MaxLine = &l
			}
		}

		running = running.Add(recordSum)
		roll.Cumulative = append(roll.Cumulative, Point{At: r.RecordedAt, Running: running})
	}

	roll.Total = running
	return roll, nil
}

func addTo[K comparable](m map[K]decimal.Decimal, key K, v decimal.Decimal) {
	m[key] = m[key].Add(v)
}
