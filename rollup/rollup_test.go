package rollup_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/rollup"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
}

func singleRecord(id string, source emission.Source, item string, kgCO2e string, t time.Time) emission.Record {
	return emission.Record{
		ID:         id,
		Event:      "conf-2025",
		Scope:      emission.ScopeOf(source),
		Source:     source,
		Items:      []string{item},
		Quantities: []decimal.Decimal{d("1")},
		Emissions:  []decimal.Decimal{d(kgCO2e)},
		Total:      d(kgCO2e),
		RecordedAt: t,
	}
}

// =============================================================================
// EXPANSION
// =============================================================================

func TestExpand_ListEncodedRecord(t *testing.T) {
	// GIVEN: a batch record with 3 parallel items
	// THEN: exactly 3 logical lines, positionally matched
	rec := emission.Record{
		ID:         "rec-1",
		Event:      "conf-2025",
		Scope:      emission.Scope1,
		Source:     emission.SourceFuel,
		Items:      []string{"Diesel", "Coal", "Electricity"},
		Quantities: []decimal.Decimal{d("10"), d("5"), d("2")},
		Emissions:  []decimal.Decimal{d("2.496"), d("1.615"), d("1.64")},
		RecordedAt: at(1, 9),
	}

	lines, err := rollup.Expand(rec)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "Coal", lines[1].Item)
	assert.True(t, lines[1].Quantity.Equal(d("5")))
	assert.True(t, lines[1].Emission.Equal(d("1.615")))
	assert.Equal(t, "rec-1", lines[1].RecordID)
}

func TestExpand_MismatchedLists_Fails(t *testing.T) {
	// GIVEN: 3 items but only 2 emissions
	// THEN: MalformedRecordError naming the record, not a silent drop
	rec := emission.Record{
		ID:         "rec-broken",
		Items:      []string{"Diesel", "Coal", "Electricity"},
		Quantities: []decimal.Decimal{d("10"), d("5"), d("2")},
		Emissions:  []decimal.Decimal{d("2.496"), d("1.615")},
	}

	_, err := rollup.Expand(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, emission.ErrMalformedRecord))

	var mre *emission.MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "rec-broken", mre.RecordID)
	assert.Equal(t, 3, mre.Items)
	assert.Equal(t, 2, mre.Emissions)
}

// =============================================================================
// SUMMARIZE
// =============================================================================

func TestSummarize_EmptyInput(t *testing.T) {
	roll, err := rollup.Summarize(nil)
	require.NoError(t, err)

	assert.Empty(t, roll.PerScope)
	assert.Empty(t, roll.PerCategory)
	assert.Empty(t, roll.Cumulative)
	assert.Nil(t, roll.MaxLine)
	assert.True(t, roll.Total.IsZero())
}

func TestSummarize_PerScopeAndPerCategoryTotals(t *testing.T) {
	records := []emission.Record{
		singleRecord("r1", emission.SourceFuel, "Diesel", "2.5", at(1, 9)),
		singleRecord("r2", emission.SourceElectricity, "Cooling", "7.0", at(1, 12)),
		singleRecord("r3", emission.SourceFood, "Beef", "27.0", at(2, 9)),
		singleRecord("r4", emission.SourceFuel, "Coal", "1.5", at(2, 10)),
	}

	roll, err := rollup.Summarize(records)
	require.NoError(t, err)

	assert.True(t, roll.PerScope[emission.Scope1].Equal(d("4")))
	assert.True(t, roll.PerScope[emission.Scope2].Equal(d("7")))
	assert.True(t, roll.PerScope[emission.Scope3].Equal(d("27")))

	assert.True(t, roll.PerCategory[emission.SourceFuel].Equal(d("4")))
	assert.True(t, roll.PerCategory[emission.SourceFood].Equal(d("27")))

	assert.Equal(t, 2, roll.LineCounts[emission.SourceFuel])
	assert.True(t, roll.Total.Equal(d("38")))
}

func TestSummarize_CumulativeSeries(t *testing.T) {
	// GIVEN: records arriving out of order
	// THEN: series is ascending by timestamp, monotone non-decreasing, and
	//       its final value equals the sum of per-category totals
	records := []emission.Record{
		singleRecord("r2", emission.SourceFood, "Rice", "5", at(2, 9)),
		singleRecord("r1", emission.SourceFuel, "Diesel", "2", at(1, 9)),
		singleRecord("r3", emission.SourceFuel, "Coal", "3", at(3, 9)),
	}

	roll, err := rollup.Summarize(records)
	require.NoError(t, err)
	require.Len(t, roll.Cumulative, 3)

	for i := 1; i < len(roll.Cumulative); i++ {
		assert.False(t, roll.Cumulative[i].At.Before(roll.Cumulative[i-1].At),
			"series not ascending by time at %d", i)
		assert.False(t, roll.Cumulative[i].Running.LessThan(roll.Cumulative[i-1].Running),
			"running total decreased at %d", i)
	}

	perCategorySum := decimal.Zero
	for _, total := range roll.PerCategory {
		perCategorySum = perCategorySum.Add(total)
	}
	final := roll.Cumulative[len(roll.Cumulative)-1].Running
	assert.True(t, final.Equal(perCategorySum),
		"final %v != per-category sum %v", final, perCategorySum)
	assert.True(t, final.Equal(d("10")))
}

func TestSummarize_MaxLine_TieGoesToEarliest(t *testing.T) {
	records := []emission.Record{
		singleRecord("r1", emission.SourceFuel, "Diesel", "9", at(1, 9)),
		singleRecord("r2", emission.SourceFood, "Beef", "9", at(2, 9)),
		singleRecord("r3", emission.SourceFuel, "Coal", "4", at(3, 9)),
	}

	roll, err := rollup.Summarize(records)
	require.NoError(t, err)
	require.NotNil(t, roll.MaxLine)
	assert.Equal(t, "r1", roll.MaxLine.RecordID)
	assert.Equal(t, "Diesel", roll.MaxLine.Item)
}

func TestSummarize_MaxLine_InsideBatchRecord(t *testing.T) {
	rec := emission.Record{
		ID:         "rec-batch",
		Event:      "conf-2025",
		Scope:      emission.Scope3,
		Source:     emission.SourceFood,
		Items:      []string{"Rice", "Beef", "Corn"},
		Quantities: []decimal.Decimal{d("1"), d("1"), d("1")},
		Emissions:  []decimal.Decimal{d("2.7"), d("27"), d("0.8")},
		RecordedAt: at(1, 9),
	}

	roll, err := rollup.Summarize([]emission.Record{rec})
	require.NoError(t, err)
	require.NotNil(t, roll.MaxLine)
	assert.Equal(t, "Beef", roll.MaxLine.Item)
	assert.True(t, roll.Total.Equal(d("30.5")))
}

func TestSummarize_MalformedRecordAborts(t *testing.T) {
	records := []emission.Record{
		singleRecord("r1", emission.SourceFuel, "Diesel", "2", at(1, 9)),
		{
			ID:         "rec-broken",
			Items:      []string{"a", "b", "c"},
			Quantities: []decimal.Decimal{d("1"), d("1"), d("1")},
			Emissions:  []decimal.Decimal{d("1"), d("1")},
			RecordedAt: at(2, 9),
		},
	}

	_, err := rollup.Summarize(records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, emission.ErrMalformedRecord))
}

func TestSummarize_MonthlyBuckets(t *testing.T) {
	records := []emission.Record{
		singleRecord("r1", emission.SourceFuel, "Diesel", "2", time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)),
		singleRecord("r2", emission.SourceFuel, "Coal", "3", time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)),
		singleRecord("r3", emission.SourceFood, "Rice", "5", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}

	roll, err := rollup.Summarize(records)
	require.NoError(t, err)
	assert.True(t, roll.Monthly["2025-03"].Equal(d("5")))
	assert.True(t, roll.Monthly["2025-04"].Equal(d("5")))
}
