/*
tables.go - The constant catalog.

Every value here is carried over unchanged from the published factor sheets
the dashboard has always used. Changing any of them silently changes every
stored total, so additions are fine but edits need a data migration.
*/
package factor

import "github.com/shopspring/decimal"

// =============================================================================
// SCOPE 1 - FUEL COMBUSTION (kg CO2e per kWh)
// =============================================================================

var fuelFactors = map[string]decimal.Decimal{
	"Diesel":              d("0.2496"),
	"Coal":                d("0.3230"),
	"Petroleum Gas (LPG)": d("0.2106"),
	"Electricity":         d("0.82"),
}

// =============================================================================
// SCOPE 2 - ELECTRICITY CONSUMPTION (kg CO2e per kWh)
// =============================================================================

var electricityFactors = map[string]decimal.Decimal{
	"Lighting and other electrical uses": d("1.238"),
	"Cooling":                            d("0.709"),
	"Nuclear":                            d("0.012"),
	"Solar":                              d("0.041"),
	"Wind":                               d("0.011"),
	"Hydroelectric":                      d("0.024"),
}

// =============================================================================
// SCOPE 2 - HVAC REFRIGERANTS (kg CO2e per kg leaked, GWP-derived)
// =============================================================================

var refrigerantFactors = map[string]decimal.Decimal{
	"R134a":       d("1300"),
	"R-32":        d("677"),
	"R-410A":      d("2088"),
	"R-290":       d("3"),
	"R-404A":      d("3922"),
	"R-407C":      d("1774"),
	"R-407A":      d("2107"),
	"R-407F":      d("1824"),
	"R-1234yf":    d("4"),
	"R-1234ze(E)": d("6"),
	"R-600a":      d("3"),
	"R-744":       d("1"),
	"R-123":       d("77"),
	"R-245fa":     d("1030"),
	"R-600":       d("3"),
	"R-32/R-125":  d("677"),
	"R-507A":      d("3985"),
	"R-508B":      d("13900"),
	"R-23":        d("14800"),
	"R-134":       d("1300"),
	"R-717":       d("1"),
}

// =============================================================================
// SCOPE 3 - MATERIALS (kg CO2e per kg, by component)
// =============================================================================

// Composite materials are split into components with fixed mass fractions;
// the fractions themselves (3/5 metal + 2/5 plastic for trophies and
// momentoes) live in emission/calc.go next to the formulas.
var materialFactors = map[string]map[string]decimal.Decimal{
	"Trophies":  {"metal": d("2.54"), "plastic": d("1.32")},
	"Banners":   {"banner": d("7.342")},
	"Momentoes": {"metal": d("4.98"), "plastic": d("0.425")},
	"Kit": {
		"recycled_paper": d("1.58"),
		"seed_papers":    d("0.005"),
		"pen":            d("2.28"),
		"plant":          d("0"),
	},
}

// =============================================================================
// SCOPE 3 - FOOD ITEMS (kg CO2e per kg)
// =============================================================================

var foodFactors = map[string]decimal.Decimal{
	"Beef":        d("27.0"),
	"Chicken":     d("6.9"),
	"Rice":        d("2.7"),
	"Vegetables":  d("2.0"),
	"Corn":        d("0.8"),
	"Capsicum":    d("0.07"),
	"Pine-apple":  d("0.12"),
	"Curd":        d("2.66"),
	"Sugar":       d("0.58"),
	"Kaju":        d("2.13"),
	"magach":      d("1.8"),
	"tomato":      d("2.90"),
	"onion":       d("0.5"),
	"paneer":      d("5.1"),
	"ghee":        d("4.2"),
	"oil (l)":     d("1.98"),
	"fresh cream": d("3.94"),
	"butter":      d("11.52"),
}

// Dish factors are products of the constituent per-kg factors, carried over
// verbatim from the legacy sheets. Dimensionally questionable (factors do
// not compose multiplicatively), but every stored dish total was computed
// this way, so it stays until the methodology owner signs off on a change.
var dishFactors = map[string]decimal.Decimal{
	// corn, capsicum
	"Spicy corn salaad": d("0.8").Mul(d("0.07")),
	// pine apple, curd, sugar
	"Pine apple raita": d("0.12").Mul(d("2.66")).Mul(d("0.58")),
	// kaju, magach, tomato, onion, capsicum, paneer
	"Paneer tikka masala": d("2.13").Mul(d("1.8")).Mul(d("2.09")).Mul(d("0.5")).Mul(d("0.07")).Mul(d("5.1")),
	// mix of vegetables
	"Vegetable Jalfrez": d("0.72"),
	// ghee, rice, cocktail fruit
	"Kashmiri pulaao": d("4.2").Mul(d("2.44")).Mul(d("0.5")),
	// oil, fresh cream, butter
	"Strawberry ice cream": d("1.98").Mul(d("3.94")).Mul(d("11.52")),
}

// =============================================================================
// SCOPE 3 - ROAD TRANSPORT (kg CO2e per km)
// =============================================================================

var roadFactors = map[string]decimal.Decimal{
	"3-Wheeler CNG": d("0.10768"),
	"2-Wheeler":     d("0.04911"),
	"4W Petrol":     d("0.187421"),
	"4W CNG":        d("0.068"),
	"BUS":           d("0.015161"),
}

// electricConsumption is kWh per km; the grid factor below converts it to
// kg CO2e per km.
var electricConsumption = map[string]decimal.Decimal{
	"Electric 2-Wheeler":        d("0.0319"),
	"Electric 4-Wheeler":        d("0.1277"),
	"Local Train (Electricity)": d("0.82"),
}

// GridKgPerKWh converts electric-vehicle energy use to emissions.
var GridKgPerKWh = d("0.5")

// =============================================================================
// SCOPE 3 - LOGISTICS (freight)
// =============================================================================

// FreightKgPerKgKm is the flat freight factor, kg CO2e per kg per km.
var FreightKgPerKgKm = d("1.58")

// modeEfficiency is the distance-independent multiplier applied on top of
// the flat freight factor.
var modeEfficiency = map[string]decimal.Decimal{
	"Truck": d("1.9"),
	"Rail":  d("0.6"),
	"Air":   d("3.0"),
}
