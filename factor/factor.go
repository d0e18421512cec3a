/*
Package factor holds the static emission-factor tables.

PURPOSE:
  Maps activity identifiers (fuel types, energy-use categories, refrigerants,
  materials, food items, dishes, vehicles, freight modes) to the constant
  multiplier that converts an activity quantity into kg of CO2-equivalent.
  Pure data - the calculators in package emission do the arithmetic.

LOOKUP SEMANTICS:
  Lookup(domain, key) returns decimal.Zero for an absent key. This is the
  legacy behavior every stored total already depends on: an unknown category
  silently contributes nothing. It is deliberately NOT an error path.

UNITS:
  Factors are kg CO2e per unit of input. The unit of input varies by domain:
  kWh (fuel, electricity), kg (hvac leakage, materials, food, dishes),
  km (road vehicles), kg*km (logistics).

IMMUTABILITY:
  Tables are populated at package init and never written afterwards.
  Callers receive copies from Keys(); the maps themselves are not exported.

SEE ALSO:
  - emission/calc.go: the calculators that consume these tables
  - tables.go: the full constant catalog
*/
package factor

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Domain names a factor table.
type Domain string

const (
	Fuel         Domain = "fuel"
	Electricity  Domain = "electricity"
	HVAC         Domain = "hvac"
	Material     Domain = "material"
	Food         Domain = "food"
	Dish         Domain = "dish"
	Road         Domain = "road"
	RoadElectric Domain = "road_electric"
	Logistics    Domain = "logistics"
)

// tables indexes every factor map by domain.
var tables = map[Domain]map[string]decimal.Decimal{
	Fuel:         fuelFactors,
	Electricity:  electricityFactors,
	HVAC:         refrigerantFactors,
	Food:         foodFactors,
	Dish:         dishFactors,
	Road:         roadFactors,
	RoadElectric: electricConsumption,
	Logistics:    modeEfficiency,
}

// Lookup returns the emission factor for key in the given domain, or
// decimal.Zero when either the domain or the key is unknown.
func Lookup(domain Domain, key string) decimal.Decimal {
	table, ok := tables[domain]
	if !ok {
		return decimal.Zero
	}
	f, ok := table[key]
	if !ok {
		return decimal.Zero
	}
	return f
}

// Has reports whether a factor is published for key in the given domain.
func Has(domain Domain, key string) bool {
	table, ok := tables[domain]
	if !ok {
		return false
	}
	_, ok = table[key]
	return ok
}

// Keys returns the published keys of a domain, sorted for stable UI lists.
func Keys(domain Domain) []string {
	table, ok := tables[domain]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MaterialComponent returns the per-kg factor of one component of a
// composite material (e.g. the metal share of a trophy). Zero when absent.
func MaterialComponent(category, component string) decimal.Decimal {
	m, ok := materialFactors[category]
	if !ok {
		return decimal.Zero
	}
	f, ok := m[component]
	if !ok {
		return decimal.Zero
	}
	return f
}

// MaterialComponents returns the component names of a composite material,
// sorted. Nil when the category is unknown.
func MaterialComponents(category string) []string {
	m, ok := materialFactors[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// d parses a factor literal. Table constants are code, not input, so a
// malformed literal is a programmer error and panics at init.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
