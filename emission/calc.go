/*
calc.go - The emission calculators, one per activity domain.

Every calculator is a pure, total function: emission = quantity x factor,
with the composite-material and electric-vehicle variants spelled out below.
Unknown keys yield zero, never an error. Negative quantities are rejected by
the batch aggregator before a calculator ever sees them; the calculators
themselves do no validation.
*/
package emission

import (
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/factor"
	"github.com/shopspring/decimal"
)

// Composite mass fractions: trophies and momentoes are 3/5 metal and
// 2/5 plastic by weight.
var (
	metalShare   = decimal.RequireFromString("0.6")
	plasticShare = decimal.RequireFromString("0.4")
)

// =============================================================================
// SCOPE 1
// =============================================================================

// Fuel returns kg CO2e for burning consumption kWh of the given fuel.
func Fuel(fuelType string, consumption decimal.Decimal) decimal.Decimal {
	return consumption.Mul(factor.Lookup(factor.Fuel, fuelType))
}

// =============================================================================
// SCOPE 2
// =============================================================================

// Electricity returns kg CO2e for kWh consumed in an energy-use category.
func Electricity(category string, kWh decimal.Decimal) decimal.Decimal {
	return kWh.Mul(factor.Lookup(factor.Electricity, category))
}

// HVAC returns kg CO2e for a refrigerant leak of massKg.
func HVAC(refrigerant string, massKg decimal.Decimal) decimal.Decimal {
	return massKg.Mul(factor.Lookup(factor.HVAC, refrigerant))
}

// =============================================================================
// SCOPE 3 - MATERIALS
// =============================================================================

// composite computes the metal/plastic split shared by trophies and
// momentoes: (0.6*w*metal + 0.4*w*plastic) * quantity.
func composite(category string, weight, quantity decimal.Decimal) decimal.Decimal {
	metal := metalShare.Mul(weight).Mul(factor.MaterialComponent(category, "metal"))
	plastic := plasticShare.Mul(weight).Mul(factor.MaterialComponent(category, "plastic"))
	return metal.Add(plastic).Mul(quantity)
}

// Trophy returns kg CO2e for quantity trophies of the given unit weight.
func Trophy(weight, quantity decimal.Decimal) decimal.Decimal {
	return composite("Trophies", weight, quantity)
}

// Momento returns kg CO2e for quantity momentoes of the given unit weight.
func Momento(weight, quantity decimal.Decimal) decimal.Decimal {
	return composite("Momentoes", weight, quantity)
}

// Banner returns kg CO2e for quantity banners of the given unit weight.
func Banner(weight, quantity decimal.Decimal) decimal.Decimal {
	return weight.Mul(factor.MaterialComponent("Banners", "banner")).Mul(quantity)
}

// Kit returns kg CO2e for a full felicitation kit: the four component
// factors summed, times unit weight, times quantity.
func Kit(weight, quantity decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, component := range factor.MaterialComponents("Kit") {
		sum = sum.Add(factor.MaterialComponent("Kit", component))
	}
	return sum.Mul(weight).Mul(quantity)
}

// KitItem returns kg CO2e for one kit component on its own.
func KitItem(component string, weight, quantity decimal.Decimal) decimal.Decimal {
	return weight.Mul(factor.MaterialComponent("Kit", component)).Mul(quantity)
}

// Material dispatches on the material category. Unknown category => zero.
func Material(category string, weight, quantity decimal.Decimal) decimal.Decimal {
	switch category {
	case "Trophies":
		return Trophy(weight, quantity)
	case "Momentoes":
		return Momento(weight, quantity)
	case "Banners":
		return Banner(weight, quantity)
	case "Kit":
		return Kit(weight, quantity)
	default:
		return decimal.Zero
	}
}

// =============================================================================
// SCOPE 3 - FOOD
// =============================================================================

// Food returns kg CO2e for kg of a food item.
func Food(item string, kg decimal.Decimal) decimal.Decimal {
	return kg.Mul(factor.Lookup(factor.Food, item))
}

// Dish returns kg CO2e for kg of a prepared dish.
func Dish(dish string, kg decimal.Decimal) decimal.Decimal {
	return kg.Mul(factor.Lookup(factor.Dish, dish))
}

// =============================================================================
// SCOPE 3 - TRANSPORT
// =============================================================================

// RoadTransport returns kg CO2e for km traveled by the given vehicle.
// Fuel vehicles use a per-km factor; electric vehicles convert their
// kWh-per-km consumption through the grid factor.
func RoadTransport(vehicle string, km decimal.Decimal) decimal.Decimal {
	if factor.Has(factor.Road, vehicle) {
		return km.Mul(factor.Lookup(factor.Road, vehicle))
	}
	if factor.Has(factor.RoadElectric, vehicle) {
		return km.Mul(factor.Lookup(factor.RoadElectric, vehicle)).Mul(factor.GridKgPerKWh)
	}
	return decimal.Zero
}

// Logistics returns kg CO2e for shipping weightKg over resolvedKm by the
// given mode: distance x weight x flat factor x mode efficiency. The
// distance must already be resolved (see package logistics); the core never
// talks to a routing provider.
func Logistics(mode string, resolvedKm, weightKg decimal.Decimal) decimal.Decimal {
	return resolvedKm.Mul(weightKg).
		Mul(factor.FreightKgPerKgKm).
		Mul(factor.Lookup(factor.Logistics, mode))
}

// =============================================================================
// CALC FUNC - (category, quantity) calculators for batch entry
// =============================================================================

// CalcFunc is the shape the batch aggregator works with: category key and a
// single quantity in the domain's native unit.
type CalcFunc func(category string, quantity decimal.Decimal) decimal.Decimal

// ForDomain returns the (category, quantity) calculator for a factor
// domain, or nil for domains that need more inputs than a single quantity
// (materials want weight+quantity, logistics wants distance+weight).
func ForDomain(domain factor.Domain) CalcFunc {
	switch domain {
	case factor.Fuel:
		return Fuel
	case factor.Electricity:
		return Electricity
	case factor.HVAC:
		return HVAC
	case factor.Food:
		return Food
	case factor.Dish:
		return Dish
	case factor.Road, factor.RoadElectric:
		return RoadTransport
	default:
		return nil
	}
}
