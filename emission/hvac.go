/*
hvac.go - Greener refrigerant suggestions.

Given the refrigerant currently in use, list every refrigerant with a
strictly lower factor, ascending, with the percentage reduction switching
would buy. Shown next to each HVAC calculation in the dashboard.
*/
package emission

import (
	"sort"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/factor"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Alternative is one greener refrigerant option.
type Alternative struct {
	Refrigerant string
	Factor      decimal.Decimal
	// ReductionPct = (current - alternative) / current * 100
	ReductionPct decimal.Decimal
}

// GreenerRefrigerants returns the refrigerants with a strictly lower factor
// than current, sorted ascending by factor. Unknown refrigerant => nil
// (its factor is zero, so nothing can beat it).
func GreenerRefrigerants(current string) []Alternative {
	currentFactor := factor.Lookup(factor.HVAC, current)
	if !currentFactor.IsPositive() {
		return nil
	}

	var options []Alternative
	for _, name := range factor.Keys(factor.HVAC) {
		f := factor.Lookup(factor.HVAC, name)
		if f.GreaterThanOrEqual(currentFactor) {
			continue
		}
		reduction := currentFactor.Sub(f).Div(currentFactor).Mul(hundred)
		options = append(options, Alternative{
			Refrigerant:  name,
			Factor:       f,
			ReductionPct: reduction,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Factor.LessThan(options[j].Factor)
	})
	return options
}
