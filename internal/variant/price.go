package variant

import "github.com/shopspring/decimal"

// RebaseAdjustments rewrites every variant's price adjustment after the base
// price moved from oldBase to newBase, so that the absolute price each
// variant displayed before the change is preserved:
//
//	newAdjustment = (oldBase + oldAdjustment) - newBase
//
// Callers must invoke this exactly once per base price change; applying it
// again for the same transition would not drift (the math is exact), but the
// Editor still gates it on a distinct-change check so the event semantics
// match the UI's.
func RebaseAdjustments(variants []VariantRecord, oldBase, newBase decimal.Decimal) {
	if len(variants) == 0 || oldBase.Equal(newBase) {
		return
	}
	for i := range variants {
		absolute := oldBase.Add(variants[i].PriceAdjustment)
		variants[i].PriceAdjustment = absolute.Sub(newBase)
	}
}
