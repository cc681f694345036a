package variant

import "github.com/shopspring/decimal"

// RoundToCents rounds a monetary value to two decimal places, half away from
// zero. Decimal arithmetic keeps boundary values exact: 19.995 rounds to
// 20.00, which float math cannot promise.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DisplayPrice is the absolute price shown for a variant: base price plus the
// variant's signed adjustment, rounded to cents.
func DisplayPrice(base, adjustment decimal.Decimal) decimal.Decimal {
	return RoundToCents(base.Add(adjustment))
}
