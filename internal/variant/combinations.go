package variant

import (
	"errors"
	"fmt"
)

// DefaultVariantLimit caps how many variants full generation may produce.
const DefaultVariantLimit = 100

// ErrGenerationLimit is returned when the cartesian product of all attribute
// value sets exceeds the configured limit. Nothing is materialized in that
// case.
var ErrGenerationLimit = errors.New("variant: combination count exceeds generation limit")

// CombinationCount returns the number of variants full generation would
// produce, i.e. the product of all value set sizes. Zero attribute types
// yield zero.
func CombinationCount(types []AttributeType) int {
	if len(types) == 0 {
		return 0
	}
	count := 1
	for _, t := range types {
		count *= len(t.Values)
	}
	return count
}

// Combinations expands the attribute types into every value tuple, in
// nested-loop order: the first type varies slowest, the last fastest. The
// count is checked against limit before any tuple is built, so a failed call
// allocates nothing.
func Combinations(types []AttributeType, limit int) ([][]string, error) {
	if limit <= 0 {
		limit = DefaultVariantLimit
	}

	count := CombinationCount(types)
	if count == 0 {
		return nil, nil
	}
	if count > limit {
		return nil, fmt.Errorf("%w: %d combinations, limit %d", ErrGenerationLimit, count, limit)
	}

	tuples := make([][]string, 0, count)
	indices := make([]int, len(types))
	for {
		tuple := make([]string, len(types))
		for i, t := range types {
			tuple[i] = t.Values[indices[i]]
		}
		tuples = append(tuples, tuple)

		// Advance like an odometer, last position first.
		pos := len(types) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(types[pos].Values) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return tuples, nil
		}
	}
}
