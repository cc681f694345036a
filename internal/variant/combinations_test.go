package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinationsNestedLoopOrder(t *testing.T) {
	types := []AttributeType{
		{Name: "size", Values: []string{"S", "M"}},
		{Name: "color", Values: []string{"Red", "Blue"}},
	}

	tuples, err := Combinations(types, 0)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"S", "Red"},
		{"S", "Blue"},
		{"M", "Red"},
		{"M", "Blue"},
	}, tuples)
}

func TestCombinationsCountMatchesProduct(t *testing.T) {
	types := []AttributeType{
		{Name: "size", Values: []string{"S", "M", "L"}},
		{Name: "color", Values: []string{"Red", "Blue"}},
		{Name: "material", Values: []string{"Cotton", "Wool"}},
	}

	tuples, err := Combinations(types, 100)
	require.NoError(t, err)
	assert.Len(t, tuples, 12)

	// Every tuple must be distinct.
	seen := make(map[string]bool)
	for _, tuple := range tuples {
		key := tuple[0] + "|" + tuple[1] + "|" + tuple[2]
		assert.False(t, seen[key], "duplicate tuple %v", tuple)
		seen[key] = true
	}
}

func TestCombinationsZeroTypes(t *testing.T) {
	tuples, err := Combinations(nil, 100)
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestCombinationsLimitExceeded(t *testing.T) {
	types := []AttributeType{
		{Name: "a", Values: make([]string, 6)},
		{Name: "b", Values: make([]string, 7)},
		{Name: "c", Values: make([]string, 3)},
	}
	assert.Equal(t, 126, CombinationCount(types))

	tuples, err := Combinations(types, 100)
	assert.ErrorIs(t, err, ErrGenerationLimit)
	assert.Nil(t, tuples)
}

func TestCombinationsAtLimit(t *testing.T) {
	types := []AttributeType{
		{Name: "a", Values: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
		{Name: "b", Values: []string{"x", "y", "z", "w", "v", "u", "t", "s", "r", "q"}},
	}

	tuples, err := Combinations(types, 100)
	require.NoError(t, err)
	assert.Len(t, tuples, 100)
}
