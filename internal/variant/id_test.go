package variant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"S / Red":        "s-red",
		"  Large  ":      "large",
		"Café Blend #2":  "caf-blend-2",
		"":               "variant",
		"///":            "variant",
		"Wool (Organic)": "wool-organic",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestNewVariantIDCarriesSlugAndSalt(t *testing.T) {
	id := NewVariantID("S / Red")
	assert.True(t, strings.HasPrefix(id, "s-red-"), "id %q should start with slug", id)
	assert.Len(t, id, len("s-red-")+8)
}

func TestNewVariantIDSaltSeparatesSameLabel(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewVariantID("Large")
		assert.False(t, seen[id], "collision on %q", id)
		seen[id] = true
	}
}
