package variant

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a label and collapses every non-alphanumeric run into a
// single dash. An empty or fully non-alphanumeric label falls back to
// "variant" so the id always has a readable stem.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "variant"
	}
	return s
}

// NewVariantID derives a variant identifier from its label: the slug plus a
// short random salt. The salt keeps two same-label variants apart within a
// session; it is not a global uniqueness guarantee.
func NewVariantID(label string) string {
	return Slugify(label) + "-" + uuid.NewString()[:8]
}
