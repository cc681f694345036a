package variant

import (
	"sort"
	"strconv"
	"strings"
)

// DuplicateReport names every duplicated key and every variant index that
// participates in a duplicate group, first occurrence included.
type DuplicateReport struct {
	DuplicateKeys []string `json:"duplicateKeys"`
	Indices       []int    `json:"indices"`
}

// HasIndex reports whether the given variant index is part of any duplicate
// group.
func (r DuplicateReport) HasIndex(i int) bool {
	for _, idx := range r.Indices {
		if idx == i {
			return true
		}
	}
	return false
}

// NormalizeLabel is the manual-mode uniqueness key: trimmed and case-folded,
// so "Large", " large " and "LARGE" all collide.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// duplicateKey returns the uniqueness key for one record plus the display
// string reported for its duplicate group. Attribute-driven records key on
// their ordered value tuple, each value length-prefixed so a value that
// contains the label separator cannot collide with a different tuple that
// merely renders the same; the leading NUL keeps tuple keys disjoint from
// label keys. Everything else keys on the normalized label. Empty keys mean
// "nothing to compare yet" and are skipped by the detector.
func duplicateKey(v VariantRecord, types []AttributeType) (key, display string) {
	if v.Attributes != nil {
		var b strings.Builder
		parts := make([]string, 0, len(types))
		b.WriteByte(0)
		for _, t := range types {
			if val, ok := v.Attributes[t.Name]; ok {
				b.WriteString(strconv.Itoa(len(val)))
				b.WriteByte(':')
				b.WriteString(val)
				parts = append(parts, val)
			}
		}
		if len(parts) == 0 {
			return "", ""
		}
		return b.String(), strings.Join(parts, LabelSeparator)
	}
	normalized := NormalizeLabel(v.Label)
	return normalized, normalized
}

// FindDuplicates scans the whole collection and reports every key claimed by
// more than one variant. Both the original and the later occurrences are
// listed; nothing is dropped or repaired here, flagging is the whole job.
func FindDuplicates(d *ProductDraft) DuplicateReport {
	type group struct {
		display string
		indices []int
	}
	byKey := make(map[string]*group, len(d.Variants))
	for i, v := range d.Variants {
		key, display := duplicateKey(v, d.AttributeTypes)
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{display: display}
			byKey[key] = g
		}
		g.indices = append(g.indices, i)
	}

	report := DuplicateReport{}
	seen := make(map[string]bool, len(byKey))
	for _, g := range byKey {
		if len(g.indices) < 2 {
			continue
		}
		if !seen[g.display] {
			seen[g.display] = true
			report.DuplicateKeys = append(report.DuplicateKeys, g.display)
		}
		report.Indices = append(report.Indices, g.indices...)
	}
	sort.Strings(report.DuplicateKeys)
	sort.Ints(report.Indices)
	return report
}

// LabelIsUnique checks a candidate label for one record against the labels of
// the rest of the collection, excluding the record's own slot. Derived labels
// count too, so a manual label cannot shadow a generated one. An empty
// candidate passes; required-ness is a separate validation.
func LabelIsUnique(d *ProductDraft, index int, candidate string) bool {
	key := NormalizeLabel(candidate)
	if key == "" {
		return true
	}
	for i, v := range d.Variants {
		if i == index {
			continue
		}
		if NormalizeLabel(v.Label) == key {
			return false
		}
	}
	return true
}
