package variant

import "strings"

// LabelSeparator joins attribute values into a display label, e.g. "S / Red".
const LabelSeparator = " / "

// DeriveLabel builds the canonical display label for an attribute-driven
// variant: the chosen values joined in attribute type order. Types the record
// carries no value for are skipped. The result depends only on the inputs,
// so recomputing it is always safe.
func DeriveLabel(attributes map[string]string, types []AttributeType) string {
	if len(attributes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		if v, ok := attributes[t.Name]; ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, LabelSeparator)
}

// reconcileLabels restamps every attribute-driven record whose stored label
// no longer matches its derived one. Manual records (nil attributes) keep
// their free-text labels untouched. Returns how many labels changed.
func reconcileLabels(d *ProductDraft) int {
	changed := 0
	for i := range d.Variants {
		v := &d.Variants[i]
		if v.Attributes == nil {
			continue
		}
		derived := DeriveLabel(v.Attributes, d.AttributeTypes)
		if derived != v.Label {
			v.Label = derived
			changed++
		}
	}
	return changed
}
