package variant

import "fmt"

// FieldError is a field-scoped validation failure. It never interrupts
// editing; the collection of errors gates submission only.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("variant %d: %s: %s", e.Index, e.Field, e.Message)
}

// ValidateDraft collects every field error currently present: missing labels,
// negative inventory and duplicate keys. The duplicate report is passed in so
// callers can reuse the debounced one instead of rescanning.
func ValidateDraft(d *ProductDraft, duplicates DuplicateReport) []FieldError {
	var errs []FieldError
	for i, v := range d.Variants {
		if NormalizeLabel(v.Label) == "" {
			errs = append(errs, FieldError{Index: i, Field: "label", Message: "label is required"})
		}
		if v.Inventory < 0 {
			errs = append(errs, FieldError{Index: i, Field: "inventory", Message: "inventory cannot be negative"})
		}
		if duplicates.HasIndex(i) {
			errs = append(errs, FieldError{Index: i, Field: "label", Message: "duplicate variant"})
		}
	}
	return errs
}
