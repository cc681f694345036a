package variant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrIndexOutOfRange flags a variant or attribute type index outside the
	// current collection.
	ErrIndexOutOfRange = errors.New("variant: index out of range")
	// ErrLabelDerived is returned when a caller tries to hand-edit the label
	// of an attribute-driven variant.
	ErrLabelDerived = errors.New("variant: label is derived from attributes")
	// ErrUnknownField is returned by UpdateField for a field name outside the
	// editable set.
	ErrUnknownField = errors.New("variant: unknown field")
	// ErrInvalidValue flags a field value of the wrong type or shape.
	ErrInvalidValue = errors.New("variant: invalid value")
	// ErrUnknownAttribute flags an attribute name no declared type owns.
	ErrUnknownAttribute = errors.New("variant: unknown attribute type")
	// ErrInvalidAttributeValue flags a value outside the type's declared set.
	ErrInvalidAttributeValue = errors.New("variant: value not declared for attribute type")
	// ErrInvalidAttributeType covers a malformed attribute type definition.
	ErrInvalidAttributeType = errors.New("variant: invalid attribute type")
)

// Config tunes an Editor. Zero values fall back to the defaults.
type Config struct {
	// Limit caps full generation's combination count.
	Limit int
	// Debounce is the quiet window before duplicate revalidation runs.
	Debounce time.Duration
}

// Editor owns one ProductDraft for the lifetime of an editing session and is
// the only way to mutate it. Mutations are synchronous; the one asynchronous
// piece is the debounced duplicate scan, which Editor keeps coalesced behind
// its Debouncer. All methods are safe for concurrent use.
type Editor struct {
	mu       sync.Mutex
	draft    ProductDraft
	prevBase decimal.Decimal
	limit    int
	debounce *Debouncer

	// report and snapshot are refreshed together by the debounced scan.
	// snapshot backs the per-field uniqueness check so a keystroke never
	// races the full scan.
	report   DuplicateReport
	snapshot ProductDraft
}

// NewEditor opens an editing session over a fresh draft with the given base
// price.
func NewEditor(basePrice decimal.Decimal, cfg Config) *Editor {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultVariantLimit
	}
	return &Editor{
		draft:    ProductDraft{BasePrice: basePrice},
		prevBase: basePrice,
		limit:    limit,
		debounce: NewDebouncer(cfg.Debounce),
	}
}

// Close cancels any pending revalidation. The editor must not be used after
// Close.
func (e *Editor) Close() {
	e.debounce.Stop()
}

// Draft returns a deep copy of the current draft state.
func (e *Editor) Draft() ProductDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneDraft(e.draft)
}

// SetBasePrice records a new base price. On a distinct change every
// variant's adjustment is rebased so the absolute price it displayed before
// the change is preserved. Setting the same price again is a no-op, which is
// what keeps repeated renders from drifting the deltas.
func (e *Editor) SetBasePrice(newBase decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if newBase.Equal(e.prevBase) {
		return
	}
	RebaseAdjustments(e.draft.Variants, e.prevBase, newBase)
	e.prevBase = newBase
	e.draft.BasePrice = newBase
}

// AddAttributeType declares a new variation axis. Names are unique
// case-insensitively; values must be non-empty and unique within the type.
func (e *Editor) AddAttributeType(name string, values []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAttributeType)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: at least one value is required", ErrInvalidAttributeType)
	}

	cleaned := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return fmt.Errorf("%w: empty value", ErrInvalidAttributeType)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate value %q", ErrInvalidAttributeType, v)
		}
		seen[v] = true
		cleaned = append(cleaned, v)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.draft.AttributeTypes {
		if strings.EqualFold(t.Name, name) {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidAttributeType, name)
		}
	}
	e.draft.AttributeTypes = append(e.draft.AttributeTypes, AttributeType{Name: name, Values: cleaned})
	reconcileLabels(&e.draft)
	e.scheduleRevalidateLocked()
	return nil
}

// RemoveAttributeType drops a variation axis. Existing variants lose that
// attribute and their labels are rederived from what remains. Removing the
// last type drops every record back to manual mode, so their labels become
// hand-editable again.
func (e *Editor) RemoveAttributeType(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.AttributeTypes) {
		return ErrIndexOutOfRange
	}
	removed := e.draft.AttributeTypes[index]
	e.draft.AttributeTypes = append(e.draft.AttributeTypes[:index], e.draft.AttributeTypes[index+1:]...)
	if len(e.draft.AttributeTypes) == 0 {
		for i := range e.draft.Variants {
			e.draft.Variants[i].Attributes = nil
		}
	} else {
		for i := range e.draft.Variants {
			delete(e.draft.Variants[i].Attributes, removed.Name)
		}
	}
	reconcileLabels(&e.draft)
	e.scheduleRevalidateLocked()
	return nil
}

// GenerateVariants replaces the whole variant collection with one fresh
// record per attribute combination, in nested-loop order. This is
// destructive: ids, SKUs, inventory and adjustments of the previous
// collection are discarded, including for combinations that still exist.
// On ErrGenerationLimit the existing collection is left untouched.
func (e *Editor) GenerateVariants() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tuples, err := Combinations(e.draft.AttributeTypes, e.limit)
	if err != nil {
		return 0, err
	}

	variants := make([]VariantRecord, 0, len(tuples))
	for _, tuple := range tuples {
		attrs := make(map[string]string, len(tuple))
		for i, t := range e.draft.AttributeTypes {
			attrs[t.Name] = tuple[i]
		}
		variants = append(variants, VariantRecord{
			Label:           DeriveLabel(attrs, e.draft.AttributeTypes),
			PriceAdjustment: decimal.Zero,
			Attributes:      attrs,
		})
	}
	e.draft.Variants = variants
	e.scheduleRevalidateLocked()
	return len(variants), nil
}

// AddVariant appends a blank manual variant and returns its index.
func (e *Editor) AddVariant() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Variants = append(e.draft.Variants, VariantRecord{PriceAdjustment: decimal.Zero})
	e.scheduleRevalidateLocked()
	return len(e.draft.Variants) - 1
}

// RemoveVariant deletes one variant by index.
func (e *Editor) RemoveVariant(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	e.draft.Variants = append(e.draft.Variants[:index], e.draft.Variants[index+1:]...)
	e.scheduleRevalidateLocked()
	return nil
}

// SetLabel sets the free-text label of a manual variant. Attribute-driven
// variants derive their label and reject hand edits.
func (e *Editor) SetLabel(index int, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	if e.draft.Variants[index].Attributes != nil {
		return ErrLabelDerived
	}
	e.draft.Variants[index].Label = label
	e.scheduleRevalidateLocked()
	return nil
}

// SetSKU sets a variant's SKU.
func (e *Editor) SetSKU(index int, sku string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	e.draft.Variants[index].SKU = strings.TrimSpace(sku)
	return nil
}

// SetPriceAdjustment sets a variant's signed offset from the base price.
func (e *Editor) SetPriceAdjustment(index int, adjustment decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	e.draft.Variants[index].PriceAdjustment = adjustment
	return nil
}

// SetInventory sets a variant's stock count. Negative values are stored and
// flagged by validation rather than rejected, so the field stays editable
// mid-typing.
func (e *Editor) SetInventory(index int, count int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	e.draft.Variants[index].Inventory = count
	return nil
}

// SetAttribute changes one attribute value on a generated variant. The value
// must belong to the declared value set of its type; the label is rederived
// immediately after.
func (e *Editor) SetAttribute(index int, typeName, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return ErrIndexOutOfRange
	}
	v := &e.draft.Variants[index]
	if v.Attributes == nil {
		return fmt.Errorf("%w: variant %d is manual", ErrUnknownAttribute, index)
	}

	var declared *AttributeType
	for i := range e.draft.AttributeTypes {
		if e.draft.AttributeTypes[i].Name == typeName {
			declared = &e.draft.AttributeTypes[i]
			break
		}
	}
	if declared == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, typeName)
	}
	valid := false
	for _, dv := range declared.Values {
		if dv == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q for %q", ErrInvalidAttributeValue, value, typeName)
	}

	v.Attributes[typeName] = value
	reconcileLabels(&e.draft)
	e.scheduleRevalidateLocked()
	return nil
}

// UpdateField is the stringly-typed entry point used by the HTTP layer:
// "label", "sku", "priceAdjustment", "inventory", or "attributes.<type>".
func (e *Editor) UpdateField(index int, field string, value interface{}) error {
	if name, ok := strings.CutPrefix(field, "attributes."); ok {
		s, err := asString(value)
		if err != nil {
			return err
		}
		return e.SetAttribute(index, name, s)
	}
	switch field {
	case "label":
		s, err := asString(value)
		if err != nil {
			return err
		}
		return e.SetLabel(index, s)
	case "sku":
		s, err := asString(value)
		if err != nil {
			return err
		}
		return e.SetSKU(index, s)
	case "priceAdjustment":
		d, err := asDecimal(value)
		if err != nil {
			return err
		}
		return e.SetPriceAdjustment(index, d)
	case "inventory":
		n, err := asInt(value)
		if err != nil {
			return err
		}
		return e.SetInventory(index, n)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// CommitLabel is the label-blur hook. If the variant has a non-empty label
// and no id yet, an id is minted from the label, exactly once. Later label
// edits do not regenerate the id, so an id can outlive the label it was
// derived from. Returns the variant's id, possibly still empty.
func (e *Editor) CommitLabel(index int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Variants) {
		return "", ErrIndexOutOfRange
	}
	v := &e.draft.Variants[index]
	if v.VariantID == "" && NormalizeLabel(v.Label) != "" {
		v.VariantID = NewVariantID(v.Label)
	}
	return v.VariantID, nil
}

// Duplicates forces any pending debounced scan and returns the current
// duplicate report.
func (e *Editor) Duplicates() DuplicateReport {
	e.debounce.Flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report
}

// LabelUnique checks a candidate label for one slot against the debounced
// snapshot, excluding the slot itself. Empty candidates pass.
func (e *Editor) LabelUnique(index int, candidate string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return LabelIsUnique(&e.snapshot, index, candidate)
}

// Validate runs the full validation pass: required labels, non-negative
// inventory and duplicates. Pending debounced work is flushed first so the
// duplicate report is current.
func (e *Editor) Validate() []FieldError {
	e.debounce.Flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.report = FindDuplicates(&e.draft)
	return ValidateDraft(&e.draft, e.report)
}

// Submission is the validated, frozen result of one Submit call: the base
// price and variant payload taken under a single lock, so no concurrent edit
// can land between validation and transformation.
type Submission struct {
	BasePrice decimal.Decimal
	Variants  []SubmissionVariant
}

// Submit validates the draft and, if clean, transforms it for submission in
// one atomic step. On validation errors the draft is untouched and the zero
// Submission is returned.
func (e *Editor) Submit() (Submission, []FieldError) {
	e.debounce.Flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.report = FindDuplicates(&e.draft)
	if errs := ValidateDraft(&e.draft, e.report); len(errs) > 0 {
		return Submission{}, errs
	}
	return Submission{
		BasePrice: e.draft.BasePrice,
		Variants:  e.transformLocked(),
	}, nil
}

// TransformForSubmission emits the submission payload: absolute rounded
// prices, internal adjustments stripped, and an id minted from the label for
// any variant still missing one. Minted ids are written back to the draft,
// which is what makes a repeated call return identical output.
func (e *Editor) TransformForSubmission() []SubmissionVariant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transformLocked()
}

func (e *Editor) transformLocked() []SubmissionVariant {
	out := make([]SubmissionVariant, 0, len(e.draft.Variants))
	for i := range e.draft.Variants {
		v := &e.draft.Variants[i]
		if v.VariantID == "" {
			v.VariantID = NewVariantID(v.Label)
		}
		out = append(out, SubmissionVariant{
			VariantID:  v.VariantID,
			Label:      v.Label,
			Price:      DisplayPrice(e.draft.BasePrice, v.PriceAdjustment),
			Inventory:  v.Inventory,
			SKU:        v.SKU,
			Attributes: copyAttributes(v.Attributes),
		})
	}
	return out
}

// revalidate is the debounced job: rescan for duplicates and refresh the
// snapshot the per-field check reads from.
func (e *Editor) revalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.report = FindDuplicates(&e.draft)
	e.snapshot = cloneDraft(e.draft)
}

func (e *Editor) scheduleRevalidateLocked() {
	e.debounce.Schedule(e.revalidate)
}

func cloneDraft(d ProductDraft) ProductDraft {
	out := d
	out.AttributeTypes = make([]AttributeType, len(d.AttributeTypes))
	for i, t := range d.AttributeTypes {
		out.AttributeTypes[i] = AttributeType{Name: t.Name, Values: append([]string(nil), t.Values...)}
	}
	out.Variants = make([]VariantRecord, len(d.Variants))
	for i, v := range d.Variants {
		out.Variants[i] = v.clone()
	}
	return out
}

func asString(value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, value)
	}
	return s, nil
}

func asDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)
	}
}

func asInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: inventory must be an integer", ErrInvalidValue)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, value)
	}
}
