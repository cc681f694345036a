package variant

import (
	"github.com/shopspring/decimal"
)

// AttributeType is one axis of product variation, e.g. Size with S/M/L.
// Value order matters: it drives both generation order and label order.
type AttributeType struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantRecord is one sellable option inside a draft. PriceAdjustment is a
// signed offset from the draft's base price; the absolute price only exists
// at display and submission time. Attributes is nil for manually added
// variants and maps attribute type name -> chosen value for generated ones.
type VariantRecord struct {
	VariantID       string            `json:"variantId"`
	Label           string            `json:"label"`
	PriceAdjustment decimal.Decimal   `json:"priceAdjustment"`
	Inventory       int               `json:"inventory"`
	SKU             string            `json:"sku,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
}

// ProductDraft is the in-memory working state of one editing session. It is
// owned by exactly one Editor and is never shared between sessions.
type ProductDraft struct {
	BasePrice      decimal.Decimal `json:"basePrice"`
	AttributeTypes []AttributeType `json:"attributeTypes"`
	Variants       []VariantRecord `json:"variants"`
}

// AttributeMode reports whether the draft is attribute-driven. With zero
// attribute types the draft is in manual mode and labels are free text.
func (d *ProductDraft) AttributeMode() bool {
	return len(d.AttributeTypes) > 0
}

// SubmissionVariant is the stripped shape emitted at submit time: the price
// is absolute and the internal adjustment is gone.
type SubmissionVariant struct {
	VariantID  string            `json:"variantId"`
	Label      string            `json:"label"`
	Price      decimal.Decimal   `json:"price"`
	Inventory  int               `json:"inventory"`
	SKU        string            `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func copyAttributes(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (v VariantRecord) clone() VariantRecord {
	out := v
	out.Attributes = copyAttributes(v.Attributes)
	return out
}
