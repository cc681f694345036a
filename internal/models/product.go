package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a submitted catalog product. Drafts never touch this table;
// rows only appear here once an editing session submits.
type Product struct {
	ID        string           `json:"id" gorm:"type:uuid;primary_key"`
	Title     string           `json:"title" gorm:"not null"`
	BasePrice decimal.Decimal  `json:"base_price" gorm:"type:decimal(10,2)"`
	Currency  string           `json:"currency" gorm:"default:USD"`
	Variants  []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProductVariant is one sellable option of a submitted product. VariantID is
// the identifier minted during editing; Price is absolute, the editing-time
// adjustment never reaches this table.
type ProductVariant struct {
	ID         string            `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  string            `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_variant,priority:1"`
	VariantID  string            `json:"variant_id" gorm:"not null;uniqueIndex:idx_product_variant,priority:2"`
	Label      string            `json:"label" gorm:"not null"`
	Price      decimal.Decimal   `json:"price" gorm:"type:decimal(10,2)"`
	Inventory  int               `json:"inventory" gorm:"default:0"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes,omitempty" gorm:"serializer:json"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
