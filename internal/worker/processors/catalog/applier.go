package catalog

import (
	"fmt"

	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Applier writes submitted drafts into the catalog tables. A submission
// always carries the complete variant set, so applying one replaces whatever
// the product had before.
type Applier struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(db *gorm.DB, logger *logger.Logger) *Applier {
	return &Applier{
		db:     db,
		logger: logger,
	}
}

// Apply upserts the product row and swaps its variant rows for the submitted
// set, atomically.
func (a *Applier) Apply(event events.DraftSubmitted) error {
	if event.ProductID == "" {
		return fmt.Errorf("catalog: event has no product id")
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		product := models.Product{
			ID:        event.ProductID,
			Title:     event.Title,
			BasePrice: event.BasePrice,
			Currency:  event.Currency,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "base_price", "currency", "updated_at"}),
		}).Create(&product).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", event.ProductID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}

		for _, v := range event.Variants {
			row := models.ProductVariant{
				ProductID:  event.ProductID,
				VariantID:  v.VariantID,
				Label:      v.Label,
				Price:      v.Price,
				Inventory:  v.Inventory,
				SKU:        v.SKU,
				Attributes: v.Attributes,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog: apply submission for product %s: %w", event.ProductID, err)
	}

	a.logger.Info("Applied submission for product %s (%d variants)", event.ProductID, len(event.Variants))
	return nil
}
