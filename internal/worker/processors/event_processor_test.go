package processors

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"variantd/internal/config"
	"variantd/internal/database"
	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/models"
	"variantd/internal/variant"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProcessor(t *testing.T) (*EventProcessor, *database.Database) {
	t.Helper()
	db, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := &config.Config{}
	return NewEventProcessor(cfg, logger.New("error"), db.DB), db
}

func TestProcessDraftSubmitted(t *testing.T) {
	ep, db := testProcessor(t)

	event := events.DraftSubmitted{
		Type:      "draft.submitted",
		ProductID: "33333333-3333-3333-3333-333333333333",
		Title:     "Mug",
		Currency:  "USD",
		BasePrice: decimal.NewFromInt(12),
		Variants: []variant.SubmissionVariant{
			{VariantID: "large-aaaa1111", Label: "Large", Price: decimal.NewFromInt(12)},
		},
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, ep.Process(raw))

	var count int64
	db.DB.Model(&models.ProductVariant{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProcessSkipsUnknownEventType(t *testing.T) {
	ep, _ := testProcessor(t)
	assert.NoError(t, ep.Process([]byte(`{"type":"draft.reopened"}`)))
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	ep, _ := testProcessor(t)
	assert.Error(t, ep.Process([]byte("not json")))
}
