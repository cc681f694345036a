package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"variantd/internal/database"
	"variantd/internal/drafts"
	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/models"
	"variantd/internal/variant"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []events.DraftSubmitted
}

func (f *fakePublisher) PublishDraftSubmitted(_ context.Context, event events.DraftSubmitted) error {
	f.published = append(f.published, event)
	return nil
}

type draftFixture struct {
	router    *gin.Engine
	db        *database.Database
	store     *drafts.Store
	publisher *fakePublisher
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := drafts.NewStore(variant.Config{Limit: 100, Debounce: 5 * time.Millisecond})
	publisher := &fakePublisher{}
	log := logger.New("error")

	handler := NewDraftHandler(store, db.DB, publisher, log)
	router := gin.New()
	v1 := router.Group("/api/v1/drafts")
	v1.POST("", handler.Open)
	v1.GET("/:id", handler.Get)
	v1.DELETE("/:id", handler.CloseDraft)
	v1.PUT("/:id/base-price", handler.SetBasePrice)
	v1.POST("/:id/attribute-types", handler.AddAttributeType)
	v1.DELETE("/:id/attribute-types/:index", handler.RemoveAttributeType)
	v1.POST("/:id/generate", handler.Generate)
	v1.POST("/:id/variants", handler.AddVariant)
	v1.DELETE("/:id/variants/:index", handler.RemoveVariant)
	v1.PATCH("/:id/variants/:index", handler.UpdateVariantField)
	v1.POST("/:id/variants/:index/commit-label", handler.CommitLabel)
	v1.GET("/:id/duplicates", handler.Duplicates)
	v1.POST("/:id/submit", handler.Submit)

	return &draftFixture{router: router, db: db, store: store, publisher: publisher}
}

func (f *draftFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func (f *draftFixture) openDraft(t *testing.T, basePrice string) string {
	t.Helper()
	w, body := f.do(t, http.MethodPost, "/api/v1/drafts", gin.H{
		"title":     "T-Shirt",
		"currency":  "USD",
		"basePrice": basePrice,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestOpenDraftValidation(t *testing.T) {
	f := newDraftFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/drafts", gin.H{"currency": "USD"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/drafts", gin.H{"title": "X", "basePrice": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftNotFound(t *testing.T) {
	f := newDraftFixture(t)
	w, _ := f.do(t, http.MethodGet, "/api/v1/drafts/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateFlow(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "100")

	w, _ := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/attribute-types", gin.H{
		"name": "size", "values": []string{"S", "M"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/attribute-types", gin.H{
		"name": "color", "values": []string{"Red", "Blue"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), body["generated"])

	data := body["data"].(map[string]interface{})
	draft := data["draft"].(map[string]interface{})
	variants := draft["variants"].([]interface{})
	require.Len(t, variants, 4)
	first := variants[0].(map[string]interface{})
	assert.Equal(t, "S / Red", first["label"])
}

func TestGenerateLimitReturnsConflict(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")

	sizes := make([]string, 11)
	colors := make([]string, 10)
	for i := range sizes {
		sizes[i] = fmt.Sprintf("s%d", i)
	}
	for i := range colors {
		colors[i] = fmt.Sprintf("c%d", i)
	}
	w, _ := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/attribute-types", gin.H{"name": "size", "values": sizes})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/attribute-types", gin.H{"name": "color", "values": colors})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/generate", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Draft untouched: no variants materialized.
	_, body := f.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	draft := body["data"].(map[string]interface{})["draft"].(map[string]interface{})
	assert.Empty(t, draft["variants"])
}

func TestManualVariantsAndDuplicates(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")

	for range [2]int{} {
		w, _ := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants", nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "label", "value": "Large"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/1", gin.H{"field": "label", "value": "  LARGE "})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := f.do(t, http.MethodGet, "/api/v1/drafts/"+id+"/duplicates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"large"}, data["duplicateKeys"])
	assert.Equal(t, []interface{}{float64(0), float64(1)}, data["indices"])
}

func TestUpdateVariantFieldErrors(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")
	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants", nil)

	w, _ := f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/9", gin.H{"field": "sku", "value": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "bogus", "value": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommitLabelAssignsID(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")
	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants", nil)
	f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "label", "value": "Large"})

	w, body := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants/0/commit-label", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := body["variantId"].(string)
	assert.NotEmpty(t, first)

	// Committing again keeps the same id.
	_, body = f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants/0/commit-label", nil)
	assert.Equal(t, first, body["variantId"])
}

func TestSubmitBlockedByValidation(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")
	// A blank variant has no label, so the draft cannot be submitted.
	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants", nil)

	w, body := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, body["errors"])
	assert.Empty(t, f.publisher.published)
}

func TestSubmitPersistsAndPublishes(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "100")

	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/attribute-types", gin.H{"name": "size", "values": []string{"S", "M"}})
	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/generate", nil)
	f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "priceAdjustment", "value": "-20"})

	w, body := f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	data := body["data"].(map[string]interface{})
	productID := data["productId"].(string)
	require.NotEmpty(t, productID)

	// The adjustment is stripped; prices are absolute.
	submitted := data["variants"].([]interface{})
	require.Len(t, submitted, 2)
	first := submitted[0].(map[string]interface{})
	assert.Equal(t, "80", first["price"])
	assert.NotContains(t, first, "priceAdjustment")

	// Product and variants landed in the catalog.
	var product models.Product
	require.NoError(t, f.db.DB.Preload("Variants").First(&product, "id = ?", productID).Error)
	assert.Len(t, product.Variants, 2)

	// Event published, session closed.
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, productID, f.publisher.published[0].ProductID)
	assert.Equal(t, 0, f.store.Len())

	w, _ = f.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBasePriceRebaseThroughAPI(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "100")
	f.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/variants", nil)
	f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "label", "value": "Discounted"})
	f.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/variants/0", gin.H{"field": "priceAdjustment", "value": "-20"})

	w, body := f.do(t, http.MethodPut, "/api/v1/drafts/"+id+"/base-price", gin.H{"basePrice": "150"})
	require.Equal(t, http.StatusOK, w.Code)

	draft := body["data"].(map[string]interface{})["draft"].(map[string]interface{})
	v := draft["variants"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "-70", v["priceAdjustment"])
}

func TestCloseDraft(t *testing.T) {
	f := newDraftFixture(t)
	id := f.openDraft(t, "10")

	w, _ := f.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.store.Len())

	w, _ = f.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
