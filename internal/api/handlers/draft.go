package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"variantd/internal/drafts"
	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/models"
	"variantd/internal/variant"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DraftPublisher is the slice of the event publisher the handler needs;
// tests swap in a recorder.
type DraftPublisher interface {
	PublishDraftSubmitted(ctx context.Context, event events.DraftSubmitted) error
}

type DraftHandler struct {
	store     *drafts.Store
	db        *gorm.DB
	publisher DraftPublisher
	logger    *logger.Logger
}

func NewDraftHandler(store *drafts.Store, db *gorm.DB, publisher DraftPublisher, logger *logger.Logger) *DraftHandler {
	return &DraftHandler{
		store:     store,
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

type openDraftRequest struct {
	Title     string          `json:"title" binding:"required"`
	Currency  string          `json:"currency"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

func (h *DraftHandler) Open(c *gin.Context) {
	var req openDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "basePrice cannot be negative"})
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	session := h.store.Open(req.Title, req.Currency, req.BasePrice)
	c.JSON(http.StatusCreated, gin.H{"data": h.draftState(session)})
}

func (h *DraftHandler) Get(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

type basePriceRequest struct {
	BasePrice decimal.Decimal `json:"basePrice"`
}

func (h *DraftHandler) SetBasePrice(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req basePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "basePrice cannot be negative"})
		return
	}

	session.Editor.SetBasePrice(req.BasePrice)
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

type attributeTypeRequest struct {
	Name   string   `json:"name" binding:"required"`
	Values []string `json:"values" binding:"required"`
}

func (h *DraftHandler) AddAttributeType(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req attributeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.Editor.AddAttributeType(req.Name, req.Values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

func (h *DraftHandler) RemoveAttributeType(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}

	if err := session.Editor.RemoveAttributeType(index); err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

func (h *DraftHandler) Generate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	count, err := session.Editor.GenerateVariants()
	if err != nil {
		if errors.Is(err, variant.ErrGenerationLimit) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session), "generated": count})
}

func (h *DraftHandler) AddVariant(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index := session.Editor.AddVariant()
	c.JSON(http.StatusCreated, gin.H{"data": h.draftState(session), "index": index})
}

func (h *DraftHandler) RemoveVariant(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}

	if err := session.Editor.RemoveVariant(index); err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

type updateFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

func (h *DraftHandler) UpdateVariantField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.Editor.UpdateField(index, req.Field, req.Value); err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.draftState(session)})
}

// CommitLabel mirrors the label field losing focus in the admin UI: the
// moment a variant id gets assigned, if it doesn't have one yet.
func (h *DraftHandler) CommitLabel(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}

	id, err := session.Editor.CommitLabel(index)
	if err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variantId": id})
}

func (h *DraftHandler) Duplicates(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": session.Editor.Duplicates()})
}

func (h *DraftHandler) Submit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	// Validation and transformation happen as one step on the editor, so a
	// concurrent edit cannot slip in between and go out unvalidated.
	submission, errs := session.Editor.Submit()
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "draft has validation errors",
			"errors": errs,
		})
		return
	}
	payload := submission.Variants

	product := models.Product{
		ID:        uuid.New().String(),
		Title:     session.Title,
		BasePrice: submission.BasePrice,
		Currency:  session.Currency,
	}
	for _, v := range payload {
		product.Variants = append(product.Variants, models.ProductVariant{
			ProductID:  product.ID,
			VariantID:  v.VariantID,
			Label:      v.Label,
			Price:      v.Price,
			Inventory:  v.Inventory,
			SKU:        v.SKU,
			Attributes: v.Attributes,
		})
	}

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save product"})
		return
	}

	event := events.DraftSubmitted{
		ProductID:   product.ID,
		Title:       product.Title,
		Currency:    product.Currency,
		BasePrice:   product.BasePrice,
		Variants:    payload,
		SubmittedAt: time.Now(),
	}
	if err := h.publisher.PublishDraftSubmitted(c.Request.Context(), event); err != nil {
		// The product is already saved; downstream consumers catch up later.
		h.logger.Error("Failed to publish draft.submitted for product %s: %v", product.ID, err)
	}

	if err := h.store.Close(session.ID); err != nil {
		h.logger.Error("Failed to close session %s: %v", session.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"productId": product.ID,
			"variants":  payload,
		},
	})
}

func (h *DraftHandler) CloseDraft(c *gin.Context) {
	if err := h.store.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// draftState is the response body shared by every editing endpoint: the full
// draft plus the current validation picture.
func (h *DraftHandler) draftState(session *drafts.Session) gin.H {
	draft := session.Editor.Draft()
	return gin.H{
		"id":         session.ID,
		"title":      session.Title,
		"currency":   session.Currency,
		"draft":      draft,
		"duplicates": session.Editor.Duplicates(),
		"errors":     session.Editor.Validate(),
	}
}

func (h *DraftHandler) session(c *gin.Context) (*drafts.Session, bool) {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return nil, false
	}
	return session, true
}

func (h *DraftHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return 0, false
	}
	return index, true
}

func (h *DraftHandler) editorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, variant.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
