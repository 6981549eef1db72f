package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/logger"
	"inventory-catalog/internal/metrics"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/repository"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgInternalError   = "Internal server error"
	msgUpdateNotFound  = "Product not found or update failed"
	msgDeleteNotFound  = "Product not found"
	msgDeleteSucceeded = "Product deleted successfully"
)

// ProductStore es el acceso a datos que necesita el handler
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type ProductHandler struct {
	store   ProductStore
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewProductHandler(store ProductStore, log *zap.Logger, m *metrics.Metrics) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		store:   store,
		log:     log,
		metrics: m,
	}
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, ok := h.bindProductInput(c, "create")
	if !ok {
		return
	}

	product := input.product()
	if err := h.store.Create(c.Request.Context(), &product); err != nil {
		h.logFailure(c, "create product failed", err)
		h.metrics.RecordProductMutation("create", metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternalError})
		return
	}

	h.metrics.RecordProductMutation("create", metrics.OutcomeSuccess)
	h.log.Info("product created", zap.String("id", product.ID), zap.String("actor", actor(c)))
	c.JSON(http.StatusCreated, product)
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logFailure(c, "list products failed", err)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternalError})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, products)
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	input, ok := h.bindProductInput(c, "update")
	if !ok {
		return
	}

	product, err := h.store.Update(c.Request.Context(), id, input.patch())
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.metrics.RecordProductMutation("update", metrics.OutcomeNotFound)
			c.JSON(http.StatusNotFound, MessageResponse{Message: msgUpdateNotFound})
			return
		}
		h.logFailure(c, "update product failed", err, zap.String("id", id))
		h.metrics.RecordProductMutation("update", metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternalError, Error: err.Error()})
		return
	}

	h.metrics.RecordProductMutation("update", metrics.OutcomeSuccess)
	h.log.Info("product updated", zap.String("id", id), zap.String("actor", actor(c)))
	c.JSON(http.StatusOK, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.logFailure(c, "delete product failed", err, zap.String("id", id))
		h.metrics.RecordProductMutation("delete", metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternalError})
		return
	}

	if !deleted {
		h.metrics.RecordProductMutation("delete", metrics.OutcomeNotFound)
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgDeleteNotFound})
		return
	}

	h.metrics.RecordProductMutation("delete", metrics.OutcomeSuccess)
	h.log.Info("product deleted", zap.String("id", id), zap.String("actor", actor(c)))
	c.JSON(http.StatusOK, MessageResponse{Message: msgDeleteSucceeded})
}

// bindProductInput lee y valida el body; escribe el 400 si falla
func (h *ProductHandler) bindProductInput(c *gin.Context, operation string) (*productInput, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.RecordProductMutation(operation, metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgInvalidBody})
		return nil, false
	}

	input, err := parseProductInput(body)
	if err != nil {
		var vErr *ValidationError
		message := err.Error()
		if errors.As(err, &vErr) {
			message = vErr.Message
		}
		h.metrics.RecordProductMutation(operation, metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
		return nil, false
	}

	return input, true
}

// logFailure registra el error con el request id y lo adjunta al contexto para el access log
func (h *ProductHandler) logFailure(c *gin.Context, msg string, err error, fields ...zap.Field) {
	_ = c.Error(err)
	fields = append(fields,
		zap.String("request_id", logger.RequestID(c)),
		zap.String("actor", actor(c)),
		zap.Error(err),
	)
	h.log.Error(msg, fields...)
}

func actor(c *gin.Context) string {
	if p, ok := auth.PrincipalFrom(c); ok {
		return p.Subject
	}
	return ""
}
