package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/util"
	"github.com/bolbazaar/catalog-api/internal/voice"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler is the handler for catalog product requests.
type ProductHandler struct {
	Service      *service.ProductService
	PriceService *service.PriceService
}

// NewProductHandler is the constructor function for initializing a new ProductHandler.
func NewProductHandler(productService *service.ProductService, priceService *service.PriceService) *ProductHandler {
	return &ProductHandler{
		Service:      productService,
		PriceService: priceService,
	}
}

// CreateProduct handles POST /v1/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	product, err := h.Service.AddProduct(c.Request.Context(), user, input, models.SourceManual)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": service.ToProductResponse(product)})
}

// ListProducts handles GET /v1/products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.Service.ListProducts(user, page, pageSize)
	if err != nil {
		logger.Get().Error("failed to list products", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.Service.GetProduct(user, productID)
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": service.ToProductResponse(product)})
}

// SearchProducts handles GET /v1/products/search?q=...
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results, err := h.Service.SearchProducts(user, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": results})
}

// UpdateProduct handles PATCH /v1/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	product, err := h.Service.UpdateProduct(c.Request.Context(), user, productID, input)
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": service.ToProductResponse(product)})
}

// RegenerateDescription handles POST /v1/products/:id/describe.
func (h *ProductHandler) RegenerateDescription(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Language string `json:"language"`
	}
	// Body is optional; an empty body keeps the product's language.
	_ = c.ShouldBindJSON(&req)

	product, err := h.Service.RegenerateDescription(c.Request.Context(), user, productID, req.Language)
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": service.ToProductResponse(product)})
}

// DeleteProduct handles DELETE /v1/products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.Service.DeleteProduct(c.Request.Context(), user, productID); err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// CategorizeProduct handles POST /v1/products/categorize.
func (h *ProductHandler) CategorizeProduct(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	category, err := h.Service.CategorizeProduct(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": req.Name, "category": category})
}

// ListCategories handles GET /v1/categories.
func (h *ProductHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": voice.Categories()})
}

// SuggestPrice handles GET /v1/prices/suggest?name=...&category=...&quantity=...
func (h *ProductHandler) SuggestPrice(c *gin.Context) {
	suggestion, err := h.PriceService.SuggestPrice(c.Query("name"), c.Query("category"), c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// respondProductError maps service errors onto HTTP status codes.
func respondProductError(c *gin.Context, err error) {
	var notFound repository.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
