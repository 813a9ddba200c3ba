package handlers

import (
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/s3"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler handles product image upload requests.
type ImageHandler struct {
	Cfg            *config.Config
	ProductService *service.ProductService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(cfg *config.Config, productService *service.ProductService) *ImageHandler {
	return &ImageHandler{Cfg: cfg, ProductService: productService}
}

// allowedImageTypes is the set of accepted image file extensions.
var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadProductImage handles POST /v1/products/:id/image. The image is
// stored in S3 and the product's image URL updated.
func (h *ImageHandler) UploadProductImage(c *gin.Context) {
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

	product, err := h.ProductService.GetProduct(user, productID)
	if err != nil {
		respondProductError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type. Allowed: jpg, png, webp"})
		return
	}

	// Validate file size (max 10MB)
	const maxSize = 10 << 20
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum size of 10MB"})
		return
	}

	// Read file bytes
	imgBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	// Upload to S3
	s3Key := s3.GenerateS3Key(product.ID, ext)
	imageURL, err := s3.UploadProductImageToS3(c.Request.Context(), h.Cfg, imgBytes, s3Key)
	if err != nil {
		logger.Get().Error("failed to upload image to S3", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if err := h.ProductService.Repo.UpdateProductImageURL(product.ID, imageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image URL"})
		return
	}

	// An earlier upload under a different extension leaves a stale object
	// behind; the key only varies by extension.
	if product.ImageURL != "" {
		if oldExt := path.Ext(product.ImageURL); oldExt != ext {
			oldKey := s3.GenerateS3Key(product.ID, oldExt)
			if err := s3.DeleteProductImageFromS3(c.Request.Context(), h.Cfg, oldKey); err != nil {
				logger.Get().Warn("failed to delete stale product image",
					zap.String("s3_key", oldKey),
					zap.Error(err),
				)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}
