package repository

import (
	"errors"

	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRepository is a repository for interacting with catalog products.
type ProductRepository struct {
	DB *gorm.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// CreateProduct creates a new product.
func (r *ProductRepository) CreateProduct(product *models.Product) error {
	err := r.DB.Create(product).Error
	if err != nil {
		logger.Get().Error("failed to create product", zap.Error(err))
	}
	return err
}

// GetProductByID retrieves a product by its ID.
func (r *ProductRepository) GetProductByID(productID uint) (*models.Product, error) {
	var product models.Product
	err := r.DB.Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Product not found"}
		}
		return nil, err
	}
	return &product, nil
}

// GetSellerProducts returns a page of a seller's products, newest first,
// along with the total count.
func (r *ProductRepository) GetSellerProducts(sellerID uint, page, pageSize int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := r.DB.Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchProducts returns a seller's products whose name or category matches
// the query, case-insensitively.
func (r *ProductRepository) SearchProducts(sellerID uint, query string, limit int) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.DB.Where("seller_id = ? AND (name ILIKE ? OR category ILIKE ?)", sellerID, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies the given column updates to a product.
func (r *ProductRepository) UpdateProduct(productID uint, updates map[string]interface{}) error {
	result := r.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	if result.Error != nil {
		logger.Get().Error("failed to update product", zap.Uint("product_id", productID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Product not found"}
	}
	return nil
}

// UpdateProductImageURL updates the image URL of a product.
func (r *ProductRepository) UpdateProductImageURL(productID uint, imageURL string) error {
	err := r.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("ImageURL", imageURL).Error
	if err != nil {
		logger.Get().Error("failed to update product image URL", zap.Uint("product_id", productID), zap.Error(err))
	}
	return err
}

// DeleteProduct deletes a product.
func (r *ProductRepository) DeleteProduct(productID uint) error {
	err := r.DB.Delete(&models.Product{}, productID).Error
	if err != nil {
		logger.Get().Error("failed to delete product", zap.Uint("product_id", productID), zap.Error(err))
	}
	return err
}
