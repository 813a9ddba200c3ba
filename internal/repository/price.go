package repository

import (
	"time"

	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PriceRepository is a repository for the product price history.
type PriceRepository struct {
	DB *gorm.DB
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{DB: db}
}

// RecordPrice stores one observed price.
func (r *PriceRepository) RecordPrice(record *models.PriceRecord) error {
	err := r.DB.Create(record).Error
	if err != nil {
		logger.Get().Error("failed to record price", zap.String("product_name", record.ProductName), zap.Error(err))
	}
	return err
}

// GetRecentPrices returns prices recorded since the given time for products
// matching the name (substring) or the category.
func (r *PriceRepository) GetRecentPrices(productName, category string, since time.Time) ([]float64, error) {
	var prices []float64
	err := r.DB.Model(&models.PriceRecord{}).
		Where("(product_name ILIKE ? OR category = ?) AND created_at > ?", "%"+productName+"%", category, since).
		Order("created_at DESC").
		Pluck("price", &prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}
