package repository

import (
	"time"

	"github.com/bolbazaar/catalog-api/internal/models"
)

// ProductRepo is the interface for product repository operations.
type ProductRepo interface {
	CreateProduct(product *models.Product) error
	GetProductByID(productID uint) (*models.Product, error)
	GetSellerProducts(sellerID uint, page, pageSize int) ([]models.Product, int64, error)
	SearchProducts(sellerID uint, query string, limit int) ([]models.Product, error)
	UpdateProduct(productID uint, updates map[string]interface{}) error
	UpdateProductImageURL(productID uint, imageURL string) error
	DeleteProduct(productID uint) error
}

// UserRepo is the interface for user repository operations.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	GetUserAuthByUsername(username string) (*models.User, error)
	UpdateUserFirstName(userID uint, firstName string) error
	UpdateUserEmail(userID uint, email string) error
	UpdateUserSettings(userID uint, preferredLanguage string, autoDescribe bool) error
	UsernameExists(username string) (bool, error)
}

// PriceRepo is the interface for price history operations.
type PriceRepo interface {
	RecordPrice(record *models.PriceRecord) error
	GetRecentPrices(productName, category string, since time.Time) ([]float64, error)
}
