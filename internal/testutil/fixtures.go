package testutil

import (
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TestUser creates a test seller with all associated records populated.
func TestUser() *models.User {
	return &models.User{
		Model:     gorm.Model{ID: 1},
		Username:  "ramukaka",
		FirstName: "Ramu",
		Email:     "ramu@example.com",
		Auth: &models.UserAuth{
			Model:          gorm.Model{ID: 1},
			UserID:         1,
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ012",
			AuthType:       models.Standard,
		},
		Settings: &models.UserSettings{
			Model:             gorm.Model{ID: 1},
			UserID:            1,
			PreferredLanguage: "en",
			AutoDescribe:      true,
		},
	}
}

// TestProduct creates a test product with realistic fields.
func TestProduct() *models.Product {
	return &models.Product{
		Model:       gorm.Model{ID: 1},
		SellerID:    1,
		Name:        "tomatoes",
		Quantity:    "1",
		Unit:        "kg",
		Price:       30,
		Category:    "Vegetables",
		Description: "Fresh and crisp tomatoes, straight from the farm!",
		Tags:        pq.StringArray{"fresh", "healthy", "local"},
		Language:    "en",
		Source:      models.SourceVoice,
	}
}

// TestConfig creates a config suitable for service tests.
func TestConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			Port:             "8080",
			JwtSecretKey:     "test-secret",
			OpenAIAPIKey:     "sk-test",
			TextProviderName: "openai",
			DefaultLanguage:  "en",
		},
	}
}
