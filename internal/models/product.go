package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is the model for a catalog listing.
type Product struct {
	gorm.Model
	SellerID uint  `gorm:"index;not null"`
	Seller   *User `gorm:"foreignKey:SellerID"`

	Name     string `gorm:"not null"`
	Quantity string // numeric string as captured from the command, e.g. "2.5"
	Unit     string // canonical unit token (kg, liter, dozen, ...)
	Price    float64
	Category string `gorm:"index"`

	Description string
	Tags        pq.StringArray `gorm:"type:text[]"`
	Language    string         `gorm:"default:'en'"`
	ImageURL    string

	Source ProductSource `gorm:"type:text;default:'manual'"`
}

// ProductSource is the type for the ProductSource enum.
type ProductSource string

// ProductSource enum values.
const (
	SourceVoice  ProductSource = "voice"
	SourceManual ProductSource = "manual"
)

// IsValidSource checks if the ProductSource is valid.
func (p *Product) IsValidSource() bool {
	switch p.Source {
	case SourceVoice, SourceManual:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new Product.
func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if !p.IsValidSource() {
		p.Source = SourceManual
	}
	return nil
}

// PriceRecord is one observed price for a product, kept as the history feed
// for price suggestions.
type PriceRecord struct {
	gorm.Model
	ProductName string `gorm:"index"`
	Category    string `gorm:"index"`
	Price       float64
}
