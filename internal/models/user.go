package models

import (
	"errors"

	"gorm.io/gorm"
)

// User is the model for a seller account.
type User struct {
	gorm.Model
	Username  string `gorm:"unique;index"`
	FirstName string `gorm:"default:null"`
	Email     string `gorm:"unique;default:null"`

	Auth     *UserAuth     `gorm:"foreignKey:UserID"`
	Settings *UserSettings `gorm:"foreignKey:UserID"`
	Products []*Product    `gorm:"foreignKey:SellerID"`
}

// UserAuth is the model for a user's authentication information.
type UserAuth struct {
	gorm.Model
	UserID         uint `gorm:"unique;index"`
	HashedPassword string
	AuthType       UserAuthType `gorm:"type:text"`
}

// UserAuthType is the type for the UserAuthType enum.
type UserAuthType string

// UserAuthType enum values.
const (
	Standard UserAuthType = "standard"
)

// IsValidAuthType checks if the AuthType is valid.
func (ua *UserAuth) IsValidAuthType() bool {
	switch ua.AuthType {
	case Standard:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new UserAuth.
func (ua *UserAuth) BeforeCreate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		return errors.New("invalid AuthType provided")
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a UserAuth.
func (ua *UserAuth) BeforeUpdate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		return errors.New("invalid AuthType provided")
	}
	return nil
}

// UserSettings is the model for a seller's catalog preferences.
type UserSettings struct {
	gorm.Model
	UserID uint `gorm:"unique;index"`
	// PreferredLanguage is the language code descriptions are generated in
	// (en, hi, ta, ...).
	PreferredLanguage string `gorm:"default:'en'"`
	// AutoDescribe controls whether adding a product triggers AI description
	// generation automatically.
	AutoDescribe bool `gorm:"default:true"`
}

// SupportedLanguages maps language codes to display names for the languages
// descriptions can be generated in.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"ml": "Malayalam",
	"gu": "Gujarati",
	"mr": "Marathi",
	"bn": "Bengali",
	"or": "Odia",
	"pa": "Punjabi",
}

// IsSupportedLanguage reports whether code is a recognized description
// language.
func IsSupportedLanguage(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}
