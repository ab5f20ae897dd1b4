package models

import (
	"time"
)

// ContactDetails holds the public contact information of a package
type ContactDetails struct {
	Email   string `gorm:"not null" json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Package represents a manager's bookable wedding offering
type Package struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"` // owning admin account
	Owner         *Account       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CompanyName   string         `gorm:"not null" json:"company_name"`
	PackageAmount float64        `gorm:"not null;check:package_amount >= 0" json:"package_amount"`
	Contact       ContactDetails `gorm:"embedded;embeddedPrefix:contact_" json:"contact_details"`
	Features      []FeatureItem  `gorm:"foreignKey:PackageID" json:"features"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Package model
func (Package) TableName() string {
	return "packages"
}

// FeatureItem is one entry of a package's ordered feature list
type FeatureItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	PackageID   uint    `gorm:"not null;index" json:"package_id"`
	Position    int     `gorm:"not null" json:"position"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:500;not null" json:"description"`
	ImageKey    *string `json:"image_key,omitempty"`          // nullable, storage key of the feature image
	ImageURL    *string `gorm:"-" json:"image_url,omitempty"` // computed field, servable URL for the image
}

// TableName specifies the table name for the FeatureItem model
func (FeatureItem) TableName() string {
	return "package_features"
}
