package models

import "gorm.io/gorm"

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{&Account{}, &Package{}, &FeatureItem{}, &Booking{}, &Message{}}
}

// AutoMigrate creates or updates the schema for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
