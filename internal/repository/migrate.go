package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted model,
// including the composite unique index backing review uniqueness.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&serviceModel{},
		&areaSizeModel{},
		&timeSlotModel{},
		&bookingModel{},
		&reviewModel{},
	)
}
