package database

import (
	"traveltix/internal/activities"
	"traveltix/internal/bookings"
	"traveltix/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&activities.Activity{},
		&bookings.Booking{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
