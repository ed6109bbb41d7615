package database

import (
	"fmt"

	"traveltix/internal/bookings"

	"gorm.io/gorm"
)

type checkConstraint struct {
	name string
	expr string
}

// bookingChecks keep the status column inside the lifecycle even for writes
// that bypass the repository
var bookingChecks = []checkConstraint{
	{"chk_bookings_status", "status IN ('PENDING', 'CONFIRMED', 'COMPLETED', 'CANCELLED')"},
	{"chk_bookings_total_persons", "total_persons > 0"},
	{"chk_bookings_completed_at", "status <> 'COMPLETED' OR completed_at IS NOT NULL"},
}

// MigrateConstraints adds the booking constraints the redemption path relies on
func MigrateConstraints(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, check := range bookingChecks {
		if migrator.HasConstraint(&bookings.Booking{}, check.name) {
			continue
		}
		err := db.Exec(fmt.Sprintf(`ALTER TABLE bookings ADD CONSTRAINT %s CHECK (%s)`, check.name, check.expr)).Error
		if err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", check.name, err)
		}
	}

	// Scanning desks look up confirmed bookings per activity
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_activity_status
		ON bookings (activity_id, status);
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create booking status index: %w", err)
	}

	return nil
}
