package activities

import "time"

// Activity is a bookable travel activity run by a TRAVEL_ACTIVITY_OWNER
type Activity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Location      string    `gorm:"type:varchar(255)" json:"location"`
	Price         float64   `gorm:"not null;default:0" json:"price"`
	OwnerEmail    string    `gorm:"type:varchar(255);index;not null" json:"owner_email"`
	AttendedCount int       `gorm:"not null;default:0" json:"attended_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}
