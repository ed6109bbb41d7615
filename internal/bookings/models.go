package bookings

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for booking dates
const DateLayout = "2006-01-02"

// Booking is a reservation of an activity. Its ID doubles as the ticket id
// printed in the QR payload.
type Booking struct {
	ID            string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	ActivityID    uint       `gorm:"index;not null" json:"activity_id"`
	UserEmail     string     `gorm:"type:varchar(255);index;not null" json:"user_email"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Location      string     `gorm:"type:varchar(255)" json:"location"`
	BookingDate   string     `gorm:"type:varchar(10);not null" json:"booking_date"`
	TotalPersons  int        `gorm:"not null" json:"total_persons"`
	TotalPrice    float64    `gorm:"not null;default:0" json:"total_price"`
	OrderNumber   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`
	Status        Status     `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	TransactionID string     `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BelongsTo reports whether email booked this reservation
func (b *Booking) BelongsTo(email string) bool {
	return strings.EqualFold(b.UserEmail, email)
}
