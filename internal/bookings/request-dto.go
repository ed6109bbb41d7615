package bookings

// CreateBookingRequest reserves an activity for a date; the booking starts PENDING
type CreateBookingRequest struct {
	ActivityID    uint   `json:"activity_id" validate:"required,gt=0"`
	BookingDate   string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TotalPersons  int    `json:"total_persons" validate:"required,gte=1,lte=50"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=CARD CASH WALLET BANK_TRANSFER"`
}

// ConfirmPaymentRequest records a successful payment for a PENDING booking
type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=CARD CASH WALLET BANK_TRANSFER"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=64"`
}

// BookingListQuery holds pagination and filters for listing bookings
type BookingListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status Status `form:"status"`
}
