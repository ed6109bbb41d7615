package bookings

// BookingListResponse is a page of bookings
type BookingListResponse struct {
	Bookings   []Booking `json:"bookings"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// CalculateTotalPages returns the number of pages needed for totalCount rows
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((totalCount + int64(limit) - 1) / int64(limit))
}
