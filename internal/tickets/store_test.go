package tickets

import (
	"context"
	"sync"

	"traveltix/internal/bookings"
)

// memStore is a BookingStore whose conditional transition is serialized by a
// mutex, standing in for the row lock Postgres takes on UPDATE
type memStore struct {
	mu       sync.Mutex
	bookings map[string]*bookings.Booking
	attended map[uint]int

	getErr        error
	transitionErr error
	gets          int
}

func newMemStore(bs ...*bookings.Booking) *memStore {
	s := &memStore{bookings: map[string]*bookings.Booking{}, attended: map[uint]int{}}
	for _, b := range bs {
		stored := *b
		s.bookings[b.ID] = &stored
	}
	return s
}

func (s *memStore) GetBookingByID(_ context.Context, id string) (*bookings.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	snapshot := *b
	return &snapshot, nil
}

func (s *memStore) ConditionalTransition(_ context.Context, id string, expected, next bookings.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transitionErr != nil {
		return false, s.transitionErr
	}
	if !bookings.CanTransition(expected, next) {
		return false, bookings.ErrInvalidTransition
	}
	b, ok := s.bookings[id]
	if !ok || b.Status != expected {
		return false, nil
	}
	b.Status = next
	if next == bookings.StatusCompleted {
		s.attended[b.ActivityID] += b.TotalPersons
	}
	return true, nil
}

func (s *memStore) status(id string) bookings.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

func (s *memStore) fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func confirmedBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:           "TICK-1718000000000",
		ActivityID:   7,
		UserEmail:    "traveler@example.com",
		Title:        "Sunrise Kayak",
		Location:     "North Bay",
		BookingDate:  "2025-07-01",
		TotalPersons: 2,
		OrderNumber:  "ORD-1718000000000",
		Status:       bookings.StatusConfirmed,
	}
}
