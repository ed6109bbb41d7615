package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"traveltix/internal/activities"
	"traveltix/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrBookingForbidden = errors.New("booking does not belong to user")
	ErrStatusConflict   = errors.New("booking status changed concurrently")
)

// ActivityReader is the slice of the activities repository bookings need
type ActivityReader interface {
	GetActivityByID(ctx context.Context, id uint) (*activities.Activity, error)
}

// Requester is the authenticated caller of a booking operation
type Requester struct {
	Email   string
	IsAdmin bool
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, requester Requester, req CreateBookingRequest) (*Booking, error)
	ConfirmPayment(ctx context.Context, requester Requester, bookingID string, req ConfirmPaymentRequest) (*Booking, error)
	CancelBooking(ctx context.Context, requester Requester, bookingID string) (*Booking, error)
	GetBooking(ctx context.Context, requester Requester, bookingID string) (*Booking, error)
	GetUserBookings(ctx context.Context, requester Requester, query BookingListQuery) (*BookingListResponse, error)
}

type service struct {
	repo       Repository
	activities ActivityReader
	log        *logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, activities ActivityReader, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
}

func (s *service) CreateBooking(ctx context.Context, requester Requester, req CreateBookingRequest) (*Booking, error) {
	if _, err := time.Parse(DateLayout, req.BookingDate); err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", req.BookingDate, err)
	}
	if req.TotalPersons < 1 {
		return nil, fmt.Errorf("total persons must be at least 1")
	}

	activity, err := s.activities.GetActivityByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}

	id, err := generateReference("TICK", s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking id: %w", err)
	}
	orderNumber, err := generateReference("ORD", s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	booking := &Booking{
		ID:            id,
		ActivityID:    activity.ID,
		UserEmail:     strings.ToLower(requester.Email),
		Title:         activity.Title,
		Location:      activity.Location,
		BookingDate:   req.BookingDate,
		TotalPersons:  req.TotalPersons,
		TotalPrice:    activity.Price * float64(req.TotalPersons),
		OrderNumber:   orderNumber,
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.log.LogBookingTransition(ctx, booking.ID, "", string(StatusPending))
	return booking, nil
}

// ConfirmPayment is the payment-success step PENDING -> CONFIRMED
func (s *service) ConfirmPayment(ctx context.Context, requester Requester, bookingID string, req ConfirmPaymentRequest) (*Booking, error) {
	booking, err := s.getOwned(ctx, requester, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == StatusConfirmed {
		return booking, nil
	}

	booking, err = s.transition(ctx, booking, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = generateTransactionID(s.now())
	}
	if err := s.repo.RecordPayment(ctx, booking.ID, req.PaymentMethod, transactionID); err != nil {
		return nil, err
	}
	booking.PaymentMethod = req.PaymentMethod
	booking.TransactionID = transactionID
	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, requester Requester, bookingID string) (*Booking, error) {
	booking, err := s.getOwned(ctx, requester, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsCancelled() {
		return booking, nil
	}
	if !booking.Status.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s bookings cannot be cancelled", ErrInvalidTransition, booking.Status)
	}
	return s.transition(ctx, booking, StatusCancelled)
}

func (s *service) GetBooking(ctx context.Context, requester Requester, bookingID string) (*Booking, error) {
	return s.getOwned(ctx, requester, bookingID)
}

func (s *service) GetUserBookings(ctx context.Context, requester Requester, query BookingListQuery) (*BookingListResponse, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 10
	}

	bookings, total, err := s.repo.GetUserBookings(ctx, strings.ToLower(requester.Email), query)
	if err != nil {
		return nil, err
	}

	return &BookingListResponse{
		Bookings:   bookings,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(total, query.Limit),
	}, nil
}

func (s *service) getOwned(ctx context.Context, requester Requester, bookingID string) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && !booking.BelongsTo(requester.Email) {
		return nil, ErrBookingForbidden
	}
	return booking, nil
}

// transition applies a lifecycle step through the conditional update and
// returns the fresh row
func (s *service) transition(ctx context.Context, booking *Booking, next Status) (*Booking, error) {
	if !CanTransition(booking.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	applied, err := s.repo.ConditionalTransition(ctx, booking.ID, booking.Status, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrStatusConflict
	}

	s.log.LogBookingTransition(ctx, booking.ID, string(booking.Status), string(next))
	return s.repo.GetBookingByID(ctx, booking.ID)
}

// generateReference builds ids such as TICK-1718000000000-K3QZ
func generateReference(prefix string, now time.Time) (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	randomPart := make([]byte, 4)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), string(randomPart)), nil
}

func generateTransactionID(now time.Time) string {
	shortUUID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", now.Unix(), strings.ToUpper(shortUUID))
}
