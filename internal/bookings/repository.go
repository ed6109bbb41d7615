package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveltix/internal/activities"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	GetUserBookings(ctx context.Context, email string, query BookingListQuery) ([]Booking, int64, error)
	RecordPayment(ctx context.Context, id, method, transactionID string) error

	// ConditionalTransition moves a booking from expected to next only if it is
	// still in expected. It returns false when another writer got there first.
	ConditionalTransition(ctx context.Context, id string, expected, next Status) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, email string, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_email = ?", email)
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, totalCount, nil
}

func (r *repository) RecordPayment(ctx context.Context, id, method, transactionID string) error {
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_method": method,
			"transaction_id": transactionID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// ConditionalTransition issues UPDATE ... WHERE id = ? AND status = ? so that
// concurrent writers are serialized by the database. When the booking moves
// to COMPLETED the activity attendance counter is bumped in the same
// transaction, so it is counted exactly once per booking.
func (r *repository) ConditionalTransition(ctx context.Context, id string, expected, next Status) (bool, error) {
	if !CanTransition(expected, next) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, expected, next)
	}

	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}
		switch next {
		case StatusConfirmed:
			updates["confirmed_at"] = now
		case StatusCompleted:
			updates["completed_at"] = now
		case StatusCancelled:
			updates["cancelled_at"] = now
		}

		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", id, expected).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update booking status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		if next != StatusCompleted {
			return nil
		}

		var attendance struct {
			ActivityID   uint
			TotalPersons int
		}
		err := tx.Model(&Booking{}).
			Select("activity_id", "total_persons").
			Where("id = ?", id).
			Scan(&attendance).Error
		if err != nil {
			return fmt.Errorf("failed to read booking attendance: %w", err)
		}

		err = tx.Model(&activities.Activity{}).
			Where("id = ?", attendance.ActivityID).
			UpdateColumn("attended_count", gorm.Expr("attended_count + ?", attendance.TotalPersons)).Error
		if err != nil {
			return fmt.Errorf("failed to update activity attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}
