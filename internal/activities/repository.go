package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var ErrActivityNotFound = errors.New("activity not found")

type Repository interface {
	CreateActivity(ctx context.Context, activity *Activity) error
	GetActivityByID(ctx context.Context, id uint) (*Activity, error)
	IsOwnedBy(ctx context.Context, id uint, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateActivity(ctx context.Context, activity *Activity) error {
	activity.OwnerEmail = strings.ToLower(strings.TrimSpace(activity.OwnerEmail))
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repository) GetActivityByID(ctx context.Context, id uint) (*Activity, error) {
	var activity Activity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity %d: %w", id, err)
	}
	return &activity, nil
}

// IsOwnedBy reports whether email is the registered owner of the activity.
// A missing activity is simply not owned.
func (r *repository) IsOwnedBy(ctx context.Context, id uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ? AND owner_email = ?", id, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check activity ownership: %w", err)
	}
	return count > 0, nil
}
