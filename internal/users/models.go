package users

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried in the access token
type Role string

const (
	RoleUser                Role = "USER"
	RoleAdmin               Role = "ADMIN"
	RoleTravelActivityOwner Role = "TRAVEL_ACTIVITY_OWNER"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"type:varchar(32);not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin, RoleTravelActivityOwner:
		return true
	default:
		return false
	}
}
