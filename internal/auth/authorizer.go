package auth

import (
	"context"
	"errors"

	"traveltix/internal/activities"
	"traveltix/internal/users"
)

// Authorizer answers ticket authorization questions from the users and
// activities tables. The role is read from the database, not the token, so a
// demoted admin loses scanning rights before their token expires.
type Authorizer struct {
	users      Repository
	activities activities.Repository
}

func NewAuthorizer(userRepo Repository, activityRepo activities.Repository) *Authorizer {
	return &Authorizer{users: userRepo, activities: activityRepo}
}

func (a *Authorizer) IsAdmin(ctx context.Context, identity string) (bool, error) {
	user, err := a.users.GetUserByEmail(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == users.RoleAdmin, nil
}

func (a *Authorizer) IsOwnerOf(ctx context.Context, identity string, activityID uint) (bool, error) {
	return a.activities.IsOwnedBy(ctx, activityID, identity)
}
