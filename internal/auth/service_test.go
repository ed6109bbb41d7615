package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"traveltix/internal/activities"
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/middleware"
	"traveltix/internal/users"
	"traveltix/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*users.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *users.User) error {
	user.ID = uuid.New()
	user.Email = normalizeEmail(user.Email)
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*users.User, error) {
	for _, u := range f.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) UpdateUserPassword(_ context.Context, userID string, hashedPassword string) error {
	for _, u := range f.byEmail {
		if u.ID.String() == userID {
			u.Password = hashedPassword
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[normalizeEmail(email)]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-jwt-secret-0123456789",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func registerRequest(email, role string) *RegisterRequest {
	return &RegisterRequest{FirstName: "Ana", LastName: "Lopez", Email: email, Password: "secret123", Role: role}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig(), logger.Discard())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("Owner@Example.com", "travel_activity_owner"))
	require.NoError(t, err)
	assert.Equal(t, users.RoleTravelActivityOwner, resp.User.Role)
	assert.Equal(t, "owner@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	_, err = svc.Register(ctx, registerRequest("owner@example.com", ""))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	login, err := svc.Login(ctx, &LoginRequest{Email: "OWNER@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, string(users.RoleTravelActivityOwner), claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	_, err = svc.Login(ctx, &LoginRequest{Email: "owner@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRoles(t *testing.T) {
	tests := []struct {
		role    string
		want    users.Role
		wantErr bool
	}{
		{"", users.RoleUser, false},
		{"user", users.RoleUser, false},
		{"TRAVEL_ACTIVITY_OWNER", users.RoleTravelActivityOwner, false},
		{"ADMIN", "", true},
		{"superuser", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			role, err := registrationRole(tt.role)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRoleNotAllowed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig(), logger.Discard())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("traveler@example.com", ""))
	require.NoError(t, err)

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig(), logger.Discard()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	pair, err := svc.generateTokenPair(uuid.NewString(), "a@b.c", string(users.RoleUser))
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig(), logger.Discard())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("traveler@example.com", ""))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "another1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another1"}))
	_, err = svc.Login(ctx, &LoginRequest{Email: "traveler@example.com", Password: "another1"})
	assert.NoError(t, err)
}

func TestAccessTokenAcceptedByMiddleware(t *testing.T) {
	cfg := testConfig()
	svc := NewService(newFakeUserRepo(), cfg, logger.Discard())
	resp, err := svc.Register(context.Background(), registerRequest("owner@example.com", "TRAVEL_ACTIVITY_OWNER"))
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.JWTAuth(cfg), func(c *gin.Context) {
		identity, _ := middleware.CurrentIdentity(c)
		c.String(http.StatusOK, identity.Email+"|"+string(identity.Role))
	})

	for _, tc := range []struct {
		token string
		code  int
	}{
		{resp.AccessToken, http.StatusOK},
		{resp.RefreshToken, http.StatusUnauthorized},
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, w.Code)
		if tc.code == http.StatusOK {
			assert.True(t, strings.HasPrefix(w.Body.String(), "owner@example.com|TRAVEL_ACTIVITY_OWNER"))
		}
	}
}

type fakeActivityRepo map[uint]string

func (f fakeActivityRepo) CreateActivity(context.Context, *activities.Activity) error { return nil }

func (f fakeActivityRepo) GetActivityByID(_ context.Context, id uint) (*activities.Activity, error) {
	owner, ok := f[id]
	if !ok {
		return nil, activities.ErrActivityNotFound
	}
	return &activities.Activity{ID: id, OwnerEmail: owner}, nil
}

func (f fakeActivityRepo) IsOwnedBy(_ context.Context, id uint, email string) (bool, error) {
	return f[id] == normalizeEmail(email), nil
}

func TestAuthorizer(t *testing.T) {
	repo := newFakeUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &users.User{Email: "admin@example.com", Role: users.RoleAdmin}))
	require.NoError(t, repo.CreateUser(ctx, &users.User{Email: "owner@example.com", Role: users.RoleTravelActivityOwner}))

	authz := NewAuthorizer(repo, fakeActivityRepo{7: "owner@example.com"})

	admin, err := authz.IsAdmin(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = authz.IsAdmin(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.False(t, admin)

	admin, err = authz.IsAdmin(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, admin)

	owns, err := authz.IsOwnerOf(ctx, "Owner@Example.com", 7)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = authz.IsOwnerOf(ctx, "owner@example.com", 8)
	require.NoError(t, err)
	assert.False(t, owns)

	repo.err = errors.New("connection refused")
	_, err = authz.IsAdmin(ctx, "admin@example.com")
	assert.Error(t, err)
}
