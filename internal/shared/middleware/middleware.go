package middleware

import (
	"net/http"
	"strings"

	"traveltix/internal/shared/config"
	"traveltix/internal/shared/utils/response"
	"traveltix/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by JWTAuth
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// Identity is the authenticated caller as asserted by the access token
type Identity struct {
	UserID string
	Email  string
	Role   users.Role
}

// IsAdmin reports whether the token carries the ADMIN role
func (i Identity) IsAdmin() bool {
	return i.Role == users.RoleAdmin
}

// CurrentIdentity reads the caller set by JWTAuth. ok is false when the
// request was not authenticated.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	email := c.GetString(ContextUserEmail)
	if email == "" {
		return Identity{}, false
	}
	return Identity{
		UserID: c.GetString(ContextUserID),
		Email:  email,
		Role:   users.Role(c.GetString(ContextUserRole)),
	}, true
}

// JWTAuth validates the bearer access token and stores the caller identity
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(cfg.JWT.Secret, authHeader)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errBadHeader     = tokenError("authorization header format must be Bearer {token}")
	errInvalidToken  = tokenError("invalid or expired token")
	errWrongTokenTyp = tokenError("invalid token type")
)

func parseAccessToken(secret, authHeader string) (jwt.MapClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, errWrongTokenTyp
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	for key, claim := range map[string]string{
		ContextUserID:    "user_id",
		ContextUserEmail: "email",
		ContextUserRole:  "role",
	} {
		if v, ok := claims[claim].(string); ok {
			c.Set(key, v)
		}
	}
}

// RequireRoles aborts with 403 unless the caller holds one of the roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextUserRole)
		if userRole == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(users.RoleAdmin)
}
