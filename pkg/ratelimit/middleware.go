package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"traveltix/internal/shared/utils/response"
	"traveltix/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter per client IP and route tier. A Redis
// failure lets the request through; scanning desks must keep working.
// Forwarding headers only count when the engine trusts the peer, see
// gin.Engine.SetTrustedProxies.
func Middleware(rateLimiter *RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.WarnContext(c.Request.Context(), "Rate limit check failed, allowing request",
				"ip", clientIP, "tier", string(limitType), "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	// Scanning desks verify and redeem in bursts at the gate
	case strings.HasSuffix(path, "/verify-qr"),
		strings.HasSuffix(path, "/complete"),
		strings.HasSuffix(path, "/ticket"):
		return RateLimitTypeScan

	case strings.Contains(path, "/bookings"):
		return RateLimitTypeBooking

	default:
		return RateLimitTypeDefault
	}
}
