package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticketVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltix_ticket_verifications_total",
			Help: "Ticket scans by verification mode, outcome and reason",
		},
		[]string{"mode", "outcome", "reason"},
	)

	ticketRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltix_ticket_redemptions_total",
			Help: "Redemption attempts by outcome",
		},
		[]string{"outcome"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "traveltix_tickets_issued_total",
			Help: "QR ticket payloads issued",
		},
	)

	verifyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traveltix_ticket_verify_duration_seconds",
			Help:    "Latency of ticket verification",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"mode"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltix_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traveltix_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// TrackVerification records one scan
func TrackVerification(mode, outcome, reason string, duration time.Duration) {
	ticketVerifications.WithLabelValues(mode, outcome, reason).Inc()
	verifyDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// TrackRedemption records one redemption attempt
func TrackRedemption(outcome string) {
	ticketRedemptions.WithLabelValues(outcome).Inc()
}

func TrackTicketIssued() {
	ticketsIssued.Inc()
}

// Middleware counts requests per matched route template, so /bookings/:id is
// a single series regardless of the id
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
