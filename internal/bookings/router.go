package bookings

import (
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/middleware"
	"traveltix/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking lifecycle routes
func SetupBookingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		bookings.POST("", controller.CreateBooking)              // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)              // GET /api/v1/bookings/:id
		bookings.POST("/:id/confirm", controller.ConfirmPayment) // POST /api/v1/bookings/:id/confirm
		bookings.POST("/:id/cancel", controller.CancelBooking)   // POST /api/v1/bookings/:id/cancel
	}

	userBookings := rg.Group("/users")
	userBookings.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		userBookings.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}
}

// Booking lifecycle:
//
// POST /api/v1/bookings               { "activity_id": 1, "booking_date": "2025-07-01", "total_persons": 2 }  -> PENDING
// POST /api/v1/bookings/:id/confirm   { "payment_method": "CARD" }                                           -> CONFIRMED
// GET  /api/v1/bookings/:id/ticket    QR payload for a CONFIRMED booking (tickets package)
// POST /api/v1/bookings/verify-qr     operator scan (tickets package)
// POST /api/v1/bookings/:id/complete  redemption CONFIRMED -> COMPLETED (tickets package)
// POST /api/v1/bookings/:id/cancel    PENDING|CONFIRMED -> CANCELLED
