package tickets

import (
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/middleware"
	"traveltix/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures ticket issuance, scanning and redemption
func SetupTicketRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	// Travellers fetch the QR payload of their own confirmed booking
	issue := rg.Group("/bookings")
	issue.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		issue.GET("/:id/ticket", controller.IssueTicket) // GET /api/v1/bookings/:id/ticket
	}

	// Admin scanning desk
	admin := rg.Group("/bookings")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.POST("/verify-qr", controller.VerifyQR(ModeAdmin))  // POST /api/v1/bookings/verify-qr
		admin.POST("/:id/complete", controller.Redeem(ModeAdmin)) // POST /api/v1/bookings/:id/complete
	}

	// Activity owners scan tickets for their own activities
	owner := rg.Group("/owner/bookings")
	owner.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(users.RoleTravelActivityOwner, users.RoleAdmin))
	{
		owner.POST("/verify-qr", controller.VerifyQR(ModeOwner))  // POST /api/v1/owner/bookings/verify-qr
		owner.POST("/:id/complete", controller.Redeem(ModeOwner)) // POST /api/v1/owner/bookings/:id/complete
	}
}
