package auth

import (
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers registration, login and token routes
func SetupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", controller.Register) // POST /api/v1/auth/register
		auth.POST("/login", controller.Login)       // POST /api/v1/auth/login
		auth.POST("/refresh", controller.RefreshToken)
		auth.POST("/logout", controller.Logout)

		account := auth.Group("")
		account.Use(middleware.JWTAuth(cfg))
		{
			account.PUT("/change-password", controller.ChangePassword)
			account.GET("/me", controller.GetMe)
		}
	}
}
