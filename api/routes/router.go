// api/routes/router.go
package routes

import (
	"fmt"
	"net/http"
	"time"

	"traveltix/docs"
	"traveltix/internal/activities"
	"traveltix/internal/auth"
	"traveltix/internal/bookings"
	"traveltix/internal/notifications"
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/database"
	"traveltix/internal/tickets"
	"traveltix/pkg/cache"
	"traveltix/pkg/logger"
	"traveltix/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	log       *logger.Logger
	publisher notifications.Publisher

	activityRepo activities.Repository
	bookingRepo  bookings.Repository
	authRepo     auth.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		log:       log,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)
	r.setupDocsRoutes(engine)

	gormDB := r.db.GetPostgreSQL()
	r.activityRepo = activities.NewRepository(gormDB)
	r.bookingRepo = bookings.NewRepository(gormDB)
	r.authRepo = auth.NewRepository(gormDB)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupBookingRoutes(api)
		if err := r.setupTicketRoutes(api); err != nil {
			return err
		}
	}
	return nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   r.config.ServiceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   r.config.ServiceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"redis_cache": r.db.GetRedis() != nil,
			"timestamp":   time.Now(),
		})
	})

	if r.config.Metrics.Enabled {
		engine.GET(r.config.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
}

// setupDocsRoutes serves the OpenAPI document and the swagger UI
func (r *Router) setupDocsRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(r.authRepo, r.config, r.log)
	authController := auth.NewController(authService, r.log)
	auth.SetupAuthRoutes(rg, r.config, authController)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingService := bookings.NewService(r.bookingRepo, r.activityRepo, r.log)
	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, r.config, bookingController)
}

// setupTicketRoutes configures ticket issuing, QR verification and redemption
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) error {
	codes, err := tickets.NewCodeGenerator(r.config.Ticket)
	if err != nil {
		return fmt.Errorf("failed to configure verification codes: %w", err)
	}

	var authz tickets.Authorizer = auth.NewAuthorizer(r.authRepo, r.activityRepo)
	if client := r.db.GetRedis(); client != nil {
		authz = tickets.NewCachedAuthorizer(authz, cache.NewService(client), r.config.Redis.AuthzCacheTTL, r.log)
	}

	ticketService := tickets.NewService(r.bookingRepo, authz, codes, r.publisher, r.log, r.config.Ticket.VerifyTimeout)
	ticketController := tickets.NewController(ticketService)
	tickets.SetupTicketRoutes(rg, r.config, ticketController)
	return nil
}
