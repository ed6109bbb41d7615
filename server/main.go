package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traveltix/api/routes"
	"traveltix/internal/notifications"
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/database"
	"traveltix/internal/shared/middleware"
	"traveltix/pkg/logger"
	"traveltix/pkg/metrics"
	"traveltix/pkg/ratelimit"
	"traveltix/pkg/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)

	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	if cfg.IsProduction() && cfg.Ticket.Secret == "" {
		appLogger.Error("TICKET_SECRET must be set in production")
		os.Exit(1)
	}

	if cfg.Ticket.SecretDerived {
		appLogger.Warn("TICKET_SECRET is not set, deriving the ticket signing key from JWT_SECRET; set TICKET_SECRET before issuing real tickets")
	}

	shutdownTracing := telemetry.Setup(cfg.ServiceName, cfg.Telemetry, appLogger)

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing databases", "error", err)
		}
	}()

	var rateLimiter *ratelimit.RateLimiter
	switch {
	case !cfg.RateLimit.Enabled:
		appLogger.Info("Rate limiting disabled")
	case db.GetRedis() == nil:
		appLogger.Warn("Rate limiting enabled but Redis is unavailable, skipping")
	default:
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), ratelimit.ConfigFrom(cfg.RateLimit))
		appLogger.Info("Rate limiter initialized",
			"window", cfg.RateLimit.WindowDuration,
			"default_requests", cfg.RateLimit.DefaultRequests,
			"scan_requests", cfg.RateLimit.ScanRequests,
		)
	}

	var publisher notifications.Publisher = notifications.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := notifications.NewKafkaPublisher(notifications.KafkaProducerConfigFrom(cfg.Kafka), appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize ticket event publisher", "error", err)
			appLogger.Info("Continuing without ticket events")
		} else {
			publisher = notifications.NewAsyncPublisher(kafkaPublisher, cfg.Kafka.QueueSize, appLogger)
			appLogger.Info("Ticket event publisher initialized", "topic", cfg.Kafka.TicketTopic, "queue_size", cfg.Kafka.QueueSize)
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing ticket event publisher", "error", err)
		}
	}()

	router, err := setupRouter(cfg, db, appLogger, publisher, rateLimiter)
	if err != nil {
		appLogger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			"address", cfg.GetServerAddress(),
			"health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port),
			"api_status", fmt.Sprintf("http://localhost:%s/status", cfg.Port),
			"version", Version,
			"commit", GitCommit,
			"built", BuildTime,
			"redis_cache", db.GetRedis() != nil,
			"rate_limiting", rateLimiter != nil,
			"kafka", cfg.Kafka.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		appLogger.Error("Error flushing traces", "error", err)
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, appLogger *logger.Logger, publisher notifications.Publisher, rateLimiter *ratelimit.RateLimiter) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	engine.Use(middleware.RequestID(), RequestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.Metrics.Enabled {
		engine.Use(metrics.Middleware())
	}

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, appLogger))
	}

	appRouter := routes.NewRouter(cfg, db, appLogger, publisher)
	if err := appRouter.SetupRoutes(engine); err != nil {
		return nil, err
	}

	return engine, nil
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
