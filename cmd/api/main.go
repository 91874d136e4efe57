package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/config"
	"github.com/vasantham/chit-backend/internal/handler"
	"github.com/vasantham/chit-backend/internal/middleware"
	"github.com/vasantham/chit-backend/internal/repository/postgres"
	"github.com/vasantham/chit-backend/internal/repository/storage"
	"github.com/vasantham/chit-backend/internal/service"
	"github.com/vasantham/chit-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	customerRepo := postgres.NewCustomerRepository(pool)
	schemeRepo := postgres.NewSchemeRepository(pool)
	enrollmentRepo := postgres.NewEnrollmentRepository(pool)
	dueRepo := postgres.NewDueRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	tokenRepo := postgres.NewAPITokenRepository(pool)

	// Export archive: S3 when a bucket is configured, local directory otherwise
	var exportRepo storage.ExportRepository
	if cfg.Export.Bucket != "" {
		exportRepo, err = storage.NewS3ExportRepository(context.Background(), cfg.Export)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 export archive")
		}
		log.Info().Str("bucket", cfg.Export.Bucket).Msg("Export archive: S3")
	} else {
		exportRepo, err = storage.NewLocalExportRepository(cfg.Export.ExportDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local export archive")
		}
		log.Info().Str("dir", cfg.Export.ExportDir).Msg("Export archive: local filesystem")
	}

	// Initialize services
	customerService := service.NewCustomerService(customerRepo)
	schemeService := service.NewSchemeService(schemeRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, customerRepo, schemeRepo, dueRepo)
	paymentService := service.NewPaymentService(paymentRepo, enrollmentRepo, dueRepo)
	orderService := service.NewOrderService(orderRepo, customerRepo)
	dashboardService := service.NewDashboardService(customerRepo, schemeRepo, enrollmentRepo, dueRepo, paymentRepo)
	exportService := service.NewExportService(customerRepo, dueRepo, paymentRepo, exportRepo)
	tokenService := service.NewAPITokenService(tokenRepo)

	// WebSocket hub for dashboard events
	hub := websocket.NewHub()
	customerService.SetEventPublisher(hub)
	enrollmentService.SetEventPublisher(hub)
	paymentService.SetEventPublisher(hub)
	orderService.SetEventPublisher(hub)

	// Auth and rate limiting
	authMiddleware := middleware.NewAuthMiddleware(cfg.AdminAPIKey, tokenService)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Customer:   handler.NewCustomerHandler(customerService),
		Scheme:     handler.NewSchemeHandler(schemeService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Order:      handler.NewOrderHandler(orderService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Export:     handler.NewExportHandler(exportService),
		APIToken:   handler.NewAPITokenHandler(tokenService),
		Events:     handler.NewEventsHandler(hub, cfg.AdminAPIKey, tokenService, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
