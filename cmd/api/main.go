package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/globalpath/platform/internal/admin"
	"github.com/globalpath/platform/internal/appointments"
	"github.com/globalpath/platform/internal/auth"
	"github.com/globalpath/platform/internal/content"
	"github.com/globalpath/platform/internal/inquiries"
	"github.com/globalpath/platform/internal/mailer"
	"github.com/globalpath/platform/internal/menus"
	"github.com/globalpath/platform/internal/payments"
	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/internal/storage"
	"github.com/globalpath/platform/pkg/cache"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/config"
	"github.com/globalpath/platform/pkg/database"
	"github.com/globalpath/platform/pkg/errors"
	"github.com/globalpath/platform/pkg/eventbus"
	"github.com/globalpath/platform/pkg/jwtkeys"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/ratelimit"
	redisclient "github.com/globalpath/platform/pkg/redis"
	"github.com/globalpath/platform/pkg/swagger"
	"github.com/globalpath/platform/pkg/tracing"
)

const (
	serviceName = "globalpath-api"
	version     = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Environment); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting API server",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Connect to PostgreSQL
	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to PostgreSQL database")

	// Apply pending schema migrations
	if err := database.RunMigrations(&cfg.Database, "file://migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Sentry for error tracking
	sentryConfig := errors.DefaultSentryConfig()
	sentryConfig.ServerName = serviceName
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
		logger.Info("Sentry error tracking initialized")
	}

	// Initialize OpenTelemetry tracer
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    serviceName,
			ServiceVersion: version,
			Environment:    cfg.Server.Environment,
			OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
			SampleRate:     cfg.Tracing.SampleRatio,
			Enabled:        true,
		}, logger.Get())
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else if tp != nil {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown tracer", zap.Error(err))
				}
			}()
			logger.Info("OpenTelemetry tracing initialized")
		}
	}

	// Initialize Redis for caching, rate limiting and idempotency
	var cacheManager *cache.Manager
	redisClient, redisErr := redisclient.NewRedisClient(&cfg.Redis)
	if redisErr != nil {
		logger.Warn("Failed to connect to Redis - public reads will hit the database", zap.Error(redisErr))
	} else {
		defer redisClient.Close()
		cacheManager = cache.NewManager(redisClient)
		logger.Info("Connected to Redis")
	}

	// Initialize JWT key manager with rotation support
	jwtProvider, err := jwtkeys.NewManagerFromConfig(rootCtx, cfg.JWT, false)
	if err != nil {
		logger.Fatal("Failed to initialize JWT key manager", zap.Error(err))
	}

	// Connect to NATS when configured. The bus is optional: every publisher
	// treats a nil bus as a no-op.
	var bus *eventbus.Bus
	if cfg.Events.URL != "" {
		bus, err = eventbus.New(eventbus.Config{
			URL:        cfg.Events.URL,
			Name:       serviceName,
			StreamName: cfg.Events.StreamName,
		})
		if err != nil {
			logger.Warn("Failed to connect to NATS - domain events disabled", zap.Error(err))
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("Connected to NATS", zap.String("stream", cfg.Events.StreamName))
		}
	}

	// Settings live in the database and feed every integration factory.
	settingsRepo := settings.NewRepository(db)
	resolver := settings.NewResolver(settingsRepo)
	settingsService := settings.NewService(settingsRepo, resolver)
	settingsHandler := settings.NewHandler(settingsService)

	// Outbound email: per-request factory plus a background queue for replies.
	mailerFactory := mailer.NewFactory(resolver)
	mailQueue := mailer.NewQueue(mailerFactory.QueueSender(), 256, 4)
	mailQueue.Start(rootCtx)
	defer mailQueue.Stop()

	// Auth
	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, jwtProvider, resolver)
	authHandler := auth.NewHandler(authService)

	// Content (countries, universities, programs, blog)
	contentRepo := content.NewRepository(db)
	contentService := content.NewService(contentRepo, content.NewBusPublisher(bus))
	contentHandler := content.NewHandler(contentService)

	// Navigation menu
	menuRepo := menus.NewRepository(db)
	menuService := menus.NewService(menuRepo)
	menuHandler := menus.NewHandler(menuService)

	// Appointments
	appointmentRepo := appointments.NewRepository(db)
	appointmentService := appointments.NewService(
		appointmentRepo,
		appointments.NewMailNotifier(mailerFactory, resolver),
		appointments.NewBusPublisher(bus),
	)
	appointmentHandler := appointments.NewHandler(appointmentService)

	// Inquiries
	inquiryRepo := inquiries.NewRepository(db)
	inquiryService := inquiries.NewService(
		inquiryRepo,
		inquiries.NewMailAcknowledger(mailerFactory, resolver),
		inquiries.NewCRMForwarder(resolver),
		inquiries.NewBusPublisher(bus),
	)
	inquiryService.SetMailQueue(mailQueue)
	inquiryHandler := inquiries.NewHandler(inquiryService)

	// Payments
	paymentRepo := payments.NewRepository(db)
	paymentService := payments.NewService(paymentRepo, payments.NewGatewayFactory(resolver), payments.NewBusPublisher(bus))
	paymentHandler := payments.NewHandler(paymentService)

	// File uploads
	storageFactory := storage.NewFactory(resolver)
	uploader := storage.NewUploader(storageFactory, cfg.Uploads.LocalRoot, cfg.Uploads.URLPrefix)
	storageHandler := storage.NewHandler(uploader)

	// Back-office administration
	adminRepo := admin.NewRepository(db)
	adminService := admin.NewService(adminRepo, resolver)
	adminHandler := admin.NewHandler(adminService)

	if cacheManager != nil {
		contentService.SetCache(cacheManager)
		menuService.SetCache(cacheManager)
		adminService.SetCache(cacheManager)
	}

	// Set up Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.RequestTimeout(30 * time.Second))
	router.Use(middleware.CORS())
	router.Use(middleware.SanitizeRequest())
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware(serviceName))
	}
	if cfg.RateLimit.Enabled && redisErr == nil {
		limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		router.Use(middleware.RateLimit(limiter, cfg.RateLimit))
	}
	router.Use(middleware.ErrorHandler())

	// Health and observability endpoints
	router.GET("/healthz", common.HealthCheck(serviceName, version))
	router.GET("/health/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			common.ErrorResponse(c, http.StatusServiceUnavailable, fmt.Sprintf("Service not ready: database check failed - %s", err.Error()))
			return
		}
		common.SuccessResponse(c, gin.H{"status": "ready", "service": serviceName, "version": version})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	swagger.RegisterRoutes(router)

	// Locally stored uploads are served straight from disk.
	router.Static(cfg.Uploads.URLPrefix, cfg.Uploads.LocalRoot)

	// Public site API. Clients may send an Idempotency-Key header on
	// booking and checkout POSTs to guard against double submits.
	public := router.Group("/api/v1")
	if redisErr == nil {
		public.Use(middleware.Idempotency(redisClient))
	}
	{
		authHandler.RegisterPublicRoutes(public)
		contentHandler.RegisterPublicRoutes(public)
		menuHandler.RegisterPublicRoutes(public)
		appointmentHandler.RegisterPublicRoutes(public)
		inquiryHandler.RegisterPublicRoutes(public)
		paymentHandler.RegisterPublicRoutes(public)
	}

	// Authenticated staff endpoints outside the admin prefix
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddlewareWithProvider(jwtProvider))
	{
		authHandler.RegisterProtectedRoutes(protected)
	}

	// Back-office API. All routes require a valid staff token; the role
	// granularity below mirrors who does what in the office.
	backoffice := router.Group("/api/v1/admin")
	backoffice.Use(middleware.AuthMiddlewareWithProvider(jwtProvider))
	{
		// Editors own the published content and the navigation.
		editorial := backoffice.Group("")
		editorial.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEditor))
		{
			contentHandler.RegisterAdminRoutes(editorial)
			menuHandler.RegisterAdminRoutes(editorial)
			storageHandler.RegisterRoutes(editorial)
		}

		// Counselors work the booking and inquiry queues.
		counseling := backoffice.Group("")
		counseling.Use(middleware.RequireRole(models.RoleAdmin, models.RoleCounselor))
		{
			appointmentHandler.RegisterAdminRoutes(counseling)
			inquiryHandler.RegisterAdminRoutes(counseling)
		}

		// Administrators keep staff accounts, payments and configuration.
		administration := backoffice.Group("")
		administration.Use(middleware.RequireAdmin())
		{
			adminHandler.RegisterRoutes(administration)
			paymentHandler.RegisterAdminRoutes(administration)
			settingsHandler.RegisterAdminRoutes(administration)
		}
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
