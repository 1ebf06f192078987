// @title POS Delivery API
// @version 1.0
// @description Point of sale, invoicing and delivery tracking API.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/config"
	"github.com/sangkips/posdelivery-api/internal/domain/reconciliation"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/cache"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/database"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/repository"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/storage"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/handler"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/routes"
	"github.com/sangkips/posdelivery-api/pkg/logger"
	"github.com/sangkips/posdelivery-api/pkg/printer"
	"github.com/sangkips/posdelivery-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty || !cfg.App.IsProduction())

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	completionMode, err := reconciliation.ParseMode(cfg.Delivery.CompletionMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid DELIVERY_COMPLETION_MODE")
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Admin, log); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dashboard cache
	var statsCache cache.StatsCache = cache.NoopStatsCache{}
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisStatsCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, dashboard cache disabled")
			_ = redisCache.Close()
		} else {
			statsCache = redisCache
			defer redisCache.Close()
		}
		cancel()
	}

	// File storage
	bucket, err := storage.NewLocalBucket(cfg.Storage.Path, cfg.Storage.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}

	// Realtime hub
	hub := realtime.NewHub(log, cfg.CORS.AllowedOrigins)
	go hub.Run()
	defer hub.Stop()

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer, printing disabled")
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, log)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	transactionService := service.NewTransactionService(txManager, transactionRepo, productRepo, customerRepo, hub, statsCache, log)
	deliveryService := service.NewDeliveryService(txManager, transactionRepo, deliveryRepo, hub, statsCache, completionMode, log)
	refundService := service.NewRefundService(txManager, transactionRepo, refundRepo, hub, statsCache, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, bucket, cfg.Storage.UploadMaxSize, log)
	receiptService := service.NewReceiptService(receiptRepo, thermalPrinter, cfg.Printer.PaperWidth, log)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, statsCache, cfg.Redis.StatsTTL, log)
	cleanupService := service.NewCleanupService(bucket, idempotencyRepo, cfg.Cleanup.RetentionDays, log)

	go cleanupService.Start(ctx, cfg.Cleanup.Interval)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Product:     handler.NewProductHandler(productService),
		Customer:    handler.NewCustomerHandler(customerService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Delivery:    handler.NewDeliveryHandler(deliveryService),
		Refund:      handler.NewRefundHandler(refundService),
		Invoice:     handler.NewInvoiceHandler(invoiceService),
		Receipt:     handler.NewReceiptHandler(receiptService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Maintenance: handler.NewMaintenanceHandler(cleanupService),
		Realtime:    handler.NewRealtimeHandler(authService, hub),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Sessions:        authService,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Msgf("Starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("Shutdown completed")
}
