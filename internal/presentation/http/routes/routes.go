package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/config"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/handler"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sangkips/posdelivery-api/api/swagger"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Customer    *handler.CustomerHandler
	Transaction *handler.TransactionHandler
	Delivery    *handler.DeliveryHandler
	Refund      *handler.RefundHandler
	Invoice     *handler.InvoiceHandler
	Receipt     *handler.ReceiptHandler
	Settings    *handler.SettingsHandler
	Dashboard   *handler.DashboardHandler
	Maintenance *handler.MaintenanceHandler
	Realtime    *handler.RealtimeHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Sessions        middleware.SessionResolver
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          zerolog.Logger
}

// NewRateLimiter builds the per-user limiter from configuration. The caller
// owns it and must Stop it on shutdown.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.RateLimiter {
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		BurstSize:         cfg.Burst,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Websocket clients authenticate with a token query parameter
	router.GET("/ws", h.Realtime.Connect)

	// Stored invoice files, when they are not served by an external host
	if prefix := deps.Cfg.Storage.ServedPath(); prefix != "" {
		files := router.Group(prefix, middleware.AuthMiddleware(deps.Sessions))
		files.Static("/", deps.Cfg.Storage.Path)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Maintenance accepts a scheduler token instead of a user session
		v1.POST("/maintenance/cleanup",
			middleware.AdminOrToken(deps.Sessions, deps.Cfg.Cleanup.Token),
			h.Maintenance.Cleanup,
		)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Sessions))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(deps.IdempotencyRepo)

	protected.GET("/auth/me", h.Auth.Me)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Dashboard.GetStats)
		dashboard.GET("/sales", h.Dashboard.GetDailySales)
		dashboard.GET("/top-products", h.Dashboard.GetTopProducts)
		dashboard.GET("/top-customers", h.Dashboard.GetTopCustomers)
	}

	// Printer
	protected.GET("/printer/status", h.Receipt.PrinterStatus)

	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerTransactionRoutes(protected, h, idempotent)
	registerDeliveryRoutes(protected, h)
	registerRefundRoutes(protected, h)
	registerInvoiceRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.PATCH("/:id/active", h.Product.SetActive)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.POST("", idempotent, h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.DELETE("/:id", h.Transaction.Delete)
		transactions.POST("/:id/pay", h.Transaction.Pay)
		transactions.POST("/:id/cancel", h.Transaction.Cancel)
		transactions.POST("/:id/deliver", h.Transaction.Deliver)

		transactions.GET("/:id/receipt", h.Receipt.Transaction)
		transactions.POST("/:id/print", h.Receipt.PrintTransaction)

		transactions.GET("/:id/delivery", h.Delivery.Progress)
		transactions.GET("/:id/delivery-batches", h.Delivery.ListBatches)
		transactions.POST("/:id/delivery-batches", idempotent, h.Delivery.CreateBatch)

		transactions.GET("/:id/refunds", h.Refund.List)
		transactions.POST("/:id/refunds", idempotent, h.Refund.Create)
	}
}

func registerDeliveryRoutes(protected *gin.RouterGroup, h *Handlers) {
	batches := protected.Group("/delivery-batches")
	{
		batches.GET("/:id", h.Delivery.GetBatch)
		batches.GET("/:id/receipt", h.Receipt.DeliveryNote)
		batches.POST("/:id/print", h.Receipt.PrintDeliveryNote)
	}
}

func registerRefundRoutes(protected *gin.RouterGroup, h *Handlers) {
	refunds := protected.Group("/refunds")
	{
		refunds.GET("/:id", h.Refund.Get)
		refunds.GET("/:id/receipt", h.Receipt.Refund)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.POST("/:id/file", h.Invoice.AttachFile)
	}
}
