package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/config"
	domainRepo "github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/metrics"
	"github.com/sangkips/tienda-api/internal/presentation/http/handler"
	"github.com/sangkips/tienda-api/internal/presentation/http/middleware"
	"github.com/sangkips/tienda-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Invoice  *handler.InvoiceHandler
	Client   *handler.ClientHandler
	Employee *handler.EmployeeHandler
	Company  *handler.CompanyHandler
	Supplier *handler.SupplierHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	// Gatherer serves /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
	// Ping reports database health for /health
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes. ctx bounds the
// background work of the middleware.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log, deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(pingCtx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	rateLimiter := middleware.NewClientRateLimiter(ctx, rateLimiterConfig(deps.Cfg.RateLimit))

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required), limited per client IP
		v1.POST("/auth/login", rateLimiter.Middleware(), h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireRole(service.OperatorRole))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	if cfg.Requests <= 0 || cfg.Duration <= 0 {
		return middleware.DefaultRateLimiterConfig()
	}
	return middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(cfg.Duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.Profile)

	registerProductRoutes(protected, h)
	registerInvoiceRoutes(protected, h, deps)
	registerPartyRoutes(protected, h)

	protected.GET("/reports/sales", h.Report.SalesSummary)

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.LowStock)
		products.POST("/restock", h.Product.Restock)
		products.GET("/:code", h.Product.Get)
		products.PUT("/:code", h.Product.Update)
		products.DELETE("/:code", h.Product.Delete)
		products.POST("/:code/decrement", h.Product.Decrement)
		products.GET("/:code/movements", h.Product.Movements)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Logger}

	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", middleware.IdempotencyRequired(idempotency), h.Invoice.Create)
		invoices.POST("/void", middleware.Idempotency(idempotency), h.Invoice.VoidBatch)
		invoices.POST("/return", middleware.Idempotency(idempotency), h.Invoice.ReturnBatch)
		invoices.GET("/:number", h.Invoice.Get)
		invoices.PUT("/:number", h.Invoice.Update)
		invoices.GET("/:number/movements", h.Invoice.Movements)
		invoices.POST("/:number/void", h.Invoice.Void)
		invoices.POST("/:number/return", h.Invoice.Return)
		invoices.POST("/:number/receipt", h.Printer.PrintInvoiceReceipt)
	}
}

func registerPartyRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}

	employees := protected.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
		employees.PUT("/:id", h.Employee.Update)
		employees.DELETE("/:id", h.Employee.Delete)
	}

	companies := protected.Group("/companies")
	{
		companies.GET("", h.Company.List)
		companies.POST("", h.Company.Create)
		companies.GET("/:ruc", h.Company.Get)
		companies.PUT("/:ruc", h.Company.Update)
		companies.DELETE("/:ruc", h.Company.Delete)
	}

	suppliers := protected.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}
