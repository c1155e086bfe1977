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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/config"
	"github.com/sangkips/tienda-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/database"
	"github.com/sangkips/tienda-api/internal/infrastructure/metrics"
	"github.com/sangkips/tienda-api/internal/infrastructure/repository"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/internal/presentation/http/handler"
	"github.com/sangkips/tienda-api/internal/presentation/http/routes"
	"github.com/sangkips/tienda-api/pkg/printer"
	"github.com/sangkips/tienda-api/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tienda-api",
		Short:         "Back office API for a small retail store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if err := database.AutoMigrate(db, log); err != nil {
				return err
			}
			return purgeIdempotencyKeys(context.Background(), repository.NewIdempotencyRepository(db), log)
		},
	})

	return root
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	format := "json"
	if cfg.App.Debug {
		format = "console"
	}
	log, err := logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Level:       cfg.App.LogLevel,
		Format:      format,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using process environment")
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

// purgeIdempotencyKeys drops keys past their TTL so the key can be reused.
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) error {
	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge idempotency keys: %w", err)
	}
	if n > 0 {
		log.Info("expired idempotency keys removed", zap.Int64("count", n))
	}
	return nil
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.AutoMigrate(db, log); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry, metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})

	// Initialize repositories
	tx := repository.NewTransactor(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	clientRepo := repository.NewClientRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	if err := purgeIdempotencyKeys(ctx, idempotencyRepo, log); err != nil {
		return err
	}

	// Initialize services
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authService, err := service.NewAuthService(cfg.Admin.Email, cfg.Admin.Password, jwtManager)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	if cfg.Admin.Password == "" {
		log.Warn("ADMIN_PASSWORD is empty, operator login is disabled")
	}

	invoiceService := service.NewInvoiceService(tx, invoiceRepo, productRepo, movementRepo, clientRepo, employeeRepo,
		service.InvoicePolicy{
			TaxRate:              cfg.Sales.TaxRate,
			VoidRequiresFullData: cfg.Sales.VoidRequiresFullData,
		}, m, log)
	productService := service.NewProductService(tx, productRepo, invoiceRepo, movementRepo,
		service.ProductPolicy{
			DatePolicy:        cfg.Sales.DatePolicy,
			RestockAmount:     cfg.Sales.RestockAmount,
			LowStockThreshold: cfg.Sales.LowStockThreshold,
		}, m, log)
	reportService := service.NewReportService(invoiceRepo, productRepo, cfg.Sales.LowStockThreshold)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, invoiceService, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
		RUC:       cfg.Store.RUC,
	}, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Client:   handler.NewClientHandler(service.NewClientService(tx, clientRepo, invoiceRepo)),
		Employee: handler.NewEmployeeHandler(service.NewEmployeeService(tx, employeeRepo, invoiceRepo)),
		Company:  handler.NewCompanyHandler(service.NewCompanyService(tx, companyRepo, supplierRepo)),
		Supplier: handler.NewSupplierHandler(service.NewSupplierService(tx, supplierRepo, companyRepo)),
		Report:   handler.NewReportHandler(reportService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(ctx, handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
		Metrics:         m,
		Gatherer:        registry,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
