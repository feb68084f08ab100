package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bizio/bizio-api/internal/application/auth"
	"github.com/bizio/bizio-api/internal/application/deal"
	appfinance "github.com/bizio/bizio-api/internal/application/finance"
	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/application/usecase"
	infracache "github.com/bizio/bizio-api/internal/infrastructure/cache"
	infraexcel "github.com/bizio/bizio-api/internal/infrastructure/excel"
	"github.com/bizio/bizio-api/internal/infrastructure/marketplace/kaspi"
	"github.com/bizio/bizio-api/internal/infrastructure/marketplace/wildberries"
	infrapdf "github.com/bizio/bizio-api/internal/infrastructure/pdf"
	"github.com/bizio/bizio-api/internal/infrastructure/postgres"
	"github.com/bizio/bizio-api/internal/interfaces/http"
	"github.com/bizio/bizio-api/internal/scheduler"
	"github.com/bizio/bizio-api/pkg/config"
	"github.com/bizio/bizio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	financeRepo := postgres.NewFinanceRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache: Redis si está habilitado; si no, no-op.
	var appCache ports.Cache = infracache.NewNoopCache()
	if cfg.Redis.Enabled {
		redisCache, err := infracache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		appCache = redisCache
	}

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	dealExporter := infraexcel.NewDealExporter()

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	clientUC := usecase.NewClientUseCase(clientRepo)
	productUC := usecase.NewProductUseCase(productRepo, inventoryRepo)
	dealUC := deal.NewDealUseCase(txRunner, dealRepo, clientRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, poRepo, txRunner)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, financeRepo)
	financeUC := appfinance.NewFinanceUseCase(financeRepo, tenantRepo, appCache, pdfGenerator)
	dashboardUC := usecase.NewDashboardUseCase(dashboardRepo, dealRepo)

	// Adapters de marketplaces: solo los que tienen token configurado.
	var adapters []ports.MarketplaceAdapter
	if cfg.Kaspi.Token != "" {
		adapters = append(adapters, kaspi.NewClient(cfg.Kaspi.BaseURL, cfg.Kaspi.Token))
	}
	if cfg.Wildberries.Token != "" {
		adapters = append(adapters, wildberries.NewClient(cfg.Wildberries.BaseURL, cfg.Wildberries.Token))
	}

	syncService := scheduler.NewOrderSyncService(
		cfg.OrderSync, adapters,
		tenantRepo, clientRepo, dealRepo, productRepo,
		appCache, log.Component("order-sync"),
	)
	if err := syncService.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("agendador de sincronización")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bizio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	http.Router(app, http.RouterDeps{
		AuthUC:      authUC,
		ClientUC:    clientUC,
		ProductUC:   productUC,
		DealUC:      dealUC,
		SupplierUC:  supplierUC,
		ExpenseUC:   expenseUC,
		FinanceUC:   financeUC,
		DashboardUC: dashboardUC,
		DealExport:  dealExporter,
		SyncService: syncService,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel() // detiene el agendador

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
