package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/infrastructure/cache"
	"github.com/jhoicas/Taller-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	// Redis es opcional: sin REDIS_ADDR el dashboard se calcula siempre desde la base.
	var (
		invalidator ports.CacheInvalidator = ports.NopInvalidator{}
		jsonCache   ports.JSONCache
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer client.Close()
			rc := cache.NewRedisCache(client, log.Component("cache").Zerolog())
			invalidator, jsonCache = rc, rc
		}
	}

	exporter := export.NewExcelExporter()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.ShopInfo{
		Name:    cfg.Shop.Name,
		ICE:     cfg.Shop.ICE,
		Address: cfg.Shop.Address,
		Phone:   cfg.Shop.Phone,
		Email:   cfg.Shop.Email,
	})

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http").Zerolog())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Taller API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     catalog.NewProductUseCase(txRunner, repos, invalidator),
		ServiceUC:     catalog.NewServiceUseCase(txRunner, repos),
		PriceLedger:   catalog.NewPriceLedgerUseCase(txRunner, repos, invalidator),
		StockLedger:   inventory.NewStockLedgerUseCase(txRunner, repos, invalidator, exporter),
		SupplierOrder: inventory.NewSupplierOrderUseCase(txRunner, repos, invalidator),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products),
		WorkOrderUC:   workorder.NewUseCase(txRunner, repos, invalidator),
		InvoiceUC:     billing.NewInvoiceUseCase(txRunner, repos, invalidator),
		InvoicePDF:    billing.NewPDFUseCase(repos, pdfGenerator),
		PaymentUC:     billing.NewPaymentUseCase(txRunner, repos, invalidator, cfg.Billing.PartialStatus),
		PartyUC:       billing.NewPartyUseCase(repos),
		ExpenseUC:     usecase.NewExpenseUseCase(repos.Expenses, invalidator, exporter),
		DashboardUC:   appanalytics.NewDashboardUseCase(repos, jsonCache, cfg.Redis.TTL),
		JWTSecret:     cfg.JWT.Secret,
		RateLimit:     cfg.HTTP.RateLimit,
		Health:        pool.Ping,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
