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
	"github.com/swaggo/swag"

	"github.com/jhoicas/suestoque-api/docs"
	"github.com/jhoicas/suestoque-api/internal/application/auth"
	"github.com/jhoicas/suestoque-api/internal/application/catalog"
	"github.com/jhoicas/suestoque-api/internal/application/crm"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/ports"
	"github.com/jhoicas/suestoque-api/internal/application/pos"
	"github.com/jhoicas/suestoque-api/internal/application/purchasing"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/suestoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/suestoque-api/internal/interfaces/http"
	"github.com/jhoicas/suestoque-api/pkg/config"
	"github.com/jhoicas/suestoque-api/pkg/logger"
	"github.com/jhoicas/suestoque-api/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}

	var stockMetrics ports.StockMetrics = ports.NopMetrics{}
	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New(true)
		stockMetrics = promMetrics
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	reorderRepo := postgres.NewReorderRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Exportaciones: PDF (Maroto) y XLSX (excelize)
	sheets := xlsx.NewExporter()
	salesPDF := infrapdf.NewSalesReportPDF(cfg.App.Name, money.New(money.DefaultLocale))

	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo, stockMetrics)
	projectorUC := inventory.NewProjectorUseCase(txRunner, variantRepo, stockMetrics, log.Component("projector"))
	reorderUC := inventory.NewReorderUseCase(reorderRepo, inventory.ReorderConfig{
		WindowDays:      cfg.Reorder.WindowDays,
		DefaultLeadDays: cfg.Reorder.DefaultLeadDays,
	}, sheets)
	checkoutUC := pos.NewCheckoutUseCase(txRunner, variantRepo, customerRepo, stockMetrics)
	purchasingUC := purchasing.NewPurchaseOrderUseCase(txRunner, orderRepo, supplierRepo, stockMetrics, log.Component("purchasing"))
	customerUC := crm.NewCustomerUseCase(customerRepo, reportRepo)
	reportUC := reports.NewReportUseCase(reportRepo, variantRepo, salesPDF, sheets)
	productUC := catalog.NewProductUseCase(productRepo, variantRepo, categoryRepo, supplierRepo)
	supplierUC := catalog.NewSupplierUseCase(supplierRepo, categoryRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	if promMetrics != nil {
		app.Use(promMetrics.Middleware())
		app.Get(cfg.Metrics.Path, promMetrics.FiberHandler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		LedgerUC:     ledgerUC,
		ProjectorUC:  projectorUC,
		ReorderUC:    reorderUC,
		CheckoutUC:   checkoutUC,
		PurchasingUC: purchasingUC,
		CustomerUC:   customerUC,
		ReportUC:     reportUC,
		ProductUC:    productUC,
		SupplierUC:   supplierUC,
		JWTSecret:    cfg.JWT.Secret,
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
