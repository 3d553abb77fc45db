package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/application/usecase"
	"github.com/jhoicas/lotes-erp/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/lotes-erp/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/lotes-erp/internal/interfaces/http"
	"github.com/jhoicas/lotes-erp/pkg/config"
	"github.com/jhoicas/lotes-erp/pkg/logger"
	"github.com/jhoicas/lotes-erp/pkg/metrics"
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
		Str("tx_isolation", cfg.Inventory.TxIsolation).
		Msg("iniciando aplicación")

	tolerance, err := decimal.NewFromString(cfg.Inventory.DeficitTolerance)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Inventory.DeficitTolerance).Msg("INVENTORY_DEFICIT_TOLERANCE inválido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	var invMetrics *metrics.InventoryMetrics
	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		invMetrics = metrics.NewInventoryMetrics(registry)
	}

	// Auditoría: tabla audit_logs y, si hay REDIS_URL, también el stream.
	audit := inventory.MultiAuditSink{inventory.NewRepositoryAuditSink(postgres.NewAuditLogRepository(pool))}
	if cfg.Redis.URL != "" {
		stream, err := infraredis.NewAuditStream(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer stream.Close()
		audit = append(audit, stream)
		log.Info().Str("stream", cfg.Redis.AuditStream).Msg("auditoría replicada en Redis")
	}

	txRunner := postgres.NewTxRunner(pool, cfg.Inventory, log)
	engine := inventory.NewDeductionEngine(log, invMetrics, tolerance)

	productUC := usecase.NewProductUseCase(txRunner)
	deductUC := inventory.NewDeductStockUseCase(txRunner, engine, audit, log, invMetrics)
	mergeUC := inventory.NewMergeUseCase(txRunner, audit, log, invMetrics)
	disposalUC := inventory.NewDisposalUseCase(txRunner, engine, audit, log, invMetrics)
	productionUC := inventory.NewProductionUseCase(txRunner, engine, audit, log, invMetrics)
	procurementUC := inventory.NewProcurementUseCase(txRunner, audit, log, invMetrics)
	saleUC := inventory.NewSaleUseCase(txRunner, engine, audit, log, invMetrics)
	queryUC := inventory.NewQueryUseCase(txRunner)
	replenishmentUC := inventory.NewReplenishmentUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Lotes ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		Deduct:      deductUC,
		Merge:       mergeUC,
		Disposal:    disposalUC,
		Production:  productionUC,
		Procurement: procurementUC,
		Sale:        saleUC,
		Query:       queryUC,
		Replenish:   replenishmentUC,
		JWTSecret:   cfg.JWT.Secret,
		Logger:      log,
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
