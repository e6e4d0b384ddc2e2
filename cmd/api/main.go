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
	"github.com/vacutrack/vacutrack-api/internal/application/admin"
	"github.com/vacutrack/vacutrack-api/internal/application/cascade"
	"github.com/vacutrack/vacutrack-api/internal/application/stock"
	"github.com/vacutrack/vacutrack-api/internal/application/transfer"
	"github.com/vacutrack/vacutrack-api/internal/infrastructure/postgres"
	httpRouter "github.com/vacutrack/vacutrack-api/internal/interfaces/http"
	"github.com/vacutrack/vacutrack-api/pkg/config"
	"github.com/vacutrack/vacutrack-api/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewLotRepository(pool)
	aggRepo := postgres.NewAggregateRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	vaccineRepo := postgres.NewVaccineRepository(pool)
	adminRepo := postgres.NewAdminTreeRepository(pool)
	impactRepo := postgres.NewImpactRepository(pool)

	stockUC := stock.NewLotUseCase(postgres.NewStockTxRunner(pool), lotRepo, aggRepo, adminRepo)
	transferUC := transfer.NewTransferUseCase(postgres.NewTransferTxRunner(pool), transferRepo, vaccineRepo, adminRepo)
	impactUC := cascade.NewImpactUseCase(adminRepo, impactRepo, vaccineRepo, lotRepo)
	cascadeUC := cascade.NewCascadeUseCase(postgres.NewCascadeTxRunner(pool), adminRepo, vaccineRepo)
	searchUC := admin.NewSearchUseCase(adminRepo)

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
		Title:    "Vacutrack API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:    stockUC,
		TransferUC: transferUC,
		ImpactUC:   impactUC,
		CascadeUC:  cascadeUC,
		SearchUC:   searchUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Barrida periódica de expiración: marca EXPIRED los lotes vencidos y
	// recalcula agregados. También disponible bajo demanda vía /api/stock/sweep.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Sweep.Interval > 0 {
		go runSweeper(sweepCtx, stockUC, cfg.Sweep.Interval, log.Component("sweeper"))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func runSweeper(ctx context.Context, uc *stock.LotUseCase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.MarkExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Error().Err(err).Msg("barrida de expiración")
				continue
			}
			if n > 0 {
				log.Info().Int("expired", n).Msg("lotes marcados como vencidos")
			}
		}
	}
}
