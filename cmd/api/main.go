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

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	stockUC := inventory.NewStockUseCase(store.ledger, store.products)
	pricingUC := inventory.NewPricingUseCase(store.ledger)

	// PDF: guía de traslado
	slipGenerator := infrapdf.NewMarotoSlipGenerator(cfg.App.Name)
	transferUC := inventory.NewTransferUseCase(
		store.runner, store.ledger, store.transfers, store.products, store.locations,
		slipGenerator, log.Component("transfers"),
	)

	// Traslados que quedaron a mitad de la saga antes del último apagado.
	if cfg.Transfer.ResumeOnStartup {
		resumed, err := transferUC.ResumeIncomplete(ctx)
		if err != nil {
			log.Error().Err(err).Msg("retomar traslados incompletos")
		}
		if resumed > 0 {
			log.Info().Int("resumed", resumed).Msg("traslados retomados")
		}
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
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", App: cfg.App.Name, Backend: cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:    stockUC,
		PricingUC:  pricingUC,
		TransferUC: transferUC,
		JWTSecret:  cfg.JWT.Secret,
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
