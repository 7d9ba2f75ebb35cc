package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/infrastructure/grocy"
	"github.com/jhoicas/grocy-sync/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/grocy-sync/internal/interfaces/http"
	"github.com/jhoicas/grocy-sync/pkg/config"
	"github.com/jhoicas/grocy-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	store, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("apertura de caché local")
	}
	defer store.Close()

	grocyClient := grocy.NewClient(grocy.Config{
		BaseURL:     cfg.Grocy.BaseURL,
		APIKey:      cfg.Grocy.APIKey,
		Timeout:     time.Duration(cfg.Grocy.TimeoutSeconds) * time.Second,
		DueSoonDays: cfg.Stock.DueSoonDays,
	}, store, store, log.Zerolog())

	vm := stockoverview.NewViewModel(log.Zerolog(), store, store, grocyClient,
		stockoverview.Settings{
			Currency:       cfg.Stock.Currency,
			DueSoonDays:    cfg.Stock.DueSoonDays,
			FirstDayOfWeek: cfg.Stock.FirstDayOfWeek,
			Features:       cfg.Stock.Features,
		}, stockoverview.Listener{})
	defer vm.Close()

	// carga inicial: caché local primero, sincronización remota después
	vm.LoadFromDatabase(true)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		VM:        vm,
		JWTSecret: cfg.JWT.Secret,
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
