package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/product-showcase-api/internal/app/service"
	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/catalog"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/request"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/input"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/placement"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/ui"
)

const instrumentationName = "product-showcase-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	telem, err := telemetry.NewTelemetry(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.Info("Starting Product Showcase API",
		slog.Int("slot_count", cfg.Showcase.SlotCount),
		slog.String("input_mode", cfg.Showcase.InputMode),
	)

	disabled := make([]domain.Control, len(cfg.Showcase.DisabledControls))
	for i, c := range cfg.Showcase.DisabledControls {
		disabled[i] = domain.Control(c)
	}

	scene := placement.NewScene(cfg.Showcase.Assets, cfg.Showcase.RotationSpeed, tracer, logger)

	collaborators := service.Collaborators{
		Catalog:   catalog.NewClient(&cfg.Catalog, tracer, logger),
		Slots:     memory.NewSlotRepository(tracer, logger),
		Panels:    ui.NewBoard(disabled...),
		Placer:    scene,
		Scheduler: domain.SystemScheduler{},
	}
	if cfg.Showcase.InputMode == config.InputModeKeyboard {
		collaborators.Keyboards = input.NewHub(logger)
	}

	showcaseService := service.NewShowcaseService(collaborators, &cfg.Showcase, tracer, meter, logger)
	if _, err := showcaseService.Load(ctx); err != nil {
		logger.Error("Failed to load showcase", slog.String("error", err.Error()))
		return
	}

	go scene.Animate(ctx, cfg.Showcase.Tick)

	slotHandler := handler.NewSlotHandler(showcaseService, request.NewValidator(), logger)
	server := http.NewServer(&cfg.Server, &cfg.OTLP, slotHandler, logger, telem.MeterProvider)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
