package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/parts-assistant/internal/api/http"
	"github.com/spec-kit/parts-assistant/internal/api/http/handlers"
	"github.com/spec-kit/parts-assistant/internal/app"
	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}
	defer a.Close()

	if err := a.Warm(ctx); err != nil {
		logger.Warn("catalog warm-up failed; will retry on first request", zap.Error(err))
	}

	deps := map[string]handlers.Pinger{
		"catalog": handlers.PingFunc(func(ctx context.Context) error {
			_, err := a.Catalog.LoadAll(ctx)
			return err
		}),
	}
	if cfg.Postgres.DSN != "" {
		deps["postgres"] = a.Postgres
	}
	if a.Redis != nil {
		deps["redis"] = a.Redis
	}

	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(server, logger, a.Metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(server, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Chat:    handlers.NewChatHandler(a.Chat, logger),
		Tickets: handlers.NewTicketsHandler(a.Tickets),
		Parts:   handlers.NewPartsHandler(a.Catalog, logger),
		Metrics: a.Metrics,
	})

	go func() {
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
