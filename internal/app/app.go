// Package app assembles the assistant's components from configuration. Both
// the HTTP server and the CLI start from here.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/decision"
	"github.com/spec-kit/parts-assistant/internal/events"
	"github.com/spec-kit/parts-assistant/internal/llm"
	"github.com/spec-kit/parts-assistant/internal/observability"
	"github.com/spec-kit/parts-assistant/internal/persistence"
	"github.com/spec-kit/parts-assistant/internal/repository"
	"github.com/spec-kit/parts-assistant/internal/service"
	"github.com/spec-kit/parts-assistant/internal/tools"
	"github.com/spec-kit/parts-assistant/internal/worker"
)

// App holds the wired components.
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Postgres      *persistence.Postgres
	Redis         *persistence.Redis
	Catalog       *catalog.Store
	CatalogSource catalog.Source
	LLM           *llm.Client
	Engine        *decision.Engine
	Tools         *tools.Registry
	Tickets       *service.TicketService
	Chat          *service.ChatService
}

// New connects external dependencies and builds every service. Close must be
// called when the App is no longer needed.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.Postgres = pg
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	if cfg.Cache.Backend == config.CacheBackendRedis {
		a.Redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	}

	a.CatalogSource = catalogSource(cfg, pg)
	a.Catalog = catalog.NewStore(a.CatalogSource, logger)

	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init completion client: %w", err)
	}
	a.LLM = client.WithRecorder(a.Metrics)

	var gen llm.Generator
	if a.LLM.Available() {
		gen = a.LLM
	}

	a.Engine = decision.NewEngine(decision.Dependencies{
		Generator: gen,
		Cache:     decisionCache(cfg, a.Redis, logger),
		Logger:    logger,
		Metrics:   a.Metrics,
	})

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification).WithRecorder(a.Metrics))

	a.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(cfg.Tickets.NumberPrefix, cfg.Tickets.StartNumber),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	a.Tools = tools.NewRegistry(tools.Dependencies{
		Catalog:   a.Catalog,
		Tickets:   a.Tickets,
		Knowledge: tools.NewExternalKnowledge(gen, logger),
		Logger:    logger,
	})
	a.Chat = service.NewChatService(service.ChatDependencies{
		Decider:     a.Engine,
		Tools:       a.Tools,
		Synthesizer: service.NewSynthesizer(gen, logger),
		Tickets:     a.Tickets,
		Metrics:     a.Metrics,
		Logger:      logger,
	})
	return a, nil
}

// Warm loads the catalog so the first request does not pay for it.
func (a *App) Warm(ctx context.Context) error {
	parts, err := a.Catalog.LoadAll(ctx)
	if err != nil {
		return err
	}
	a.Logger.Info("catalog loaded", zap.Int("parts", len(parts)))
	return nil
}

// Close releases connections.
func (a *App) Close() {
	a.Redis.Close()
	a.Postgres.Close()
}

func catalogSource(cfg *config.Config, pg *persistence.Postgres) catalog.Source {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		return catalog.NewFileSource(cfg.Catalog.Path)
	case config.CatalogSourcePostgres:
		return catalog.NewPostgresSource(pg.PoolHandle())
	default:
		return catalog.NewEmbeddedSource()
	}
}

func decisionCache(cfg *config.Config, r *persistence.Redis, logger *zap.Logger) decision.Cache {
	if cfg.Cache.Backend == config.CacheBackendRedis && r != nil {
		return decision.NewRedisCache(r.Client, cfg.Cache.KeyPrefix, cfg.Cache.TTL(), logger)
	}
	return decision.NewMemoryCache(cfg.Cache.TTL(), cfg.Cache.MaxEntries)
}
