package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/events"
	"github.com/spec-kit/helpdesk-log/internal/notify"
	"github.com/spec-kit/helpdesk-log/internal/observability"
	"github.com/spec-kit/helpdesk-log/internal/persistence"
	"github.com/spec-kit/helpdesk-log/internal/repository"
	"github.com/spec-kit/helpdesk-log/internal/service"
	"github.com/spec-kit/helpdesk-log/internal/view"
	"github.com/spec-kit/helpdesk-log/internal/worker"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired core shared by the HTTP service and the CLI.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Store   repository.TicketStore
	Tickets *service.TicketService
	Board   *view.Board
	Feed    *notify.Feed
	Pingers map[string]Pinger

	webhook *worker.WebhookWorker
	closers []func()
}

// New opens the configured store and wires the ticket core around it. The
// initial load runs before New returns; a failed load leaves the list empty
// and is reported through the notifier.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Pingers: map[string]Pinger{},
	}
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	a.Feed = notify.NewFeed(cfg.Notification.ToastDuration())
	a.webhook = worker.NewWebhookWorker(cfg.Notification, logger)
	notifications := service.NewNotificationService(dispatcher, a.Feed, logger, a.webhook)
	worker.StartNotificationWorker(ctx, notifications, a.webhook)

	a.Board = view.NewBoard()
	a.Tickets = service.NewTicketService(service.TicketDependencies{
		Store:      a.Store,
		Presenter:  a.Board,
		Dispatcher: dispatcher,
		Metrics:    a.Metrics,
		Logger:     logger,
	})

	if _, err := a.Tickets.Refresh(ctx); err != nil {
		logger.Warn("initial load failed; starting with an empty list", zap.Error(err))
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.Store = repository.NewMemoryTicketStore()

	case config.BackendSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, a.Logger)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if cfg.SQLite.RunMigrations {
			if err := persistence.RunSQLiteMigrations(ctx, db.DB, a.Logger); err != nil {
				return fmt.Errorf("sqlite migrations: %w", err)
			}
		}
		a.Store = repository.NewSQLiteTicketStore(db.DB)
		a.Pingers["sqlite"] = db

	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, a.Logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), a.Logger); err != nil {
				return fmt.Errorf("postgres migrations: %w", err)
			}
		}
		a.Store = repository.NewPostgresTicketStore(pg.PoolHandle())
		a.Pingers["postgres"] = pg

	case config.BackendRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, a.Logger)
		a.closers = append(a.closers, rdb.Close)
		a.Store = repository.NewRedisTicketStore(rdb.Client, cfg.Redis.Key)
		a.Pingers["redis"] = rdb

	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	a.Logger.Info("record store ready", zap.String("backend", cfg.Store.Backend))
	return nil
}

// Close stops background delivery and releases store connections.
func (a *App) Close() {
	a.webhook.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
