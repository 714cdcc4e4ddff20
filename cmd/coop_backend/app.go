package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/events"
	"github.com/SscSPs/coop_backoffice/internal/events/kafka"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/SscSPs/coop_backoffice/internal/platform/lock"
	"github.com/SscSPs/coop_backoffice/internal/repositories/database/pgsql"
	"github.com/SscSPs/coop_backoffice/internal/repositories/memory"
	"github.com/SscSPs/coop_backoffice/pkg/database"
)

const (
	systemUser  = "system"
	eventBuffer = 1024
)

// app is the wired service graph plus whatever must be closed on exit.
type app struct {
	services *portssvc.ServiceContainer
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp builds repositories, the event publisher and the run locker from
// cfg and wires the services over them.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; nothing survives a restart")
		repos = memory.NewRepositoryProvider(memory.NewStore())
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			Ping:     cfg.EnableDBCheck,
			MaxConns: cfg.DBMaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(dbPool) })
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	var sink ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		logger.Info("Publishing ledger events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
		sink = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		sink = events.NewLogPublisher(logger)
	}
	publisher := events.NewAsyncPublisher(sink, eventBuffer, logger)
	a.closers = append(a.closers, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	})

	var locker ports.RunLocker
	if cfg.RedisAddr != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		locker = lock.NewRedisLocker(client)
	} else {
		locker = lock.NewLocalLocker()
	}

	a.services = services.NewServiceContainer(cfg, repos, publisher, locker)

	if cfg.StorageDriver == config.StorageMemory {
		created, err := a.services.Account.SeedChart(ctx, domain.DefaultChart, systemUser)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed chart of accounts: %w", err)
		}
		logger.Info("Seeded chart of accounts", slog.Int("created", created))
	}
	return a, nil
}
