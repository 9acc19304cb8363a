// Package bootstrap builds the infrastructure shared by the server and the
// operator CLI from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/budget_tracker_app/internal/adapters/events"
	"github.com/SscSPs/budget_tracker_app/internal/adapters/rates"
	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/platform/config"
	"github.com/SscSPs/budget_tracker_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/budget_tracker_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/budget_tracker_app/pkg/database"
)

// OpenRepositories connects the configured backend and applies its schema.
// The returned func releases the connections.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		repo, err := sqlite.NewLedgerRepository(cfg.SQLiteDBPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("SQLite ledger store ready", slog.String("path", cfg.SQLiteDBPath))
		closeFn := func() {
			if err := repo.Close(); err != nil {
				logger.Error("Error closing SQLite database", slog.String("error", err.Error()))
			}
		}
		return sqlite.NewRepositoryProvider(repo), closeFn, nil

	case config.BackendPostgres:
		applied, err := pgsql.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}

		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("open postgres pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}

// Migrate applies the schema of the configured backend without keeping a
// connection open. It reports whether anything was applied when the backend
// can tell.
func Migrate(cfg *config.Config) (bool, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		repo, err := sqlite.NewLedgerRepository(cfg.SQLiteDBPath)
		if err != nil {
			return false, err
		}
		return false, repo.Close()
	case config.BackendPostgres:
		return pgsql.RunMigrations(cfg.DatabaseURL)
	}
	return false, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}

// NewRateSource builds the exchange rate client, with a Redis cache in front
// of it when REDIS_ADDR is set. The returned func releases the cache client.
func NewRateSource(cfg *config.Config, logger *slog.Logger) (portssvc.RateSource, func()) {
	client := rates.NewExchangeRateAPIClient(cfg.RateAPIBaseURL, cfg.RateFetchTimeout)
	if cfg.RedisAddr == "" {
		return client, func() {}
	}

	cached := rates.NewCachedSource(client, rates.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword), cfg.RateCacheTTL, logger)
	logger.Info("Exchange rates cached in Redis", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.RateCacheTTL))
	return cached, func() {
		if err := cached.Close(); err != nil {
			logger.Error("Error closing Redis client", slog.String("error", err.Error()))
		}
	}
}

// NewEventPublisher builds the fan-out publisher for ledger events. The
// PostHog publisher is also returned as a request tracker; it is nil when no
// API key is configured.
func NewEventPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.EventPublisher, *events.PosthogPublisher, error) {
	var publishers []portssvc.EventPublisher

	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, fmt.Errorf("connect AMQP publisher: %w", err)
		}
		logger.Info("Publishing ledger events to AMQP", slog.String("exchange", cfg.AMQPExchange))
		publishers = append(publishers, amqpPublisher)
	}

	posthogPublisher, err := events.NewPosthogPublisher(cfg.PosthogAPIKey, logger)
	if err != nil {
		for _, p := range publishers {
			_ = p.Close()
		}
		return nil, nil, fmt.Errorf("create posthog publisher: %w", err)
	}
	if posthogPublisher != nil {
		publishers = append(publishers, posthogPublisher)
	}

	return events.NewPublisher(publishers...), posthogPublisher, nil
}
