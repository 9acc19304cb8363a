package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	rateSource portssvc.RateSource,
	publisher portssvc.EventPublisher,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService()
	container.ExchangeRate = NewExchangeRateService(rateSource)

	container.Sessions = NewSessionManager(
		repos.LedgerRepo,
		WithSessionLogger(logger),
		WithRateRefreshInterval(cfg.RateRefreshInterval),
		WithResetCheckInterval(cfg.ResetCheckInterval),
		WithLedgerOptions(
			WithRateSource(rateSource),
			WithEventPublisher(publisher),
			WithLocation(cfg.Location),
			WithLedgerLogger(logger),
		),
	)

	return container
}
