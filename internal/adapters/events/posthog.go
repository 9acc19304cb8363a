package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/posthog/posthog-go"
)

const posthogEndpoint = "https://eu.i.posthog.com"

// PosthogPublisher forwards ledger events and API request events to PostHog.
type PosthogPublisher struct {
	client posthog.Client
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*PosthogPublisher)(nil)

// NewPosthogPublisher returns nil when apiKey is empty.
func NewPosthogPublisher(apiKey string, logger *slog.Logger) (*PosthogPublisher, error) {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return nil, nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: posthogEndpoint})
	if err != nil {
		return nil, err
	}
	logger.Info("Posthog client initialized")
	return &PosthogPublisher{client: client, logger: logger}, nil
}

func (p *PosthogPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	props := posthog.NewProperties()
	for k, v := range event.Properties {
		props.Set(k, v)
	}
	return p.client.Enqueue(posthog.Capture{
		DistinctId: event.UserID,
		Event:      string(event.Type),
		Timestamp:  event.OccurredAt,
		Properties: props,
	})
}

// Track enqueues an API request event; it satisfies middleware.RequestTracker.
func (p *PosthogPublisher) Track(distinctID, event string, properties map[string]any) {
	p.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	if err := p.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		p.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (p *PosthogPublisher) Close() error {
	return p.client.Close()
}
