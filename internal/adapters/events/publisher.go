package events

import (
	"context"
	"errors"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
)

// NopPublisher drops every event.
type NopPublisher struct{}

var _ portssvc.EventPublisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, domain.LedgerEvent) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// MultiPublisher fans events out to several publishers.
type MultiPublisher struct {
	publishers []portssvc.EventPublisher
}

var _ portssvc.EventPublisher = (*MultiPublisher)(nil)

// NewPublisher combines the non-nil publishers. It returns a NopPublisher
// when none are left and the publisher itself when only one is.
func NewPublisher(publishers ...portssvc.EventPublisher) portssvc.EventPublisher {
	active := make([]portssvc.EventPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return NopPublisher{}
	case 1:
		return active[0]
	}
	return &MultiPublisher{publishers: active}
}

// Publish delivers event to every publisher, even if some fail.
func (m *MultiPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
