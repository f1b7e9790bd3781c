// Package memory provides an event publisher for local runs and tests
package memory

import (
	"context"
	"sync"

	"astroguia-backend/domain/events"

	"go.uber.org/zap"
)

// Publisher records events in memory and logs them
type Publisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	logger *zap.Logger
}

// NewPublisher creates a new in-memory publisher
func NewPublisher(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{logger: logger}
}

// Publish records a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch records events in order
func (p *Publisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range evts {
		p.events = append(p.events, e)
		p.logger.Debug("Event published",
			zap.String("eventType", e.GetEventType()),
			zap.String("aggregateID", e.GetAggregateID()),
		)
	}
	return nil
}

// Events returns a copy of everything published so far
func (p *Publisher) Events() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.events...)
}
