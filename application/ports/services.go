package ports

import (
	"context"
	"time"

	"astroguia-backend/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache stores JSON-serializable values. Get reports whether dest was filled.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Metrics records application measurements
type Metrics interface {
	RecordCommand(ctx context.Context, name string, duration time.Duration, err error)
	ChartGenerated(ctx context.Context, synced bool)
	PersistenceRetry(ctx context.Context)
	SyncOutcome(ctx context.Context, outcome string)
	TieredRead(ctx context.Context, resource, source string)
}

// Tracer wraps units of work in trace subsegments
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
	AddAnnotation(ctx context.Context, key, value string)
}

// Clock returns the current time
type Clock func() time.Time
