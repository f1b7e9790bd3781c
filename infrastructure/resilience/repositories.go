package resilience

import (
	"context"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
)

// ChartRepository decorates a remote chart store. Each attempt passes the
// breaker; the retrier repeats transient failures.
type ChartRepository struct {
	next    ports.ChartRepository
	retrier *Retrier
	breaker *Breaker
}

// NewChartRepository creates a new resilient chart repository
func NewChartRepository(next ports.ChartRepository, retrier *Retrier, breaker *Breaker) *ChartRepository {
	return &ChartRepository{next: next, retrier: retrier, breaker: breaker}
}

// Save stores a chart
func (r *ChartRepository) Save(ctx context.Context, chart *entities.ChartRecord) error {
	return r.retrier.Do(ctx, "save chart", func(ctx context.Context) error {
		return r.breaker.Execute(func() error {
			return r.next.Save(ctx, chart)
		})
	})
}

// GetByID retrieves a chart by its ID
func (r *ChartRepository) GetByID(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	var chart *entities.ChartRecord
	err := r.retrier.Do(ctx, "get chart", func(ctx context.Context) error {
		return r.breaker.Execute(func() error {
			var err error
			chart, err = r.next.GetByID(ctx, id)
			return err
		})
	})
	return chart, err
}

// ListByOwner returns an owner's charts, newest first
func (r *ChartRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	var charts []*entities.ChartRecord
	err := r.retrier.Do(ctx, "list charts", func(ctx context.Context) error {
		return r.breaker.Execute(func() error {
			var err error
			charts, err = r.next.ListByOwner(ctx, ownerID)
			return err
		})
	})
	return charts, err
}

// UserRepository decorates a remote profile store with retries
type UserRepository struct {
	next    ports.UserRepository
	retrier *Retrier
}

// NewUserRepository creates a new resilient user repository
func NewUserRepository(next ports.UserRepository, retrier *Retrier) *UserRepository {
	return &UserRepository{next: next, retrier: retrier}
}

// GetByID retrieves a profile
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	var user *entities.User
	err := r.retrier.Do(ctx, "get user", func(ctx context.Context) error {
		var err error
		user, err = r.next.GetByID(ctx, userID)
		return err
	})
	return user, err
}

// Save upserts a profile
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	return r.retrier.Do(ctx, "save user", func(ctx context.Context) error {
		return r.next.Save(ctx, user)
	})
}

// Delete removes a profile
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.retrier.Do(ctx, "delete user", func(ctx context.Context) error {
		return r.next.Delete(ctx, userID)
	})
}
