package ports

import (
	"context"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
)

// Repositories report a missing item with a NOT_FOUND AppError
// (pkg/errors.NewNotFoundError) and infrastructure failures with a
// PERSISTENCE AppError.

// ChartRepository is the remote document store for generated charts
type ChartRepository interface {
	// Save stores a chart. Charts are immutable, so a second Save with the same ID overwrites identical data.
	Save(ctx context.Context, chart *entities.ChartRecord) error

	// GetByID retrieves a chart by its ID
	GetByID(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error)

	// ListByOwner returns an owner's charts, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error)
}

// PendingChart is a chart waiting in the local store for a remote write
type PendingChart struct {
	Chart     *entities.ChartRecord
	Reason    string
	Attempts  int
	LastError string
	StashedAt time.Time
	UpdatedAt time.Time
}

// UnsyncedChartStore is the local tier holding charts whose remote write failed
type UnsyncedChartStore interface {
	// Put stashes an unsynced chart
	Put(ctx context.Context, chart *entities.ChartRecord, reason string) error

	// Get returns a stashed chart
	Get(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error)

	// ListByOwner returns an owner's stashed charts
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error)

	// Pending returns up to limit stashed charts with fewer than maxAttempts sync attempts, oldest first
	Pending(ctx context.Context, limit, maxAttempts int) ([]PendingChart, error)

	// RecordAttempt increments the attempt count after a failed sync
	RecordAttempt(ctx context.Context, id valueobjects.ChartID, cause error) (int, error)

	// Remove deletes a stashed chart once it reached the remote store
	Remove(ctx context.Context, id valueobjects.ChartID) error
}

// UserRepository stores profile documents
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*entities.User, error)
	Save(ctx context.Context, user *entities.User) error
	// Delete removes a profile; deleting a missing profile is not an error
	Delete(ctx context.Context, userID string) error
}

// FavoriteRepository stores saved items. Removal is a soft delete.
type FavoriteRepository interface {
	Save(ctx context.Context, favorite *entities.Favorite) error
	Get(ctx context.Context, userID, itemType, itemID string) (*entities.Favorite, error)

	// ListByType returns live favorites of one type, newest first
	ListByType(ctx context.Context, userID, itemType string) ([]*entities.Favorite, error)
}

// HoroscopeRepository reads horoscope content written by the content pipeline
type HoroscopeRepository interface {
	GetDaily(ctx context.Context, sign astrology.Sign, date string) (*entities.DailyHoroscope, error)
	GetMoonPhase(ctx context.Context, date string) (*entities.MoonPhase, error)

	// ListCosmicEvents returns the events of a month (YYYY-MM) sorted by start date
	ListCosmicEvents(ctx context.Context, month string) ([]entities.CosmicEvent, error)
	GetCompatibility(ctx context.Context, a, b astrology.Sign) (*entities.Compatibility, error)
}

// ArticleRepository reads learning articles
type ArticleRepository interface {
	// ListByCategory returns a category's articles, newest first
	ListByCategory(ctx context.Context, category entities.ArticleCategory) ([]entities.Article, error)

	// ListFeatured returns up to limit featured articles, newest first
	ListFeatured(ctx context.Context, limit int) ([]entities.Article, error)
	GetByID(ctx context.Context, id string) (*entities.Article, error)
}
