// Package memory holds map-backed repositories used for local development
// (STORAGE_DRIVER=memory) and tests. Stored values are copied on the way
// in and out so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"
)

// ChartRepository stores charts as documents
type ChartRepository struct {
	mu     sync.RWMutex
	charts map[string]entities.ChartDocument
}

// NewChartRepository creates a new in-memory chart repository
func NewChartRepository() *ChartRepository {
	return &ChartRepository{charts: make(map[string]entities.ChartDocument)}
}

// Save stores a chart; stored charts are synced
func (r *ChartRepository) Save(ctx context.Context, chart *entities.ChartRecord) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewCancelledError("save chart", err)
	}
	doc := chart.ToDocument()
	doc.Synced = true

	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts[doc.ID] = doc
	return nil
}

// GetByID retrieves a chart by its ID
func (r *ChartRepository) GetByID(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	r.mu.RLock()
	doc, ok := r.charts[id.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.NewNotFoundError("chart")
	}
	return entities.ChartFromDocument(doc)
}

// ListByOwner returns an owner's charts, newest first
func (r *ChartRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	r.mu.RLock()
	docs := make([]entities.ChartDocument, 0)
	for _, doc := range r.charts {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	charts := make([]*entities.ChartRecord, 0, len(docs))
	for _, doc := range docs {
		chart, err := entities.ChartFromDocument(doc)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

// UserRepository stores profiles
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entities.User)}
}

// GetByID retrieves a profile
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	return u.Clone(), nil
}

// Save upserts a profile
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user.Clone()
	return nil
}

// Delete removes a profile
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

// FavoriteRepository stores favorites keyed by user and item
type FavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]map[string]entities.Favorite
}

// NewFavoriteRepository creates a new in-memory favorite repository
func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{favorites: make(map[string]map[string]entities.Favorite)}
}

// Save upserts a favorite
func (r *FavoriteRepository) Save(ctx context.Context, favorite *entities.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKey, ok := r.favorites[favorite.UserID]
	if !ok {
		byKey = make(map[string]entities.Favorite)
		r.favorites[favorite.UserID] = byKey
	}
	byKey[favorite.Key()] = *favorite
	return nil
}

// Get retrieves a favorite whether or not it was removed
func (r *FavoriteRepository) Get(ctx context.Context, userID, itemType, itemID string) (*entities.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.favorites[userID][entities.FavoriteKey(itemType, itemID)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("favorite")
	}
	return &f, nil
}

// ListByType returns live favorites of one type, newest first
func (r *FavoriteRepository) ListByType(ctx context.Context, userID, itemType string) ([]*entities.Favorite, error) {
	itemType = strings.TrimSpace(itemType)

	r.mu.RLock()
	out := []*entities.Favorite{}
	for _, f := range r.favorites[userID] {
		if f.Deleted || f.ItemType != itemType {
			continue
		}
		f := f
		out = append(out, &f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// HoroscopeRepository serves horoscope content put in by SaveX calls
type HoroscopeRepository struct {
	mu            sync.RWMutex
	daily         map[string]entities.DailyHoroscope
	moon          map[string]entities.MoonPhase
	events        map[string][]entities.CosmicEvent
	compatibility map[string]entities.Compatibility
}

// NewHoroscopeRepository creates a new in-memory horoscope repository
func NewHoroscopeRepository() *HoroscopeRepository {
	return &HoroscopeRepository{
		daily:         make(map[string]entities.DailyHoroscope),
		moon:          make(map[string]entities.MoonPhase),
		events:        make(map[string][]entities.CosmicEvent),
		compatibility: make(map[string]entities.Compatibility),
	}
}

func dailyKey(sign astrology.Sign, date string) string { return string(sign) + "#" + date }

// GetDaily retrieves a sign's horoscope for a day
func (r *HoroscopeRepository) GetDaily(ctx context.Context, sign astrology.Sign, date string) (*entities.DailyHoroscope, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.daily[dailyKey(sign, date)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("horoscope")
	}
	return &h, nil
}

// SaveDaily stores a daily horoscope
func (r *HoroscopeRepository) SaveDaily(ctx context.Context, h entities.DailyHoroscope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.daily[dailyKey(h.Sign, h.Date)] = h
	return nil
}

// GetMoonPhase retrieves the phase for a day
func (r *HoroscopeRepository) GetMoonPhase(ctx context.Context, date string) (*entities.MoonPhase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.moon[date]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("moon phase")
	}
	return &m, nil
}

// SaveMoonPhase stores a moon phase
func (r *HoroscopeRepository) SaveMoonPhase(ctx context.Context, m entities.MoonPhase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moon[m.Date] = m
	return nil
}

// ListCosmicEvents returns a month's events sorted by start date
func (r *HoroscopeRepository) ListCosmicEvents(ctx context.Context, month string) ([]entities.CosmicEvent, error) {
	r.mu.RLock()
	out := append([]entities.CosmicEvent{}, r.events[month]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// SaveCosmicEvent stores an event under the month it starts in
func (r *HoroscopeRepository) SaveCosmicEvent(ctx context.Context, e entities.CosmicEvent) error {
	month := e.StartDate.UTC().Format("2006-01")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[month] = append(r.events[month], e)
	return nil
}

// GetCompatibility retrieves the pairing of two signs in either order
func (r *HoroscopeRepository) GetCompatibility(ctx context.Context, a, b astrology.Sign) (*entities.Compatibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.compatibility[entities.CompatibilityKey(a, b)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("compatibility")
	}
	return &c, nil
}

// SaveCompatibility stores a pairing
func (r *HoroscopeRepository) SaveCompatibility(ctx context.Context, c entities.Compatibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compatibility[entities.CompatibilityKey(c.Sign1, c.Sign2)] = c
	return nil
}

// ArticleRepository serves articles put in by Save
type ArticleRepository struct {
	mu       sync.RWMutex
	articles map[string]entities.Article
}

// NewArticleRepository creates a new in-memory article repository
func NewArticleRepository() *ArticleRepository {
	return &ArticleRepository{articles: make(map[string]entities.Article)}
}

// Save stores an article
func (r *ArticleRepository) Save(ctx context.Context, a entities.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Tags = append([]string(nil), a.Tags...)
	r.articles[a.ID] = a
	return nil
}

// ListByCategory returns a category's articles, newest first
func (r *ArticleRepository) ListByCategory(ctx context.Context, category entities.ArticleCategory) ([]entities.Article, error) {
	return r.filter(0, func(a entities.Article) bool { return a.Category == category }), nil
}

// ListFeatured returns up to limit featured articles, newest first
func (r *ArticleRepository) ListFeatured(ctx context.Context, limit int) ([]entities.Article, error) {
	return r.filter(limit, func(a entities.Article) bool { return a.Featured }), nil
}

// GetByID retrieves one article
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entities.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("article")
	}
	return &a, nil
}

func (r *ArticleRepository) filter(limit int, keep func(entities.Article) bool) []entities.Article {
	r.mu.RLock()
	out := []entities.Article{}
	for _, a := range r.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedDate.After(out[j].PublishedDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
