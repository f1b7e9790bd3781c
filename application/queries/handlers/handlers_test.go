package handlers

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/services/chart"
	"astroguia-backend/domain/services/horoscope"
	"astroguia-backend/domain/services/learn"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChartRepository is a mock implementation of ports.ChartRepository
type MockChartRepository struct {
	mock.Mock
}

func (m *MockChartRepository) Save(ctx context.Context, c *entities.ChartRecord) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockChartRepository) GetByID(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChartRecord), args.Error(1)
}

func (m *MockChartRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChartRecord), args.Error(1)
}

// MockUnsyncedStore is a mock implementation of ports.UnsyncedChartStore
type MockUnsyncedStore struct {
	mock.Mock
}

func (m *MockUnsyncedStore) Put(ctx context.Context, c *entities.ChartRecord, reason string) error {
	return m.Called(ctx, c, reason).Error(0)
}

func (m *MockUnsyncedStore) Get(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChartRecord), args.Error(1)
}

func (m *MockUnsyncedStore) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChartRecord), args.Error(1)
}

func (m *MockUnsyncedStore) Pending(ctx context.Context, limit, maxAttempts int) ([]ports.PendingChart, error) {
	args := m.Called(ctx, limit, maxAttempts)
	return args.Get(0).([]ports.PendingChart), args.Error(1)
}

func (m *MockUnsyncedStore) RecordAttempt(ctx context.Context, id valueobjects.ChartID, cause error) (int, error) {
	args := m.Called(ctx, id, cause)
	return args.Int(0), args.Error(1)
}

func (m *MockUnsyncedStore) Remove(ctx context.Context, id valueobjects.ChartID) error {
	return m.Called(ctx, id).Error(0)
}

// MockHoroscopeRepository is a mock implementation of ports.HoroscopeRepository
type MockHoroscopeRepository struct {
	mock.Mock
}

func (m *MockHoroscopeRepository) GetDaily(ctx context.Context, sign astrology.Sign, date string) (*entities.DailyHoroscope, error) {
	args := m.Called(ctx, sign, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DailyHoroscope), args.Error(1)
}

func (m *MockHoroscopeRepository) GetMoonPhase(ctx context.Context, date string) (*entities.MoonPhase, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MoonPhase), args.Error(1)
}

func (m *MockHoroscopeRepository) ListCosmicEvents(ctx context.Context, month string) ([]entities.CosmicEvent, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CosmicEvent), args.Error(1)
}

func (m *MockHoroscopeRepository) GetCompatibility(ctx context.Context, a, b astrology.Sign) (*entities.Compatibility, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Compatibility), args.Error(1)
}

// MockArticleRepository is a mock implementation of ports.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) ListByCategory(ctx context.Context, c entities.ArticleCategory) ([]entities.Article, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Article), args.Error(1)
}

func (m *MockArticleRepository) ListFeatured(ctx context.Context, limit int) ([]entities.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Article), args.Error(1)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*entities.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Article), args.Error(1)
}

var (
	fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	outage   = pkgerrors.NewPersistenceError("read", errors.New("timeout"))
)

func makeChart(t *testing.T, owner string, created time.Time) *entities.ChartRecord {
	t.Helper()
	birth, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: "1990-03-25", Place: "Quito"})
	require.NoError(t, err)
	gen := chart.NewGenerator(chart.NewSeededProvider(3, nil), nil, chart.WithClock(func() time.Time { return created }))
	c, err := gen.Generate(context.Background(), owner, birth)
	require.NoError(t, err)
	return c
}

func TestChartQueryHandler_GetChart(t *testing.T) {
	ctx := context.Background()
	stored := makeChart(t, "owner", fixedNow)
	local := makeChart(t, "owner", fixedNow).MarkUnsynced()

	remote := new(MockChartRepository)
	unsynced := new(MockUnsyncedStore)
	remote.On("GetByID", mock.Anything, stored.ID()).Return(stored, nil)
	remote.On("GetByID", mock.Anything, local.ID()).Return(nil, pkgerrors.NewNotFoundError("chart"))
	unsynced.On("Get", mock.Anything, local.ID()).Return(local, nil)
	remote.On("GetByID", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("chart"))
	unsynced.On("Get", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("chart"))

	h := NewChartQueryHandler(remote, unsynced, nil, zap.NewNop())

	res, err := h.HandleGetChart(ctx, queries.GetChartQuery{UserID: "owner", ChartID: stored.ID().String()})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "remote", res.Source)
	assert.True(t, res.Data.Synced())

	res, err = h.HandleGetChart(ctx, queries.GetChartQuery{UserID: "owner", ChartID: local.ID().String()})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "fallback", res.Source)
	assert.False(t, res.Data.Synced())

	res, err = h.HandleGetChart(ctx, queries.GetChartQuery{UserID: "intruder", ChartID: stored.ID().String()})
	require.NoError(t, err)
	assert.Nil(t, res, "non-owners see nothing")

	res, err = h.HandleGetChart(ctx, queries.GetChartQuery{UserID: "owner", ChartID: valueobjects.NewChartID().String()})
	require.NoError(t, err)
	assert.Nil(t, res, "missing chart is a nil result")

	res, err = h.HandleGetChart(ctx, queries.GetChartQuery{UserID: "owner", ChartID: "not-a-uuid"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestChartQueryHandler_ListUserCharts(t *testing.T) {
	ctx := context.Background()
	oldest := makeChart(t, "owner", fixedNow.Add(-2*time.Hour))
	middle := makeChart(t, "owner", fixedNow.Add(-time.Hour))
	newest := makeChart(t, "owner", fixedNow).MarkUnsynced()

	remote := new(MockChartRepository)
	unsynced := new(MockUnsyncedStore)
	remote.On("ListByOwner", mock.Anything, "owner").Return([]*entities.ChartRecord{oldest, middle}, nil)
	unsynced.On("ListByOwner", mock.Anything, "owner").Return([]*entities.ChartRecord{newest, middle}, nil)

	h := NewChartQueryHandler(remote, unsynced, nil, zap.NewNop())
	res, err := h.HandleListUserCharts(ctx, queries.ListUserChartsQuery{UserID: "owner", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Charts, 2)
	assert.Equal(t, newest.ID(), res.Charts[0].ID())
	assert.Equal(t, middle.ID(), res.Charts[1].ID())
	assert.True(t, res.Charts[1].Synced(), "remote copy wins on duplicates")
	assert.False(t, res.Partial)

	res, err = h.HandleListUserCharts(ctx, queries.ListUserChartsQuery{UserID: "owner", Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
}

func TestChartQueryHandler_ListUserCharts_RemoteDown(t *testing.T) {
	local := makeChart(t, "owner", fixedNow).MarkUnsynced()
	remote := new(MockChartRepository)
	unsynced := new(MockUnsyncedStore)
	remote.On("ListByOwner", mock.Anything, "owner").Return(nil, outage)
	unsynced.On("ListByOwner", mock.Anything, "owner").Return([]*entities.ChartRecord{local}, nil)

	h := NewChartQueryHandler(remote, unsynced, nil, zap.NewNop())
	res, err := h.HandleListUserCharts(context.Background(), queries.ListUserChartsQuery{UserID: "owner", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Len(t, res.Charts, 1)
}

func TestChartQueryHandler_ListUserCharts_PageOutOfRange(t *testing.T) {
	remote := new(MockChartRepository)
	unsynced := new(MockUnsyncedStore)
	remote.On("ListByOwner", mock.Anything, "owner").Return([]*entities.ChartRecord{makeChart(t, "owner", fixedNow)}, nil)
	unsynced.On("ListByOwner", mock.Anything, "owner").Return([]*entities.ChartRecord{}, nil)

	h := NewChartQueryHandler(remote, unsynced, nil, zap.NewNop())
	var res *queries.ListUserChartsResult
	var err error
	assert.NotPanics(t, func() {
		res, err = h.HandleListUserCharts(context.Background(), queries.ListUserChartsQuery{UserID: "owner", Page: math.MaxInt64, PageSize: 20})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Empty(t, res.Charts)
}

func TestChartQueryHandler_GetChart_RemoteDown(t *testing.T) {
	remote := new(MockChartRepository)
	unsynced := new(MockUnsyncedStore)
	remote.On("GetByID", mock.Anything, mock.Anything).Return(nil, outage)
	unsynced.On("Get", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("unsynced chart"))

	h := NewChartQueryHandler(remote, unsynced, nil, zap.NewNop())
	res, err := h.HandleGetChart(context.Background(), queries.GetChartQuery{UserID: "owner", ChartID: valueobjects.NewChartID().String()})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPersistence(err), "an outage is not reported as a missing chart")
	assert.Nil(t, res)
}

func TestHoroscopeQueryHandler(t *testing.T) {
	ctx := context.Background()
	repo := new(MockHoroscopeRepository)
	stored := &entities.DailyHoroscope{Sign: astrology.Leo, Date: "2024-06-10", Mood: "Bold"}
	repo.On("GetDaily", mock.Anything, astrology.Leo, "2024-06-10").Return(stored, nil)
	repo.On("GetDaily", mock.Anything, astrology.Aries, "2024-06-10").Return(nil, outage)
	repo.On("GetMoonPhase", mock.Anything, "2024-06-10").Return(nil, pkgerrors.NewNotFoundError("moon phase"))
	repo.On("ListCosmicEvents", mock.Anything, "2024-06").Return([]entities.CosmicEvent{}, nil)
	repo.On("GetCompatibility", mock.Anything, astrology.Leo, astrology.Aries).Return(nil, outage)

	h := NewHoroscopeQueryHandler(repo, horoscope.NewSeededGenerator(1), nil, 0, nil, zap.NewNop())

	daily, err := h.HandleDaily(ctx, queries.GetDailyHoroscopeQuery{Sign: astrology.Leo, Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "remote", daily.Source)
	assert.Equal(t, "Bold", daily.Data.Mood)

	daily, err = h.HandleDaily(ctx, queries.GetDailyHoroscopeQuery{Sign: astrology.Aries, Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", daily.Source)
	assert.Equal(t, astrology.Aries, daily.Data.Sign)

	moon, err := h.HandleMoonPhase(ctx, queries.GetMoonPhaseQuery{Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", moon.Source)
	assert.Equal(t, "2024-06-10", moon.Data.Date)

	evts, err := h.HandleCosmicEvents(ctx, queries.GetCosmicEventsQuery{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", evts.Source, "empty month falls back")
	assert.Len(t, evts.Data, 3)

	compat, err := h.HandleCompatibility(ctx, queries.GetCompatibilityQuery{Sign1: astrology.Leo, Sign2: astrology.Aries})
	require.NoError(t, err)
	assert.Equal(t, "fallback", compat.Source)
	assert.GreaterOrEqual(t, compat.Data.Overall, 1)
}

func TestArticleQueryHandler(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	repo.On("ListByCategory", mock.Anything, entities.CategoryBasics).Return(nil, outage)
	repo.On("ListFeatured", mock.Anything, 5).Return([]entities.Article{}, nil)
	repo.On("GetByID", mock.Anything, "remote-1").Return(&entities.Article{ID: "remote-1", Title: "Stored"}, nil)
	repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("article"))

	catalog := learn.NewCatalog(func() time.Time { return fixedNow })
	h := NewArticleQueryHandler(repo, catalog, config.DefaultDomainConfig(), nil, 0, nil, zap.NewNop())

	cats, err := h.HandleCategories(ctx, queries.ListArticleCategoriesQuery{})
	require.NoError(t, err)
	assert.Len(t, cats, 7)

	list, err := h.HandleByCategory(ctx, queries.ListArticlesQuery{Category: entities.CategoryBasics})
	require.NoError(t, err)
	assert.Equal(t, "fallback", list.Source)
	assert.Len(t, list.Data, 3)

	featured, err := h.HandleFeatured(ctx, queries.GetFeaturedArticlesQuery{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", featured.Source)
	assert.NotEmpty(t, featured.Data)

	one, err := h.HandleByID(ctx, queries.GetArticleQuery{ArticleID: "remote-1"})
	require.NoError(t, err)
	assert.Equal(t, "Stored", one.Data.Title)

	fallbackID := featured.Data[0].ID
	one, err = h.HandleByID(ctx, queries.GetArticleQuery{ArticleID: fallbackID})
	require.NoError(t, err)
	assert.Equal(t, "fallback", one.Source)

	_, err = h.HandleByID(ctx, queries.GetArticleQuery{ArticleID: "nope"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestQueryValidation(t *testing.T) {
	assert.Error(t, queries.GetDailyHoroscopeQuery{Sign: "pluto", Date: "2024-06-10"}.Validate())
	assert.Error(t, queries.GetDailyHoroscopeQuery{Sign: astrology.Leo, Date: "10/06/2024"}.Validate())
	assert.Error(t, queries.GetCosmicEventsQuery{Month: "2024"}.Validate())
	assert.Error(t, queries.ListArticlesQuery{Category: "gossip"}.Validate())
	assert.Error(t, queries.ListUserChartsQuery{UserID: "u", Page: 0, PageSize: 10}.Validate())
	assert.True(t, pkgerrors.IsValidation(queries.GetChartQuery{UserID: "u"}.Validate()))
	assert.NoError(t, queries.GetCompatibilityQuery{Sign1: astrology.Leo, Sign2: astrology.Leo}.Validate())
}
