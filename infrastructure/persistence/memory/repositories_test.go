package memory

import (
	"context"
	"testing"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/services/chart"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, owner string, at time.Time) *entities.ChartRecord {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	gen := chart.NewGenerator(chart.NewSeededProvider(11, cfg), cfg, chart.WithClock(func() time.Time { return at }))
	birth, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: "1988-11-02"})
	require.NoError(t, err)
	c, err := gen.Generate(context.Background(), owner, birth)
	require.NoError(t, err)
	return c
}

func TestChartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewChartRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	old := generate(t, "u1", base)
	recent := generate(t, "u1", base.Add(time.Hour))
	other := generate(t, "u2", base)
	for _, c := range []*entities.ChartRecord{old, recent.MarkUnsynced(), other} {
		require.NoError(t, repo.Save(ctx, c))
	}

	got, err := repo.GetByID(ctx, recent.ID())
	require.NoError(t, err)
	assert.True(t, got.Synced())

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent.ID(), list[0].ID())
	assert.Equal(t, old.ID(), list[1].ID())

	_, err = repo.GetByID(ctx, valueobjects.NewChartID())
	assert.True(t, pkgerrors.IsNotFound(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.True(t, pkgerrors.IsCancelled(repo.Save(cancelled, old)))
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := entities.NewUser("u1", "a@example.com", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	u.Email = "changed@example.com"
	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.GetByID(ctx, "u1")
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.NoError(t, repo.Delete(ctx, "u1"))
}

func TestFavoriteRepository_SoftDeleteHidesFromList(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := &entities.Favorite{UserID: "u1", ItemType: "article", ItemID: "a", CreatedAt: now}
	b := &entities.Favorite{UserID: "u1", ItemType: "article", ItemID: "b", CreatedAt: now.Add(time.Minute)}
	c := &entities.Favorite{UserID: "u1", ItemType: "horoscope", ItemID: "c", CreatedAt: now}
	for _, f := range []*entities.Favorite{a, b, c} {
		require.NoError(t, repo.Save(ctx, f))
	}

	list, err := repo.ListByType(ctx, "u1", "article")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ItemID)

	b.Remove(now)
	require.NoError(t, repo.Save(ctx, b))
	list, err = repo.ListByType(ctx, "u1", "article")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ItemID)

	got, err := repo.Get(ctx, "u1", "article", "b")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestHoroscopeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHoroscopeRepository()

	require.NoError(t, repo.SaveCompatibility(ctx, entities.Compatibility{Sign1: astrology.Leo, Sign2: astrology.Aries, Overall: 90}))
	c, err := repo.GetCompatibility(ctx, astrology.Aries, astrology.Leo)
	require.NoError(t, err)
	assert.Equal(t, 90, c.Overall)

	late := entities.CosmicEvent{ID: "late", StartDate: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)}
	early := entities.CosmicEvent{ID: "early", StartDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.SaveCosmicEvent(ctx, late))
	require.NoError(t, repo.SaveCosmicEvent(ctx, early))
	events, err := repo.ListCosmicEvents(ctx, "2024-04")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "early", events[0].ID)

	_, err = repo.GetDaily(ctx, astrology.Leo, "2024-04-01")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestArticleRepository_Featured(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, entities.Article{
			ID:            id,
			Category:      entities.CategoryBasics,
			Featured:      id != "b",
			PublishedDate: base.AddDate(0, 0, i),
		}))
	}

	featured, err := repo.ListFeatured(ctx, 1)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "c", featured[0].ID)

	basics, err := repo.ListByCategory(ctx, entities.CategoryBasics)
	require.NoError(t, err)
	assert.Len(t, basics, 3)
}
