package local

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/services/chart"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore(t *testing.T) (*UnsyncedChartStore, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewUnsyncedChartStore(filepath.Join(t.TempDir(), "charts", "unsynced.db"), clock.now, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func newChart(t *testing.T, owner string, at time.Time) *entities.ChartRecord {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	gen := chart.NewGenerator(chart.NewSeededProvider(5, cfg), cfg, chart.WithClock(func() time.Time { return at }))
	birth, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: "1975-12-24", Place: "Quito"})
	require.NoError(t, err)
	c, err := gen.Generate(context.Background(), owner, birth)
	require.NoError(t, err)
	return c.MarkUnsynced()
}

func TestUnsyncedChartStore_PutGetRemove(t *testing.T) {
	ctx := context.Background()
	store, clock := newStore(t)
	c := newChart(t, "u1", clock.now())

	require.NoError(t, store.Put(ctx, c, "throttled"))

	got, err := store.Get(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.ID())
	assert.False(t, got.Synced())
	assert.Equal(t, c.SunSign(), got.SunSign())

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Remove(ctx, c.ID()))
	require.NoError(t, store.Remove(ctx, c.ID()))
	_, err = store.Get(ctx, c.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUnsyncedChartStore_PendingOrderAndAttempts(t *testing.T) {
	ctx := context.Background()
	store, clock := newStore(t)

	first := newChart(t, "u1", clock.now())
	require.NoError(t, store.Put(ctx, first, "down"))
	clock.advance(time.Minute)
	second := newChart(t, "u2", clock.now())
	require.NoError(t, store.Put(ctx, second, "down"))

	pending, err := store.Pending(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID(), pending[0].Chart.ID())

	for i := 1; i <= 2; i++ {
		attempts, err := store.RecordAttempt(ctx, first.ID(), errors.New("still down"))
		require.NoError(t, err)
		assert.Equal(t, i, attempts)
	}

	pending, err = store.Pending(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID(), pending[0].Chart.ID())

	// restashing keeps the attempt history
	require.NoError(t, store.Put(ctx, first, "down again"))
	pending, err = store.Pending(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].Attempts)
	assert.Equal(t, "still down", pending[0].LastError)

	limited, err := store.Pending(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = store.RecordAttempt(ctx, valueobjects.NewChartID(), nil)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUnsyncedChartStore_ListByOwner(t *testing.T) {
	ctx := context.Background()
	store, clock := newStore(t)

	older := newChart(t, "u1", clock.now())
	newer := newChart(t, "u1", clock.now().Add(time.Hour))
	other := newChart(t, "u2", clock.now())
	for _, c := range []*entities.ChartRecord{older, newer, other} {
		require.NoError(t, store.Put(ctx, c, "down"))
	}

	charts, err := store.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, charts, 2)
	assert.Equal(t, newer.ID(), charts[0].ID())
}

func TestUnsyncedChartStore_CancelledPutStoresNothing(t *testing.T) {
	store, clock := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, newChart(t, "u1", clock.now()), "down")
	assert.True(t, pkgerrors.IsCancelled(err))

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnsyncedChartStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "unsynced.db")
	c := newChart(t, "u1", time.Now())

	store, err := NewUnsyncedChartStore(path, nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, c, "down"))
	require.NoError(t, store.Close())

	reopened, err := NewUnsyncedChartStore(path, nil, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.ID())
}
