package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"astroguia-backend/application/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSyncer struct {
	calls atomic.Int32
	batch atomic.Int32
	err   error
}

func (s *countingSyncer) Handle(_ context.Context, cmd commands.SyncUnsyncedChartsCommand) (*commands.SyncResult, error) {
	s.calls.Add(1)
	s.batch.Store(int32(cmd.BatchSize))
	if s.err != nil {
		return nil, s.err
	}
	return &commands.SyncResult{Synced: 1}, nil
}

func TestSyncWorker_RunOnce(t *testing.T) {
	syncer := &countingSyncer{}
	w := NewSyncWorker(syncer, time.Minute, 25, zap.NewNop())

	result, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, int32(25), syncer.batch.Load())

	syncer.err = errors.New("store offline")
	_, err = w.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestSyncWorker_LoopRunsUntilStopped(t *testing.T) {
	syncer := &countingSyncer{}
	w := NewSyncWorker(syncer, 5*time.Millisecond, 10, zap.NewNop())

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return syncer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()

	calls := syncer.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, syncer.calls.Load())
}

func TestSyncWorker_StopsOnContextCancel(t *testing.T) {
	w := NewSyncWorker(&countingSyncer{}, time.Hour, 10, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	select {
	case <-w.stoppedChan:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
