// Package worker runs background jobs inside long-lived processes
package worker

import (
	"context"
	"sync"
	"time"

	"astroguia-backend/application/commands"

	"go.uber.org/zap"
)

// Syncer drains one batch of unsynced charts
type Syncer interface {
	Handle(ctx context.Context, cmd commands.SyncUnsyncedChartsCommand) (*commands.SyncResult, error)
}

// SyncWorker periodically pushes locally stashed charts to the remote store
type SyncWorker struct {
	syncer    Syncer
	logger    *zap.Logger
	interval  time.Duration
	batchSize int

	stopOnce    sync.Once
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(syncer Syncer, interval time.Duration, batchSize int, logger *zap.Logger) *SyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SyncWorker{
		syncer:      syncer,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start begins the background loop
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info("Starting chart sync worker",
		zap.Int("batchSize", w.batchSize),
		zap.Duration("interval", w.interval),
	)
	go w.processLoop(ctx)
}

// Stop signals the loop and waits for the current pass to finish
func (w *SyncWorker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping chart sync worker")
		close(w.stopChan)
	})
	<-w.stoppedChan
	w.logger.Info("Chart sync worker stopped")
}

// RunOnce performs a single sync pass
func (w *SyncWorker) RunOnce(ctx context.Context) (*commands.SyncResult, error) {
	result, err := w.syncer.Handle(ctx, commands.SyncUnsyncedChartsCommand{BatchSize: w.batchSize})
	if err != nil {
		return nil, err
	}
	if result.Synced+result.Failed+result.GaveUp > 0 {
		w.logger.Info("Chart sync pass completed",
			zap.Int("synced", result.Synced),
			zap.Int("failed", result.Failed),
			zap.Int("gaveUp", result.GaveUp),
		)
	}
	return result, nil
}

func (w *SyncWorker) processLoop(ctx context.Context) {
	defer close(w.stoppedChan)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Context cancelled, stopping chart sync worker")
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("Chart sync pass failed", zap.Error(err))
			}
		}
	}
}
