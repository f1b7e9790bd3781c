package commands

import (
	"context"
	"fmt"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/events"

	"go.uber.org/zap"
)

// Sync outcomes reported to metrics
const (
	SyncOutcomeSynced = "synced"
	SyncOutcomeFailed = "failed"
	SyncOutcomeGaveUp = "gave_up"
)

// SyncUnsyncedChartsCommand drains one batch of the local unsynced store
type SyncUnsyncedChartsCommand struct {
	BatchSize int
}

// Validate validates the command
func (c SyncUnsyncedChartsCommand) Validate() error {
	if c.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative")
	}
	return nil
}

// SyncResult counts what a sync pass did
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
	GaveUp int `json:"gaveUp"`
}

// SyncUnsyncedChartsHandler pushes stashed charts to the remote store
type SyncUnsyncedChartsHandler struct {
	charts    ports.ChartRepository
	unsynced  ports.UnsyncedChartStore
	publisher ports.EventPublisher
	metrics   ports.Metrics
	cfg       *config.DomainConfig
	now       ports.Clock
	logger    *zap.Logger
}

// NewSyncUnsyncedChartsHandler creates a new handler instance
func NewSyncUnsyncedChartsHandler(
	charts ports.ChartRepository,
	unsynced ports.UnsyncedChartStore,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	now ports.Clock,
	logger *zap.Logger,
) *SyncUnsyncedChartsHandler {
	return &SyncUnsyncedChartsHandler{
		charts:    charts,
		unsynced:  unsynced,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		now:       now,
		logger:    logger,
	}
}

// Handle syncs one batch. Charts that exhaust their attempts stay in the
// local store for inspection and are no longer picked up.
func (h *SyncUnsyncedChartsHandler) Handle(ctx context.Context, cmd SyncUnsyncedChartsCommand) (*SyncResult, error) {
	batch := cmd.BatchSize
	if batch == 0 {
		batch = 50
	}

	pending, err := h.unsynced.Pending(ctx, batch, h.cfg.MaxSyncAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending charts: %w", err)
	}

	result := &SyncResult{}
	for _, p := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		chart := p.Chart.MarkSynced()
		if err := h.charts.Save(ctx, chart); err != nil {
			attempts, recErr := h.unsynced.RecordAttempt(ctx, chart.ID(), err)
			if recErr != nil {
				h.logger.Error("Failed to record sync attempt", zap.String("chart_id", chart.ID().String()), zap.Error(recErr))
			}
			if attempts >= h.cfg.MaxSyncAttempts {
				h.logger.Warn("Chart permanently failed to sync",
					zap.String("chart_id", chart.ID().String()),
					zap.Int("attempts", attempts),
					zap.Error(err),
				)
				h.metrics.SyncOutcome(ctx, SyncOutcomeGaveUp)
				result.GaveUp++
			} else {
				h.logger.Debug("Chart sync failed, will retry",
					zap.String("chart_id", chart.ID().String()),
					zap.Int("attempts", attempts),
					zap.Error(err),
				)
				h.metrics.SyncOutcome(ctx, SyncOutcomeFailed)
				result.Failed++
			}
			continue
		}

		if err := h.unsynced.Remove(ctx, chart.ID()); err != nil {
			h.logger.Error("Failed to remove synced chart from local store", zap.String("chart_id", chart.ID().String()), zap.Error(err))
		}
		if err := h.publisher.Publish(ctx, events.NewChartSynced(chart.ID(), chart.OwnerID(), p.Attempts+1, h.now())); err != nil {
			h.logger.Error("Failed to publish chart synced event", zap.String("chart_id", chart.ID().String()), zap.Error(err))
		}
		h.metrics.SyncOutcome(ctx, SyncOutcomeSynced)
		result.Synced++
	}

	if len(pending) > 0 {
		h.logger.Info("Chart sync pass finished",
			zap.Int("synced", result.Synced),
			zap.Int("failed", result.Failed),
			zap.Int("gave_up", result.GaveUp),
		)
	}
	return result, nil
}
