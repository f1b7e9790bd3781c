package handlers

import (
	"context"
	"sort"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	"astroguia-backend/application/services"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// ChartQueryHandler serves chart reads from the remote store with the
// local unsynced store as fallback.
type ChartQueryHandler struct {
	charts   ports.ChartRepository
	unsynced ports.UnsyncedChartStore
	tiered   *services.TieredProvider[*entities.ChartRecord]
	logger   *zap.Logger
}

// NewChartQueryHandler creates a new chart query handler
func NewChartQueryHandler(
	charts ports.ChartRepository,
	unsynced ports.UnsyncedChartStore,
	metrics ports.Metrics,
	logger *zap.Logger,
) *ChartQueryHandler {
	return &ChartQueryHandler{
		charts:   charts,
		unsynced: unsynced,
		tiered: services.NewTieredProvider[*entities.ChartRecord]("chart", services.TieredConfig{
			Policy:  services.AlwaysFallback,
			Metrics: metrics,
			Logger:  logger,
		}),
		logger: logger,
	}
}

// HandleGetChart returns the chart, or nil when it does not exist or
// belongs to someone else.
func (h *ChartQueryHandler) HandleGetChart(ctx context.Context, query queries.GetChartQuery) (*queries.GetChartResult, error) {
	id, err := valueobjects.ChartIDFromString(query.ChartID)
	if err != nil {
		return nil, nil
	}

	res, err := h.tiered.Get(ctx, "",
		func(ctx context.Context) (*entities.ChartRecord, error) { return h.charts.GetByID(ctx, id) },
		func(ctx context.Context) (*entities.ChartRecord, error) { return h.unsynced.Get(ctx, id) },
	)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if !res.Value.IsOwnedBy(query.UserID) {
		h.logger.Debug("Chart requested by non-owner",
			zap.String("chart_id", query.ChartID),
			zap.String("user_id", query.UserID),
		)
		return nil, nil
	}
	return &queries.GetChartResult{Data: res.Value, Source: string(res.Source)}, nil
}

// HandleListUserCharts merges remote and locally held charts, newest first
func (h *ChartQueryHandler) HandleListUserCharts(ctx context.Context, query queries.ListUserChartsQuery) (*queries.ListUserChartsResult, error) {
	result := &queries.ListUserChartsResult{Page: query.Page, PageSize: query.PageSize}

	remote, err := h.charts.ListByOwner(ctx, query.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.NewCancelledError("list charts", ctx.Err())
		}
		h.logger.Warn("Remote chart listing failed, serving local charts only",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		result.Partial = true
	}

	local, err := h.unsynced.ListByOwner(ctx, query.UserID)
	if err != nil {
		if result.Partial {
			return nil, err
		}
		h.logger.Warn("Local chart listing failed", zap.String("user_id", query.UserID), zap.Error(err))
	}

	all := mergeCharts(remote, local)
	result.Total = len(all)

	result.Charts = common.Paginate(all, common.PaginationParams{Page: query.Page, PageSize: query.PageSize})
	return result, nil
}

// mergeCharts dedupes by ID, preferring the remote copy, and sorts newest first
func mergeCharts(remote, local []*entities.ChartRecord) []*entities.ChartRecord {
	seen := make(map[string]struct{}, len(remote)+len(local))
	out := make([]*entities.ChartRecord, 0, len(remote)+len(local))
	for _, list := range [][]*entities.ChartRecord{remote, local} {
		for _, c := range list {
			if c == nil {
				continue
			}
			if _, dup := seen[c.ID().String()]; dup {
				continue
			}
			seen[c.ID().String()] = struct{}{}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}
