package commands

import (
	"context"
	"strings"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/events"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// ChartGenerator runs the chart pipeline
type ChartGenerator interface {
	Generate(ctx context.Context, ownerID string, birth valueobjects.BirthDetails) (*entities.ChartRecord, error)
}

// GenerateChartCommand asks for a new natal chart for the caller
type GenerateChartCommand struct {
	OwnerID string
	Birth   valueobjects.BirthDetailsInput
}

// Validate validates the command
func (c GenerateChartCommand) Validate() error {
	if c.OwnerID == "" {
		return pkgerrors.NewValidationError("owner ID is required")
	}
	if strings.TrimSpace(c.Birth.Date) == "" {
		return pkgerrors.NewValidationError("birth date is required")
	}
	return nil
}

// GenerateChartHandler generates a chart and persists it, keeping it
// locally as unsynced when the remote store rejects the write.
type GenerateChartHandler struct {
	generator ChartGenerator
	charts    ports.ChartRepository
	unsynced  ports.UnsyncedChartStore
	publisher ports.EventPublisher
	metrics   ports.Metrics
	tracer    ports.Tracer
	now       ports.Clock
	logger    *zap.Logger
}

// NewGenerateChartHandler creates a new handler instance
func NewGenerateChartHandler(
	generator ChartGenerator,
	charts ports.ChartRepository,
	unsynced ports.UnsyncedChartStore,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	tracer ports.Tracer,
	now ports.Clock,
	logger *zap.Logger,
) *GenerateChartHandler {
	return &GenerateChartHandler{
		generator: generator,
		charts:    charts,
		unsynced:  unsynced,
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		now:       now,
		logger:    logger,
	}
}

// Handle generates and stores a chart. The returned chart is marked
// unsynced when it only reached the local store. Cancellation before
// the write completes returns an error and stores nothing.
func (h *GenerateChartHandler) Handle(ctx context.Context, cmd GenerateChartCommand) (*entities.ChartRecord, error) {
	birth, err := valueobjects.NewBirthDetails(cmd.Birth)
	if err != nil {
		return nil, err
	}

	var chart *entities.ChartRecord
	err = h.tracer.TraceFunction(ctx, "chart.generate", func(ctx context.Context) error {
		var genErr error
		chart, genErr = h.generator.Generate(ctx, cmd.OwnerID, birth)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	h.tracer.AddAnnotation(ctx, "chart_id", chart.ID().String())

	return h.persist(ctx, chart)
}

func (h *GenerateChartHandler) persist(ctx context.Context, chart *entities.ChartRecord) (*entities.ChartRecord, error) {
	saveErr := h.tracer.TraceFunction(ctx, "chart.persist", func(ctx context.Context) error {
		return h.charts.Save(ctx, chart)
	})

	if saveErr == nil {
		h.metrics.ChartGenerated(ctx, true)
		h.publish(ctx, events.NewChartGenerated(chart.ID(), chart.OwnerID(), string(chart.SunSign()), true, h.now()))
		return chart, nil
	}
	if ctx.Err() != nil {
		return nil, pkgerrors.NewCancelledError("generate chart", ctx.Err())
	}

	h.logger.Warn("Chart persistence failed, keeping chart locally",
		zap.String("chart_id", chart.ID().String()),
		zap.String("owner_id", chart.OwnerID()),
		zap.Error(saveErr),
	)

	unsynced := chart.MarkUnsynced()
	if err := h.unsynced.Put(ctx, unsynced, saveErr.Error()); err != nil {
		h.logger.Error("Failed to stash unsynced chart",
			zap.String("chart_id", chart.ID().String()),
			zap.Error(err),
		)
	}

	h.metrics.ChartGenerated(ctx, false)
	h.publish(ctx,
		events.NewChartGenerated(chart.ID(), chart.OwnerID(), string(chart.SunSign()), false, h.now()),
		events.NewChartSyncDeferred(chart.ID(), chart.OwnerID(), saveErr.Error(), h.now()),
	)
	return unsynced, nil
}

func (h *GenerateChartHandler) publish(ctx context.Context, evts ...events.DomainEvent) {
	if err := h.publisher.PublishBatch(ctx, evts); err != nil {
		h.logger.Error("Failed to publish domain events",
			zap.Int("event_count", len(evts)),
			zap.Error(err),
		)
	}
}
