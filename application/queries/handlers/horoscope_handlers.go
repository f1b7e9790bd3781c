package handlers

import (
	"context"
	"time"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	"astroguia-backend/application/services"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/services/horoscope"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// HoroscopeQueryHandler serves horoscope content, generating placeholder
// content when the store has none.
type HoroscopeQueryHandler struct {
	repo      ports.HoroscopeRepository
	generator *horoscope.Generator

	daily  *services.TieredProvider[entities.DailyHoroscope]
	moon   *services.TieredProvider[entities.MoonPhase]
	events *services.TieredProvider[[]entities.CosmicEvent]
	compat *services.TieredProvider[entities.Compatibility]
}

// NewHoroscopeQueryHandler creates a new horoscope query handler
func NewHoroscopeQueryHandler(
	repo ports.HoroscopeRepository,
	generator *horoscope.Generator,
	cache ports.Cache,
	cacheTTL time.Duration,
	metrics ports.Metrics,
	logger *zap.Logger,
) *HoroscopeQueryHandler {
	cfg := services.TieredConfig{
		Policy:   services.AlwaysFallback,
		Cache:    cache,
		CacheTTL: cacheTTL,
		Metrics:  metrics,
		Logger:   logger,
	}
	return &HoroscopeQueryHandler{
		repo:      repo,
		generator: generator,
		daily:     services.NewTieredProvider[entities.DailyHoroscope]("horoscope", cfg),
		moon:      services.NewTieredProvider[entities.MoonPhase]("moon_phase", cfg),
		events:    services.NewTieredProvider[[]entities.CosmicEvent]("cosmic_events", cfg),
		compat:    services.NewTieredProvider[entities.Compatibility]("compatibility", cfg),
	}
}

// HandleDaily returns a sign's horoscope for a day
func (h *HoroscopeQueryHandler) HandleDaily(ctx context.Context, query queries.GetDailyHoroscopeQuery) (*queries.Sourced[entities.DailyHoroscope], error) {
	day, err := time.Parse(time.DateOnly, query.Date)
	if err != nil {
		return nil, pkgerrors.NewValidationError("date must be YYYY-MM-DD")
	}

	res, err := h.daily.Get(ctx, string(query.Sign)+":"+query.Date,
		func(ctx context.Context) (entities.DailyHoroscope, error) {
			return deref(h.repo.GetDaily(ctx, query.Sign, query.Date))
		},
		func(context.Context) (entities.DailyHoroscope, error) {
			return h.generator.DailyHoroscope(query.Sign, day), nil
		},
	)
	return sourced(res, err)
}

// HandleMoonPhase returns the moon phase for a day
func (h *HoroscopeQueryHandler) HandleMoonPhase(ctx context.Context, query queries.GetMoonPhaseQuery) (*queries.Sourced[entities.MoonPhase], error) {
	day, err := time.Parse(time.DateOnly, query.Date)
	if err != nil {
		return nil, pkgerrors.NewValidationError("date must be YYYY-MM-DD")
	}

	res, err := h.moon.Get(ctx, query.Date,
		func(ctx context.Context) (entities.MoonPhase, error) {
			return deref(h.repo.GetMoonPhase(ctx, query.Date))
		},
		func(context.Context) (entities.MoonPhase, error) {
			return h.generator.MoonPhase(day), nil
		},
	)
	return sourced(res, err)
}

// HandleCosmicEvents returns a month's events sorted by start date
func (h *HoroscopeQueryHandler) HandleCosmicEvents(ctx context.Context, query queries.GetCosmicEventsQuery) (*queries.Sourced[[]entities.CosmicEvent], error) {
	month, err := time.Parse("2006-01", query.Month)
	if err != nil {
		return nil, pkgerrors.NewValidationError("month must be YYYY-MM")
	}

	res, err := h.events.Get(ctx, query.Month,
		func(ctx context.Context) ([]entities.CosmicEvent, error) {
			events, err := h.repo.ListCosmicEvents(ctx, query.Month)
			if err != nil {
				return nil, err
			}
			if len(events) == 0 {
				return nil, pkgerrors.NewNotFoundError("cosmic events")
			}
			return events, nil
		},
		func(context.Context) ([]entities.CosmicEvent, error) {
			return h.generator.CosmicEvents(month), nil
		},
	)
	return sourced(res, err)
}

// HandleCompatibility returns the compatibility of two signs
func (h *HoroscopeQueryHandler) HandleCompatibility(ctx context.Context, query queries.GetCompatibilityQuery) (*queries.Sourced[entities.Compatibility], error) {
	res, err := h.compat.Get(ctx, entities.CompatibilityKey(query.Sign1, query.Sign2),
		func(ctx context.Context) (entities.Compatibility, error) {
			return deref(h.repo.GetCompatibility(ctx, query.Sign1, query.Sign2))
		},
		func(context.Context) (entities.Compatibility, error) {
			return h.generator.Compatibility(query.Sign1, query.Sign2), nil
		},
	)
	return sourced(res, err)
}

func deref[T any](v *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, pkgerrors.NewNotFoundError("item")
	}
	return *v, nil
}

func sourced[T any](res services.Tiered[T], err error) (*queries.Sourced[T], error) {
	if err != nil {
		return nil, err
	}
	return &queries.Sourced[T]{Data: res.Value, Source: string(res.Source)}, nil
}
