package chart

import (
	"context"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"
)

// Generator runs the chart pipeline: sign resolution, placements, houses,
// aspects, elemental balance and interpretation. It performs no I/O beyond
// what its PositionProvider does.
type Generator struct {
	provider      PositionProvider
	schemaVersion int
	now           func() time.Time
	newID         valueobjects.IDSource
}

// Option customises a Generator
type Option func(*Generator)

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDSource overrides chart ID generation
func WithIDSource(ids valueobjects.IDSource) Option {
	return func(g *Generator) { g.newID = ids }
}

// NewGenerator creates a new chart generator
func NewGenerator(provider PositionProvider, cfg *config.DomainConfig, opts ...Option) *Generator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	g := &Generator{
		provider:      provider,
		schemaVersion: cfg.ChartSchemaVersion,
		now:           time.Now,
		newID:         valueobjects.NewChartID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a new chart for ownerID. If ctx ends mid-pipeline the
// partial result is dropped and a cancellation error returned.
func (g *Generator) Generate(ctx context.Context, ownerID string, birth valueobjects.BirthDetails) (*entities.ChartRecord, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("owner ID cannot be empty")
	}
	if birth.IsZero() {
		return nil, pkgerrors.NewValidationError("birth date is required")
	}

	month, day := birth.MonthDay()
	sunSign, err := astrology.SignForDate(month, day)
	if err != nil {
		return nil, err
	}

	if err := checkpoint(ctx, "placements"); err != nil {
		return nil, err
	}
	placements, err := g.provider.Placements(ctx, birth, sunSign)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generate placements")
	}

	if err := checkpoint(ctx, "houses"); err != nil {
		return nil, err
	}
	ascendant, sectors, err := g.provider.Houses(ctx, birth)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generate houses")
	}

	if err := checkpoint(ctx, "aspects"); err != nil {
		return nil, err
	}
	aspects, err := g.provider.Aspects(ctx, astrology.Bodies())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generate aspects")
	}

	data := entities.ChartData{
		Placements:       placements,
		Sectors:          sectors,
		Aspects:          aspects,
		Ascendant:        ascendant,
		ElementalBalance: ElementalBalance(placements),
	}

	if err := checkpoint(ctx, "interpretation"); err != nil {
		return nil, err
	}
	interpretation := Interpret(data)

	return entities.NewChartRecord(g.newID(), ownerID, g.now(), birth, data, interpretation, g.schemaVersion)
}

func checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewCancelledError("chart "+stage, err)
	}
	return nil
}
