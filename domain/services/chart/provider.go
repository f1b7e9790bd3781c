// Package chart generates pseudo natal charts. Positions come from a
// PositionProvider; the shipped provider draws them at random and does not
// model real sky positions. Only the sun sign is derived from the birth date.
package chart

import (
	"context"
	"math/rand/v2"
	"sync"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
)

// PositionProvider supplies the positional parts of a chart. A real
// ephemeris source can replace the random one behind this interface.
type PositionProvider interface {
	// Placements returns one placement per body in astrology.Bodies order.
	// sunSign has already been resolved from the birth date.
	Placements(ctx context.Context, birth valueobjects.BirthDetails, sunSign astrology.Sign) ([]entities.Placement, error)
	// Houses returns the ascendant and the twelve sectors starting from it.
	Houses(ctx context.Context, birth valueobjects.BirthDetails) (entities.Ascendant, []entities.Sector, error)
	// Aspects returns relationships between unordered pairs of bodies.
	Aspects(ctx context.Context, bodies []astrology.Body) ([]entities.Aspect, error)
}

// RandomProvider draws every position uniformly from an injected source.
// It is safe for concurrent use.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand

	retrogradeProbability float64
	aspectProbability     float64
	maxOrb                float64
	aspectKinds           []astrology.AspectKind
}

// NewRandomProvider creates a provider over src
func NewRandomProvider(src rand.Source, cfg *config.DomainConfig) *RandomProvider {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &RandomProvider{
		rng:                   rand.New(src),
		retrogradeProbability: cfg.RetrogradeProbability,
		aspectProbability:     cfg.AspectProbability,
		maxOrb:                cfg.MaxGeneratedOrb,
		aspectKinds:           astrology.MajorAspectKinds(),
	}
}

// NewSeededProvider returns a provider whose draws repeat for equal seeds
func NewSeededProvider(seed uint64, cfg *config.DomainConfig) *RandomProvider {
	return NewRandomProvider(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), cfg)
}

// NewUnseededProvider returns a provider seeded from the runtime's entropy
func NewUnseededProvider(cfg *config.DomainConfig) *RandomProvider {
	return NewRandomProvider(rand.NewPCG(rand.Uint64(), rand.Uint64()), cfg)
}

func (p *RandomProvider) Placements(_ context.Context, _ valueobjects.BirthDetails, sunSign astrology.Sign) ([]entities.Placement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bodies := astrology.Bodies()
	placements := make([]entities.Placement, 0, len(bodies))
	for _, body := range bodies {
		sign := sunSign
		if body != astrology.PrimaryLuminary {
			sign = astrology.SignAt(p.rng.IntN(astrology.SignCount))
		}
		placements = append(placements, entities.Placement{
			Body:       body,
			Sign:       sign,
			House:      p.rng.IntN(astrology.HouseCount) + 1,
			Degree:     p.rng.IntN(30),
			Retrograde: !body.IsLuminary() && p.rng.Float64() < p.retrogradeProbability,
		})
	}
	return placements, nil
}

func (p *RandomProvider) Houses(_ context.Context, _ valueobjects.BirthDetails) (entities.Ascendant, []entities.Sector, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ascSign := astrology.SignAt(p.rng.IntN(astrology.SignCount))
	sectors := make([]entities.Sector, astrology.HouseCount)
	for i := range sectors {
		sectors[i] = entities.Sector{
			Number: i + 1,
			Sign:   ascSign.Next(i),
			Degree: p.rng.IntN(30),
		}
	}
	return entities.Ascendant{Sign: ascSign, Degree: p.rng.IntN(30)}, sectors, nil
}

func (p *RandomProvider) Aspects(_ context.Context, bodies []astrology.Body) ([]entities.Aspect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	aspects := []entities.Aspect{}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if p.rng.Float64() >= p.aspectProbability {
				continue
			}
			aspects = append(aspects, entities.Aspect{
				BodyA: bodies[i],
				BodyB: bodies[j],
				Kind:  p.aspectKinds[p.rng.IntN(len(p.aspectKinds))],
				Orb:   p.rng.Float64() * p.maxOrb,
			})
		}
	}
	return aspects, nil
}
