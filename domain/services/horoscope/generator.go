// Package horoscope produces placeholder horoscope content used when the
// document store has nothing for a request or cannot be reached.
package horoscope

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
)

const dateLayout = "2006-01-02"

var compatibleSigns = []astrology.Sign{
	astrology.Libra, astrology.Gemini, astrology.Aquarius,
	astrology.Leo, astrology.Sagittarius, astrology.Aries,
}

var phaseDescriptions = map[entities.LunarPhase]string{
	entities.PhaseNew:            "A time for new beginnings and setting intentions.",
	entities.PhaseWaxingCrescent: "Growing energy - good for taking action on intentions.",
	entities.PhaseFirstQuarter:   "A time of challenge and decision making.",
	entities.PhaseWaxingGibbous:  "Refinement and perfection of projects.",
	entities.PhaseFull:           "Maximum illumination - time for completion and celebration.",
	entities.PhaseWaningGibbous:  "Gratitude and sharing with others.",
	entities.PhaseLastQuarter:    "Release what no longer serves you.",
	entities.PhaseWaningCrescent: "Rest, reflection, and preparation for the new cycle.",
}

// Generator draws placeholder content from an injected random source
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator over src
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator returns a generator whose output repeats for equal seeds
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, ^seed))
}

// DailyHoroscope returns a placeholder reading for sign on day
func (g *Generator) DailyHoroscope(sign astrology.Sign, day time.Time) entities.DailyHoroscope {
	g.mu.Lock()
	defer g.mu.Unlock()

	return entities.DailyHoroscope{
		Sign: sign,
		Date: day.Format(dateLayout),
		Description: fmt.Sprintf("Today brings an opportunity for personal growth, %s. Trust your instincts and be open to "+
			"unexpected connections. Your natural talents will be recognized by someone important.", sign),
		Mood:          "Optimistic",
		Color:         "#4287f5",
		LuckyNumber:   g.rng.IntN(100),
		Compatibility: compatibleSigns[g.rng.IntN(len(compatibleSigns))],
		Rating: entities.Rating{
			Love:     g.rng.IntN(5) + 1,
			Career:   g.rng.IntN(5) + 1,
			Wellness: g.rng.IntN(5) + 1,
			Overall:  g.rng.IntN(5) + 1,
		},
	}
}

// MoonPhase returns a placeholder phase for day. Full is always 100%
// illuminated and new 0%; other phases draw from 1-99.
func (g *Generator) MoonPhase(day time.Time) entities.MoonPhase {
	g.mu.Lock()
	defer g.mu.Unlock()

	phase := entities.LunarPhases[g.rng.IntN(len(entities.LunarPhases))]
	illumination := g.rng.IntN(99) + 1
	switch phase {
	case entities.PhaseFull:
		illumination = 100
	case entities.PhaseNew:
		illumination = 0
	}

	return entities.MoonPhase{
		Date:         day.Format(dateLayout),
		Phase:        phase,
		Illumination: illumination,
		Description:  phaseDescriptions[phase],
	}
}

// CosmicEvents returns three sample events dated within month's calendar month
func (g *Generator) CosmicEvents(month time.Time) []entities.CosmicEvent {
	y, m, _ := month.Date()
	loc := month.Location()
	day := func(d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, loc) }

	return []entities.CosmicEvent{
		{
			ID:    "cosmic-1",
			Title: "Mercury Retrograde",
			Description: "Mercury retrograde can disrupt communication, travel, and technology. " +
				"Take extra care with important conversations and double-check details.",
			StartDate:     day(5),
			EndDate:       day(25),
			Type:          entities.EventRetrograde,
			AffectedSigns: []astrology.Sign{astrology.Gemini, astrology.Virgo, astrology.Libra},
			Impact:        "high",
		},
		{
			ID:    "cosmic-2",
			Title: "Full Moon in Sagittarius",
			Description: "This full moon illuminates your need for adventure and expansion. " +
				"A perfect time for spiritual growth and exploring new philosophies.",
			StartDate:     day(14),
			EndDate:       day(14),
			Type:          entities.EventFullMoon,
			AffectedSigns: []astrology.Sign{astrology.Sagittarius, astrology.Gemini, astrology.Pisces},
			Impact:        "medium",
		},
		{
			ID:    "cosmic-3",
			Title: "Venus enters Leo",
			Description: "When Venus moves into Leo, romance becomes more passionate and creative. " +
				"Express your feelings boldly and embrace the spotlight.",
			StartDate:     day(18),
			EndDate:       time.Date(y, m+1, 12, 0, 0, 0, 0, loc),
			Type:          entities.EventTransit,
			AffectedSigns: []astrology.Sign{astrology.Leo, astrology.Aries, astrology.Sagittarius},
			Impact:        "medium",
		},
	}
}

// Compatibility scores a pair from their elements with random spread
func (g *Generator) Compatibility(a, b astrology.Sign) entities.Compatibility {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := g.baseScore(a.Element(), b.Element())
	const variation = 15.0
	vary := func() float64 {
		v := float64(base) + (g.rng.Float64()*variation*2 - variation)
		return math.Min(100, math.Max(1, v))
	}
	love, friendship, communication, trust := vary(), vary(), vary(), vary()
	overall := int(math.Round((love + friendship + communication + trust) / 4))

	description, advice := compatibilityText(a, b, overall)
	return entities.Compatibility{
		Sign1:   a,
		Sign2:   b,
		Overall: overall,
		Details: entities.CompatibilityDetails{
			Love:          int(math.Round(love)),
			Friendship:    int(math.Round(friendship)),
			Communication: int(math.Round(communication)),
			Trust:         int(math.Round(trust)),
		},
		Description: description,
		Advice:      advice,
	}
}

// ElementRelation classifies how two elements combine
type ElementRelation int

const (
	RelationNeutral ElementRelation = iota
	RelationHarmonious
	RelationChallenging
)

// RelateElements returns harmonious for equal or complementary elements
// (fire/air, earth/water) and challenging for fire/water and earth/air.
func RelateElements(a, b astrology.Element) ElementRelation {
	if a == b {
		return RelationHarmonious
	}
	is := func(x, y astrology.Element) bool {
		return (a == x && b == y) || (a == y && b == x)
	}
	switch {
	case is(astrology.Fire, astrology.Air), is(astrology.Earth, astrology.Water):
		return RelationHarmonious
	case is(astrology.Fire, astrology.Water), is(astrology.Earth, astrology.Air):
		return RelationChallenging
	default:
		return RelationNeutral
	}
}

func (g *Generator) baseScore(a, b astrology.Element) int {
	switch RelateElements(a, b) {
	case RelationHarmonious:
		return g.rng.IntN(20) + 70
	case RelationChallenging:
		return g.rng.IntN(30) + 40
	default:
		return g.rng.IntN(40) + 50
	}
}

func compatibilityText(a, b astrology.Sign, overall int) (string, string) {
	pair := a.DisplayName() + " and " + b.DisplayName()
	switch {
	case overall >= 80:
		return pair + " have a natural harmony and understanding. This pairing benefits from strong mutual attraction and complementary qualities.",
			"Nurture this connection by appreciating your differences as much as your similarities."
	case overall >= 60:
		return pair + " have a good foundation for a relationship with some work required. You balance each other in important ways.",
			"Focus on communication to overcome occasional misunderstandings."
	case overall >= 40:
		return pair + " face some challenges in understanding each other's perspectives. This relationship requires patience.",
			"Try to appreciate your different approaches to life rather than seeing them as obstacles."
	default:
		return pair + " have significantly different ways of experiencing life. This pairing requires substantial effort and compromise.",
			"If committed to making this work, focus on respecting your fundamental differences."
	}
}
