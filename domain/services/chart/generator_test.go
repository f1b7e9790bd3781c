package chart

import (
	"context"
	"strings"
	"testing"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBirth(t *testing.T, date string) valueobjects.BirthDetails {
	t.Helper()
	bd, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: date, Place: "Lisbon"})
	require.NoError(t, err)
	return bd
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerator_Generate_Invariants(t *testing.T) {
	birth := mustBirth(t, "1990-03-25")

	for seed := uint64(1); seed <= 200; seed++ {
		gen := NewGenerator(NewSeededProvider(seed, nil), nil, WithClock(fixedClock))
		chart, err := gen.Generate(context.Background(), "user-1", birth)
		require.NoError(t, err)

		data := chart.Data()
		require.NoError(t, data.Validate())

		// one placement per body, in body order
		require.Len(t, data.Placements, astrology.BodyCount())
		for i, body := range astrology.Bodies() {
			assert.Equal(t, body, data.Placements[i].Body)
		}
		assert.Equal(t, astrology.Aries, chart.SunSign())

		// sectors follow the cycle from the ascendant
		for i, s := range data.Sectors {
			assert.Equal(t, i+1, s.Number)
			assert.Equal(t, data.Ascendant.Sign.Next(i), s.Sign)
		}

		// aspects are unordered, unique, non-reflexive and visited in pair order
		seen := map[string]bool{}
		for _, a := range data.Aspects {
			assert.NotEqual(t, a.BodyA, a.BodyB)
			assert.Less(t, indexOf(a.BodyA), indexOf(a.BodyB))
			key := string(a.BodyA) + "|" + string(a.BodyB)
			assert.False(t, seen[key])
			seen[key] = true
			assert.GreaterOrEqual(t, a.Orb, 0.0)
			assert.Less(t, a.Orb, 5.0)
			assert.Contains(t, astrology.MajorAspectKinds(), a.Kind)
		}

		// luminaries are never retrograde
		sun, _ := chart.PlacementOf(astrology.Sun)
		moon, _ := chart.PlacementOf(astrology.Moon)
		assert.False(t, sun.Retrograde)
		assert.False(t, moon.Retrograde)

		require.NotNil(t, chart.Interpretation())
		assert.NotEmpty(t, chart.Interpretation().Summary)
		assert.True(t, chart.Synced())
	}
}

func TestGenerator_Generate_SeededIsReproducible(t *testing.T) {
	birth := mustBirth(t, "1985-02-01")
	ids := func() valueobjects.ChartID {
		id, _ := valueobjects.ChartIDFromString("6a1f5c2e-8a7b-4c1d-9f0e-2b3c4d5e6f70")
		return id
	}

	a, err := NewGenerator(NewSeededProvider(42, nil), nil, WithClock(fixedClock), WithIDSource(ids)).
		Generate(context.Background(), "user-1", birth)
	require.NoError(t, err)
	b, err := NewGenerator(NewSeededProvider(42, nil), nil, WithClock(fixedClock), WithIDSource(ids)).
		Generate(context.Background(), "user-1", birth)
	require.NoError(t, err)

	assert.Equal(t, a.ToDocument(), b.ToDocument())
	assert.Equal(t, astrology.Aquarius, a.SunSign())
}

func TestGenerator_Generate_SameInputSameSunSign(t *testing.T) {
	birth := mustBirth(t, "2001-08-30")
	gen := NewGenerator(NewSeededProvider(7, nil), nil)

	first, err := gen.Generate(context.Background(), "user-1", birth)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), "user-1", birth)
	require.NoError(t, err)

	assert.Equal(t, astrology.Virgo, first.SunSign())
	assert.Equal(t, first.SunSign(), second.SunSign())
	assert.False(t, first.ID().Equals(second.ID()), "every generation gets a new ID")
}

func TestGenerator_Generate_ZeroAspects(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.AspectProbability = 0

	chart, err := NewGenerator(NewSeededProvider(3, cfg), cfg).
		Generate(context.Background(), "user-1", mustBirth(t, "1999-12-31"))
	require.NoError(t, err)

	data := chart.Data()
	assert.Empty(t, data.Aspects)
	summary := chart.Interpretation().Summary
	assert.NotEmpty(t, summary)
	assert.True(t, strings.HasSuffix(summary, "Your chart shows a relatively balanced interaction between your core energies."))
}

func TestGenerator_Generate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chart, err := NewGenerator(NewSeededProvider(1, nil), nil).Generate(ctx, "user-1", mustBirth(t, "1990-01-01"))
	assert.Nil(t, chart)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCancelled(err))
}

func TestGenerator_Generate_RejectsInvalidInput(t *testing.T) {
	gen := NewGenerator(NewSeededProvider(1, nil), nil)

	_, err := gen.Generate(context.Background(), "", mustBirth(t, "1990-01-01"))
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = gen.Generate(context.Background(), "user-1", valueobjects.BirthDetails{})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRandomProvider_RetrogradeRate(t *testing.T) {
	p := NewSeededProvider(99, nil)
	retro, total := 0, 0
	for i := 0; i < 2000; i++ {
		placements, err := p.Placements(context.Background(), valueobjects.BirthDetails{}, astrology.Leo)
		require.NoError(t, err)
		for _, pl := range placements {
			if pl.Body.IsLuminary() {
				continue
			}
			total++
			if pl.Retrograde {
				retro++
			}
		}
	}
	assert.InDelta(t, 0.3, float64(retro)/float64(total), 0.02)
}

func TestElementalBalance(t *testing.T) {
	place := func(signs ...astrology.Sign) []entities.Placement {
		out := make([]entities.Placement, len(signs))
		for i, s := range signs {
			out[i] = entities.Placement{Sign: s}
		}
		return out
	}

	t.Run("rounds independently", func(t *testing.T) {
		// 5 fire, 4 earth, 2 air, 1 water over 12
		balance := ElementalBalance(place(
			astrology.Aries, astrology.Leo, astrology.Sagittarius, astrology.Aries, astrology.Leo,
			astrology.Taurus, astrology.Virgo, astrology.Capricorn, astrology.Taurus,
			astrology.Gemini, astrology.Libra,
			astrology.Cancer,
		))
		assert.Equal(t, []entities.ElementShare{
			{Element: astrology.Fire, Percentage: 42},
			{Element: astrology.Earth, Percentage: 33},
			{Element: astrology.Air, Percentage: 17},
			{Element: astrology.Water, Percentage: 8},
		}, balance)
	})

	t.Run("empty", func(t *testing.T) {
		for _, share := range ElementalBalance(nil) {
			assert.Equal(t, 0, share.Percentage)
		}
	})

	t.Run("consistent with counts", func(t *testing.T) {
		p := NewSeededProvider(11, nil)
		for i := 0; i < 100; i++ {
			placements, err := p.Placements(context.Background(), valueobjects.BirthDetails{}, astrology.Aries)
			require.NoError(t, err)
			counts := map[astrology.Element]int{}
			for _, pl := range placements {
				counts[pl.Sign.Element()]++
			}
			for _, share := range ElementalBalance(placements) {
				assert.GreaterOrEqual(t, share.Percentage, 0)
				assert.LessOrEqual(t, share.Percentage, 100)
				back := float64(share.Percentage) * float64(len(placements)) / 100
				assert.InDelta(t, float64(counts[share.Element]), back, 1)
			}
		}
	})
}

func TestDominantElement_TiesKeepFixedOrder(t *testing.T) {
	got := DominantElement([]entities.ElementShare{
		{Element: astrology.Fire, Percentage: 25},
		{Element: astrology.Earth, Percentage: 33},
		{Element: astrology.Air, Percentage: 33},
		{Element: astrology.Water, Percentage: 8},
	})
	assert.Equal(t, astrology.Earth, got.Element)
}

func indexOf(b astrology.Body) int {
	for i, body := range astrology.Bodies() {
		if body == b {
			return i
		}
	}
	return -1
}
