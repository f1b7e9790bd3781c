package chart

import (
	"math"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
)

// ElementalBalance tallies placements per element and rounds each share
// independently, so the four percentages may not sum to exactly 100.
func ElementalBalance(placements []entities.Placement) []entities.ElementShare {
	counts := make(map[astrology.Element]int, 4)
	for _, p := range placements {
		counts[p.Sign.Element()]++
	}

	total := len(placements)
	elements := astrology.Elements()
	out := make([]entities.ElementShare, 0, len(elements))
	for _, e := range elements {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(counts[e]) / float64(total) * 100))
		}
		out = append(out, entities.ElementShare{Element: e, Percentage: pct})
	}
	return out
}

// DominantElement returns the highest share; ties go to the earlier
// element in fire, earth, air, water order.
func DominantElement(balance []entities.ElementShare) entities.ElementShare {
	var best entities.ElementShare
	for i, share := range balance {
		if i == 0 || share.Percentage > best.Percentage {
			best = share
		}
	}
	return best
}
