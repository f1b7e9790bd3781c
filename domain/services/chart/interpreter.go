package chart

import (
	"fmt"
	"strings"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
)

const retrogradeNote = " Since it's retrograde, these energies may be more internalized or require revisiting past issues."

// Interpret renders the text for every placement, house and aspect of a
// chart plus a summary paragraph. It is pure: equal input, equal output.
func Interpret(data entities.ChartData) *entities.Interpretation {
	out := &entities.Interpretation{
		Summary:    Summarize(data),
		Placements: make([]entities.PlacementReading, 0, len(data.Placements)),
		Sectors:    make([]entities.SectorReading, 0, len(data.Sectors)),
		Aspects:    make([]entities.AspectReading, 0, len(data.Aspects)),
	}

	for _, p := range data.Placements {
		out.Placements = append(out.Placements, entities.PlacementReading{
			Body:        p.Body,
			Sign:        p.Sign,
			House:       p.House,
			Description: DescribePlacement(p),
		})
	}
	for _, s := range data.Sectors {
		out.Sectors = append(out.Sectors, entities.SectorReading{
			House:       s.Number,
			Sign:        s.Sign,
			Description: DescribeSector(s),
		})
	}
	for _, a := range data.Aspects {
		out.Aspects = append(out.Aspects, entities.AspectReading{
			BodyA:       a.BodyA,
			BodyB:       a.BodyB,
			Kind:        a.Kind,
			Description: DescribeAspect(a),
		})
	}
	return out
}

// DescribePlacement renders one body's sentence
func DescribePlacement(p entities.Placement) string {
	text := fmt.Sprintf("%s Being in House %d, this energy manifests in the area of %s.",
		p.Body.Describe(p.Sign), p.House, astrology.HouseArea(p.House))
	if p.Retrograde {
		text += retrogradeNote
	}
	return text
}

// DescribeSector renders one house's sentence
func DescribeSector(s entities.Sector) string {
	return fmt.Sprintf("Your %s House is in %s, which influences how you approach %s. The qualities of %s color your experiences in this area of life.",
		astrology.Ordinal(s.Number), s.Sign, astrology.HouseArea(s.Number), s.Sign)
}

// DescribeAspect renders one aspect's sentence
func DescribeAspect(a entities.Aspect) string {
	return fmt.Sprintf("Your %s %s %s %s. This affects how your %s interacts with your %s.",
		a.BodyA, a.Kind, a.BodyB, a.Kind.Phrase(), a.BodyA.Domain(), a.BodyB.Domain())
}

// Summarize builds the overview paragraph from the dominant element, the
// two luminaries, the ascendant and the luminaries' hard aspects.
func Summarize(data entities.ChartData) string {
	var sb strings.Builder

	if len(data.ElementalBalance) > 0 {
		dominant := DominantElement(data.ElementalBalance)
		fmt.Fprintf(&sb, "Your natal chart shows a predominance of %s energy (%d%%), suggesting you are naturally %s. ",
			dominant.Element, dominant.Percentage, dominant.Element.Traits())
	}

	for _, p := range data.Placements {
		switch p.Body {
		case astrology.Sun:
			fmt.Fprintf(&sb, "With your Sun in %s, your core essence expresses through %s. ", p.Sign, p.Sign.Traits())
		case astrology.Moon:
			fmt.Fprintf(&sb, "Your Moon in %s indicates that emotionally you are %s. ", p.Sign, p.Sign.Traits())
		}
	}

	if asc := data.Ascendant.Sign; asc.Valid() {
		fmt.Fprintf(&sb, "Your %s Ascendant shapes how others perceive you: %s. ", asc, asc.Traits())
	}

	if n := countSignificantAspects(data.Aspects); n > 0 {
		fmt.Fprintf(&sb, "Your chart contains %d significant aspects involving your Sun or Moon, highlighting important dynamics in your personality and life path.", n)
	} else {
		sb.WriteString("Your chart shows a relatively balanced interaction between your core energies.")
	}
	return sb.String()
}

func countSignificantAspects(aspects []entities.Aspect) int {
	n := 0
	for _, a := range aspects {
		luminary := a.Involves(astrology.Sun) || a.Involves(astrology.Moon)
		if luminary && a.Kind.Significant() {
			n++
		}
	}
	return n
}
