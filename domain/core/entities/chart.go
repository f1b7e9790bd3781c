package entities

import (
	"fmt"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"
)

// Placement is one body's position in a chart
type Placement struct {
	Body       astrology.Body `json:"planet" dynamodbav:"body"`
	Sign       astrology.Sign `json:"sign" dynamodbav:"sign"`
	House      int            `json:"house" dynamodbav:"house"`
	Degree     int            `json:"degree" dynamodbav:"degree"`
	Retrograde bool           `json:"isRetrograde" dynamodbav:"retrograde"`
}

// Sector is one of the twelve houses
type Sector struct {
	Number int            `json:"number" dynamodbav:"number"`
	Sign   astrology.Sign `json:"sign" dynamodbav:"sign"`
	Degree int            `json:"degree" dynamodbav:"degree"`
}

// Aspect links an unordered pair of distinct bodies
type Aspect struct {
	BodyA astrology.Body       `json:"planet1" dynamodbav:"body_a"`
	BodyB astrology.Body       `json:"planet2" dynamodbav:"body_b"`
	Kind  astrology.AspectKind `json:"type" dynamodbav:"kind"`
	Orb   float64              `json:"orb" dynamodbav:"orb"`
}

// Involves reports whether b is one of the aspect's bodies
func (a Aspect) Involves(b astrology.Body) bool {
	return a.BodyA == b || a.BodyB == b
}

// Ascendant is the sign on the first house cusp
type Ascendant struct {
	Sign   astrology.Sign `json:"sign" dynamodbav:"sign"`
	Degree int            `json:"degree" dynamodbav:"degree"`
}

// ElementShare is one bucket of the elemental balance. Shares are rounded
// independently and need not sum to 100.
type ElementShare struct {
	Element    astrology.Element `json:"element" dynamodbav:"element"`
	Percentage int               `json:"percentage" dynamodbav:"percentage"`
}

// ChartData is the generated positional payload of a chart
type ChartData struct {
	Placements       []Placement    `json:"planets" dynamodbav:"placements"`
	Sectors          []Sector       `json:"houses" dynamodbav:"sectors"`
	Aspects          []Aspect       `json:"aspects" dynamodbav:"aspects"`
	Ascendant        Ascendant      `json:"ascendant" dynamodbav:"ascendant"`
	ElementalBalance []ElementShare `json:"dominantElements" dynamodbav:"elemental_balance"`
}

// PlacementReading is the rendered text for one placement
type PlacementReading struct {
	Body        astrology.Body `json:"planet" dynamodbav:"body"`
	Sign        astrology.Sign `json:"sign" dynamodbav:"sign"`
	House       int            `json:"house" dynamodbav:"house"`
	Description string         `json:"description" dynamodbav:"description"`
}

// SectorReading is the rendered text for one house
type SectorReading struct {
	House       int            `json:"house" dynamodbav:"house"`
	Sign        astrology.Sign `json:"sign" dynamodbav:"sign"`
	Description string         `json:"description" dynamodbav:"description"`
}

// AspectReading is the rendered text for one aspect
type AspectReading struct {
	BodyA       astrology.Body       `json:"planet1" dynamodbav:"body_a"`
	BodyB       astrology.Body       `json:"planet2" dynamodbav:"body_b"`
	Kind        astrology.AspectKind `json:"type" dynamodbav:"kind"`
	Description string               `json:"description" dynamodbav:"description"`
}

// Interpretation is the derived text stored alongside a chart
type Interpretation struct {
	Summary    string             `json:"summary" dynamodbav:"summary"`
	Placements []PlacementReading `json:"planets" dynamodbav:"placements"`
	Sectors    []SectorReading    `json:"houses" dynamodbav:"sectors"`
	Aspects    []AspectReading    `json:"aspects" dynamodbav:"aspects"`
}

// ChartRecord is an immutable natal chart owned by one user.
// A new generation always produces a new record with a new ID.
type ChartRecord struct {
	id             valueobjects.ChartID
	ownerID        string
	createdAt      time.Time
	birthDetails   valueobjects.BirthDetails
	data           ChartData
	interpretation *Interpretation
	synced         bool
	schemaVersion  int
}

// NewChartRecord assembles a chart and checks its structural invariants.
// New records start synced; see MarkUnsynced.
func NewChartRecord(
	id valueobjects.ChartID,
	ownerID string,
	createdAt time.Time,
	birth valueobjects.BirthDetails,
	data ChartData,
	interpretation *Interpretation,
	schemaVersion int,
) (*ChartRecord, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("chart ID cannot be empty")
	}
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("owner ID cannot be empty")
	}
	if birth.IsZero() {
		return nil, pkgerrors.NewValidationError("birth details are required")
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	return &ChartRecord{
		id:             id,
		ownerID:        ownerID,
		createdAt:      createdAt.UTC(),
		birthDetails:   birth,
		data:           data.clone(),
		interpretation: interpretation.clone(),
		synced:         true,
		schemaVersion:  schemaVersion,
	}, nil
}

func (c *ChartRecord) ID() valueobjects.ChartID                { return c.id }
func (c *ChartRecord) OwnerID() string                         { return c.ownerID }
func (c *ChartRecord) CreatedAt() time.Time                    { return c.createdAt }
func (c *ChartRecord) BirthDetails() valueobjects.BirthDetails { return c.birthDetails }
func (c *ChartRecord) Synced() bool                            { return c.synced }
func (c *ChartRecord) SchemaVersion() int                      { return c.schemaVersion }

// Data returns a copy of the positional payload
func (c *ChartRecord) Data() ChartData { return c.data.clone() }

// Interpretation returns a copy of the rendered text, or nil
func (c *ChartRecord) Interpretation() *Interpretation { return c.interpretation.clone() }

// IsOwnedBy reports whether userID owns the chart
func (c *ChartRecord) IsOwnedBy(userID string) bool { return c.ownerID == userID }

// PlacementOf returns the placement for body b
func (c *ChartRecord) PlacementOf(b astrology.Body) (Placement, bool) {
	for _, p := range c.data.Placements {
		if p.Body == b {
			return p, true
		}
	}
	return Placement{}, false
}

// SunSign, MoonSign and RisingSign are the three signs stored on a profile
func (c *ChartRecord) SunSign() astrology.Sign {
	p, _ := c.PlacementOf(astrology.Sun)
	return p.Sign
}

func (c *ChartRecord) MoonSign() astrology.Sign {
	p, _ := c.PlacementOf(astrology.Moon)
	return p.Sign
}

func (c *ChartRecord) RisingSign() astrology.Sign { return c.data.Ascendant.Sign }

// MarkUnsynced returns a copy flagged as not yet written to the remote store
func (c *ChartRecord) MarkUnsynced() *ChartRecord {
	cp := *c
	cp.data = c.data.clone()
	cp.interpretation = c.interpretation.clone()
	cp.synced = false
	return &cp
}

// MarkSynced returns a copy flagged as stored remotely
func (c *ChartRecord) MarkSynced() *ChartRecord {
	cp := *c
	cp.data = c.data.clone()
	cp.interpretation = c.interpretation.clone()
	cp.synced = true
	return &cp
}

// Validate checks the invariants every generated chart satisfies
func (d ChartData) Validate() error {
	bodies := astrology.Bodies()
	if len(d.Placements) != len(bodies) {
		return pkgerrors.NewValidationErrorf("chart must hold %d placements, got %d", len(bodies), len(d.Placements))
	}
	seen := make(map[astrology.Body]bool, len(bodies))
	for _, p := range d.Placements {
		if !p.Body.Valid() || seen[p.Body] {
			return pkgerrors.NewValidationErrorf("invalid or duplicate placement for %q", p.Body)
		}
		seen[p.Body] = true
		if !p.Sign.Valid() || !astrology.ValidHouse(p.House) || p.Degree < 0 || p.Degree > 29 {
			return pkgerrors.NewValidationErrorf("placement for %s is out of range", p.Body)
		}
	}

	if !d.Ascendant.Sign.Valid() {
		return pkgerrors.NewValidationError("ascendant sign is invalid")
	}
	if len(d.Sectors) != astrology.HouseCount {
		return pkgerrors.NewValidationErrorf("chart must hold %d houses, got %d", astrology.HouseCount, len(d.Sectors))
	}
	for i, s := range d.Sectors {
		if s.Number != i+1 {
			return pkgerrors.NewValidationErrorf("house %d out of order", s.Number)
		}
		if s.Sign != d.Ascendant.Sign.Next(i) {
			return pkgerrors.NewValidationErrorf("house %d sign %s breaks the cycle from %s", s.Number, s.Sign, d.Ascendant.Sign)
		}
	}

	pairs := make(map[string]bool, len(d.Aspects))
	for _, a := range d.Aspects {
		if a.BodyA == a.BodyB {
			return pkgerrors.NewValidationErrorf("aspect links %s to itself", a.BodyA)
		}
		key := pairKey(a.BodyA, a.BodyB)
		if pairs[key] {
			return pkgerrors.NewValidationErrorf("duplicate aspect %s", key)
		}
		pairs[key] = true
		if !a.Kind.Valid() || a.Orb < 0 || a.Orb >= astrology.MaxOrb {
			return pkgerrors.NewValidationErrorf("aspect %s is out of range", key)
		}
	}

	for _, e := range d.ElementalBalance {
		if e.Percentage < 0 || e.Percentage > 100 {
			return pkgerrors.NewValidationErrorf("element %s percentage %d out of range", e.Element, e.Percentage)
		}
	}
	return nil
}

func pairKey(a, b astrology.Body) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s-%s", a, b)
}

func (d ChartData) clone() ChartData {
	return ChartData{
		Placements:       append([]Placement(nil), d.Placements...),
		Sectors:          append([]Sector(nil), d.Sectors...),
		Aspects:          append([]Aspect{}, d.Aspects...),
		Ascendant:        d.Ascendant,
		ElementalBalance: append([]ElementShare(nil), d.ElementalBalance...),
	}
}

func (i *Interpretation) clone() *Interpretation {
	if i == nil {
		return nil
	}
	return &Interpretation{
		Summary:    i.Summary,
		Placements: append([]PlacementReading(nil), i.Placements...),
		Sectors:    append([]SectorReading(nil), i.Sectors...),
		Aspects:    append([]AspectReading{}, i.Aspects...),
	}
}
